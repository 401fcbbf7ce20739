package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/carrier"
	"github.com/faanross/simulacra_png/internal/config"
	"github.com/faanross/simulacra_png/internal/embed"
	"github.com/faanross/simulacra_png/internal/encoder"
	"github.com/faanross/simulacra_png/internal/scrypto"
	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Command line arguments
	configPath := flag.String("config", "", "YAML config file (default ./"+config.DefaultPath+" if present)")
	carrierFile := flag.String("carrier", "", "Carrier PNG (random noise image if not provided)")
	outputFile := flag.String("output", "secure_stego.png", "Output PNG file")
	inputFile := flag.String("input", "", "Hide the contents of this file")
	messageText := flag.String("message", "", "Hide this text (@path reads a file)")
	password := flag.String("password", "", "Password (env var or prompt if not provided)")
	width := flag.Int("width", 0, "Width of a generated noise carrier")
	analyze := flag.Bool("analyze", false, "Show low-bit statistics of the result")
	debug := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return stegerr.ExitUsage
	}
	logger := cfg.Logger()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Validate input
	message, isFile, source, err := readMessage(*inputFile, *messageText)
	if err != nil {
		logger.Errorf("❌ %v", err)
		flag.Usage()
		return stegerr.ExitUsage
	}

	fmt.Println("\n🔐 Secure Steganography Encoder")
	fmt.Println("=" + strings.Repeat("=", 40))
	fmt.Printf("\n📄 Message: %s (%s)\n", source, humanize.Bytes(uint64(len(message))))

	required, err := encoder.RequiredBytes(message)
	if err != nil {
		return fail(logger, "sizing message", err)
	}

	// Load or generate carrier
	var img *carrier.Image
	if *carrierFile != "" {
		img, err = loadCarrier(*carrierFile)
		if err != nil {
			return fail(logger, "loading carrier", err)
		}
		fmt.Printf("📷 Carrier: %s (%dx%d, %d channels)\n", *carrierFile, img.Width, img.Height, img.Channels)
	} else {
		w := *width
		if w == 0 {
			w = cfg.NoiseWidth
		}
		w, h := encoder.CalculateImageDimensions(w, required, 3)
		img, err = carrier.NewNoise(w, h, rand.Reader)
		if err != nil {
			return fail(logger, "generating carrier", err)
		}
		fmt.Printf("📷 Carrier: generated noise (%dx%d)\n", w, h)
	}

	capacity := embed.Capacity(img.Capacity())
	fmt.Printf("   Capacity: %s, required: %s (%.1f%%)\n",
		humanize.Bytes(uint64(capacity)),
		humanize.Bytes(uint64(required)),
		100*float64(required)/float64(max(capacity, 1)))

	// Get password
	var pass []byte
	if *password != "" {
		pass = []byte(*password)
	} else {
		pass, err = scrypto.GetPassword(cfg.PasswordEnv, "\n🔑 Enter password: ", true)
		if err != nil {
			logger.Errorf("❌ Password error: %v", err)
			return stegerr.ExitUsage
		}
	}
	defer scrypto.ZeroBytes(pass)

	// Embed
	err = encoder.NewSecureStegoEncoder(message, pass, isFile).
		WithLogger(logger).
		Embed(img.Pix)
	if err != nil {
		return fail(logger, "encoding", err)
	}

	// Security analysis
	if *analyze {
		printAnalysis(embed.Analyze(img.Pix[:required*wire.CHANNELS_PER_BYTE]))
	}

	// Save image
	outPath := *outputFile
	if cfg.OutputDir != "" && !filepath.IsAbs(outPath) {
		outPath = filepath.Join(cfg.OutputDir, outPath)
	}
	if err := saveCarrier(outPath, img); err != nil {
		return fail(logger, "saving output", err)
	}

	fmt.Printf("\n✅ Secure steganography complete!\n")
	fmt.Printf("   Output: %s\n", outPath)
	fmt.Printf("   Security: AES-256-CBC + iterated SHA-256 key derivation\n")
	fmt.Printf("\n🔓 To decode: Use the secure decoder with the same password\n")
	return stegerr.ExitOK
}

// readMessage resolves the payload from -input or -message. Anything read
// from a file is flagged as a file payload.
func readMessage(inputFile, messageText string) ([]byte, bool, string, error) {
	if inputFile != "" && messageText != "" {
		return nil, false, "", fmt.Errorf("use either -input or -message, not both")
	}
	if strings.HasPrefix(messageText, "@") {
		inputFile = messageText[1:]
		messageText = ""
	}

	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, false, "", fmt.Errorf("reading %s: %w", inputFile, err)
		}
		return data, true, inputFile, nil
	}
	if messageText == "" {
		return nil, false, "", fmt.Errorf("please provide a message with -message or -input")
	}
	return []byte(messageText), false, "inline text", nil
}

func loadCarrier(path string) (*carrier.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return carrier.Load(file)
}

func saveCarrier(path string, img *carrier.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := carrier.Save(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func printAnalysis(a embed.Analysis) {
	fmt.Printf("\n🔬 Low-bit analysis of embedded region:\n")
	fmt.Printf("   Channel bytes: %s\n", humanize.Comma(int64(a.ChannelBytes)))
	for sym, count := range a.Symbols {
		fmt.Printf("   %02b: %d\n", sym, count)
	}
	fmt.Printf("   Entropy: %.4f bits (%.1f%% of maximum)\n", a.Entropy, 100*a.Randomness())
}

func fail(logger *logrus.Logger, action string, err error) int {
	entry := logger.WithField("kind", stegerr.KindOf(err))
	if advice := stegerr.Advice(err); advice != "" {
		entry = entry.WithField("hint", advice)
	}
	entry.Errorf("❌ %s failed: %v", action, err)
	return stegerr.ExitCode(err)
}
