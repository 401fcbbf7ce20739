package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/carrier"
	"github.com/faanross/simulacra_png/internal/config"
	"github.com/faanross/simulacra_png/internal/decoder"
	"github.com/faanross/simulacra_png/internal/embed"
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
	inputFile := flag.String("input", "", "Path to stego image")
	outputFile := flag.String("output", "", "Save extracted message to file")
	password := flag.String("password", "", "Password (env var or prompt if not provided)")
	probe := flag.Bool("probe", false, "Show container header only, no password needed")
	analyze := flag.Bool("analyze", false, "Perform low-bit analysis only")
	tryList := flag.String("trylist", "", "Comma-separated passwords to try")
	verbose := flag.Bool("verbose", false, "Show full extracted message")
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
	if *inputFile == "" {
		logger.Error("❌ Please provide input image with -input flag")
		flag.Usage()
		return stegerr.ExitUsage
	}

	fmt.Println("\n🔓 Secure Steganography Decoder")
	fmt.Println("=" + strings.Repeat("=", 40))

	img, err := loadCarrier(*inputFile)
	if err != nil {
		return fail(logger, "loading image", err)
	}

	fmt.Printf("\n📷 Image loaded:\n")
	fmt.Printf("   File: %s\n", *inputFile)
	fmt.Printf("   Dimensions: %dx%d, %d channels\n", img.Width, img.Height, img.Channels)
	fmt.Printf("   Capacity: %s\n", humanize.Bytes(uint64(embed.Capacity(img.Capacity()))))

	// Analysis mode
	if *analyze {
		printAnalysis(embed.Analyze(img.Pix))
		return stegerr.ExitOK
	}

	// Header-only mode
	if *probe {
		c, err := decoder.Probe(img.Pix)
		if err != nil {
			return fail(logger, "probing", err)
		}
		fmt.Printf("\n📦 Container found:\n")
		fmt.Printf("   Flags: %#08x (file: %v)\n", c.Flags, c.IsFile())
		fmt.Printf("   Key derivation cycles: %d\n", c.Cycles)
		fmt.Printf("   Encrypted size: %s\n", humanize.Bytes(c.Length))
		fmt.Printf("   Carrier use: %s of %s channel bytes\n",
			humanize.Comma((wire.HEADER_SIZE+int64(c.Length))*wire.CHANNELS_PER_BYTE),
			humanize.Comma(int64(len(img.Pix))))
		return stegerr.ExitOK
	}

	var result *decoder.ExtractedMessage

	if *tryList != "" {
		// Try multiple passwords mode
		var found string
		found, result, err = decoder.TryPasswords(img.Pix, strings.Split(*tryList, ","))
		if err != nil {
			return fail(logger, "password search", err)
		}
		fmt.Printf("\n🔑 Password found: %q\n", found)
	} else {
		// Get password
		var pass []byte
		if *password != "" {
			pass = []byte(*password)
		} else {
			pass, err = scrypto.GetPassword(cfg.PasswordEnv, "\n🔑 Enter password: ", false)
			if err != nil {
				logger.Errorf("❌ Password error: %v", err)
				return stegerr.ExitUsage
			}
		}

		defer scrypto.ZeroBytes(pass)

		result, err = decoder.NewSecureStegoDecoder(img.Pix, pass).
			WithLogger(logger).
			Decode()
		if err != nil {
			return fail(logger, "decoding", err)
		}
	}

	// File payloads are never dumped to the terminal
	if result.IsFile && *outputFile == "" {
		logger.Error("❌ The hidden message is a file; use -output to save it")
		return stegerr.ExitUsage
	}

	// Display results
	fmt.Printf("\n✅ MESSAGE SUCCESSFULLY DECRYPTED\n")
	fmt.Println("=" + strings.Repeat("=", 40))

	fmt.Printf("\n📊 Extraction Statistics:\n")
	fmt.Printf("   Encrypted size: %s\n", humanize.Bytes(uint64(result.EncryptedSize)))
	fmt.Printf("   Decrypted size: %s\n", humanize.Bytes(uint64(len(result.Message))))
	fmt.Printf("   Key derivation cycles: %d\n", result.Cycles)
	fmt.Printf("   File payload: %v\n", result.IsFile)

	if !result.IsFile {
		printMessage(string(result.Message), *verbose)
	}

	// Save to file if requested
	if *outputFile != "" {
		outPath := *outputFile
		if cfg.OutputDir != "" && !filepath.IsAbs(outPath) {
			outPath = filepath.Join(cfg.OutputDir, outPath)
		}
		if err := os.WriteFile(outPath, result.Message, 0o600); err != nil {
			return fail(logger, "saving output", err)
		}
		fmt.Printf("\n💾 Message saved to: %s\n", outPath)
	}

	fmt.Println("\n✅ Secure decoding complete!")
	return stegerr.ExitOK
}

func printMessage(message string, verbose bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📝 DECRYPTED MESSAGE:")
	fmt.Println(strings.Repeat("=", 60))

	head, tail, omitted := preview(message, 200)
	if verbose || omitted == 0 {
		fmt.Println(message)
	} else {
		// Show preview for long messages
		fmt.Printf("%s\n... [%d more bytes] ...\n%s\n", head, omitted, tail)
		fmt.Printf("\n(Use -verbose flag to see full message)\n")
	}

	fmt.Println(strings.Repeat("=", 60))
}

// preview returns roughly n bytes from each end of message, cut on rune
// boundaries, and the number of bytes between them. Messages up to 2.5n
// bytes are not shortened.
func preview(message string, n int) (string, string, int) {
	if len(message) <= n*5/2 {
		return message, "", 0
	}

	end := n
	for end > 0 && !utf8.RuneStart(message[end]) {
		end--
	}
	start := len(message) - n
	for start < len(message) && !utf8.RuneStart(message[start]) {
		start++
	}
	return message[:end], message[start:], start - end
}

func loadCarrier(path string) (*carrier.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return carrier.Load(file)
}

func printAnalysis(a embed.Analysis) {
	fmt.Printf("\n🔬 Low-bit analysis:\n")
	fmt.Printf("   Channel bytes: %s\n", humanize.Comma(int64(a.ChannelBytes)))
	for sym, count := range a.Symbols {
		fmt.Printf("   %02b: %d\n", sym, count)
	}
	fmt.Printf("   Entropy: %.4f bits (%.1f%% of maximum)\n", a.Entropy, 100*a.Randomness())
	if a.Randomness() > 0.99 {
		fmt.Println("   ⚠️  Low bits look uniformly random; a hidden payload is likely")
	}
}

func fail(logger *logrus.Logger, action string, err error) int {
	entry := logger.WithField("kind", stegerr.KindOf(err))
	if advice := stegerr.Advice(err); advice != "" {
		entry = entry.WithField("hint", advice)
	}
	entry.Errorf("❌ %s failed: %v", action, err)
	return stegerr.ExitCode(err)
}
