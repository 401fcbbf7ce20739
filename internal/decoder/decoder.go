package decoder

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/container"
	"github.com/faanross/simulacra_png/internal/embed"
	"github.com/faanross/simulacra_png/internal/wire"
)

// SecureStegoDecoder handles extraction and decryption
type SecureStegoDecoder struct {
	pixels   []byte
	password []byte
	logger   logrus.FieldLogger
}

// ExtractedMessage contains decrypted message and metadata
type ExtractedMessage struct {
	Message       []byte
	IsFile        bool
	Cycles        uint16
	EncryptedSize int
}

// NewSecureStegoDecoder creates a decoder instance. pixels is only read.
func NewSecureStegoDecoder(pixels, password []byte) *SecureStegoDecoder {
	return &SecureStegoDecoder{
		pixels:   pixels,
		password: password,
		logger:   discardLogger(),
	}
}

// WithLogger routes per-stage diagnostics to logger at debug level.
func (ssd *SecureStegoDecoder) WithLogger(logger logrus.FieldLogger) *SecureStegoDecoder {
	if logger != nil {
		ssd.logger = logger
	}
	return ssd
}

// Decode recovers the hidden message.
func (ssd *SecureStegoDecoder) Decode() (*ExtractedMessage, error) {
	c, err := ssd.ExtractContainer()
	if err != nil {
		return nil, err
	}
	return ssd.DecryptPayload(c)
}

// ExtractContainer reads and parses the header, then exactly Length
// payload bytes behind it.
func (ssd *SecureStegoDecoder) ExtractContainer() (*container.Container, error) {
	c, err := Probe(ssd.pixels)
	if err != nil {
		return nil, err
	}

	ssd.logger.WithFields(logrus.Fields{
		"flags":  c.Flags,
		"cycles": c.Cycles,
		"length": c.Length,
	}).Debug("container header parsed")

	payload, err := embed.Read(ssd.pixels, wire.HEADER_SIZE, c.Length)
	if err != nil {
		return nil, err
	}
	c.Payload = payload

	return c, nil
}

// Decode recovers the message hidden in pixels under password.
func Decode(password, pixels []byte) ([]byte, bool, error) {
	result, err := NewSecureStegoDecoder(pixels, password).Decode()
	if err != nil {
		return nil, false, err
	}
	return result.Message, result.IsFile, nil
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
