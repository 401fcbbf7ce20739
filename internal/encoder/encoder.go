package encoder

import (
	"crypto/rand"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/embed"
	"github.com/faanross/simulacra_png/internal/scrypto"
	"github.com/faanross/simulacra_png/internal/wire"
)

// SecureStegoEncoder hides one password-protected message in a carrier
type SecureStegoEncoder struct {
	password []byte
	message  []byte
	isFile   bool
	rnd      scrypto.RandomSource
	logger   logrus.FieldLogger
}

// NewSecureStegoEncoder creates an encoder with encryption
func NewSecureStegoEncoder(message, password []byte, isFile bool) *SecureStegoEncoder {
	return &SecureStegoEncoder{
		password: password,
		message:  message,
		isFile:   isFile,
		rnd:      rand.Reader,
		logger:   discardLogger(),
	}
}

// WithLogger routes per-stage diagnostics to logger at debug level.
func (sse *SecureStegoEncoder) WithLogger(logger logrus.FieldLogger) *SecureStegoEncoder {
	if logger != nil {
		sse.logger = logger
	}
	return sse
}

// WithRandom replaces the source used for salt, IV and cycle count.
func (sse *SecureStegoEncoder) WithRandom(rnd scrypto.RandomSource) *SecureStegoEncoder {
	if rnd != nil {
		sse.rnd = rnd
	}
	return sse
}

// Embed encrypts the message and writes the container into pixels in place.
// Nothing is written unless every upstream stage succeeded and the whole
// container fits.
func (sse *SecureStegoEncoder) Embed(pixels []byte) error {
	c, err := sse.PrepareContainer()
	if err != nil {
		return err
	}

	serialized := c.Serialize()
	needed := len(serialized) * wire.CHANNELS_PER_BYTE

	sse.logger.WithFields(logrus.Fields{
		"container_bytes": len(serialized),
		"channel_bytes":   needed,
		"carrier_bytes":   len(pixels),
	}).Debug("embedding container")

	if err := embed.Write(serialized, pixels); err != nil {
		return err
	}

	sse.logger.WithField("utilization", float64(needed)/float64(len(pixels))).Debug("container embedded")
	return nil
}

// Encode hides message in pixels under password.
func Encode(password, pixels, message []byte, isFile bool) error {
	return NewSecureStegoEncoder(message, password, isFile).Embed(pixels)
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
