package encoder

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/container"
	"github.com/faanross/simulacra_png/internal/framer"
	"github.com/faanross/simulacra_png/internal/scrypto"
	"github.com/faanross/simulacra_png/internal/wire"
)

// PrepareContainer runs every transform short of embedding:
// salt/IV -> cycles -> key -> compress -> inner magic -> AES-CBC -> container
func (sse *SecureStegoEncoder) PrepareContainer() (*container.Container, error) {
	// Step 1: Fresh salt and IV
	salt, err := scrypto.NewSalt(sse.rnd)
	if err != nil {
		return nil, err
	}
	iv, err := scrypto.NewIV(sse.rnd)
	if err != nil {
		return nil, err
	}

	// Step 2: Per-message work factor
	cycles, err := scrypto.NewCycles(sse.rnd)
	if err != nil {
		return nil, err
	}

	// Step 3: Derive key from password
	key, err := scrypto.DeriveKey(sse.password, salt, cycles)
	if err != nil {
		return nil, err
	}
	defer scrypto.ZeroBytes(key)

	sse.logger.WithField("cycles", cycles).Debug("key derived")

	// Step 4: Compress
	framed, err := framer.Compress(sse.message)
	if err != nil {
		return nil, err
	}

	// Step 5: Add magic header to verify decryption
	payload := make([]byte, wire.MAGIC_SIZE+len(framed))
	binary.BigEndian.PutUint32(payload[:wire.MAGIC_SIZE], wire.INNER_MAGIC)
	copy(payload[wire.MAGIC_SIZE:], framed)
	defer scrypto.ZeroBytes(payload)

	// Step 6: Encrypt
	ciphertext, err := scrypto.Encrypt(payload, key, iv)
	if err != nil {
		return nil, err
	}

	sse.logger.WithFields(logrus.Fields{
		"original_size":   len(sse.message),
		"compressed_size": len(framed),
		"encrypted_size":  len(ciphertext),
	}).Debug("message encrypted")

	// Step 7: Container
	var flags uint32
	if sse.isFile {
		flags |= wire.FLAG_FILE
	}
	return container.New(flags, cycles, iv, salt, ciphertext)
}
