package decoder

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/faanross/simulacra_png/internal/container"
	"github.com/faanross/simulacra_png/internal/framer"
	"github.com/faanross/simulacra_png/internal/scrypto"
	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// DecryptPayload derives the key from the header parameters, decrypts the
// payload, verifies the inner magic and inflates the message.
//
// The inner magic is an unauthenticated sentinel, not a MAC: a wrong
// password is detected with probability 1 - 2^-32, and tampering with the
// ciphertext past the first block goes unnoticed until decompression.
func (ssd *SecureStegoDecoder) DecryptPayload(c *container.Container) (*ExtractedMessage, error) {
	key, err := scrypto.DeriveKey(ssd.password, c.Salt[:], c.Cycles)
	if err != nil {
		return nil, err
	}
	defer scrypto.ZeroBytes(key)

	padded, err := scrypto.Decrypt(c.Payload, key, c.IV[:])
	if err != nil {
		return nil, err
	}
	defer scrypto.ZeroBytes(padded)

	// Checked before padding so a wrong password never looks like corruption
	magic := binary.BigEndian.Uint32(padded[:wire.MAGIC_SIZE])
	if magic != wire.INNER_MAGIC {
		return nil, stegerr.New(stegerr.KindAuthentication, "decoder.DecryptPayload",
			"wrong password or corrupted data")
	}

	plaintext, err := scrypto.Unpad(padded)
	if err != nil {
		return nil, err
	}
	if len(plaintext) < wire.MAGIC_SIZE {
		return nil, stegerr.New(stegerr.KindFormat, "decoder.DecryptPayload",
			fmt.Sprintf("decrypted data too small: %d bytes", len(plaintext)))
	}

	message, err := framer.Decompress(plaintext[wire.MAGIC_SIZE:])
	if err != nil {
		return nil, err
	}

	ssd.logger.WithFields(logrus.Fields{
		"encrypted_size": len(c.Payload),
		"decrypted_size": len(message),
		"is_file":        c.IsFile(),
	}).Debug("message decrypted")

	return &ExtractedMessage{
		Message:       message,
		IsFile:        c.IsFile(),
		Cycles:        c.Cycles,
		EncryptedSize: len(c.Payload),
	}, nil
}
