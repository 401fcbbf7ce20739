package scrypto

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// RandomSource supplies cryptographically secure bytes.
// Production code uses crypto/rand.Reader; tests may substitute a failing reader.
type RandomSource = io.Reader

// NewSalt draws a fresh key derivation salt.
func NewSalt(rnd RandomSource) ([]byte, error) {
	salt := make([]byte, wire.SALT_SIZE)
	if _, err := io.ReadFull(rnd, salt); err != nil {
		return nil, stegerr.Wrap(stegerr.KindRandomSource, "scrypto.NewSalt", "salt generation failed", err)
	}
	return salt, nil
}

// NewIV draws a fresh cipher initialization vector.
func NewIV(rnd RandomSource) ([]byte, error) {
	iv := make([]byte, wire.IV_SIZE)
	if _, err := io.ReadFull(rnd, iv); err != nil {
		return nil, stegerr.Wrap(stegerr.KindRandomSource, "scrypto.NewIV", "iv generation failed", err)
	}
	return iv, nil
}

// NewCycles picks a hash iteration count uniformly from [MIN_CYCLES, MAX_CYCLES].
func NewCycles(rnd RandomSource) (uint16, error) {
	span := big.NewInt(wire.MAX_CYCLES - wire.MIN_CYCLES + 1)
	n, err := rand.Int(rnd, span)
	if err != nil {
		return 0, stegerr.Wrap(stegerr.KindRandomSource, "scrypto.NewCycles", "cycle count generation failed", err)
	}
	return uint16(wire.MIN_CYCLES + n.Int64()), nil
}
