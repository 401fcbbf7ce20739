package scrypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// DeriveKey stretches password into an AES-256 key by iterated salted SHA-256.
//
// The first round hashes password ∥ salt, every later round hashes
// previous digest ∥ salt. cycles rounds are performed in total and the last
// digest is the key. Same inputs always give the same key.
func DeriveKey(password, salt []byte, cycles uint16) ([]byte, error) {
	if len(salt) != wire.SALT_SIZE {
		return nil, stegerr.New(stegerr.KindKeyDerivation, "scrypto.DeriveKey",
			fmt.Sprintf("salt must be %d bytes, got %d", wire.SALT_SIZE, len(salt)))
	}
	if cycles == 0 {
		return nil, stegerr.New(stegerr.KindKeyDerivation, "scrypto.DeriveKey", "cycle count must be at least 1")
	}

	seed := make([]byte, 0, len(password)+wire.SALT_SIZE)
	seed = append(seed, password...)
	seed = append(seed, salt...)
	defer ZeroBytes(seed)

	state := sha256.Sum256(seed)

	var round [sha256.Size + wire.SALT_SIZE]byte
	copy(round[sha256.Size:], salt)
	for i := 1; i < int(cycles); i++ {
		copy(round[:sha256.Size], state[:])
		state = sha256.Sum256(round[:])
	}

	key := make([]byte, wire.KEY_SIZE)
	copy(key, state[:])

	ZeroBytes(round[:])
	ZeroBytes(state[:])

	return key, nil
}
