package scrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

func newBlock(op string, key, iv []byte) (cipher.Block, error) {
	if len(key) != wire.KEY_SIZE {
		return nil, stegerr.New(stegerr.KindCipher, op,
			fmt.Sprintf("key must be %d bytes, got %d", wire.KEY_SIZE, len(key)))
	}
	if len(iv) != wire.IV_SIZE {
		return nil, stegerr.New(stegerr.KindCipher, op,
			fmt.Sprintf("iv must be %d bytes, got %d", wire.IV_SIZE, len(iv)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, stegerr.Wrap(stegerr.KindCipher, op, "cipher creation failed", err)
	}
	return block, nil
}

// Encrypt performs AES-256-CBC encryption with PKCS#7 padding.
// The result is always a whole number of blocks and at least one block long.
func Encrypt(plaintext, key, iv []byte) ([]byte, error) {
	block, err := newBlock("scrypto.Encrypt", key, iv)
	if err != nil {
		return nil, err
	}

	padded := pad(plaintext)
	defer ZeroBytes(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

// Decrypt reverses Encrypt but leaves the padding in place; see Unpad.
// A wrong key does not fail here, it yields garbage plaintext.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%wire.BLOCK_SIZE != 0 {
		return nil, stegerr.New(stegerr.KindFormat, "scrypto.Decrypt",
			fmt.Sprintf("ciphertext length %d is not a positive multiple of %d", len(ciphertext), wire.BLOCK_SIZE))
	}

	block, err := newBlock("scrypto.Decrypt", key, iv)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return plaintext, nil
}

// Unpad strips and validates PKCS#7 padding.
func Unpad(padded []byte) ([]byte, error) {
	if len(padded) == 0 || len(padded)%wire.BLOCK_SIZE != 0 {
		return nil, stegerr.New(stegerr.KindFormat, "scrypto.Unpad", "padded data is not block aligned")
	}

	n := int(padded[len(padded)-1])
	if n == 0 || n > wire.BLOCK_SIZE {
		return nil, stegerr.New(stegerr.KindFormat, "scrypto.Unpad", fmt.Sprintf("invalid padding length %d", n))
	}
	for _, b := range padded[len(padded)-n:] {
		if int(b) != n {
			return nil, stegerr.New(stegerr.KindFormat, "scrypto.Unpad", "inconsistent padding bytes")
		}
	}

	return padded[:len(padded)-n], nil
}

// PaddedSize returns the ciphertext length Encrypt produces for n plaintext bytes.
func PaddedSize(n int) int {
	return (n/wire.BLOCK_SIZE + 1) * wire.BLOCK_SIZE
}

func pad(data []byte) []byte {
	size := PaddedSize(len(data))
	n := size - len(data)

	out := make([]byte, size)
	copy(out, data)
	for i := len(data); i < size; i++ {
		out[i] = byte(n)
	}
	return out
}
