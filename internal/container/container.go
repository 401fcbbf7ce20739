// Package container implements the self-describing record hidden inside a
// carrier: a fixed 50-byte big-endian header followed by the ciphertext.
//
//	[Magic(4)][Flags(4)][Cycles(2)][IV(16)][Salt(16)][Length(8)][Payload(Length)]
//
// Only the payload is secret. The header magic tells a container from an
// arbitrary image but says nothing about the password; that is the job of
// the inner magic inside the ciphertext.
package container

import (
	"encoding/binary"
	"fmt"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// Container is one embedded record.
type Container struct {
	Flags   uint32
	Cycles  uint16
	IV      [wire.IV_SIZE]byte
	Salt    [wire.SALT_SIZE]byte
	Length  uint64 // Ciphertext length; set from Payload by Serialize
	Payload []byte
}

// IsFile reports whether the payload originated from a file.
func (c *Container) IsFile() bool {
	return c.Flags&wire.FLAG_FILE != 0
}

// Size returns the serialized size of c.
func (c *Container) Size() int {
	return wire.HEADER_SIZE + len(c.Payload)
}

// New builds a container for payload. iv and salt must be exactly
// IV_SIZE and SALT_SIZE bytes.
func New(flags uint32, cycles uint16, iv, salt, payload []byte) (*Container, error) {
	if len(iv) != wire.IV_SIZE || len(salt) != wire.SALT_SIZE {
		return nil, stegerr.New(stegerr.KindFormat, "container.New",
			fmt.Sprintf("iv/salt must be %d/%d bytes, got %d/%d", wire.IV_SIZE, wire.SALT_SIZE, len(iv), len(salt)))
	}

	c := &Container{
		Flags:   flags,
		Cycles:  cycles,
		Length:  uint64(len(payload)),
		Payload: payload,
	}
	copy(c.IV[:], iv)
	copy(c.Salt[:], salt)
	return c, nil
}

// Serialize lays out header and payload in wire order.
func (c *Container) Serialize() []byte {
	out := make([]byte, wire.HEADER_SIZE+len(c.Payload))

	binary.BigEndian.PutUint32(out[wire.OFFSET_MAGIC:], wire.CONTAINER_MAGIC)
	binary.BigEndian.PutUint32(out[wire.OFFSET_FLAGS:], c.Flags)
	binary.BigEndian.PutUint16(out[wire.OFFSET_CYCLES:], c.Cycles)
	copy(out[wire.OFFSET_IV:], c.IV[:])
	copy(out[wire.OFFSET_SALT:], c.Salt[:])
	binary.BigEndian.PutUint64(out[wire.OFFSET_LENGTH:], uint64(len(c.Payload)))
	copy(out[wire.HEADER_SIZE:], c.Payload)

	return out
}

// ParseHeader decodes and validates the fixed header. The returned
// container has Length set and a nil Payload.
func ParseHeader(b []byte) (*Container, error) {
	if len(b) < wire.HEADER_SIZE {
		return nil, stegerr.New(stegerr.KindFormat, "container.ParseHeader",
			fmt.Sprintf("need %d header bytes, got %d", wire.HEADER_SIZE, len(b)))
	}

	magic := binary.BigEndian.Uint32(b[wire.OFFSET_MAGIC:])
	if magic != wire.CONTAINER_MAGIC {
		return nil, stegerr.New(stegerr.KindMagicMismatch, "container.ParseHeader",
			fmt.Sprintf("invalid magic header: %08X (expected %08X)", magic, wire.CONTAINER_MAGIC))
	}

	c := &Container{
		Flags:  binary.BigEndian.Uint32(b[wire.OFFSET_FLAGS:]),
		Cycles: binary.BigEndian.Uint16(b[wire.OFFSET_CYCLES:]),
		Length: binary.BigEndian.Uint64(b[wire.OFFSET_LENGTH:]),
	}
	copy(c.IV[:], b[wire.OFFSET_IV:wire.OFFSET_IV+wire.IV_SIZE])
	copy(c.Salt[:], b[wire.OFFSET_SALT:wire.OFFSET_SALT+wire.SALT_SIZE])

	if c.Cycles == 0 {
		return nil, stegerr.New(stegerr.KindFormat, "container.ParseHeader", "cycle count is zero")
	}
	if c.Length == 0 || c.Length%wire.BLOCK_SIZE != 0 {
		return nil, stegerr.New(stegerr.KindFormat, "container.ParseHeader",
			fmt.Sprintf("payload length %d is not a positive multiple of %d", c.Length, wire.BLOCK_SIZE))
	}

	return c, nil
}

// Parse decodes a full serialized container. Bytes past the declared
// payload are ignored.
func Parse(b []byte) (*Container, error) {
	c, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}

	available := uint64(len(b) - wire.HEADER_SIZE)
	if c.Length > available {
		return nil, stegerr.New(stegerr.KindFormat, "container.Parse",
			fmt.Sprintf("payload declares %d bytes, only %d present", c.Length, available))
	}

	c.Payload = make([]byte, c.Length)
	copy(c.Payload, b[wire.HEADER_SIZE:])
	return c, nil
}
