// Package embed hides bytes in the two least significant bits of raw channel
// samples. Every source byte occupies four consecutive channel bytes, most
// significant bit pair first. The upper six bits of each channel are never
// touched.
package embed

import (
	"fmt"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// Capacity returns how many source bytes fit in pixelLen channel bytes.
func Capacity(pixelLen int) int {
	if pixelLen < 0 {
		return 0
	}
	return pixelLen / wire.CHANNELS_PER_BYTE
}

// EmbedByte spreads b over the low bits of ch[0:4].
func EmbedByte(b byte, ch []byte) {
	_ = ch[3]
	for i := 0; i < wire.CHANNELS_PER_BYTE; i++ {
		shift := uint(6 - 2*i)
		ch[i] = ch[i]&^wire.CHANNEL_MASK | (b>>shift)&wire.CHANNEL_MASK
	}
}

// ExtractByte rebuilds a byte from the low bits of ch[0:4].
func ExtractByte(ch []byte) byte {
	_ = ch[3]
	var b byte
	for i := 0; i < wire.CHANNELS_PER_BYTE; i++ {
		shift := uint(6 - 2*i)
		b |= (ch[i] & wire.CHANNEL_MASK) << shift
	}
	return b
}

// Write embeds src into pixels starting at channel byte 0. Capacity is
// checked before the first write, so on failure pixels are unmodified.
func Write(src, pixels []byte) error {
	if len(src) > Capacity(len(pixels)) {
		return stegerr.New(stegerr.KindCapacity, "embed.Write",
			fmt.Sprintf("carrier holds %d bytes, need %d (%d channel bytes)",
				Capacity(len(pixels)), len(src), len(src)*wire.CHANNELS_PER_BYTE))
	}

	for i, b := range src {
		pos := i * wire.CHANNELS_PER_BYTE
		EmbedByte(b, pixels[pos:pos+wire.CHANNELS_PER_BYTE])
	}
	return nil
}

// Read extracts n source bytes starting at source byte offset.
func Read(pixels []byte, offset int, n uint64) ([]byte, error) {
	available := uint64(Capacity(len(pixels)))
	if offset < 0 || uint64(offset) > available || n > available-uint64(offset) {
		return nil, stegerr.New(stegerr.KindCapacity, "embed.Read",
			fmt.Sprintf("carrier holds %d bytes, cannot read %d at offset %d", available, n, offset))
	}

	out := make([]byte, n)
	pos := offset * wire.CHANNELS_PER_BYTE
	for i := range out {
		out[i] = ExtractByte(pixels[pos : pos+wire.CHANNELS_PER_BYTE])
		pos += wire.CHANNELS_PER_BYTE
	}
	return out, nil
}
