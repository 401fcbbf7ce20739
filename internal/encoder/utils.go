package encoder

import (
	"github.com/faanross/simulacra_png/internal/framer"
	"github.com/faanross/simulacra_png/internal/scrypto"
	"github.com/faanross/simulacra_png/internal/wire"
)

// RequiredBytes returns how many source bytes the container for message
// occupies once embedded; the carrier needs four channel bytes per byte.
// Compression is deterministic, so this matches what Embed will write.
func RequiredBytes(message []byte) (int, error) {
	framed, err := framer.Compress(message)
	if err != nil {
		return 0, err
	}
	return wire.HEADER_SIZE + scrypto.PaddedSize(wire.MAGIC_SIZE+len(framed)), nil
}

// CalculateImageDimensions determines the height of a generated carrier of
// the given width that can hold requiredBytes embedded bytes.
func CalculateImageDimensions(width, requiredBytes, channels int) (int, int) {
	if width <= 0 {
		width = wire.DEFAULT_WIDTH
	}
	channelBytes := requiredBytes * wire.CHANNELS_PER_BYTE
	pixelsNeeded := (channelBytes + channels - 1) / channels
	height := (pixelsNeeded + width - 1) / width
	if height < 1 {
		height = 1
	}
	return width, height
}
