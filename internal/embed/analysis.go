package embed

import (
	"math"

	"github.com/faanross/simulacra_png/internal/wire"
)

// Analysis summarises the low bit plane of a carrier.
type Analysis struct {
	ChannelBytes int
	Symbols      [1 << wire.BITS_PER_CHANNEL]int // Counts of each low 2-bit value
	Entropy      float64                         // Bits per symbol (max 2.0)
}

// Randomness returns entropy as a fraction of the maximum.
func (a Analysis) Randomness() float64 {
	return a.Entropy / wire.BITS_PER_CHANNEL
}

// Analyze measures how uniform the low two bits of pixels are. Encrypted
// payloads push the distribution towards uniform; natural images usually
// sit noticeably below the maximum.
func Analyze(pixels []byte) Analysis {
	a := Analysis{ChannelBytes: len(pixels)}
	for _, p := range pixels {
		a.Symbols[p&wire.CHANNEL_MASK]++
	}

	total := float64(len(pixels))
	if total == 0 {
		return a
	}
	for _, count := range a.Symbols {
		p := float64(count) / total
		if p > 0 {
			a.Entropy -= p * math.Log2(p)
		}
	}
	return a
}
