package framer

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompress_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")

		framed, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		got, err := Decompress(framed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
		}
	})
}

func TestCompress_Empty(t *testing.T) {
	framed, err := Compress(nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), binary.BigEndian.Uint64(framed[:wire.FRAME_LENGTH_SIZE]))

	got, err := Decompress(framed)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompress_PrefixAndRatio(t *testing.T) {
	data := bytes.Repeat([]byte("simulacra "), 1000)

	framed, err := Compress(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), binary.BigEndian.Uint64(framed[:wire.FRAME_LENGTH_SIZE]))
	assert.Less(t, len(framed), len(data)/10)
}

func TestDecompress_Corruption(t *testing.T) {
	framed, err := Compress(bytes.Repeat([]byte("payload"), 50))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"short prefix", framed[:4]},
		{"prefix only", framed[:wire.FRAME_LENGTH_SIZE]},
		{"truncated stream", framed[:len(framed)-6]},
		{"garbage stream", append(append([]byte{}, framed[:wire.FRAME_LENGTH_SIZE]...), 0xde, 0xad, 0xbe, 0xef, 0x00, 0x11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.input)
			require.Error(t, err)
			assert.True(t, stegerr.IsKind(err, stegerr.KindDecompression), "got %v", err)
		})
	}
}

func TestDecompress_DeclaredLengthMismatch(t *testing.T) {
	framed, err := Compress([]byte("hello"))
	require.NoError(t, err)

	shorter := append([]byte{}, framed...)
	binary.BigEndian.PutUint64(shorter, 4)
	_, err = Decompress(shorter)
	assert.True(t, stegerr.IsKind(err, stegerr.KindDecompression))

	longer := append([]byte{}, framed...)
	binary.BigEndian.PutUint64(longer, 6)
	_, err = Decompress(longer)
	assert.True(t, stegerr.IsKind(err, stegerr.KindDecompression))
}

func TestDecompress_HostileDeclaredLength(t *testing.T) {
	framed, err := Compress([]byte("hello"))
	require.NoError(t, err)

	binary.BigEndian.PutUint64(framed, ^uint64(0))
	_, err = Decompress(framed)
	assert.True(t, stegerr.IsKind(err, stegerr.KindDecompression))
}
