// Package framer wraps zlib compression with an 8-byte uncompressed length
// prefix so the inflating side can size its output up front and verify it.
package framer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/faanross/simulacra_png/internal/stegerr"
	"github.com/faanross/simulacra_png/internal/wire"
)

// Compress returns length(8, big-endian) ∥ zlib(data) at best compression.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(wire.FRAME_LENGTH_SIZE + len(data)/2 + 64)

	var prefix [wire.FRAME_LENGTH_SIZE]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(data)))
	buf.Write(prefix[:])

	writer, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, stegerr.Wrap(stegerr.KindCompression, "framer.Compress", "compressor setup failed", err)
	}

	if _, err := writer.Write(data); err != nil {
		return nil, stegerr.Wrap(stegerr.KindCompression, "framer.Compress", "compression write failed", err)
	}
	if err := writer.Close(); err != nil {
		return nil, stegerr.Wrap(stegerr.KindCompression, "framer.Compress", "compression close failed", err)
	}

	return buf.Bytes(), nil
}

// Decompress inflates a frame produced by Compress. Corrupt input is an
// expected outcome (a wrong password upstream produces it) and is reported
// as a Decompression error, never a panic.
func Decompress(framed []byte) ([]byte, error) {
	if len(framed) < wire.FRAME_LENGTH_SIZE {
		return nil, stegerr.New(stegerr.KindDecompression, "framer.Decompress",
			fmt.Sprintf("frame too short: %d bytes", len(framed)))
	}

	declared := binary.BigEndian.Uint64(framed[:wire.FRAME_LENGTH_SIZE])

	reader, err := zlib.NewReader(bytes.NewReader(framed[wire.FRAME_LENGTH_SIZE:]))
	if err != nil {
		return nil, stegerr.Wrap(stegerr.KindDecompression, "framer.Decompress", "invalid zlib stream", err)
	}
	defer reader.Close()

	prealloc := declared
	if prealloc > wire.MAX_PREALLOC {
		prealloc = wire.MAX_PREALLOC
	}
	out := bytes.NewBuffer(make([]byte, 0, int(prealloc)))

	// Read one byte past the declared size so an overlong stream is detected
	limit := int64(declared)
	if declared >= 1<<62 {
		limit = 1 << 62
	}
	n, err := io.Copy(out, io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, stegerr.Wrap(stegerr.KindDecompression, "framer.Decompress", "inflate failed", err)
	}
	if uint64(n) != declared {
		return nil, stegerr.New(stegerr.KindDecompression, "framer.Decompress",
			fmt.Sprintf("inflated %d bytes, frame declares %d", n, declared))
	}

	return out.Bytes(), nil
}
