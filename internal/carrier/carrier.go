// Package carrier converts PNG files to and from the flat channel buffers the
// codec embeds into.
//
// Opaque images yield RGB buffers (3 channels). Images with real
// transparency yield RGBA buffers (4 channels) so the alpha samples carry
// data too. Alpha only joins the buffer when at least one sample is below
// 252: embedding keeps the top six bits, so such a sample can never become
// 255 and the saved PNG is always re-read with the same channel count.
package carrier

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

const alphaCarrierLimit = 0xFC

// Image is a decoded carrier.
type Image struct {
	Pix      []byte // Interleaved 8-bit samples, row-major, no padding
	Width    int
	Height   int
	Channels int    // 3 (RGB) or 4 (RGBA)
	Alpha    []byte // Alpha plane kept aside for 3-channel images with transparency
}

// Capacity returns the number of channel bytes available for embedding.
func (img *Image) Capacity() int {
	return len(img.Pix)
}

// Load decodes a PNG into a flat channel buffer.
func Load(r io.Reader) (*Image, error) {
	decoded, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("png decode failed: %w", err)
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.New("image has no pixels")
	}

	// RGB PNGs decode to *image.RGBA and are always opaque
	if rgba, ok := decoded.(*image.RGBA); ok && rgba.Opaque() {
		return &Image{
			Pix:      packChannels(rgba.Pix, rgba.Stride, width, height, 3),
			Width:    width,
			Height:   height,
			Channels: 3,
		}, nil
	}

	nrgba, ok := decoded.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(nrgba, nrgba.Bounds(), decoded, bounds.Min, draw.Src)
	}

	if alphaCarries(nrgba, width, height) {
		return &Image{
			Pix:      packChannels(nrgba.Pix, nrgba.Stride, width, height, 4),
			Width:    width,
			Height:   height,
			Channels: 4,
		}, nil
	}

	img := &Image{
		Pix:      packChannels(nrgba.Pix, nrgba.Stride, width, height, 3),
		Width:    width,
		Height:   height,
		Channels: 3,
	}
	if !nrgba.Opaque() {
		img.Alpha = alphaPlane(nrgba, width, height)
	}
	return img, nil
}

// Save encodes img as a PNG.
func Save(w io.Writer, img *Image) error {
	if img.Channels != 3 && img.Channels != 4 {
		return fmt.Errorf("unsupported channel count %d", img.Channels)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		return fmt.Errorf("pixel buffer is %d bytes, expected %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	src := 0
	for i := 0; i < img.Width*img.Height; i++ {
		dst := i * 4
		copy(out.Pix[dst:dst+3], img.Pix[src:src+3])
		switch {
		case img.Channels == 4:
			out.Pix[dst+3] = img.Pix[src+3]
		case img.Alpha != nil:
			out.Pix[dst+3] = img.Alpha[i]
		default:
			out.Pix[dst+3] = 0xFF
		}
		src += img.Channels
	}

	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(w, out); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	return nil
}

// NewNoise generates an opaque RGB carrier filled from rnd.
func NewNoise(width, height int, rnd io.Reader) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}

	pix := make([]byte, width*height*3)
	if _, err := io.ReadFull(rnd, pix); err != nil {
		return nil, fmt.Errorf("noise generation failed: %w", err)
	}

	return &Image{Pix: pix, Width: width, Height: height, Channels: 3}, nil
}

func packChannels(pix []byte, stride, width, height, channels int) []byte {
	out := make([]byte, 0, width*height*channels)
	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width*4]
		for x := 0; x < width; x++ {
			out = append(out, row[x*4:x*4+channels]...)
		}
	}
	return out
}

func alphaCarries(img *image.NRGBA, width, height int) bool {
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 3; x < len(row); x += 4 {
			if row[x] < alphaCarrierLimit {
				return true
			}
		}
	}
	return false
}

func alphaPlane(img *image.NRGBA, width, height int) []byte {
	out := make([]byte, 0, width*height)
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 3; x < len(row); x += 4 {
			out = append(out, row[x])
		}
	}
	return out
}
