package stegano

import (
	"fmt"
	"image"
	"image/color"

	"github.com/yyyoichi/stegano_zero/internal/lsb"
)

// PixelBuffer is an in-memory RGB image. Pix holds Width*Height pixels in
// row-major order, three bytes (R, G, B) per pixel; the pixel at (x, y)
// starts at Pix[(y*Width+x)*3].
type PixelBuffer struct {
	Width, Height int
	Pix           []uint8
}

// NewPixelBuffer returns a black width x height buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*lsb.Channels),
	}
}

// PixelBufferFromImage copies the RGB channels of src into a new buffer.
// Alpha is dropped; see EncodeImage for an alpha-preserving round trip.
func PixelBufferFromImage(src image.Image) (*PixelBuffer, error) {
	s, err := newImageSource(src)
	if err != nil {
		return nil, err
	}
	return s.buf, nil
}

func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.Width + x) * lsb.Channels
}

// At returns the channel values of the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl uint8) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set stores the channel values of the pixel at (x, y).
func (b *PixelBuffer) Set(x, y int, r, g, bl uint8) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// Clone returns a deep copy of b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	c := *b
	c.Pix = make([]uint8, len(b.Pix))
	_ = copy(c.Pix, b.Pix)
	return &c
}

// Image returns an opaque image holding the buffer's pixels.
func (b *PixelBuffer) Image() *image.NRGBA {
	dist := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := range b.Height {
		for x := range b.Width {
			r, g, bl := b.At(x, y)
			dist.SetNRGBA(x, y, color.NRGBA{r, g, bl, 0xFF})
		}
	}
	return dist
}

func (b *PixelBuffer) validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil pixel buffer", ErrInvalidInput)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, b.Width, b.Height)
	}
	if want := b.Width * b.Height * lsb.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: pixel data has %d bytes, want %d", ErrInvalidInput, len(b.Pix), want)
	}
	return nil
}
