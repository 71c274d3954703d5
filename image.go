package stegano

import (
	"fmt"
	"image"
	"image/color"
)

// imageSource splits an image into the RGB buffer the codec works on and the
// alpha channel, which is carried through untouched.
type imageSource struct {
	bounds image.Rectangle
	buf    *PixelBuffer
	alpha  []uint8
}

func newImageSource(src image.Image) (imageSource, error) {
	var s imageSource
	if src == nil {
		return s, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	s.bounds = src.Bounds()
	if s.bounds.Empty() {
		return s, fmt.Errorf("%w: empty image bounds %v", ErrInvalidInput, s.bounds)
	}
	width, height := s.bounds.Dx(), s.bounds.Dy()
	s.buf = NewPixelBuffer(width, height)
	s.alpha = make([]uint8, width*height)

	// Non-premultiplied values keep the stored 8-bit RGB of translucent pixels.
	idx := 0
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(src.At(s.bounds.Min.X+x, s.bounds.Min.Y+y)).(color.NRGBA)
			s.buf.Set(x, y, c.R, c.G, c.B)
			s.alpha[idx] = c.A
			idx++
		}
	}
	return s, nil
}

func (s imageSource) build(opaque bool) image.Image {
	var dist = image.NewNRGBA(s.bounds)
	idx := 0
	for y := range s.buf.Height {
		for x := range s.buf.Width {
			r, g, b := s.buf.At(x, y)
			a := s.alpha[idx]
			if opaque {
				a = 0xFF
			}
			dist.SetNRGBA(s.bounds.Min.X+x, s.bounds.Min.Y+y, color.NRGBA{r, g, b, a})
			idx++
		}
	}
	return dist
}
