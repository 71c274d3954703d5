package stegano

import (
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/stegano_zero/internal/lsb"
)

var (
	ErrCapacityExceeded = errors.New("message does not fit in the image")
	ErrInvalidInput     = errors.New("invalid input")
)

// Capacity returns the number of bits a width x height image can carry:
// one bit in each of the red, green and blue channels of every pixel.
func Capacity(width, height int) int {
	return lsb.Capacity(width, height)
}

// MaxMessageLen returns the longest message, in bytes, that Encode accepts
// for a width x height image. It is -1 when not even the terminator fits.
func MaxMessageLen(width, height int) int {
	return Capacity(width, height)/8 - 1
}

// CheckCapacity reports whether a message of msgLen bytes, plus its
// terminator, fits in a width x height image.
func CheckCapacity(width, height, msgLen int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, width, height)
	}
	if msgLen < 0 {
		return fmt.Errorf("%w: negative message length %d", ErrInvalidInput, msgLen)
	}
	if err := lsb.Enable(width, height, (msgLen+1)*8); err != nil {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	return nil
}

// Encode hides msg in a copy of src and returns the copy. src is never
// modified. The message is followed by a zero byte and written one bit per
// channel into the least significant bits, rows top to bottom, pixels left
// to right, channels red, green, blue, most significant bit of each byte
// first. Channels past the payload keep their values.
//
// Returns an error wrapping ErrCapacityExceeded if the image is too small,
// or ErrInvalidInput if src is malformed.
func Encode(src *PixelBuffer, msg []byte) (*PixelBuffer, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	if err := CheckCapacity(src.Width, src.Height, len(msg)); err != nil {
		return nil, err
	}
	dist := src.Clone()
	lsb.Embed(dist.Pix, dist.Width, dist.Height, NewTerminated(msg))
	return dist, nil
}

// Decode reads the least significant bits of src in the order Encode writes
// them and returns the bytes before the first zero byte. If no zero byte is
// found it returns every complete byte in the image. Decode never fails; an
// image that never had a message yields noise, and a nil or malformed
// buffer yields an empty message.
func Decode(src *PixelBuffer) []byte {
	r := NewTerminatedReader()
	if src.validate() == nil {
		lsb.Extract(src.Pix, src.Width, src.Height, r)
	}
	msg, _ := r.Bytes()
	return msg
}

// EncodeImage hides msg in a copy of src. Alpha is preserved unless
// WithOpaqueOutput is given. The result must be stored losslessly.
func EncodeImage(src image.Image, msg []byte, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Embed(src, NewTerminated(msg))
}

// DecodeImage recovers a message hidden by EncodeImage.
func DecodeImage(src image.Image) ([]byte, error) {
	s, _ := New()
	return s.Extract(src, NewTerminatedReader())
}

type Stegano struct {
	opaque bool
}

// New initializes a processor for arbitrary payload formats.
func New(opts ...Option) (*Stegano, error) {
	s := new(Stegano)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

// Embed writes the bits of p into a copy of src.
//
// Returns an error wrapping ErrCapacityExceeded if p.Len() exceeds the
// image capacity; src is not touched in either case.
func (s *Stegano) Embed(src image.Image, p EmbedPayload) (image.Image, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrInvalidInput)
	}
	img, err := newImageSource(src)
	if err != nil {
		return nil, err
	}
	if err := lsb.Enable(img.buf.Width, img.buf.Height, p.Len()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	lsb.Embed(img.buf.Pix, img.buf.Width, img.buf.Height, p)
	return img.build(s.opaque), nil
}

// Extract feeds the LSBs of src to p until p is satisfied and returns
// what p decodes.
func (s *Stegano) Extract(src image.Image, p ExtractPayload) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrInvalidInput)
	}
	img, err := newImageSource(src)
	if err != nil {
		return nil, err
	}
	lsb.Extract(img.buf.Pix, img.buf.Width, img.buf.Height, p)
	return p.Bytes()
}

func (s *Stegano) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}
