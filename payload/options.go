package payload

import (
	"github.com/yyyoichi/bitstream-go"
)

var (
	DefaultShuffleSeed int64 = 1234567890
)

type (
	// Option selects how the framed payload is protected.
	Option      func(*frameFactory)
	frameFactory struct {
		f factroy
	}
	factroy interface {
		encode(data []uint64, size int) ([]uint64, int)
		decode(data []bool, size int) *bitstream.BitReader[uint64]
		encodedLen(size int) int
	}
)

// WithoutECC writes the header and message bits as they are.
func WithoutECC() Option {
	return func(ff *frameFactory) {
		ff.f = withoutecc{}
	}
}

// WithGolay protects the header and the message with a Golay(24,12) code,
// which corrects up to three flipped bits in every 24-bit codeword.
// seed drives a deterministic shuffle of the encoded bits so that damage
// to one region of the image is spread over many codewords.
// Embedding and extraction must use the same seed.
func WithGolay(seed int64) Option {
	return func(ff *frameFactory) {
		ff.f = shuffledgolay(seed)
	}
}

func newFrameFactory(opts []Option) frameFactory {
	if len(opts) == 0 {
		opts = append(opts, WithGolay(DefaultShuffleSeed))
	}
	var ff frameFactory
	for _, opt := range opts {
		opt(&ff)
	}
	if ff.f == nil {
		ff.f = shuffledgolay(DefaultShuffleSeed)
	}
	return ff
}
