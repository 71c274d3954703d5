// Package payload provides length-prefixed payloads for stegano.Stegano.
//
// Unlike the zero-terminated format of stegano.Encode, a framed payload may
// contain zero bytes. The message length is written first as a 32-bit
// big-endian header, then the message itself. Both parts are optionally
// protected with an error correcting code (see WithGolay).
package payload

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/yyyoichi/bitstream-go"
	stegano "github.com/yyyoichi/stegano_zero"
	"github.com/yyyoichi/stegano_zero/internal/bitconv"
)

const headerBits = 32

var (
	ErrTruncated = errors.New("payload is truncated")
	ErrTooLarge  = errors.New("message is too large")
)

var (
	_ stegano.EmbedPayload   = (*Framed)(nil)
	_ stegano.ExtractPayload = (*Reader)(nil)
)

// Framed is a header and message ready to be embedded.
type Framed struct {
	bits   int
	reader *bitstream.BitReader[uint64]
}

// New frames msg. By default the Golay code with DefaultShuffleSeed is used.
func New(msg []byte, opts ...Option) (*Framed, error) {
	if uint64(len(msg)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(msg))
	}
	ff := newFrameFactory(opts)

	header := writeBytes(binary.BigEndian.AppendUint32(nil, uint32(len(msg))))
	hData, hLen := ff.f.encode(header.Data(), header.Bits())
	body := writeBytes(msg)
	bData, bLen := ff.f.encode(body.Data(), body.Bits())

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range toBools(hData, hLen) {
		w.WriteBool(v)
	}
	for _, v := range toBools(bData, bLen) {
		w.WriteBool(v)
	}
	return &Framed{
		bits:   hLen + bLen,
		reader: bitstream.NewBitReader(w.Data(), 0, 0),
	}, nil
}

// Len returns the number of image bits the payload occupies.
func (f *Framed) Len() int {
	return f.bits
}

func (f *Framed) GetBit(at int) uint8 {
	if bit, _ := f.reader.ReadBitAt(at); bit {
		return 1
	}
	return 0
}

// Reader collects a framed payload from the image. It needs the same
// options that were passed to New.
type Reader struct {
	f         factroy
	headerLen int
	need      int
	size      int
	bits      []bool
}

func NewReader(opts ...Option) *Reader {
	ff := newFrameFactory(opts)
	headerLen := ff.f.encodedLen(headerBits)
	return &Reader{
		f:         ff.f,
		headerLen: headerLen,
		need:      headerLen,
		size:      -1,
	}
}

func (r *Reader) PutBit(bit uint8) bool {
	if r.done() {
		return true
	}
	r.bits = append(r.bits, bit == 1)
	if len(r.bits) < r.need {
		return false
	}
	if r.size < 0 {
		header := r.f.decode(r.bits[:r.headerLen], headerBits)
		n := binary.BigEndian.Uint32(bitconv.BoolsToBytes(toBools(header.Data(), headerBits)))
		r.size = int(n) * 8
		r.need = r.headerLen + r.f.encodedLen(r.size)
	}
	return r.done()
}

func (r *Reader) done() bool {
	return r.size >= 0 && len(r.bits) >= r.need
}

// Bytes decodes the message. It returns ErrTruncated if the image ended
// before the length announced by the header was read.
func (r *Reader) Bytes() ([]byte, error) {
	if !r.done() {
		if r.size < 0 {
			return nil, fmt.Errorf("%w: read %d of %d header bits", ErrTruncated, len(r.bits), r.headerLen)
		}
		return nil, fmt.Errorf("%w: read %d of %d bits", ErrTruncated, len(r.bits), r.need)
	}
	if r.size == 0 {
		return []byte{}, nil
	}
	body := r.f.decode(r.bits[r.headerLen:r.need], r.size)
	return bitconv.BoolsToBytes(toBools(body.Data(), r.size)), nil
}

func writeBytes(b []byte) *bitstream.BitWriter[uint64] {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range bitconv.BytesToBools(b) {
		w.WriteBool(v)
	}
	return w
}

func toBools(data []uint64, n int) []bool {
	r := bitstream.NewBitReader(data, 0, 0)
	bits := make([]bool, n)
	for i := range bits {
		bits[i], _ = r.ReadBitAt(i)
	}
	return bits
}
