package stegano

import "github.com/yyyoichi/stegano_zero/internal/bitconv"

// Terminator ends a message embedded with NewTerminated.
const Terminator byte = 0x00

var (
	_ EmbedPayload   = (*Terminated)(nil)
	_ ExtractPayload = (*TerminatedReader)(nil)
)

// Terminated is a message followed by a single Terminator byte.
type Terminated struct {
	data []byte
}

// NewTerminated copies msg and appends the terminator.
func NewTerminated(msg []byte) *Terminated {
	data := make([]byte, len(msg)+1)
	_ = copy(data, msg)
	data[len(msg)] = Terminator
	return &Terminated{data: data}
}

func (t *Terminated) Len() int {
	return len(t.data) * 8
}

// GetBit returns payload bit at, most significant bit of each byte first.
func (t *Terminated) GetBit(at int) uint8 {
	return bitconv.BitAt(t.data, at)
}

// TerminatedReader rebuilds bytes MSB-first and stops at the first
// Terminator. If the bits run out first it keeps every complete byte and
// drops the partial one.
type TerminatedReader struct {
	acc  uint8
	n    int
	msg  []byte
	done bool
}

func NewTerminatedReader() *TerminatedReader {
	return &TerminatedReader{msg: []byte{}}
}

func (r *TerminatedReader) PutBit(bit uint8) bool {
	if r.done {
		return true
	}
	r.acc = r.acc<<1 | bit&1
	r.n++
	if r.n < 8 {
		return false
	}
	if r.acc == Terminator {
		r.done = true
		return true
	}
	r.msg = append(r.msg, r.acc)
	r.acc, r.n = 0, 0
	return false
}

// Terminated reports whether a terminator was read.
func (r *TerminatedReader) Terminated() bool {
	return r.done
}

// Bytes never fails; a missing terminator is not an error.
func (r *TerminatedReader) Bytes() ([]byte, error) {
	return r.msg, nil
}
