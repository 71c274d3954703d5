package stegano

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a buffer whose LSBs are a mix of zeros and ones.
func gradient(width, height int) *PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for y := range height {
		for x := range width {
			buf.Set(x, y, uint8(x*255/width), uint8(y*255/height), uint8((x+y)*7))
		}
	}
	return buf
}

func TestCapacity(t *testing.T) {
	test := []struct {
		name          string
		width, height int
		msgLen        int
		err           error
	}{
		{"1x1_empty", 1, 1, 0, ErrCapacityExceeded},
		{"1x1_one", 1, 1, 1, ErrCapacityExceeded},
		{"2x2_OK", 2, 2, 2, ErrCapacityExceeded},
		{"3x1_empty", 3, 1, 0, ErrCapacityExceeded},
		{"3x3_empty", 3, 3, 0, nil},
		{"8x1_exact", 8, 1, 2, nil},
		{"8x1_over", 8, 1, 3, ErrCapacityExceeded},
		{"10x10_Hi", 10, 10, 2, nil},
		{"10x10_max", 10, 10, 36, nil},
		{"10x10_over", 10, 10, 37, ErrCapacityExceeded},
		{"zero_width", 0, 10, 0, ErrInvalidInput},
		{"zero_height", 10, 0, 0, ErrInvalidInput},
		{"negative_len", 10, 10, -1, ErrInvalidInput},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCapacity(tt.width, tt.height, tt.msgLen)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.Equal(t, 300, Capacity(10, 10))
	assert.Equal(t, 36, MaxMessageLen(10, 10))
	assert.Equal(t, -1, MaxMessageLen(1, 1))
	assert.Equal(t, 0, MaxMessageLen(3, 3))
}

func TestEncodeDecode(t *testing.T) {
	test := []struct {
		name          string
		width, height int
		msg           []byte
	}{
		{"empty", 3, 3, []byte{}},
		{"nil", 3, 3, nil},
		{"Hi", 10, 10, []byte("Hi")},
		{"exact_fit", 8, 1, []byte("ab")},
		{"unicode", 40, 40, []byte("こんにちはHello🍣")},
		{"binary_no_zero", 16, 16, []byte{0x01, 0xFF, 0x80, 0x7F}},
		{"non_square", 31, 7, bytes.Repeat([]byte("xyz"), 20)},
		{"full", 64, 64, bytes.Repeat([]byte{0xA5}, MaxMessageLen(64, 64))},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			src := gradient(tt.width, tt.height)
			dist, err := Encode(src, tt.msg)
			require.NoError(t, err)
			got := Decode(dist)
			assert.Equal(t, string(tt.msg), string(got))
			assert.NotNil(t, got)
		})
	}
}

func TestEncodeBlackImage(t *testing.T) {
	src := NewPixelBuffer(10, 10)
	dist, err := Encode(src, []byte("Hi"))
	require.NoError(t, err)
	assert.Equal(t, []byte("Hi"), Decode(dist))

	// 'H' = 0b01001000, 'i' = 0b01101001, then the terminator
	exp := []uint8{
		0, 1, 0, 0, 1, 0, 0, 0,
		0, 1, 1, 0, 1, 0, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	assert.Equal(t, exp, dist.Pix[:24])
	// nothing after the payload is touched
	assert.Equal(t, make([]uint8, len(dist.Pix)-24), dist.Pix[24:])
}

func TestEncodeCapacityExceeded(t *testing.T) {
	test := []struct {
		name string
		src  *PixelBuffer
		msg  []byte
	}{
		{"1x1_empty", gradient(1, 1), nil},
		{"1x1_message", gradient(1, 1), []byte("a")},
		{"2x2_OK", gradient(2, 2), []byte("OK")},
		{"10x10_too_long", gradient(10, 10), bytes.Repeat([]byte("a"), 37)},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.src.Clone()
			dist, err := Encode(tt.src, tt.msg)
			assert.ErrorIs(t, err, ErrCapacityExceeded)
			assert.Nil(t, dist)
			assert.Equal(t, before, tt.src)
		})
	}
}

func TestEncodeInvalidInput(t *testing.T) {
	test := []struct {
		name string
		src  *PixelBuffer
	}{
		{"nil", nil},
		{"zero", &PixelBuffer{}},
		{"short_pix", &PixelBuffer{Width: 4, Height: 4, Pix: make([]uint8, 47)}},
		{"negative", &PixelBuffer{Width: -1, Height: 4}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.src, []byte("a"))
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.NotPanics(t, func() {
				assert.Empty(t, Decode(tt.src))
			})
		})
	}
}

func TestEncodeDoesNotMutateSource(t *testing.T) {
	src := gradient(20, 20)
	before := src.Clone()
	dist, err := Encode(src, []byte("hidden"))
	require.NoError(t, err)
	assert.Equal(t, before, src)
	assert.NotEqual(t, src.Pix, dist.Pix)
}

func TestEncodeDeterministic(t *testing.T) {
	src := gradient(25, 13)
	a, err := Encode(src, []byte("same message"))
	require.NoError(t, err)
	b, err := Encode(src, []byte("same message"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeOnlyTouchesLSB(t *testing.T) {
	src := gradient(30, 30)
	msg := []byte("only the lowest bit changes")
	dist, err := Encode(src, msg)
	require.NoError(t, err)
	payloadBits := (len(msg) + 1) * 8
	for i := range src.Pix {
		assert.Equal(t, src.Pix[i]&0xFE, dist.Pix[i]&0xFE, "channel %d", i)
		if i >= payloadBits {
			assert.Equal(t, src.Pix[i], dist.Pix[i], "channel %d", i)
		}
	}
}

func TestDecodeWithoutTerminator(t *testing.T) {
	// 3x3 image: 27 bits, three complete bytes and three spare bits
	src := NewPixelBuffer(3, 3)
	for i := range src.Pix {
		src.Pix[i] = 1
	}
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, Decode(src))

	// 'A' = 0b01000001 in the first eight channels, no terminator after
	src = NewPixelBuffer(2, 2)
	for i, bit := range []uint8{0, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1} {
		src.Pix[i] = bit
	}
	assert.Equal(t, []byte("A"), Decode(src))
}

func TestDecodeStopsAtTerminator(t *testing.T) {
	src := gradient(20, 20)
	dist, err := Encode(src, []byte("abc"))
	require.NoError(t, err)
	// overwrite a later region with something that is not a terminator
	for i := 64; i < len(dist.Pix); i++ {
		dist.Pix[i] |= 1
	}
	assert.Equal(t, []byte("abc"), Decode(dist))
}

// encodeColumnMajor embeds like Encode but walks columns first.
func encodeColumnMajor(src *PixelBuffer, msg []byte) *PixelBuffer {
	dist := src.Clone()
	data := append(append([]byte{}, msg...), Terminator)
	at := 0
	for x := range dist.Width {
		for y := range dist.Height {
			i := (y*dist.Width + x) * 3
			for c := range 3 {
				if at >= len(data)*8 {
					return dist
				}
				bit := (data[at/8] >> uint(7-at%8)) & 1
				dist.Pix[i+c] = dist.Pix[i+c]&0xFE | bit
				at++
			}
		}
	}
	return dist
}

func TestScanOrderMatters(t *testing.T) {
	src := NewPixelBuffer(10, 10)
	msg := []byte("Hi")
	require.NoError(t, CheckCapacity(src.Width, src.Height, len(msg)))

	dist := encodeColumnMajor(src, msg)
	assert.NotEqual(t, msg, Decode(dist))

	rowMajor, err := Encode(src, msg)
	require.NoError(t, err)
	assert.Equal(t, msg, Decode(rowMajor))
}
