package lsb

import (
	"fmt"

	"github.com/yyyoichi/stegano_zero/internal/bitconv"
)

// Channels is the number of embeddable channels per pixel (R, G, B).
const Channels = 3

// Capacity returns the number of bits a width x height RGB image can carry.
func Capacity(width, height int) int {
	return width * height * Channels
}

func Enable(width, height int, markLen int) error {
	if total := Capacity(width, height); total < markLen {
		return fmt.Errorf("total bits %d < payload bits %d", total, markLen)
	}
	return nil
}

// Embed writes mark into the least significant bits of pix, which holds
// packed RGB pixels in row-major order. Rows are scanned top to bottom,
// pixels left to right, channels R, G, B. Channels after the last mark bit
// are left as they are. Callers must check Enable first.
func Embed(pix []uint8, width, height int, mark EmbedMark) {
	var (
		bits   = mark.Len()
		at     = 0
		stride = width * Channels
	)
	for y := range height {
		row := pix[y*stride : (y+1)*stride : (y+1)*stride]
		for x := range width {
			px := row[x*Channels : (x+1)*Channels : (x+1)*Channels]
			for c := range Channels {
				if at >= bits {
					return
				}
				px[c] = bitconv.SetLSB(px[c], mark.GetBit(at))
				at++
			}
		}
	}
}

// Extract feeds the least significant bits of pix to mark in the same order
// Embed writes them, until mark reports completion or the pixels run out.
func Extract(pix []uint8, width, height int, mark ExtractMark) {
	stride := width * Channels
	for y := range height {
		row := pix[y*stride : (y+1)*stride : (y+1)*stride]
		for x := range width {
			px := row[x*Channels : (x+1)*Channels : (x+1)*Channels]
			for c := range Channels {
				if mark.PutBit(px[c] & 1) {
					return
				}
			}
		}
	}
}
