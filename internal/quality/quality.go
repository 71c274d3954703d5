package quality

import (
	"fmt"
	"math"

	stegano "github.com/yyyoichi/stegano_zero"
	"gonum.org/v1/gonum/mat"
)

// Report compares a cover buffer with its stego version.
type Report struct {
	// PSNR in dB over all RGB channels; +Inf when nothing changed.
	PSNR float64
	// Changed is the number of channels whose value differs.
	Changed int
	// Total is the number of channels compared.
	Total int
}

func Compare(cover, stego *stegano.PixelBuffer) (Report, error) {
	if cover == nil || stego == nil {
		return Report{}, fmt.Errorf("nil pixel buffer")
	}
	if cover.Width != stego.Width || cover.Height != stego.Height {
		return Report{}, fmt.Errorf("size mismatch %dx%d != %dx%d", cover.Width, cover.Height, stego.Width, stego.Height)
	}
	n := len(cover.Pix)
	if n == 0 || n != len(stego.Pix) || n != cover.Width*cover.Height*3 {
		return Report{}, fmt.Errorf("malformed pixel data")
	}

	var r = Report{Total: n}
	diff := make([]float64, n)
	for i := range diff {
		diff[i] = float64(cover.Pix[i]) - float64(stego.Pix[i])
		if diff[i] != 0 {
			r.Changed++
		}
	}
	// Treat as a matrix of height rows x width*3 columns
	d := mat.NewDense(cover.Height, cover.Width*3, diff)
	norm := mat.Norm(d, 2)
	mse := norm * norm / float64(n)
	if mse == 0 {
		r.PSNR = math.Inf(1)
		return r, nil
	}
	r.PSNR = 10 * math.Log10(255*255/mse)
	return r, nil
}
