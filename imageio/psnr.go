package imageio

import (
	"image"
	"math"
)

// CalculatePSNR compares the R, G and B channels of two images. Alpha is
// never written by the codec and is ignored.
func CalculatePSNR(original, stego *image.NRGBA) float64 {
	if original.Bounds().Size() != stego.Bounds().Size() {
		return 0.0
	}

	size := original.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return 0.0
	}

	var mse float64
	ob, sb := original.Bounds(), stego.Bounds()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			oi := original.PixOffset(ob.Min.X+x, ob.Min.Y+y)
			si := stego.PixOffset(sb.Min.X+x, sb.Min.Y+y)
			for c := 0; c < 3; c++ {
				diff := float64(original.Pix[oi+c]) - float64(stego.Pix[si+c])
				mse += diff * diff
			}
		}
	}
	mse /= float64(size.X * size.Y * 3)

	// If MSE is 0, images are identical
	if mse == 0 {
		return math.Inf(1)
	}

	// PSNR = 20 * log10(MAX / sqrt(MSE)), MAX = 255 for 8-bit channels
	maxSignalValue := 255.0
	psnr := 20 * math.Log10(maxSignalValue/math.Sqrt(mse))

	return psnr
}

func ValidatePSNR(psnr float64, threshold float64) bool {
	if math.IsInf(psnr, 1) {
		return true // Infinite PSNR is always good
	}
	return psnr >= threshold
}
