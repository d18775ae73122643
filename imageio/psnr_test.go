package imageio_test

import (
	"image"
	"math"
	"testing"

	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/stretchr/testify/require"
)

func TestCalculatePSNR(t *testing.T) {
	original := gradient(10, 10)

	require.True(t, math.IsInf(imageio.CalculatePSNR(original, imageio.Clone(original)), 1))

	// Flipping one LSB per channel everywhere gives MSE = 1.
	stego := imageio.Clone(original)
	for i := 0; i < len(stego.Pix); i += 4 {
		stego.Pix[i] ^= 1
		stego.Pix[i+1] ^= 1
		stego.Pix[i+2] ^= 1
	}
	require.InDelta(t, 20*math.Log10(255), imageio.CalculatePSNR(original, stego), 1e-9)

	// Alpha differences are ignored.
	alpha := imageio.Clone(original)
	alpha.Pix[3] = 0
	require.True(t, math.IsInf(imageio.CalculatePSNR(original, alpha), 1))

	require.Zero(t, imageio.CalculatePSNR(original, gradient(5, 5)))
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	require.Zero(t, imageio.CalculatePSNR(empty, empty))
}

func TestValidatePSNR(t *testing.T) {
	require.True(t, imageio.ValidatePSNR(math.Inf(1), 40))
	require.True(t, imageio.ValidatePSNR(48.1, 40))
	require.False(t, imageio.ValidatePSNR(30, 40))
}
