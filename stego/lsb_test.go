package stego_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Kaesebrot84/hips-lib/crypto"
	"github.com/Kaesebrot84/hips-lib/models"
	"github.com/Kaesebrot84/hips-lib/stego"
	"github.com/stretchr/testify/require"
)

func pixels(n int) []models.Color {
	return make([]models.Color, n)
}

func TestHideFindSecretCol(t *testing.T) {
	px := pixels(30)

	// Pixels with no secret
	_, ok := stego.FindSecretCol(px, "")
	require.False(t, ok)

	secret := "0123456789"
	require.NoError(t, stego.HideSecretCol(px, secret, ""))

	got, ok := stego.FindSecretCol(px, "")
	require.True(t, ok)
	require.Equal(t, secret, got)

	// Pixels which cannot hold any secret
	px = pixels(1)
	require.ErrorIs(t, stego.HideSecretCol(px, secret, ""), stego.ErrInsufficientCapacity)
	_, ok = stego.FindSecretCol(px, "")
	require.False(t, ok)

	// Secret too long for the given pixels
	px = pixels(5)
	require.ErrorIs(t, stego.HideSecretCol(px, "ab", ""), stego.ErrInsufficientCapacity)

	// Minimum pixel count for a single byte secret
	require.NoError(t, stego.HideSecretCol(px, "a", ""))
	got, ok = stego.FindSecretCol(px, "")
	require.True(t, ok)
	require.Equal(t, "a", got)

	// Empty secret
	require.ErrorIs(t, stego.HideSecretCol(pixels(30), "", ""), stego.ErrEmptySecret)
}

func TestEmptySecretRejectedForAnyCarrier(t *testing.T) {
	for _, n := range []int{0, 1, 3, 300} {
		require.ErrorIs(t, stego.HideSecretCol(pixels(n), "", ""), stego.ErrEmptySecret)
		require.ErrorIs(t, stego.HideSecretCol(pixels(n), "", "password"), stego.ErrEmptySecret)
	}
}

func TestRoundTrip(t *testing.T) {
	secrets := []string{
		"a",
		"0123456789",
		"Lorem ipsum dolor sit amet, consectetur adipisici elit, sed eiusmod tempor incidunt ut labore et dolore magna aliqua.",
		"héllo wörld",
		"日本語のテキスト",
		"emoji 🎉🚀",
		"line\nbreaks\tand\ttabs",
		"trailing nul\x00",
		strings.Repeat("x", 1000),
	}
	passwords := []string{"", "a", "password", "pässwörd", "Lorem Ipsum is the best ipsum."}

	for _, secret := range secrets {
		for _, password := range passwords {
			if len(secret) == 1 && password != "" && secret[0] == password[0] {
				// Masks to a single NUL, see TestOneByteSecretMaskedToNulIsNotFound.
				continue
			}
			px := pixels(len(secret) * stego.PixelsPerByte)
			require.NoError(t, stego.HideSecretCol(px, secret, password))

			got, ok := stego.FindSecretCol(px, password)
			require.True(t, ok, "secret %q password %q", secret, password)
			require.Equal(t, secret, got)
		}
	}
}

func TestCapacityBoundary(t *testing.T) {
	secret := "boundary"

	exact := pixels(len(secret) * stego.PixelsPerByte)
	require.NoError(t, stego.HideSecretCol(exact, secret, ""))

	short := pixels(len(secret)*stego.PixelsPerByte - 1)
	for i := range short {
		short[i] = models.FromRGBA(0xAA, 0x55, 0xAA, 0x7F)
	}
	before := append([]models.Color(nil), short...)

	require.ErrorIs(t, stego.HideSecretCol(short, secret, ""), stego.ErrInsufficientCapacity)
	require.Equal(t, before, short, "carrier must not be modified on failure")
}

func TestCapacityUsesByteLength(t *testing.T) {
	// "é" is two bytes in UTF-8
	require.ErrorIs(t, stego.HideSecretCol(pixels(3), "é", ""), stego.ErrInsufficientCapacity)
	require.NoError(t, stego.HideSecretCol(pixels(6), "é", ""))
}

func TestBitLayout(t *testing.T) {
	px := pixels(6)
	require.NoError(t, stego.HideSecretCol(px, "ab", ""))

	// 'a' = 0b0110_0001, 'b' = 0b0110_0010
	want := []models.Color{
		{R: 1, G: 0, B: 0},
		{R: 0, G: 0, B: 1},
		{R: 1, G: 0, B: 1}, // more bytes follow
		{R: 0, G: 1, B: 0},
		{R: 0, G: 0, B: 1},
		{R: 1, G: 0, B: 0}, // last byte
	}
	require.Equal(t, want, px)
}

func TestEmbedPreservesAlphaAndHighBits(t *testing.T) {
	px := pixels(9)
	for i := range px {
		px[i] = models.FromRGBA(0xF0, 0x81, 0x3E, uint8(i*20))
	}

	require.NoError(t, stego.HideSecretCol(px, "xyz", "pw"))

	for i, p := range px {
		require.Equal(t, uint8(i*20), p.A)
		require.Equal(t, uint8(0xF0), p.R&0xFE)
		require.Equal(t, uint8(0x80), p.G&0xFE)
		require.Equal(t, uint8(0x3E), p.B&0xFE)
	}
}

func TestEmbedLeavesRemainingPixelsUntouched(t *testing.T) {
	px := pixels(12)
	for i := range px {
		px[i] = models.FromRGB(0xFF, 0xFF, 0xFF)
	}

	require.NoError(t, stego.HideSecretCol(px, "a", ""))
	for _, p := range px[3:] {
		require.Equal(t, models.FromRGB(0xFF, 0xFF, 0xFF), p)
	}
}

func TestOverwriteWithShorterSecret(t *testing.T) {
	px := pixels(60)
	require.NoError(t, stego.HideSecretCol(px, "a much longer secret", ""))
	require.NoError(t, stego.HideSecretCol(px, "short", ""))

	got, ok := stego.FindSecretCol(px, "")
	require.True(t, ok)
	require.Equal(t, "short", got)
}

func TestWrongPassword(t *testing.T) {
	secret := "Lorem ipsum"
	px := pixels(100)
	require.NoError(t, stego.HideSecretCol(px, secret, "password"))

	got, ok := stego.FindSecretCol(px, "drowssap")
	require.True(t, !ok || got != secret)

	// ASCII XOR ASCII stays valid UTF-8, so garbage is reported as found.
	require.True(t, ok)
	require.Len(t, got, len(secret))

	got, ok = stego.FindSecretCol(px, "")
	require.True(t, !ok || got != secret)
}

func TestFindSecretOnBlankCarrier(t *testing.T) {
	_, ok := stego.FindSecretCol(pixels(30), "password")
	require.False(t, ok)

	_, ok = stego.FindSecretCol(nil, "")
	require.False(t, ok)

	_, ok = stego.FindSecretCol(pixels(2), "")
	require.False(t, ok)
}

func TestSingleNulSecretIsNotFound(t *testing.T) {
	px := pixels(3)
	require.NoError(t, stego.HideSecretCol(px, "\x00", ""))

	_, ok := stego.FindSecretCol(px, "")
	require.False(t, ok)
}

func TestOneByteSecretMaskedToNulIsNotFound(t *testing.T) {
	for b := 1; b < 128; b++ {
		secret := string(rune(b))

		px := pixels(3)
		require.NoError(t, stego.HideSecretCol(px, secret, secret))
		_, ok := stego.FindSecretCol(px, secret)
		require.False(t, ok, "byte %#x", b)

		other := string(rune(b%127 + 1))
		px = pixels(3)
		require.NoError(t, stego.HideSecretCol(px, secret, other))
		got, ok := stego.FindSecretCol(px, other)
		require.True(t, ok, "byte %#x password %q", b, other)
		require.Equal(t, secret, got)
	}
}

func TestMaskedSecretNeedNotBeUTF8(t *testing.T) {
	// "é" is 0xC3 0xA9, masked with 'a' it starts with a continuation byte.
	secret, password := "é", "a"
	require.False(t, utf8.Valid(crypto.OTP([]byte(secret), []byte(password))))

	px := pixels(6)
	require.NoError(t, stego.HideSecretCol(px, secret, password))
	got, ok := stego.FindSecretCol(px, password)
	require.True(t, ok)
	require.Equal(t, secret, got)
}

func TestFindSecretStopsAtCarrierEnd(t *testing.T) {
	// Every termination flag says "more follows" and the carrier ends with a
	// partial group.
	px := pixels(7)
	for i := range px {
		px[i] = models.FromRGB(0, 0, 1)
	}

	// bits 0,0,1 | 0,0,1 | 0,0 -> 0b0010_0100 = '$'
	got, ok := stego.FindSecretCol(px, "")
	require.True(t, ok)
	require.Equal(t, "$$", got)
}

func TestFindSecretInvalidUTF8(t *testing.T) {
	px := pixels(3)
	// 0xFF in a single byte is never valid UTF-8
	for i := range px {
		px[i] = models.FromRGB(1, 1, 1)
	}
	px[2].B = 0

	_, ok := stego.FindSecretCol(px, "")
	require.False(t, ok)
}

func TestLSBSteganographyConfig(t *testing.T) {
	lsb := stego.NewLSBSteganography(&models.StegoConfig{Password: "password"})
	carrier := stego.PixelBuffer(pixels(60))

	require.NoError(t, lsb.Embed(carrier, "configured"))

	got, ok := lsb.Extract(carrier)
	require.True(t, ok)
	require.Equal(t, "configured", got)

	got, ok = stego.NewLSBSteganography(nil).Extract(carrier)
	require.True(t, !ok || got != "configured")
}

func TestCalculateCapacity(t *testing.T) {
	require.Equal(t, 0, stego.CalculateCapacity(stego.PixelBuffer(pixels(2))))
	require.Equal(t, 1, stego.CalculateCapacity(stego.PixelBuffer(pixels(5))))
	require.Equal(t, 10, stego.CalculateCapacity(stego.PixelBuffer(pixels(30))))
}
