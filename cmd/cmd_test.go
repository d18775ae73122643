package cmd

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	hideOpts.out, hideOpts.password = "", ""
	findOpts.password = ""

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeCover(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x * y), A: 255})
		}
	}
	require.NoError(t, imageio.NewImageCodec().Save(path, img))
}

func TestHideFindCapacity(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cover.png")
	writeCover(t, in, 16, 16)

	out, err := run(t, "capacity", "--in", in)
	require.NoError(t, err)
	require.Equal(t, "png 16x16, 256 pixels, up to 85 secret bytes\n", out)

	out, err = run(t, "hide", "--in", in, "--secret", "Lorem ipsum", "--password", "password")
	require.NoError(t, err)
	stegoPath := filepath.Join(dir, "cover_stego.png")
	require.Equal(t, "Secret hidden in "+stegoPath+"\n", out)

	out, err = run(t, "find", "--in", stegoPath, "--password", "password")
	require.NoError(t, err)
	require.Equal(t, "Lorem ipsum\n", out)

	out, err = run(t, "find", "--in", stegoPath, "--password", "wrong")
	if err == nil {
		require.NotEqual(t, "Lorem ipsum\n", out)
	}
}

func TestHideExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cover.png")
	writeCover(t, in, 8, 8)

	dst := filepath.Join(dir, "secret.bmp")
	_, err := run(t, "hide", "--in", in, "--out", dst, "--secret", "bmp output")
	require.NoError(t, err)

	out, err := run(t, "find", "--in", dst)
	require.NoError(t, err)
	require.Equal(t, "bmp output\n", out)

	_, err = run(t, "hide", "--in", in, "--out", filepath.Join(dir, "lossy.jpg"), "--secret", "x")
	require.ErrorIs(t, err, imageio.ErrLossyFormat)
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tiny.png")
	writeCover(t, in, 1, 1)

	_, err := run(t, "hide", "--in", in, "--secret", "too long")
	require.Error(t, err)

	_, err = run(t, "hide", "--in", in, "--secret", "a", "--password", strings.Repeat("p", 257))
	require.Error(t, err)

	_, err = run(t, "find", "--in", in)
	require.ErrorIs(t, err, errNoSecret)

	_, err = run(t, "find", "--in", filepath.Join(dir, "missing.png"))
	require.Error(t, err)

	_, err = run(t, "capacity", "--in", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = newLogger("loud")
	require.Error(t, err)
}
