// Package imageio decodes and encodes carrier images
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kaesebrot84/hips-lib/models"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrLossyFormat is returned when encoding to a format whose compression
	// would destroy the hidden bits.
	ErrLossyFormat = errors.New("lossy image format cannot carry a secret")
)

type ImageCodec struct{}

func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// DetectFormat sniffs the image format from its magic bytes.
func DetectFormat(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG, nil
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, []byte("GIF8")):
		return FormatGIF, nil
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP, nil
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF, nil
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP, nil
	}
	return "", ErrUnsupportedFormat
}

// Decode decodes an image and converts it to straight 8-bit RGBA.
func (ic *ImageCodec) Decode(data []byte) (*image.NRGBA, *models.ImageMetadata, error) {
	format, err := DetectFormat(data)
	if err != nil {
		return nil, nil, err
	}

	r := bytes.NewReader(data)
	var img image.Image

	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	case FormatGIF:
		img, err = gif.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	case FormatWebP:
		img, err = webp.Decode(r)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	nrgba := ToNRGBA(img)
	size := nrgba.Bounds().Size()

	metadata := &models.ImageMetadata{
		Format: format,
		Width:  size.X,
		Height: size.Y,
		Pixels: size.X * size.Y,
	}

	return nrgba, metadata, nil
}

// Load reads and decodes the image file at path.
func (ic *ImageCodec) Load(path string) (*image.NRGBA, *models.ImageMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	return ic.Decode(data)
}

// Encode encodes img losslessly in the given format.
func (ic *ImageCodec) Encode(img image.Image, format string) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(buf, img)
	case FormatBMP:
		err = bmp.Encode(buf, img)
	case FormatTIFF:
		err = tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatJPEG, FormatWebP:
		return nil, fmt.Errorf("%w: %s", ErrLossyFormat, format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// Save encodes img into the file at path, picking the format by extension.
func (ic *ImageCodec) Save(path string, img image.Image) error {
	format, err := FormatFromExtension(path)
	if err != nil {
		return err
	}

	data, err := ic.Encode(img, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func FormatFromExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".gif":
		return FormatGIF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// OutputFormat returns the format a stego image decoded from inputFormat is
// written in. Lossy and palette formats fall back to PNG.
func OutputFormat(inputFormat string) string {
	switch inputFormat {
	case FormatBMP, FormatTIFF:
		return inputFormat
	}
	return FormatPNG
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tiff"
	}
	return "." + format
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if format == FormatBMP {
		return "image/bmp"
	}
	return "image/" + format
}

// ToNRGBA returns img as *image.NRGBA, copying it when it has another type.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)
	return nrgba
}

// Clone returns a deep copy of img.
func Clone(img *image.NRGBA) *image.NRGBA {
	out := &image.NRGBA{
		Pix:    make([]byte, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}
