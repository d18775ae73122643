package stego

import (
	"image"

	"github.com/Kaesebrot84/hips-lib/models"
)

// Carrier is an ordered, index addressable sequence of pixels.
type Carrier interface {
	Len() int
	At(n int) models.Color
	Set(n int, c models.Color)
}

// PixelBuffer is a flat pixel carrier addressed by index.
type PixelBuffer []models.Color

func (pb PixelBuffer) Len() int { return len(pb) }

func (pb PixelBuffer) At(n int) models.Color { return pb[n] }

func (pb PixelBuffer) Set(n int, c models.Color) { pb[n] = c }

// ImageCarrier addresses the pixels of an image by a flat index. Index n maps
// to col = n / width and row = n % width, and the pixel is read at (row, col)
// relative to the image origin. Images written by earlier releases depend on
// this exact mapping.
type ImageCarrier struct {
	img *image.NRGBA
}

func NewImageCarrier(img *image.NRGBA) *ImageCarrier {
	return &ImageCarrier{img: img}
}

// Image returns the wrapped image. Writes through the carrier are visible in it.
func (ic *ImageCarrier) Image() *image.NRGBA {
	return ic.img
}

func (ic *ImageCarrier) Len() int {
	size := ic.img.Bounds().Size()
	return size.X * size.Y
}

// Position returns the image coordinates of the flat index n.
func (ic *ImageCarrier) Position(n int) (x, y int) {
	bounds := ic.img.Bounds()
	width := bounds.Dx()

	col := n / width
	row := n % width

	return bounds.Min.X + row, bounds.Min.Y + col
}

func (ic *ImageCarrier) At(n int) models.Color {
	x, y := ic.Position(n)
	i := ic.img.PixOffset(x, y)
	pix := ic.img.Pix[i : i+4 : i+4]
	return models.FromRGBA(pix[0], pix[1], pix[2], pix[3])
}

func (ic *ImageCarrier) Set(n int, c models.Color) {
	x, y := ic.Position(n)
	i := ic.img.PixOffset(x, y)
	pix := ic.img.Pix[i : i+4 : i+4]
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}
