// Package stego hides text in the least significant bits of pixel channels.
//
// Every secret byte occupies three consecutive pixels. Bits 0-2 go into the
// R, G and B LSBs of the first pixel, bits 3-5 into the second pixel and bits
// 6-7 into the R and G LSBs of the third. The B LSB of the third pixel is the
// termination flag: 1 when another byte follows, 0 after the last byte.
//
// The flag is the only end-of-payload marker. A carrier whose flag bits were
// damaged is silently truncated or over-read; nothing in the format detects
// it. Extraction also cannot tell "no secret", "wrong password" and
// "corrupted carrier" apart, all of them report that nothing was found.
package stego

import (
	"errors"
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/Kaesebrot84/hips-lib/bitops"
	"github.com/Kaesebrot84/hips-lib/crypto"
	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/Kaesebrot84/hips-lib/models"
)

// PixelsPerByte is the number of carrier pixels used for one secret byte.
const PixelsPerByte = 3

var (
	// ErrEmptySecret is returned when there is nothing to hide.
	ErrEmptySecret = errors.New("empty secret, use at least one character in the secret text")
	// ErrInsufficientCapacity is returned when the carrier holds fewer than
	// PixelsPerByte pixels per secret byte.
	ErrInsufficientCapacity = errors.New("secret is too long to be hidden in this carrier")
	// ErrImageLoad is returned when the carrier image cannot be read or decoded.
	ErrImageLoad = errors.New("failed loading input image")
)

type LSBSteganography struct {
	config *models.StegoConfig
}

func NewLSBSteganography(config *models.StegoConfig) *LSBSteganography {
	if config == nil {
		config = &models.StegoConfig{}
	}
	return &LSBSteganography{
		config: config,
	}
}

// CalculateCapacity returns the longest secret, in bytes, the carrier can hold.
func CalculateCapacity(c Carrier) int {
	return c.Len() / PixelsPerByte
}

// Embed writes secret into the carrier. The carrier is left untouched when an
// error is returned.
func (lsb *LSBSteganography) Embed(c Carrier, secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}

	if c.Len() < len(secret)*PixelsPerByte {
		return fmt.Errorf("%w: need %d pixels, carrier has %d",
			ErrInsufficientCapacity, len(secret)*PixelsPerByte, c.Len())
	}

	payload := []byte(secret)
	if lsb.config.Password != "" {
		payload = crypto.NewXORCipher(lsb.config.Password).Transform(payload)
	}

	for byteIdx, b := range payload {
		// Index of the first of three pixels
		base := PixelsPerByte * byteIdx
		last := byteIdx+1 == len(payload)

		bits := bitops.ToBitBuffer(b)
		for chunkIdx := 0; chunkIdx < PixelsPerByte; chunkIdx++ {
			n := base + chunkIdx
			chunk := bits[chunkIdx*3 : min(chunkIdx*3+3, len(bits))]

			px := c.At(n)
			px.R = bitops.SetLSB(px.R, chunk[0])
			px.G = bitops.SetLSB(px.G, chunk[1])

			if len(chunk) > 2 {
				px.B = bitops.SetLSB(px.B, chunk[2])
			} else {
				// Odd means more bytes follow, even terminates.
				px.B = bitops.SetLSB(px.B, !last)
			}

			c.Set(n, px)
		}
	}

	return nil
}

// Extract reads a secret from the carrier. The boolean is false when no
// secret could be recovered.
func (lsb *LSBSteganography) Extract(c Carrier) (string, bool) {
	if c.Len() < PixelsPerByte {
		return "", false
	}

	raw := make([]byte, 0)

	for base := 0; base+PixelsPerByte <= c.Len(); base += PixelsPerByte {
		p0, p1, p2 := c.At(base), c.At(base+1), c.At(base+2)

		var b byte
		b = bitops.SetBit(b, 0, bitops.GetLSB(p0.R))
		b = bitops.SetBit(b, 1, bitops.GetLSB(p0.G))
		b = bitops.SetBit(b, 2, bitops.GetLSB(p0.B))
		b = bitops.SetBit(b, 3, bitops.GetLSB(p1.R))
		b = bitops.SetBit(b, 4, bitops.GetLSB(p1.G))
		b = bitops.SetBit(b, 5, bitops.GetLSB(p1.B))
		b = bitops.SetBit(b, 6, bitops.GetLSB(p2.R))
		b = bitops.SetBit(b, 7, bitops.GetLSB(p2.G))

		raw = append(raw, b)

		if !bitops.GetLSB(p2.B) {
			break
		}
	}

	// A single NUL is a blank carrier. This also hides a one-byte secret
	// equal to the first password byte.
	if len(raw) == 0 || (len(raw) == 1 && raw[0] == 0) {
		return "", false
	}

	plain := raw
	if lsb.config.Password != "" {
		plain = crypto.NewXORCipher(lsb.config.Password).Transform(raw)
	}

	// Validate after unmasking, masked UTF-8 is often not UTF-8 itself.
	if !utf8.Valid(plain) {
		return "", false
	}

	return string(plain), true
}

// HideSecret hides secret in c, masked with password when it is not empty.
func HideSecret(c Carrier, secret, password string) error {
	return NewLSBSteganography(&models.StegoConfig{Password: password}).Embed(c, secret)
}

// FindSecret recovers a secret hidden with HideSecret.
func FindSecret(c Carrier, password string) (string, bool) {
	return NewLSBSteganography(&models.StegoConfig{Password: password}).Extract(c)
}

// HideSecretCol hides secret in a pixel slice in place.
func HideSecretCol(pixels []models.Color, secret, password string) error {
	return HideSecret(PixelBuffer(pixels), secret, password)
}

// FindSecretCol recovers a secret from a pixel slice.
func FindSecretCol(pixels []models.Color, password string) (string, bool) {
	return FindSecret(PixelBuffer(pixels), password)
}

// HideSecretImg loads the image at path and returns a copy holding secret.
// The file itself is not modified.
func HideSecretImg(path, secret, password string) (*image.NRGBA, error) {
	img, _, err := imageio.NewImageCodec().Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrImageLoad, path, err)
	}

	if err := HideSecret(NewImageCarrier(img), secret, password); err != nil {
		return nil, err
	}

	return img, nil
}

// FindSecretImg loads the image at path and searches it for a secret. The
// error is only set when the image could not be loaded.
func FindSecretImg(path, password string) (string, bool, error) {
	img, _, err := imageio.NewImageCodec().Load(path)
	if err != nil {
		return "", false, fmt.Errorf("%w '%s': %v", ErrImageLoad, path, err)
	}

	secret, ok := FindSecret(NewImageCarrier(img), password)
	return secret, ok, nil
}
