// Package models contain needed models
package models

// Color is a single RGBA pixel.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// NewColor returns a fully transparent black pixel.
func NewColor() Color {
	return FromRGBA(0, 0, 0, 0)
}

// FromRGB returns an opaque pixel.
func FromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func FromRGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// HideResponse is returned as JSON when hiding a secret fails
type HideResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExtractResponse represents the response after extraction
type ExtractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Secret  string `json:"secret,omitempty"`
}

// CapacityResponse describes how much text fits into an uploaded image
type CapacityResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Format         string `json:"format,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Pixels         int    `json:"pixels,omitempty"`
	MaxSecretBytes int    `json:"max_secret_bytes,omitempty"`
}

// ImageMetadata represents metadata about a decoded image
type ImageMetadata struct {
	Format string
	Width  int
	Height int
	Pixels int
}

// StegoConfig represents configuration for steganography operations
type StegoConfig struct {
	// Password masks the secret when non-empty.
	Password string
}
