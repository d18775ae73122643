// Package handlers is made to handle requests
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Kaesebrot84/hips-lib/crypto"
	"github.com/Kaesebrot84/hips-lib/imageio"
	"github.com/Kaesebrot84/hips-lib/models"
	"github.com/Kaesebrot84/hips-lib/stego"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StegoHandler struct {
	imageCodec     *imageio.ImageCodec
	logger         *zap.Logger
	maxUploadBytes int64
	psnrThreshold  float64
	version        string
}

// NewStegoHandler creates the API handlers. version is reported by the health
// check.
func NewStegoHandler(logger *zap.Logger, maxUploadBytes int64, psnrThreshold float64, version string) *StegoHandler {
	return &StegoHandler{
		imageCodec:     imageio.NewImageCodec(),
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		psnrThreshold:  psnrThreshold,
		version:        version,
	}
}

func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Steganography API is running",
		"version": h.version,
	})
}

func (h *StegoHandler) HideSecret(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		c.JSON(http.StatusBadRequest, models.HideResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	password := c.PostForm("password")
	if password != "" {
		if err := crypto.ValidateKey(password); err != nil {
			c.JSON(http.StatusBadRequest, models.HideResponse{
				Success: false,
				Message: fmt.Sprintf("Invalid password: %v", err),
			})
			return
		}
	}

	secret, err := h.readSecret(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.HideResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	imageName, imageData, err := readUpload(c, "image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.HideResponse{
			Success: false,
			Message: "Image file is required",
		})
		return
	}

	img, meta, err := h.imageCodec.Decode(imageData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.HideResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode image: %v", err),
		})
		return
	}

	original := imageio.Clone(img)
	carrier := stego.NewImageCarrier(img)
	capacity := stego.CalculateCapacity(carrier)

	if err := stego.HideSecret(carrier, secret, password); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, stego.ErrEmptySecret) || errors.Is(err, stego.ErrInsufficientCapacity) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.HideResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to hide secret: %v (capacity: %d bytes)", err, capacity),
		})
		return
	}

	psnr := imageio.CalculatePSNR(original, img)
	if !imageio.ValidatePSNR(psnr, h.psnrThreshold) {
		h.logger.Warn("stego image quality below threshold",
			zap.String("image", imageName),
			zap.Float64("psnr", psnr),
			zap.Float64("threshold", h.psnrThreshold))
	}

	outputFormat := imageio.OutputFormat(meta.Format)
	stegoImage, err := h.imageCodec.Encode(img, outputFormat)
	if err != nil {
		h.logger.Error("failed to encode stego image", zap.String("format", outputFormat), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.HideResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to encode stego image: %v", err),
		})
		return
	}

	h.logger.Info("secret hidden",
		zap.String("image", imageName),
		zap.String("input_format", meta.Format),
		zap.String("output_format", outputFormat),
		zap.Int("pixels", meta.Pixels),
		zap.Int("secret_bytes", len(secret)),
		zap.Bool("password", password != ""),
		zap.Float64("psnr", psnr))

	baseFilename := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	outputFilename := fmt.Sprintf("%s_stego%s", baseFilename, imageio.Extension(outputFormat))

	// Set headers for file download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputFilename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(stegoImage)))

	// Include metadata about the steganography operation
	c.Header("X-Stego-Method", "RGB LSB")
	c.Header("X-Stego-Message", "Secret message successfully hidden in image")
	c.Header("X-Stego-Capacity", fmt.Sprintf("%d", capacity))
	c.Header("X-Stego-PSNR", fmt.Sprintf("%.2f", psnr))

	c.Data(http.StatusOK, imageio.ContentType(outputFormat), stegoImage)
}

func (h *StegoHandler) ExtractSecret(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	password := c.PostForm("password")
	if password != "" {
		if err := crypto.ValidateKey(password); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Message: fmt.Sprintf("Invalid password: %v", err),
			})
			return
		}
	}

	imageName, imageData, err := readUpload(c, "image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: "Image file is required",
		})
		return
	}

	img, _, err := h.imageCodec.Decode(imageData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ExtractResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode image: %v", err),
		})
		return
	}

	secret, ok := stego.FindSecret(stego.NewImageCarrier(img), password)
	if !ok {
		h.logger.Debug("no secret found", zap.String("image", imageName))
		c.JSON(http.StatusNotFound, models.ExtractResponse{
			Success: false,
			Message: "No secret found. Possible causes: (1) Image contains no hidden text, (2) Wrong password, (3) Image was re-encoded with a lossy format after hiding.",
		})
		return
	}

	h.logger.Info("secret extracted",
		zap.String("image", imageName),
		zap.Int("secret_bytes", len(secret)),
		zap.Bool("password", password != ""))

	c.JSON(http.StatusOK, models.ExtractResponse{
		Success: true,
		Message: "Secret successfully extracted",
		Secret:  secret,
	})
}

func (h *StegoHandler) Capacity(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to parse form: %v", err),
		})
		return
	}

	_, imageData, err := readUpload(c, "image_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: "Image file is required",
		})
		return
	}

	img, meta, err := h.imageCodec.Decode(imageData)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.CapacityResponse{
			Success: false,
			Message: fmt.Sprintf("Failed to decode image: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, models.CapacityResponse{
		Success:        true,
		Message:        "Capacity calculated",
		Format:         meta.Format,
		Width:          meta.Width,
		Height:         meta.Height,
		Pixels:         meta.Pixels,
		MaxSecretBytes: stego.CalculateCapacity(stego.NewImageCarrier(img)),
	})
}

func (h *StegoHandler) parseForm(c *gin.Context) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	return c.Request.ParseMultipartForm(h.maxUploadBytes)
}

// readSecret takes the secret from the "secret" field, falling back to an
// uploaded "secret_file".
func (h *StegoHandler) readSecret(c *gin.Context) (string, error) {
	if secret := c.PostForm("secret"); secret != "" {
		return secret, nil
	}

	if _, data, err := readUpload(c, "secret_file"); err == nil {
		if !utf8.Valid(data) {
			return "", errors.New("secret file must be UTF-8 text")
		}
		return string(data), nil
	}

	return "", errors.New("secret is required")
}

func readUpload(c *gin.Context, field string) (string, []byte, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}

	return header.Filename, data, nil
}
