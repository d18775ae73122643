package handlers

import (
	"time"

	"github.com/Kaesebrot84/hips-lib/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, logger *zap.Logger, version string) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"X-Stego-PSNR", "X-Stego-Capacity", "X-Stego-Message", "Content-Disposition"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	stegoHandler := NewStegoHandler(logger, cfg.MaxUploadBytes(), cfg.PSNRThreshold, version)

	// API Routes
	api := router.Group("/api/v1")
	{
		api.GET("/health", stegoHandler.HealthCheck)

		stego := api.Group("/stego")
		{
			stego.POST("/hide", stegoHandler.HideSecret)
			stego.POST("/extract", stegoHandler.ExtractSecret)
			stego.POST("/capacity", stegoHandler.Capacity)
		}
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
