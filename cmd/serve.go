package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kaesebrot84/hips-lib/config"
	"github.com/Kaesebrot84/hips-lib/handlers"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the steganography HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("port", config.DefaultPort, "The port or address to listen on for HTTP connections")
	flags.StringSlice("allow-origins", config.DefaultAllowOrigins, "Origins allowed by CORS")
	flags.Int("max-upload-mb", config.DefaultMaxUploadMB, "Maximum size of an upload in megabytes")
	flags.Float64("psnr-threshold", config.DefaultPSNRThreshold, "PSNR in dB below which a warning is logged")

	if err := vip.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewRouter(cfg, logger, Version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Strings("allow_origins", cfg.AllowOrigins),
			zap.Int("max_upload_mb", cfg.MaxUploadMB))
		logger.Info("API endpoints",
			zap.String("hide", "POST /api/v1/stego/hide"),
			zap.String("extract", "POST /api/v1/stego/extract"),
			zap.String("capacity", "POST /api/v1/stego/capacity"),
			zap.String("health", "GET /api/v1/health"))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("failed to start server", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
