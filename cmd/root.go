// Package cmd contains the hips command line interface
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Kaesebrot84/hips-lib/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the version of the binary.
var Version = "0.0.0"

var vip = viper.New()

var rootCmd = &cobra.Command{
	Use:   "hips",
	Short: "Hide text in the pixels of an image",
	Long: `hips hides text in the least significant bits of the red, green and blue
channels of an image and finds it again. An optional password masks the text
with a repeating XOR key.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()

	flags.String("config", "", "Path to configuration file")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error, dpanic, panic, fatal)")

	if err := vip.BindPFlags(flags); err != nil {
		panic(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(vip)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout only carries command output.
func newLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.Config{
		Level:    atomicLevel,
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	return logger, nil
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}
