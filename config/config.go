package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultPort          = "8080"
	DefaultLogLevel      = "info"
	DefaultMaxUploadMB   = 32
	DefaultPSNRThreshold = 40.0

	MaxMaxUploadMB = 1024

	EnvPrefix = "HIPS"
)

var DefaultAllowOrigins = []string{"http://localhost:3000"}

type Config struct {
	Port          string   `mapstructure:"port"`
	AllowOrigins  []string `mapstructure:"allow-origins"`
	LogLevel      string   `mapstructure:"log-level"`
	MaxUploadMB   int      `mapstructure:"max-upload-mb"`
	PSNRThreshold float64  `mapstructure:"psnr-threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:          DefaultPort,
		AllowOrigins:  append([]string(nil), DefaultAllowOrigins...),
		LogLevel:      DefaultLogLevel,
		MaxUploadMB:   DefaultMaxUploadMB,
		PSNRThreshold: DefaultPSNRThreshold,
	}
}

// MaxUploadBytes returns the multipart form limit in bytes.
func (cfg *Config) MaxUploadBytes() int64 {
	return int64(cfg.MaxUploadMB) << 20
}

// Addr returns the listen address of the HTTP server.
func (cfg *Config) Addr() string {
	if strings.Contains(cfg.Port, ":") {
		return cfg.Port
	}
	return ":" + cfg.Port
}

func (cfg *Config) Validate() error {
	if cfg.Port == "" {
		return fmt.Errorf("invalid `Port`; expected: non-empty")
	}

	if cfg.MaxUploadMB < 1 {
		return fmt.Errorf("invalid `MaxUploadMB`; expected: >= 1, given: %d", cfg.MaxUploadMB)
	}

	if cfg.MaxUploadMB > MaxMaxUploadMB {
		return fmt.Errorf("invalid `MaxUploadMB`; expected: <= %d, given: %d", MaxMaxUploadMB, cfg.MaxUploadMB)
	}

	if cfg.PSNRThreshold < 0 {
		return fmt.Errorf("invalid `PSNRThreshold`; expected: >= 0, given: %v", cfg.PSNRThreshold)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error", "dpanic", "panic", "fatal":
	default:
		return fmt.Errorf("invalid `LogLevel`; expected: one of debug, info, warn, error, given: %q", cfg.LogLevel)
	}

	return nil
}

// Load builds a Config from defaults, the optional config file named by the
// "config" key, HIPS_* environment variables and flags bound to vip.
func Load(vip *viper.Viper) (*Config, error) {
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	cfg := DefaultConfig()
	vip.SetDefault("port", cfg.Port)
	vip.SetDefault("allow-origins", cfg.AllowOrigins)
	vip.SetDefault("log-level", cfg.LogLevel)
	vip.SetDefault("max-upload-mb", cfg.MaxUploadMB)
	vip.SetDefault("psnr-threshold", cfg.PSNRThreshold)

	if file := vip.GetString("config"); file != "" {
		vip.SetConfigFile(file)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
