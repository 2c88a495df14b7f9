package internal

import (
	"fmt"

	"github.com/hbomb79/mediagate/internal/api"
	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/hbomb79/mediagate/internal/library"
	"github.com/hbomb79/mediagate/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// GatewayConfig is the struct used to contain the
// various user config supplied by file, by the
// environment, or manually inside the code.
type GatewayConfig struct {
	RestConfig api.RestConfig `yaml:"api"`
	LogLevel   string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	Ffmpeg     ffmpeg.Config  `yaml:"ffmpeg"`
	Library    library.Config `yaml:"library"`
}

// LoadConfig reads the configuration from the YAML file at configPath, with
// environment variables taking precedence. If configPath is empty, only the
// environment (and the defaults) are consulted.
func LoadConfig(configPath string) (*GatewayConfig, error) {
	config := &GatewayConfig{}

	if configPath == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
		}
	} else {
		path, err := homedir.Expand(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path %s: %w", configPath, err)
		}

		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
		}
	}

	if err := config.normalise(); err != nil {
		return nil, err
	}

	return config, nil
}

// MinLogLevel returns the logger level named by LogLevel.
func (config *GatewayConfig) MinLogLevel() (logger.LogStatus, error) {
	return logger.ParseLevel(config.LogLevel)
}

// normalise expands '~' in the configured executable paths and ensures the
// log level is one the logger understands.
func (config *GatewayConfig) normalise() error {
	for _, path := range []*string{&config.Ffmpeg.FfmpegBinPath, &config.Ffmpeg.FfprobeBinPath} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", *path, err)
		}
		*path = expanded
	}

	if config.Ffmpeg.ThumbnailTimestamp < 0 {
		return fmt.Errorf("thumbnail timestamp must not be negative, got %v", config.Ffmpeg.ThumbnailTimestamp)
	}

	if _, err := config.MinLogLevel(); err != nil {
		return err
	}

	return nil
}
