package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/utils"
)

// Read reads a config from the given file. Environment variables in the file, like
// ${HOME} or $FX, are expanded before parsing.
func Read(ctx context.Context, filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(ctx, filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(ctx context.Context, originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	var attributes map[string]interface{}
	if err := json.NewDecoder(r).Decode(&attributes); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from %q", originalPath)
	}
	cfg.ConfigFilePath = originalPath

	if err := processConfig(cfg, logger); err != nil {
		return nil, errors.Wrapf(err, "failed to process Config")
	}
	return cfg, nil
}

// processConfig validates the config and applies its process wide settings.
func processConfig(cfg *Config, logger logging.Logger) error {
	if err := cfg.Validate(""); err != nil {
		return err
	}
	if cfg.Parallelism > 0 {
		utils.ParallelFactor = cfg.Parallelism
	}
	if len(cfg.Log) > 0 {
		if err := logging.ApplyPatternConfigs(cfg.Log, logger); err != nil {
			return err
		}
	}
	logger.Debugw("read config", "path", cfg.ConfigFilePath, "linearize", cfg.DestinationCamera == nil)
	return nil
}
