package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/plaindata-ai/censoredROC/utils"
	"go.uber.org/zap"
)

const (
	envPrefix     = "CENROC_"
	envConfigPath = "CENROC_CONFIG"
)

// Load builds a Config by layering, from low to high precedence:
//  1. defaults (New(ctx))
//  2. YAML file at path, or at CENROC_CONFIG when path is empty
//  3. env (prefix CENROC_), e.g. CENROC_REPLICATES=200
func Load(ctx context.Context, path string) (*Config, error) {
	logger := utils.GetLogger(ctx)

	base := New(ctx)
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			logger.Error("load config file failed", zap.String("path", path), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// CENROC_FAILURE_POLICY -> failure_policy
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if _, err := cfg.EstimatorConfig(); err != nil {
		return nil, err
	}
	if _, err := cfg.Grid(); err != nil {
		return nil, err
	}

	logger.Info("config loaded", zap.String("path", path), zap.String("method", cfg.Method),
		zap.String("kernel", cfg.Kernel), zap.String("bandwidth", cfg.Bandwidth), zap.Int("replicates", cfg.Replicates))
	return &cfg, nil
}
