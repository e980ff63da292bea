// Package config loads estimator settings from defaults, a YAML file and
// CENROC_ environment variables.
package config

import (
	"context"
	"fmt"

	"github.com/plaindata-ai/censoredROC/kde"
	"github.com/plaindata-ai/censoredROC/roc"
	"github.com/plaindata-ai/censoredROC/utils"
)

// Config mirrors roc.Config with plain values so it can be decoded from files and env.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Method is one of emp, untra, tra or their long names.
	Method string `koanf:"method"`

	// Kernel is normal, epanechnikov, biweight or triweight.
	Kernel string `koanf:"kernel"`

	// Bandwidth is NR for the Normal-Reference rule or a positive number.
	Bandwidth string `koanf:"bandwidth"`

	// GridSize is the number of equally spaced false-positive rates.
	GridSize int `koanf:"grid_size"`

	Replicates    int     `koanf:"replicates"`
	Alpha         float64 `koanf:"alpha"`
	Seed          int64   `koanf:"seed"`
	Workers       int     `koanf:"workers"`
	FailurePolicy string  `koanf:"failure_policy"`
}

// New returns the defaults, matching roc.DefaultConfig.
func New(_ context.Context) *Config {
	d := roc.DefaultConfig()
	return &Config{
		LogLevel:      "info",
		Method:        string(d.Method),
		Kernel:        string(d.Kernel),
		Bandwidth:     d.Bandwidth.String(),
		GridSize:      roc.DefaultGridSize,
		Replicates:    d.Replicates,
		Alpha:         d.Alpha,
		Seed:          d.Seed,
		Workers:       d.Workers,
		FailurePolicy: string(d.FailurePolicy),
	}
}

// EstimatorConfig parses and validates the estimator settings.
func (c *Config) EstimatorConfig() (roc.Config, error) {
	method, err := roc.ParseMethod(c.Method)
	if err != nil {
		return roc.Config{}, invalid(err)
	}
	kernel, err := kde.ParseKernelType(c.Kernel)
	if err != nil {
		return roc.Config{}, invalid(err)
	}
	bandwidth, err := roc.ParseBandwidth(c.Bandwidth)
	if err != nil {
		return roc.Config{}, invalid(err)
	}
	policy, err := roc.ParseFailurePolicy(c.FailurePolicy)
	if err != nil {
		return roc.Config{}, invalid(err)
	}

	cfg, err := roc.NewConfig(
		roc.WithMethod(method),
		roc.WithKernel(kernel),
		roc.WithBandwidth(bandwidth),
		roc.WithReplicates(c.Replicates),
		roc.WithAlpha(c.Alpha),
		roc.WithSeed(c.Seed),
		roc.WithWorkers(c.Workers),
		roc.WithFailurePolicy(policy),
	)
	if err != nil {
		return roc.Config{}, invalid(err)
	}
	return cfg, nil
}

// Grid returns GridSize equally spaced points over [0,1].
func (c *Config) Grid() ([]float64, error) {
	if c.GridSize < 2 {
		return nil, fmt.Errorf("%w: grid_size must be >= 2, got %d", ErrInvalidConfig, c.GridSize)
	}
	return kde.Linspace(0, 1, c.GridSize), nil
}

// ApplyLogging installs a global logger at LogLevel.
func (c *Config) ApplyLogging() error {
	if err := utils.SetLogLevel(c.LogLevel); err != nil {
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}
