package roc

import (
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/kde"
)

type Method string

const (
	EmpiricalMethod     Method = "empirical"
	UntransformedMethod Method = "untransformed"
	TransformedMethod   Method = "transformed"
)

// ParseMethod accepts the long names and the short emp/untra/tra forms.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emp", string(EmpiricalMethod):
		return EmpiricalMethod, nil
	case "untra", string(UntransformedMethod):
		return UntransformedMethod, nil
	case "tra", string(TransformedMethod):
		return TransformedMethod, nil
	}
	return "", common.Errorf(common.ErrorInvalidConfiguration, "unknown method %q", s)
}

func (m Method) Smoothed() bool {
	return m == UntransformedMethod || m == TransformedMethod
}

// Bandwidth is either the Normal-Reference rule (the zero value) or a fixed value.
type Bandwidth struct {
	fixed bool
	value float64
}

func AutoBandwidth() Bandwidth {
	return Bandwidth{}
}

func FixedBandwidth(h float64) Bandwidth {
	return Bandwidth{fixed: true, value: h}
}

// ParseBandwidth accepts "NR", "auto", an empty string or a number.
func ParseBandwidth(s string) (Bandwidth, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nr", "auto":
		return AutoBandwidth(), nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Bandwidth{}, common.Errorf(common.ErrorInvalidConfiguration, "malformed bandwidth %q", s)
	}
	return FixedBandwidth(h), nil
}

func (b Bandwidth) IsAuto() bool {
	return !b.fixed
}

func (b Bandwidth) Value() float64 {
	if !b.fixed {
		return math.NaN()
	}
	return b.value
}

func (b Bandwidth) String() string {
	if !b.fixed {
		return "NR"
	}
	return strconv.FormatFloat(b.value, 'g', -1, 64)
}

func (b Bandwidth) selector(kernel kde.Kernel) (kde.BandWidth, error) {
	if !b.fixed {
		return kde.NewNormalReferenceBandWidth(kernel), nil
	}
	return kde.NewFixedBandWidth(b.value)
}

// FailurePolicy decides what a failed bootstrap replicate does to the batch.
type FailurePolicy string

const (
	AbortOnFailure FailurePolicy = "abort"
	SkipFailures   FailurePolicy = "skip"
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case AbortOnFailure:
		return AbortOnFailure, nil
	case SkipFailures:
		return SkipFailures, nil
	}
	return "", common.Errorf(common.ErrorInvalidConfiguration, "unknown failure policy %q", s)
}

// Config is the immutable estimator configuration. Build it with NewConfig.
type Config struct {
	Method    Method
	Kernel    kde.KernelType
	Bandwidth Bandwidth

	// Replicates is the bootstrap count; 0 disables resampling.
	Replicates int
	// Alpha is the two-sided level of the bootstrap intervals.
	Alpha float64
	// Seed drives the resampling; replicate b uses Seed+b.
	Seed          int64
	Workers       int
	FailurePolicy FailurePolicy
}

func DefaultConfig() Config {
	return Config{
		Method:        TransformedMethod,
		Kernel:        kde.NormalKernel,
		Bandwidth:     AutoBandwidth(),
		Replicates:    0,
		Alpha:         DefaultAlpha,
		Seed:          0,
		Workers:       runtime.NumCPU(),
		FailurePolicy: AbortOnFailure,
	}
}

type Option func(*Config)

func WithMethod(method Method) Option {
	return func(c *Config) { c.Method = method }
}

func WithKernel(kernel kde.KernelType) Option {
	return func(c *Config) { c.Kernel = kernel }
}

func WithBandwidth(bandwidth Bandwidth) Option {
	return func(c *Config) { c.Bandwidth = bandwidth }
}

func WithReplicates(b int) Option {
	return func(c *Config) { c.Replicates = b }
}

func WithAlpha(alpha float64) Option {
	return func(c *Config) { c.Alpha = alpha }
}

func WithSeed(seed int64) Option {
	return func(c *Config) { c.Seed = seed }
}

func WithWorkers(workers int) Option {
	return func(c *Config) { c.Workers = workers }
}

func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Config) { c.FailurePolicy = policy }
}

// NewConfig applies opts over DefaultConfig and validates the result.
func NewConfig(opts ...Option) (Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch c.Method {
	case EmpiricalMethod, UntransformedMethod, TransformedMethod:
	default:
		return common.Errorf(common.ErrorInvalidConfiguration, "unknown method %q", c.Method)
	}
	if _, err := kde.NewKernel(c.Kernel); err != nil {
		return err
	}
	if c.Bandwidth.fixed {
		if _, err := kde.NewFixedBandWidth(c.Bandwidth.value); err != nil {
			return err
		}
	}
	if c.Replicates < 0 {
		return common.Errorf(common.ErrorInvalidConfiguration, "replicates must be >= 0, got %d", c.Replicates)
	}
	if !(c.Alpha > 0 && c.Alpha < 1) {
		return common.Errorf(common.ErrorInvalidConfiguration, "alpha must be in (0,1), got %v", c.Alpha)
	}
	if c.Workers < 1 {
		return common.Errorf(common.ErrorInvalidConfiguration, "workers must be >= 1, got %d", c.Workers)
	}
	if c.FailurePolicy != AbortOnFailure && c.FailurePolicy != SkipFailures {
		return common.Errorf(common.ErrorInvalidConfiguration, "unknown failure policy %q", c.FailurePolicy)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("method=%s kernel=%s bw=%s B=%d alpha=%v", c.Method, c.Kernel, c.Bandwidth, c.Replicates, c.Alpha)
}
