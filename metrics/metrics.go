// Package metrics exposes Prometheus instrumentation for ROC estimation.
package metrics

import (
	"errors"
	"time"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultNamespace = "cenroc"
	defaultSubsystem = "estimator"

	OutcomeOK = "ok"
)

// Recorder implements roc.Observer on top of Prometheus collectors.
type Recorder struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	estimates        *prometheus.CounterVec
	estimateDuration *prometheus.HistogramVec
	replicates       *prometheus.CounterVec
}

type Option func(*Recorder)

func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

func WithSubsystem(subsystem string) Option {
	return func(r *Recorder) {
		if subsystem != "" {
			r.subsystem = subsystem
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.histogramBuckets = buckets
		}
	}
}

// WithRegisterer sets where collectors are registered; the default registerer otherwise.
func WithRegisterer(registry prometheus.Registerer) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	r.estimates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "estimates_total",
		Help:      "Number of ROC estimations by method and outcome",
	}, []string{"method", "outcome"})

	r.estimateDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "estimate_duration_seconds",
		Help:      "Duration of single ROC estimations",
		Buckets:   r.histogramBuckets,
	}, []string{"method"})

	r.replicates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "bootstrap_replicates_total",
		Help:      "Number of bootstrap replicates by outcome",
	}, []string{"outcome"})

	return r
}

func (r *Recorder) ObserveEstimate(method string, elapsed time.Duration, err error) {
	r.estimates.WithLabelValues(method, Outcome(err)).Inc()
	r.estimateDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveReplicate(replicate int, err error) {
	r.replicates.WithLabelValues(Outcome(err)).Inc()
}

// Outcome names the error kind of err, or "ok" for nil.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, common.ErrorInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, common.ErrorInsufficientData):
		return "insufficient_data"
	case errors.Is(err, common.ErrorDomain):
		return "domain_error"
	case errors.Is(err, common.ErrorNumericDegeneracy):
		return "numeric_degeneracy"
	}
	return "error"
}
