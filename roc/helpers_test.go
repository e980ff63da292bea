package roc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/plaindata-ai/censoredROC/model"
)

// scenarioSample has three events among five ordered markers.
func scenarioSample() *model.Sample {
	return &model.Sample{
		Outcome: []float64{5, 4, 3, 2, 1},
		Marker:  []float64{1, 2, 3, 4, 5},
		Event:   []float64{0, 1, 0, 1, 1},
	}
}

// simulatedSample draws markers whose event probability rises with the marker.
func simulatedSample(seed int64, n int) *model.Sample {
	rng := rand.New(rand.NewSource(seed))
	s := &model.Sample{
		Outcome: make([]float64, n),
		Marker:  make([]float64, n),
		Event:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		marker := rng.NormFloat64()
		s.Marker[i] = marker
		s.Outcome[i] = rng.ExpFloat64()
		if rng.Float64() < 1/(1+math.Exp(-2*marker)) {
			s.Event[i] = 1
		}
	}
	return s
}

func mustEstimator(t *testing.T, opts ...Option) *Estimator {
	t.Helper()
	cfg, err := NewConfig(opts...)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	e, err := NewEstimator(cfg)
	if err != nil {
		t.Fatalf("NewEstimator failed: %v", err)
	}
	return e
}

func trapezoid(x, y []float64) float64 {
	res := 0.0
	for i := 1; i < len(x); i++ {
		res += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return res
}
