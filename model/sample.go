package model

import (
	"fmt"
	"math"

	"github.com/plaindata-ai/censoredROC/common"
	"gonum.org/v1/gonum/floats"
)

const MinSampleSize = 2

// Sample holds aligned records of outcome, marker and event weight.
// Event is 1 for an observed event, 0 for a censored record, and may be
// fractional when it carries an upstream censoring weight.
type Sample struct {
	Outcome []float64 `json:"outcome,omitempty"`
	Marker  []float64 `json:"marker"`
	Event   []float64 `json:"event"`
}

func (s *Sample) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Marker)
}

func (s *Sample) DebugString() string {
	return fmt.Sprintf("size: %v, events: %v", s.Len(), floats.Sum(s.Event))
}

// Validate checks the sample invariants. Outcome may be empty.
func (s *Sample) Validate() error {
	if s == nil {
		return common.Errorf(common.ErrorInsufficientData, "nil sample")
	}
	n := len(s.Marker)
	if len(s.Event) != n || (len(s.Outcome) != 0 && len(s.Outcome) != n) {
		return common.Errorf(common.ErrorDomain, "length mismatch: outcome=%d marker=%d event=%d",
			len(s.Outcome), n, len(s.Event))
	}
	if n < MinSampleSize {
		return common.Errorf(common.ErrorInsufficientData, "need at least %d records, got %d", MinSampleSize, n)
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(s.Marker[i]) || math.IsInf(s.Marker[i], 0) {
			return common.Errorf(common.ErrorDomain, "marker %d is not finite", i)
		}
		if !(s.Event[i] >= 0 && s.Event[i] <= 1) {
			return common.Errorf(common.ErrorDomain, "event %d = %v is outside [0,1]", i, s.Event[i])
		}
	}
	if floats.Sum(s.Event) == 0 {
		return common.Errorf(common.ErrorInsufficientData, "no events")
	}
	if floats.Min(s.Marker) == floats.Max(s.Marker) {
		return common.Errorf(common.ErrorInsufficientData, "marker has no variation")
	}
	return nil
}

// Resample builds a new sample out of the records at idx.
func (s *Sample) Resample(idx []int) *Sample {
	res := &Sample{
		Marker: make([]float64, len(idx)),
		Event:  make([]float64, len(idx)),
	}
	if len(s.Outcome) != 0 {
		res.Outcome = make([]float64, len(idx))
	}
	for i, j := range idx {
		res.Marker[i] = s.Marker[j]
		res.Event[i] = s.Event[j]
		if res.Outcome != nil {
			res.Outcome[i] = s.Outcome[j]
		}
	}
	return res
}
