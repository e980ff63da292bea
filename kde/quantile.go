package kde

import (
	"github.com/plaindata-ai/censoredROC/common"
	"gonum.org/v1/gonum/floats"
)

// WeightedQuantile inverts the weighted empirical CDF of values at p,
// interpolating linearly between cumulative weight fractions.
//
// p below the first cumulative fraction is clamped to it, so the smallest
// value is returned there.
func WeightedQuantile(values, weights []float64, p float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, common.Errorf(common.ErrorDomain, "values and weights differ in length: %d != %d",
			len(values), len(weights))
	}
	if !(p >= 0 && p <= 1) {
		return 0, common.Errorf(common.ErrorDomain, "quantile %v is outside [0,1]", p)
	}
	for i, w := range weights {
		if !(w >= 0) {
			return 0, common.Errorf(common.ErrorDomain, "weight %d = %v is negative", i, w)
		}
	}
	sumW := floats.Sum(weights)
	if sumW == 0 {
		return 0, common.Errorf(common.ErrorDomain, "all weights are zero")
	}

	ord := Argsort(values)

	fractions, sorted := []float64{}, []float64{}
	cumSum := 0.0
	for _, i := range ord {
		if weights[i] == 0 {
			continue
		}
		cumSum += weights[i]
		frac := cumSum / sumW
		if len(fractions) > 0 && frac <= fractions[len(fractions)-1] {
			continue
		}
		fractions = append(fractions, frac)
		sorted = append(sorted, values[i])
	}

	interpolant := NewLinearInterpolant(fractions, sorted)
	return interpolant.Predict(interpolant.Clamp(p)), nil
}
