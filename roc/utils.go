package roc

import (
	"sort"

	"github.com/plaindata-ai/censoredROC/kde"
)

// percentileInterval returns the alpha/2 and 1-alpha/2 quantiles of x,
// interpolating linearly between order statistics at positions k/(m-1).
func percentileInterval(x []float64, alpha float64) (float64, float64) {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	m := len(sorted)
	positions := make([]float64, m)
	for k := 1; k < m; k++ {
		positions[k] = float64(k) / float64(m-1)
	}

	interpolant := kde.NewLinearInterpolant(positions, sorted)
	return interpolant.Predict(alpha / 2), interpolant.Predict(1 - alpha/2)
}
