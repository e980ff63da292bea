package kde

import (
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Linspace returns num evenly spaced points over [start, stop].
func Linspace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	grid[num-1] = stop
	return grid
}

// Argsort returns the stable ascending order of x; ties keep input order.
func Argsort(x []float64) []int {
	ord := make([]int, len(x))
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool {
		return x[ord[a]] < x[ord[b]]
	})
	return ord
}

// LinearInterpolant is a piecewise linear function through strictly
// increasing knots. A single knot gives a constant.
type LinearInterpolant struct {
	xs []float64
	ys []float64
	pl *interp.PiecewiseLinear
}

// NewLinearInterpolant expects strictly increasing xs of the same length as ys.
func NewLinearInterpolant(xs, ys []float64) *LinearInterpolant {
	res := &LinearInterpolant{xs: xs, ys: ys}
	if len(xs) >= 2 {
		res.pl = &interp.PiecewiseLinear{}
		// Fit only fails on unsorted knots, which callers rule out.
		_ = res.pl.Fit(xs, ys)
	}
	return res
}

func (l *LinearInterpolant) Lower() float64 { return l.xs[0] }

func (l *LinearInterpolant) Upper() float64 { return l.xs[len(l.xs)-1] }

func (l *LinearInterpolant) Contains(x float64) bool {
	return x >= l.Lower() && x <= l.Upper()
}

// Clamp moves x into [Lower, Upper].
func (l *LinearInterpolant) Clamp(x float64) float64 {
	return min(max(x, l.Lower()), l.Upper())
}

func (l *LinearInterpolant) Predict(x float64) float64 {
	if l.pl == nil {
		return l.ys[0]
	}
	return l.pl.Predict(x)
}
