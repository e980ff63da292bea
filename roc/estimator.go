package roc

import (
	"context"
	"math"
	"time"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/kde"
	"github.com/plaindata-ai/censoredROC/model"
	"github.com/plaindata-ai/censoredROC/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Observer receives the outcome of every estimation and bootstrap replicate.
type Observer interface {
	ObserveEstimate(method string, elapsed time.Duration, err error)
	ObserveReplicate(replicate int, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveEstimate(string, time.Duration, error) {}

func (nopObserver) ObserveReplicate(int, error) {}

// Estimator fits censoring-adjusted ROC curves for one configuration.
// It keeps no results between calls and is safe for concurrent use.
type Estimator struct {
	cfg       Config
	kernel    kde.Kernel
	bandwidth kde.BandWidth
	observer  Observer
}

type EstimatorOption func(*Estimator)

func WithObserver(observer Observer) EstimatorOption {
	return func(e *Estimator) {
		if observer != nil {
			e.observer = observer
		}
	}
}

func NewEstimator(cfg Config, opts ...EstimatorOption) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kernel, err := kde.NewKernel(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	bandwidth, err := cfg.Bandwidth.selector(kernel)
	if err != nil {
		return nil, err
	}

	e := &Estimator{
		cfg:       cfg,
		kernel:    kernel,
		bandwidth: bandwidth,
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Estimator) Config() Config {
	return e.cfg
}

// DefaultGrid is 151 equally spaced false-positive rates over [0,1].
func DefaultGrid() []float64 {
	return kde.Linspace(0, 1, DefaultGridSize)
}

// Estimate fits the ROC curve of sample over grid. A nil grid means DefaultGrid.
func (e *Estimator) Estimate(ctx context.Context, sample *model.Sample, grid []float64) (*model.FittedCurve, error) {
	logger := utils.GetLogger(ctx)

	start := time.Now()
	curve, err := e.estimate(sample, grid)
	e.observer.ObserveEstimate(string(e.cfg.Method), time.Since(start), err)
	if err != nil {
		logger.Error("censored roc estimate failed", zap.Error(err), zap.Stringer("config", e.cfg))
		return nil, err
	}

	logger.Debug("censored roc estimated", zap.Int("size", sample.Len()), zap.Int("gridSize", len(curve.Grid)),
		zap.Float64("auc", curve.AUC), zap.Float64("bandwidth", curve.Bandwidth))
	return curve, nil
}

func (e *Estimator) estimate(sample *model.Sample, grid []float64) (*model.FittedCurve, error) {
	if err := sample.Validate(); err != nil {
		return nil, common.NewStageError(StageValidate, err)
	}
	grid, err := e.resolveGrid(grid)
	if err != nil {
		return nil, common.NewStageError(StageValidate, err)
	}

	n := sample.Len()
	ord := kde.Argsort(sample.Marker)
	d := make([]float64, n)
	for i, j := range ord {
		d[i] = sample.Event[j]
	}

	sumD := floats.Sum(d)
	if sumD == 0 || sumD == float64(n) {
		return nil, common.NewStageError(StageCensoring,
			common.Errorf(common.ErrorInsufficientData, "event mass %v of %d records leaves no censoring mass", sumD, n))
	}

	z := censoringAdjusted(d, sumD)
	auc := floats.Dot(d, z) / sumD

	var roc []float64
	bw := math.NaN()
	switch e.cfg.Method {
	case EmpiricalMethod:
		roc = empiricalROC(grid, z, d, sumD)
	case UntransformedMethod:
		roc, bw, err = e.smoothROC(grid, z, d)
	case TransformedMethod:
		roc, bw, err = e.smoothROC(probit(grid, n), probit(z, n), d)
	}
	if err != nil {
		return nil, err
	}

	return &model.FittedCurve{
		Grid:      append([]float64(nil), grid...),
		ROC:       utils.RoundFloats(roc, RoundDigits),
		AUC:       1 - auc,
		Bandwidth: bw,
	}, nil
}

func (e *Estimator) resolveGrid(grid []float64) ([]float64, error) {
	if grid == nil {
		return DefaultGrid(), nil
	}
	if len(grid) == 0 {
		return nil, common.Errorf(common.ErrorDomain, "empty query grid")
	}
	for i, u := range grid {
		if !(u >= 0 && u <= 1) {
			return nil, common.Errorf(common.ErrorDomain, "grid point %d = %v is outside [0,1]", i, u)
		}
		if e.cfg.Method == TransformedMethod && i > 0 && u < grid[i-1] {
			return nil, common.Errorf(common.ErrorDomain, "grid must be sorted for the transformed method, point %d = %v", i, u)
		}
	}
	return grid, nil
}

// censoringAdjusted is Z[i] = 1 - cumsum(1-D)[i] / (n - sumD) over marker order.
func censoringAdjusted(d []float64, sumD float64) []float64 {
	censored := float64(len(d)) - sumD
	z := make([]float64, len(d))
	cumSum := 0.0
	for i := range d {
		cumSum += 1 - d[i]
		z[i] = 1 - cumSum/censored
	}
	return z
}

func empiricalROC(grid, z, d []float64, sumD float64) []float64 {
	roc := make([]float64, len(grid))
	for i, u := range grid {
		sum := 0.0
		for j := range z {
			if utils.RoundFloat(u-z[j], RoundDigits) >= 0 {
				sum += d[j]
			}
		}
		roc[i] = sum / sumD
	}
	return roc
}

// smoothROC replaces the empirical indicator with the kernel CDF over the
// records carrying event mass.
func (e *Estimator) smoothROC(u, z, d []float64) ([]float64, float64, error) {
	zt, wt := []float64{}, []float64{}
	for i := range d {
		if d[i] != 0 {
			zt = append(zt, z[i])
			wt = append(wt, d[i])
		}
	}

	bw, err := e.bandwidth.BandWidth(zt, wt)
	if err != nil {
		return nil, 0, common.NewStageError(StageBandwidth, err)
	}

	w := make([]float64, len(wt))
	floats.ScaleTo(w, 1/floats.Sum(wt), wt)

	matrix := make([][]float64, len(u))
	for i := range u {
		matrix[i] = make([]float64, len(zt))
		for j := range zt {
			matrix[i][j] = utils.RoundFloat(u[i]-zt[j], RoundDigits) / bw
		}
	}
	matrix = kde.EvaluateMatrix(e.kernel, matrix)

	roc := make([]float64, len(u))
	for i := range u {
		roc[i] = floats.Dot(matrix[i], w)
		if math.IsNaN(roc[i]) {
			return nil, 0, common.NewStageError(StageSmoothing,
				common.Errorf(common.ErrorNumericDegeneracy, "roc at grid point %d is NaN", i))
		}
	}
	return roc, bw, nil
}

// probit maps [0,1] values onto the real line via the normal quantile of
// n/(n+1)*x + 1/n^2, which stays inside (0,1) for n >= 2.
func probit(x []float64, n int) []float64 {
	nf := float64(n)
	mul := nf / (nf + 1)
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = distuv.UnitNormal.Quantile(mul*v + 1/(nf*nf))
	}
	return res
}
