package roc

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/model"
	"github.com/plaindata-ai/censoredROC/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Bootstrap fits sample once and then Replicates more times on resamples
// drawn with replacement, returning pointwise mean curves and
// percentile intervals at level Alpha.
func (e *Estimator) Bootstrap(ctx context.Context, sample *model.Sample, grid []float64) (*model.BootstrapResult, error) {
	logger := utils.GetLogger(ctx)

	fitted, err := e.Estimate(ctx, sample, grid)
	if err != nil {
		return nil, err
	}

	B := e.cfg.Replicates
	if B == 0 {
		return &model.BootstrapResult{
			Fitted:  fitted,
			MeanROC: append([]float64(nil), fitted.ROC...),
			AUC: model.ConfidenceInterval{
				Mean:   fitted.AUC,
				StdDev: math.NaN(),
				Lower:  math.NaN(),
				Upper:  math.NaN(),
			},
		}, nil
	}

	start := time.Now()
	curves, failures, err := e.runReplicates(ctx, sample, fitted.Grid)
	if err != nil {
		logger.Error("bootstrap failed", zap.Error(err), zap.Int("replicates", B))
		return nil, err
	}

	res := aggregate(fitted, curves, e.cfg.Alpha)
	res.Failures = failures

	logger.Info("bootstrap finished", zap.Int("replicates", res.Replicates), zap.Int("failures", failures),
		zap.Float64("aucMean", res.AUC.Mean), zap.Float64("aucSd", res.AUC.StdDev),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// runReplicates fills one slot per replicate on a bounded worker pool.
// Skipped failures leave a nil slot and are counted.
func (e *Estimator) runReplicates(ctx context.Context, sample *model.Sample,
	grid []float64) ([]*model.FittedCurve, int, error) {
	logger := utils.GetLogger(ctx)

	B := e.cfg.Replicates
	curves := make([]*model.FittedCurve, B)
	errs := make([]error, B)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for b := 0; b < B; b++ {
		if gctx.Err() != nil {
			break
		}
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			curve, err := e.replicate(sample, grid, b)
			e.observer.ObserveReplicate(b, err)
			if err == nil {
				curves[b] = curve
				return nil
			}

			err = common.NewReplicateError(b, err)
			if e.cfg.FailurePolicy == AbortOnFailure {
				return err
			}
			logger.Warn("bootstrap replicate skipped", zap.Error(err))
			errs[b] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	res := make([]*model.FittedCurve, 0, B)
	failures := 0
	var firstErr error
	for b := range curves {
		if errs[b] != nil {
			failures++
			if firstErr == nil {
				firstErr = errs[b]
			}
			continue
		}
		res = append(res, curves[b])
	}
	if len(res) == 0 {
		return nil, failures, common.NewStageError(StageBootstrap,
			common.Errorf(common.ErrorInsufficientData, "all %d replicates failed, first: %v", B, firstErr))
	}
	return res, failures, nil
}

func (e *Estimator) replicate(sample *model.Sample, grid []float64, b int) (curve *model.FittedCurve, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = common.Errorf(common.ErrorNumericDegeneracy, "panic: %v\n%s", r, utils.GetPanicInfo())
		}
	}()

	n := sample.Len()
	rng := rand.New(rand.NewSource(e.cfg.Seed + int64(b)))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.Intn(n)
	}
	return e.estimate(sample.Resample(idx), grid)
}

func aggregate(fitted *model.FittedCurve, curves []*model.FittedCurve, alpha float64) *model.BootstrapResult {
	gridSize := len(fitted.Grid)
	res := &model.BootstrapResult{
		Fitted:     fitted,
		MeanROC:    make([]float64, gridSize),
		LowerROC:   make([]float64, gridSize),
		UpperROC:   make([]float64, gridSize),
		Replicates: len(curves),
	}

	column := make([]float64, len(curves))
	for i := 0; i < gridSize; i++ {
		for b, curve := range curves {
			column[b] = curve.ROC[i]
		}
		res.MeanROC[i] = stat.Mean(column, nil)
		res.LowerROC[i], res.UpperROC[i] = percentileInterval(column, alpha)
	}

	aucs := make([]float64, len(curves))
	for b, curve := range curves {
		aucs[b] = curve.AUC
	}
	res.AUC.Mean = stat.Mean(aucs, nil)
	res.AUC.StdDev = stat.StdDev(aucs, nil)
	res.AUC.Lower, res.AUC.Upper = percentileInterval(aucs, alpha)
	return res
}
