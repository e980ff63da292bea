package roc

import (
	"context"
	"math"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/kde"
	"github.com/plaindata-ai/censoredROC/model"
	"github.com/plaindata-ai/censoredROC/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// OptimalCutoff locates the grid point maximizing ROC(u) - u and maps its
// sensitivity back to a marker cutoff. The first maximum wins ties.
func (e *Estimator) OptimalCutoff(ctx context.Context, sample *model.Sample,
	fitted *model.FittedCurve) (*model.CutoffResult, error) {
	logger := utils.GetLogger(ctx)

	res, err := optimalCutoff(sample, fitted)
	if err != nil {
		logger.Error("youden cutoff failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("youden cutoff found", zap.Float64("youden", res.YoudenIndex), zap.Float64("cutoff", res.Cutoff),
		zap.Float64("sens", res.Sensitivity), zap.Float64("spec", res.Specificity))
	return res, nil
}

func optimalCutoff(sample *model.Sample, fitted *model.FittedCurve) (*model.CutoffResult, error) {
	if err := sample.Validate(); err != nil {
		return nil, common.NewStageError(StageValidate, err)
	}
	if fitted == nil || len(fitted.ROC) == 0 || len(fitted.ROC) != len(fitted.Grid) {
		return nil, common.NewStageError(StageYouden, common.Errorf(common.ErrorDomain, "fitted curve is empty or misaligned"))
	}

	idx, best := 0, math.Inf(-1)
	for i, u := range fitted.Grid {
		if j := fitted.ROC[i] - u; j > best {
			idx, best = i, j
		}
	}
	sens := fitted.ROC[idx]

	inverse := sensitivityInverse(sample)
	if !inverse.Contains(sens) {
		return nil, common.NewStageError(StageYouden, common.Errorf(common.ErrorDomain,
			"sensitivity %v is outside the observed range [%v, %v]", sens, inverse.Lower(), inverse.Upper()))
	}

	return &model.CutoffResult{
		YoudenIndex: best,
		Cutoff:      inverse.Predict(sens),
		Sensitivity: sens,
		Specificity: 1 - fitted.Grid[idx],
		GridIndex:   idx,
	}, nil
}

// sensitivityInverse interpolates marker over the empirical sensitivity
// sens(m) = sum(D * 1(marker > m)) / sum(D). Markers sharing a sensitivity
// collapse to the largest one.
func sensitivityInverse(sample *model.Sample) *kde.LinearInterpolant {
	n := sample.Len()
	ord := kde.Argsort(sample.Marker)
	m, d := make([]float64, n), make([]float64, n)
	for i, j := range ord {
		m[i], d[i] = sample.Marker[j], sample.Event[j]
	}
	sumD := floats.Sum(d)

	sens := make([]float64, n)
	above := 0.0
	for i := n - 1; i >= 0; {
		j := i
		for j >= 0 && m[j] == m[i] {
			j--
		}
		for k := j + 1; k <= i; k++ {
			sens[k] = above / sumD
		}
		for k := j + 1; k <= i; k++ {
			above += d[k]
		}
		i = j
	}

	xs, ys := []float64{}, []float64{}
	for i := n - 1; i >= 0; i-- {
		if len(xs) > 0 && sens[i] <= xs[len(xs)-1] {
			continue
		}
		xs = append(xs, sens[i])
		ys = append(ys, m[i])
	}
	return kde.NewLinearInterpolant(xs, ys)
}
