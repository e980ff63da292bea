package roc

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBootstrapWithoutReplicates(t *testing.T) {
	Convey("Given zero replicates", t, func() {
		e := mustEstimator(t, WithMethod(EmpiricalMethod))
		res, err := e.Bootstrap(context.Background(), scenarioSample(), []float64{0, 0.5, 1})
		So(err, ShouldBeNil)

		Convey("The single sample fit is returned without bounds", func() {
			So(res.MeanROC, ShouldResemble, res.Fitted.ROC)
			So(res.MeanROC, ShouldResemble, []float64{0.66666667, 1, 1})
			So(res.HasBounds(), ShouldBeFalse)
			So(res.Band(), ShouldBeNil)
			So(res.Replicates, ShouldEqual, 0)
			So(res.AUC.Mean, ShouldEqual, res.Fitted.AUC)
			So(math.IsNaN(res.AUC.StdDev), ShouldBeTrue)
		})
	})
}

func TestBootstrapReplicates(t *testing.T) {
	ctx := context.Background()
	sample := simulatedSample(23, 80)

	Convey("Given 500 seeded replicates of the transformed estimator", t, func() {
		e := mustEstimator(t, WithReplicates(500), WithSeed(42), WithWorkers(4))
		res, err := e.Bootstrap(ctx, sample, nil)
		So(err, ShouldBeNil)
		So(res.Replicates, ShouldEqual, 500)
		So(res.Failures, ShouldEqual, 0)
		So(res.HasBounds(), ShouldBeTrue)

		Convey("The bands are ordered at every grid point", func() {
			for i := range res.MeanROC {
				So(res.LowerROC[i], ShouldBeLessThanOrEqualTo, res.MeanROC[i]+1e-12)
				So(res.MeanROC[i], ShouldBeLessThanOrEqualTo, res.UpperROC[i]+1e-12)
			}
		})

		Convey("The bands bracket the single sample curve almost everywhere", func() {
			inside := 0
			for i, v := range res.Fitted.ROC {
				if v >= res.LowerROC[i]-1e-9 && v <= res.UpperROC[i]+1e-9 {
					inside++
				}
			}
			So(float64(inside)/float64(len(res.Fitted.ROC)), ShouldBeGreaterThanOrEqualTo, 0.8)
		})

		Convey("The AUC interval holds its mean and has spread", func() {
			So(res.AUC.Lower, ShouldBeLessThanOrEqualTo, res.AUC.Mean)
			So(res.AUC.Mean, ShouldBeLessThanOrEqualTo, res.AUC.Upper)
			So(res.AUC.StdDev, ShouldBeGreaterThan, 0)
			So(res.AUC.Lower, ShouldBeLessThanOrEqualTo, res.Fitted.AUC)
			So(res.AUC.Upper, ShouldBeGreaterThanOrEqualTo, res.Fitted.AUC)
		})

		Convey("The band polygon is closed at the corners", func() {
			band := res.Band()
			So(len(band), ShouldEqual, 2*(len(res.MeanROC)+2))
			So(band[0], ShouldResemble, model.CurvePoint{X: 1, Y: 1})
			So(band[len(band)-1], ShouldResemble, model.CurvePoint{X: 1, Y: 1})
		})
	})

	Convey("Results do not depend on the number of workers", t, func() {
		serial := mustEstimator(t, WithMethod(UntransformedMethod), WithReplicates(40), WithSeed(5), WithWorkers(1))
		parallel := mustEstimator(t, WithMethod(UntransformedMethod), WithReplicates(40), WithSeed(5), WithWorkers(8))

		a, err := serial.Bootstrap(ctx, sample, nil)
		So(err, ShouldBeNil)
		b, err := parallel.Bootstrap(ctx, sample, nil)
		So(err, ShouldBeNil)
		So(a.MeanROC, ShouldResemble, b.MeanROC)
		So(a.LowerROC, ShouldResemble, b.LowerROC)
		So(a.UpperROC, ShouldResemble, b.UpperROC)
		So(a.AUC, ShouldResemble, b.AUC)
	})

	Convey("A cancelled context stops the batch", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		e := mustEstimator(t, WithMethod(EmpiricalMethod), WithReplicates(20))
		_, err := e.Bootstrap(cctx, sample, nil)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestBootstrapFailurePolicy(t *testing.T) {
	ctx := context.Background()
	// A single event: many resamples lose it or lose all marker variation.
	fragile := &model.Sample{
		Marker: []float64{1, 2, 3, 4},
		Event:  []float64{0, 0, 0, 1},
	}

	Convey("Aborting surfaces the failed replicate", t, func() {
		e := mustEstimator(t, WithMethod(EmpiricalMethod), WithReplicates(50), WithSeed(1))
		_, err := e.Bootstrap(ctx, fragile, nil)
		So(errors.Is(err, common.ErrorInsufficientData), ShouldBeTrue)

		var stageErr *common.StageError
		So(errors.As(err, &stageErr), ShouldBeTrue)
		So(stageErr.Stage, ShouldEqual, StageBootstrap)
		So(stageErr.Replicate, ShouldBeBetweenOrEqual, 0, 49)
	})

	Convey("Skipping counts failures and aggregates the rest", t, func() {
		observer := &countingObserver{}
		cfg, err := NewConfig(WithMethod(EmpiricalMethod), WithReplicates(50), WithSeed(1),
			WithFailurePolicy(SkipFailures))
		So(err, ShouldBeNil)
		e, err := NewEstimator(cfg, WithObserver(observer))
		So(err, ShouldBeNil)

		res, err := e.Bootstrap(ctx, fragile, nil)
		So(err, ShouldBeNil)
		So(res.Failures, ShouldBeGreaterThan, 0)
		So(res.Replicates, ShouldBeGreaterThan, 0)
		So(res.Replicates+res.Failures, ShouldEqual, 50)
		So(observer.replicates, ShouldEqual, 50)
	})
}

func TestPercentileInterval(t *testing.T) {
	Convey("Percentiles interpolate between order statistics", t, func() {
		lower, upper := percentileInterval([]float64{5, 1, 4, 2, 3}, 0.5)
		So(lower, ShouldAlmostEqual, 2, 1e-12)
		So(upper, ShouldAlmostEqual, 4, 1e-12)

		lower, upper = percentileInterval([]float64{0, 10}, 0.1)
		So(lower, ShouldAlmostEqual, 0.5, 1e-12)
		So(upper, ShouldAlmostEqual, 9.5, 1e-12)
	})

	Convey("A single value is its own interval", t, func() {
		lower, upper := percentileInterval([]float64{0.7}, 0.05)
		So(lower, ShouldEqual, 0.7)
		So(upper, ShouldEqual, 0.7)
	})
}
