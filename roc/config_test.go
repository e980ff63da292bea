package roc

import (
	"errors"
	"math"
	"testing"

	"github.com/plaindata-ai/censoredROC/common"
	"github.com/plaindata-ai/censoredROC/kde"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseMethod(t *testing.T) {
	Convey("Short and long method names parse", t, func() {
		cases := map[string]Method{
			"emp":           EmpiricalMethod,
			"empirical":     EmpiricalMethod,
			"untra":         UntransformedMethod,
			"Untransformed": UntransformedMethod,
			"tra":           TransformedMethod,
			" transformed ": TransformedMethod,
		}
		for s, want := range cases {
			m, err := ParseMethod(s)
			So(err, ShouldBeNil)
			So(m, ShouldEqual, want)
		}
	})

	Convey("Unknown methods are configuration errors", t, func() {
		_, err := ParseMethod("spline")
		So(errors.Is(err, common.ErrorInvalidConfiguration), ShouldBeTrue)
	})
}

func TestParseBandwidth(t *testing.T) {
	Convey("NR and auto select the Normal-Reference rule", t, func() {
		for _, s := range []string{"NR", "auto", ""} {
			bw, err := ParseBandwidth(s)
			So(err, ShouldBeNil)
			So(bw.IsAuto(), ShouldBeTrue)
			So(math.IsNaN(bw.Value()), ShouldBeTrue)
			So(bw.String(), ShouldEqual, "NR")
		}
	})

	Convey("Numbers select a fixed bandwidth", t, func() {
		bw, err := ParseBandwidth("0.25")
		So(err, ShouldBeNil)
		So(bw.IsAuto(), ShouldBeFalse)
		So(bw.Value(), ShouldEqual, 0.25)
		So(bw.String(), ShouldEqual, "0.25")
	})

	Convey("Anything else is malformed", t, func() {
		_, err := ParseBandwidth("wide")
		So(errors.Is(err, common.ErrorInvalidConfiguration), ShouldBeTrue)
	})
}

func TestNewConfig(t *testing.T) {
	Convey("The defaults are valid", t, func() {
		cfg, err := NewConfig()
		So(err, ShouldBeNil)
		So(cfg.Method, ShouldEqual, TransformedMethod)
		So(cfg.Kernel, ShouldEqual, kde.NormalKernel)
		So(cfg.Bandwidth.IsAuto(), ShouldBeTrue)
		So(cfg.Alpha, ShouldEqual, DefaultAlpha)
		So(cfg.Replicates, ShouldEqual, 0)
		So(cfg.Workers, ShouldBeGreaterThanOrEqualTo, 1)
		So(cfg.FailurePolicy, ShouldEqual, AbortOnFailure)
	})

	Convey("Options override the defaults", t, func() {
		cfg, err := NewConfig(WithMethod(EmpiricalMethod), WithKernel(kde.TriweightKernel),
			WithReplicates(10), WithAlpha(0.1), WithSeed(3), WithWorkers(2), WithFailurePolicy(SkipFailures))
		So(err, ShouldBeNil)
		So(cfg.String(), ShouldEqual, "method=empirical kernel=triweight bw=NR B=10 alpha=0.1")
		So(cfg.Seed, ShouldEqual, 3)
		So(cfg.Workers, ShouldEqual, 2)
		So(cfg.FailurePolicy, ShouldEqual, SkipFailures)
	})

	Convey("Invalid settings are rejected before any computation", t, func() {
		invalid := [][]Option{
			{WithMethod("spline")},
			{WithKernel("cosine")},
			{WithBandwidth(FixedBandwidth(0))},
			{WithBandwidth(FixedBandwidth(-0.1))},
			{WithReplicates(-1)},
			{WithAlpha(0)},
			{WithAlpha(1)},
			{WithWorkers(0)},
			{WithFailurePolicy("retry")},
		}
		for _, opts := range invalid {
			_, err := NewConfig(opts...)
			So(errors.Is(err, common.ErrorInvalidConfiguration), ShouldBeTrue)
		}
	})

	Convey("NewEstimator validates a hand built config", t, func() {
		_, err := NewEstimator(Config{Method: EmpiricalMethod})
		So(errors.Is(err, common.ErrorInvalidConfiguration), ShouldBeTrue)
	})
}

func TestParseFailurePolicy(t *testing.T) {
	Convey("Failure policies parse", t, func() {
		p, err := ParseFailurePolicy("skip")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, SkipFailures)

		p, err = ParseFailurePolicy("ABORT")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, AbortOnFailure)

		_, err = ParseFailurePolicy("ignore")
		So(errors.Is(err, common.ErrorInvalidConfiguration), ShouldBeTrue)
	})
}
