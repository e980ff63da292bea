package kde

import (
	"math"

	"github.com/plaindata-ai/censoredROC/common"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type BandWidth interface {
	BandWidth(values, weights []float64) (float64, error)
}

// NormalReferenceBandWidth is the robust Normal-Reference rule for weighted data.
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(x, weights []float64) (float64, error) {
	if len(x) != len(weights) {
		return 0, common.Errorf(common.ErrorDomain, "values and weights differ in length: %d != %d",
			len(x), len(weights))
	}

	weighted := []float64{}
	for i, w := range weights {
		if w != 0 {
			weighted = append(weighted, x[i])
		}
	}
	n := len(weighted)
	if n == 0 {
		return 0, common.Errorf(common.ErrorNumericDegeneracy, "no weighted values")
	}
	if floats.Min(weighted) == floats.Max(weighted) {
		return 0, common.Errorf(common.ErrorNumericDegeneracy, "all %d weighted values equal %v", n, weighted[0])
	}

	sumW := floats.Sum(weights)
	mul := float64(n) * floats.Dot(weights, weights) / (sumW * sumW)

	sigma, err := selectSigma(x, weights)
	if err != nil {
		return 0, err
	}

	C := bw.kernel.NormalReferenceConstant()
	h := C * sigma * math.Cbrt(mul) * math.Pow(float64(n), -1.0/3)
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return 0, common.Errorf(common.ErrorNumericDegeneracy, "bandwidth evaluates to %v", h)
	}
	return h, nil
}

// selectSigma is min(weighted std-dev, weighted IQR / 1.349), falling back
// to the std-dev when the IQR vanishes.
func selectSigma(x, weights []float64) (float64, error) {
	q75, err := WeightedQuantile(x, weights, 0.75)
	if err != nil {
		return 0, err
	}
	q25, err := WeightedQuantile(x, weights, 0.25)
	if err != nil {
		return 0, err
	}
	iqr := (q75 - q25) / iqrNormalize

	stdDev := weightedPopStdDev(x, weights)

	if iqr > 0 {
		return math.Min(stdDev, iqr), nil
	}
	return stdDev, nil
}

// weightedPopStdDev uses sum(w) as the denominator, with no bias correction.
func weightedPopStdDev(x, weights []float64) float64 {
	mean := stat.Mean(x, weights)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = (v - mean) * (v - mean)
	}
	return math.Sqrt(stat.Mean(dev, weights))
}

// FixedBandWidth passes a caller supplied bandwidth through.
type FixedBandWidth struct {
	h float64
}

func NewFixedBandWidth(h float64) (*FixedBandWidth, error) {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return nil, common.Errorf(common.ErrorInvalidConfiguration, "bandwidth must be positive, got %v", h)
	}
	return &FixedBandWidth{h: h}, nil
}

func (bw *FixedBandWidth) BandWidth(x, weights []float64) (float64, error) {
	return bw.h, nil
}
