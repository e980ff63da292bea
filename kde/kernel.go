package kde

import (
	"math"

	"github.com/plaindata-ai/censoredROC/common"
	"gonum.org/v1/gonum/stat/distuv"
)

type KernelType string

const (
	NormalKernel       KernelType = "normal"
	EpanechnikovKernel KernelType = "epanechnikov"
	BiweightKernel     KernelType = "biweight"
	TriweightKernel    KernelType = "triweight"
)

var AllKernelTypes = []KernelType{NormalKernel, EpanechnikovKernel, BiweightKernel, TriweightKernel}

func ParseKernelType(s string) (KernelType, error) {
	for _, t := range AllKernelTypes {
		if string(t) == s {
			return t, nil
		}
	}
	if s == "gaussian" {
		return NormalKernel, nil
	}
	return "", common.Errorf(common.ErrorInvalidConfiguration, "unknown kernel type %q", s)
}

// Kernel is a symmetric smoothing kernel seen through its cumulative weight.
type Kernel interface {
	Type() KernelType
	// CDF maps a standardized distance to a weight in [0,1].
	CDF(x float64) float64
	// Roughness is ro, the kernel constant of the Normal-Reference rule.
	Roughness() float64
	// SecondMoment is mu2, the kernel variance.
	SecondMoment() float64
	NormalReferenceConstant() float64
}

func NewKernel(kernelType KernelType) (Kernel, error) {
	switch kernelType {
	case NormalKernel:
		return NewGaussianKernel(), nil
	case EpanechnikovKernel:
		return newPolynomialKernel(EpanechnikovKernel, 2*0.12857, 1.0/5, epanechnikovCDF), nil
	case BiweightKernel:
		return newPolynomialKernel(BiweightKernel, 2*0.10823, 1.0/7, biweightCDF), nil
	case TriweightKernel:
		return newPolynomialKernel(TriweightKernel, 2*0.095183, 1.0/9, triweightCDF), nil
	}
	return nil, common.Errorf(common.ErrorInvalidConfiguration, "unknown kernel type %q", kernelType)
}

// EvaluateMatrix applies the kernel CDF to every cell of matrix.
func EvaluateMatrix(k Kernel, matrix [][]float64) [][]float64 {
	result := make([][]float64, len(matrix))
	for i := range matrix {
		result[i] = make([]float64, len(matrix[i]))
		for j := range matrix[i] {
			result[i][j] = k.CDF(matrix[i][j])
		}
	}
	return result
}

// normalReferenceConstant is (4 sqrt(pi) ro / mu2^2)^(1/3).
func normalReferenceConstant(ro, mu2 float64) float64 {
	return math.Cbrt(4 * math.Sqrt(math.Pi) * ro / (mu2 * mu2))
}

type GaussianKernel struct {
	roughness               float64
	secondMoment            float64
	normalReferenceConstant float64
}

func NewGaussianKernel() *GaussianKernel {
	ro, mu2 := 2*0.28209, 1.0
	return &GaussianKernel{
		roughness:               ro,
		secondMoment:            mu2,
		normalReferenceConstant: normalReferenceConstant(ro, mu2),
	}
}

func (k *GaussianKernel) Type() KernelType { return NormalKernel }

func (k *GaussianKernel) CDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func (k *GaussianKernel) Roughness() float64 { return k.roughness }

func (k *GaussianKernel) SecondMoment() float64 { return k.secondMoment }

func (k *GaussianKernel) NormalReferenceConstant() float64 {
	return k.normalReferenceConstant
}

// polynomialKernel has support [-1,1] and a closed form odd polynomial CDF.
type polynomialKernel struct {
	kernelType   KernelType
	roughness    float64
	secondMoment float64
	inner        func(x float64) float64
}

func newPolynomialKernel(kernelType KernelType, ro, mu2 float64, inner func(float64) float64) *polynomialKernel {
	return &polynomialKernel{
		kernelType:   kernelType,
		roughness:    ro,
		secondMoment: mu2,
		inner:        inner,
	}
}

func (k *polynomialKernel) Type() KernelType { return k.kernelType }

func (k *polynomialKernel) CDF(x float64) float64 {
	if x <= -1 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return k.inner(x)
}

func (k *polynomialKernel) Roughness() float64 { return k.roughness }

func (k *polynomialKernel) SecondMoment() float64 { return k.secondMoment }

func (k *polynomialKernel) NormalReferenceConstant() float64 {
	return normalReferenceConstant(k.roughness, k.secondMoment)
}

func epanechnikovCDF(x float64) float64 {
	return 0.75*x*(1-x*x/3) + 0.5
}

func biweightCDF(x float64) float64 {
	x3 := x * x * x
	return 15.0/16*x - 5.0/8*x3 + 3.0/16*x3*x*x + 0.5
}

func triweightCDF(x float64) float64 {
	x2 := x * x
	x3 := x2 * x
	x5 := x3 * x2
	return 35.0/32*x - 35.0/32*x3 + 21.0/32*x5 - 5.0/32*x5*x2 + 0.5
}
