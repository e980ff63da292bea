package utils

import "gonum.org/v1/gonum/floats/scalar"

// RoundFloat rounds f half away from zero to the given number of decimal digits.
func RoundFloat(f float64, digits int) float64 {
	return scalar.Round(f, digits)
}

func RoundFloats(fs []float64, digits int) []float64 {
	res := make([]float64, len(fs))
	for i, f := range fs {
		res[i] = RoundFloat(f, digits)
	}
	return res
}
