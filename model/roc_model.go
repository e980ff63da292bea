package model

type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ConfidenceInterval struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"sd"`
	Lower  float64 `json:"lcl"`
	Upper  float64 `json:"ucl"`
}

// FittedCurve is one ROC estimate over a false-positive-rate grid.
// Smoothed values are not clamped and may sit slightly outside [0,1].
type FittedCurve struct {
	Grid      []float64 `json:"grid"`
	ROC       []float64 `json:"roc"`
	AUC       float64   `json:"auc"`
	Bandwidth float64   `json:"bandwidth"`
}

// Points returns the curve closed with (0,0) and (1,1).
func (c *FittedCurve) Points() []CurvePoint {
	return closedCurve(c.Grid, c.ROC)
}

type BootstrapResult struct {
	Fitted     *FittedCurve       `json:"fitted"`
	MeanROC    []float64          `json:"mean_roc"`
	LowerROC   []float64          `json:"lcl_roc,omitempty"`
	UpperROC   []float64          `json:"ucl_roc,omitempty"`
	AUC        ConfidenceInterval `json:"auc"`
	Replicates int                `json:"replicates"`
	Failures   int                `json:"failures"`
}

func (r *BootstrapResult) HasBounds() bool {
	return r != nil && len(r.LowerROC) > 0 && len(r.UpperROC) > 0
}

// Points returns the mean curve closed with (0,0) and (1,1).
func (r *BootstrapResult) Points() []CurvePoint {
	return closedCurve(r.Fitted.Grid, r.MeanROC)
}

// Band returns the confidence region polygon: the upper bound walked from
// (1,1) back to (0,0), followed by the lower bound from (0,0) to (1,1).
func (r *BootstrapResult) Band() []CurvePoint {
	if !r.HasBounds() {
		return nil
	}
	upper := closedCurve(r.Fitted.Grid, r.UpperROC)
	lower := closedCurve(r.Fitted.Grid, r.LowerROC)

	res := make([]CurvePoint, 0, len(upper)+len(lower))
	for i := len(upper) - 1; i >= 0; i-- {
		res = append(res, upper[i])
	}
	return append(res, lower...)
}

type CutoffResult struct {
	YoudenIndex float64 `json:"youden_index"`
	Cutoff      float64 `json:"cutopt"`
	Sensitivity float64 `json:"sens"`
	Specificity float64 `json:"spec"`
	GridIndex   int     `json:"grid_index"`
}

// Diagonal is the chance-level reference line.
func Diagonal() []CurvePoint {
	return []CurvePoint{{X: 0, Y: 0}, {X: 1, Y: 1}}
}

func closedCurve(x, y []float64) []CurvePoint {
	n := min(len(x), len(y))
	res := make([]CurvePoint, 0, n+2)
	res = append(res, CurvePoint{X: 0, Y: 0})
	for i := 0; i < n; i++ {
		res = append(res, CurvePoint{X: x[i], Y: y[i]})
	}
	return append(res, CurvePoint{X: 1, Y: 1})
}
