package roc

const (
	DefaultGridSize = 151
	DefaultAlpha    = 0.05

	// ROC values and the empirical indicator are rounded to this many digits.
	RoundDigits = 8
)

// Stages reported in estimator errors.
const (
	StageValidate  = "validate"
	StageCensoring = "censoring"
	StageBandwidth = "bandwidth"
	StageSmoothing = "smoothing"
	StageYouden    = "youden"
	StageBootstrap = "bootstrap"
)
