package kde

const (
	// IQR of the standard normal, used to turn an IQR into a scale estimate.
	iqrNormalize = 1.349
)
