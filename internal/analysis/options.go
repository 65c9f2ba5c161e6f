package analysis

import "go.uber.org/zap"

// Options holds the detector thresholds. The defaults are the calibration the
// dashboard ships with; they are scale sensitive (seasonal std in particular is
// an absolute value) and exposed so callers can tune them per dataset.
type Options struct {
	// AnomalySigma flags values with |x-mean| > AnomalySigma*std.
	AnomalySigma float64
	// TrendStableSlope is the |slope| at or below which a trend is Stable.
	TrendStableSlope float64

	CyclicalPeriods    []int
	CyclicalTolerance  float64 // relative deviation counted as a match
	CyclicalMatchRatio float64

	ExponentialMinSlope    float64
	ExponentialMinStrength int
	// ExponentialCompareLinear additionally requires the log-linear fit to
	// explain the raw series better than a straight line does.
	ExponentialCompareLinear bool

	SeasonalPeriods     []int
	SeasonalMaxStd      float64
	SeasonalStableRatio float64

	// Logger receives debug events (ignored filters, skipped series). Nil is a no-op.
	Logger *zap.Logger
}

// DefaultOptions returns the dashboard calibration.
func DefaultOptions() Options {
	return Options{
		AnomalySigma:             2,
		TrendStableSlope:         0.1,
		CyclicalPeriods:          []int{2, 3, 4, 6},
		CyclicalTolerance:        0.2,
		CyclicalMatchRatio:       0.6,
		ExponentialMinSlope:      0.1,
		ExponentialMinStrength:   70,
		ExponentialCompareLinear: true,
		SeasonalPeriods:          []int{4, 12},
		SeasonalMaxStd:           0.5,
		SeasonalStableRatio:      0.6,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
