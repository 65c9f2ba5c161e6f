package analysis

import "math"

// Pattern labels, reported in this order.
const (
	PatternCyclical    = "Cyclical pattern detected"
	PatternExponential = "Exponential growth pattern"
	PatternSeasonal    = "Seasonal variation detected"
)

const (
	minCyclicalPoints    = 6
	minExponentialPoints = 4
	minSeasonalPoints    = 8
)

// DetectPatterns runs the cyclical, exponential and seasonal checks and
// returns the labels of those that fired.
func DetectPatterns(series []float64, opt Options) []string {
	var out []string
	if IsCyclical(series, opt) {
		out = append(out, PatternCyclical)
	}
	if IsExponential(series, opt) {
		out = append(out, PatternExponential)
	}
	if IsSeasonal(series, opt) {
		out = append(out, PatternSeasonal)
	}
	return out
}

// IsCyclical compares same-phase samples data[i*p] and data[(i+1)*p] for each
// candidate period p. A pair matches when it differs by less than
// CyclicalTolerance of the first value's magnitude; a period qualifies when
// more than CyclicalMatchRatio of its pairs match.
func IsCyclical(data []float64, opt Options) bool {
	if len(data) < minCyclicalPoints {
		return false
	}
	for _, p := range opt.CyclicalPeriods {
		if p <= 0 || len(data) < 2*p {
			continue
		}
		samples := len(data) / p
		matches := 0
		for i := 0; i < samples-1; i++ {
			a, b := data[i*p], data[(i+1)*p]
			if math.Abs(a-b) < math.Abs(a)*opt.CyclicalTolerance {
				matches++
			}
		}
		if float64(matches)/float64(samples-1) > opt.CyclicalMatchRatio {
			return true
		}
	}
	return false
}

// IsExponential fits a line to the log of the strictly positive values and
// fires when that fit is steep and tight enough. With
// ExponentialCompareLinear set it must also beat a linear fit of the raw
// values, so plain arithmetic growth is not reported as exponential.
func IsExponential(data []float64, opt Options) bool {
	if len(data) < minExponentialPoints {
		return false
	}
	var (
		logs []float64
		pos  []float64
	)
	for _, v := range data {
		if v > 0 {
			logs = append(logs, math.Log(v))
			pos = append(pos, v)
		}
	}
	if len(logs) < minExponentialPoints {
		return false
	}
	fit := DetectTrend(logs, opt)
	if math.Abs(fit.Slope) <= opt.ExponentialMinSlope || fit.Strength <= opt.ExponentialMinStrength {
		return false
	}
	if opt.ExponentialCompareLinear {
		if linear := DetectTrend(pos, opt); linear.RSquared >= fit.RSquared {
			return false
		}
	}
	return true
}

// IsSeasonal groups values by phase within each candidate period and counts
// phases whose population std across complete cycles is under
// SeasonalMaxStd. A period qualifies when more than SeasonalStableRatio of its
// phases are stable. Phases with a single value never count as stable.
func IsSeasonal(data []float64, opt Options) bool {
	if len(data) < minSeasonalPoints {
		return false
	}
	for _, p := range opt.SeasonalPeriods {
		if p <= 0 || len(data) < 2*p {
			continue
		}
		cycles := len(data) / p
		stable := 0
		for phase := 0; phase < p; phase++ {
			vals := make([]float64, 0, cycles)
			for c := 0; c < cycles; c++ {
				vals = append(vals, data[c*p+phase])
			}
			if len(vals) < 2 {
				continue
			}
			s, err := ComputeStats(vals)
			if err == nil && s.Std < opt.SeasonalMaxStd {
				stable++
			}
		}
		if float64(stable)/float64(p) > opt.SeasonalStableRatio {
			return true
		}
	}
	return false
}
