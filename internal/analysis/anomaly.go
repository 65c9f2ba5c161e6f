package analysis

import "math"

// DetectAnomalies returns, in source order, the values lying more than sigma
// standard deviations from the mean. A zero std flags nothing.
func DetectAnomalies(series []float64, s SeriesStats, sigma float64) []float64 {
	if s.Std == 0 {
		return nil
	}
	limit := sigma * s.Std
	var out []float64
	for _, v := range series {
		if math.Abs(v-s.Mean) > limit {
			out = append(out, v)
		}
	}
	return out
}
