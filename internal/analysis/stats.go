package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// SeriesStats are the descriptive statistics of one numeric series. Std is
// the population standard deviation (divisor n).
type SeriesStats struct {
	Count  int     `json:"count" yaml:"count"`
	Sum    float64 `json:"sum" yaml:"sum"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// ComputeStats summarizes a series. An empty series is rejected with
// ErrEmptySeries instead of yielding NaN.
func ComputeStats(series []float64) (SeriesStats, error) {
	if len(series) == 0 {
		return SeriesStats{}, &Error{Op: "statistics", Err: ErrEmptySeries}
	}
	data := stats.Float64Data(series)
	var (
		s   = SeriesStats{Count: len(series)}
		err error
	)
	if s.Sum, err = data.Sum(); err != nil {
		return SeriesStats{}, fmt.Errorf("sum: %w", err)
	}
	s.Mean = s.Sum / float64(s.Count)
	if s.Median, err = data.Median(); err != nil {
		return SeriesStats{}, fmt.Errorf("median: %w", err)
	}
	if s.Std, err = data.StandardDeviationPopulation(); err != nil {
		return SeriesStats{}, fmt.Errorf("std: %w", err)
	}
	if s.Min, err = data.Min(); err != nil {
		return SeriesStats{}, fmt.Errorf("min: %w", err)
	}
	if s.Max, err = data.Max(); err != nil {
		return SeriesStats{}, fmt.Errorf("max: %w", err)
	}
	return s, nil
}

// Rounded returns a copy with every float rounded to two decimals for display.
// Detectors always work on the unrounded values.
func (s SeriesStats) Rounded() SeriesStats {
	r := s
	for _, f := range []*float64{&r.Sum, &r.Mean, &r.Median, &r.Std, &r.Min, &r.Max} {
		*f = round2(*f)
	}
	return r
}

func round2(f float64) float64 {
	r, err := stats.Round(f, 2)
	if err != nil {
		return f
	}
	return r
}
