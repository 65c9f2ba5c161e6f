package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCyclical(t *testing.T) {
	opt := DefaultOptions()
	assert.True(t, IsCyclical([]float64{10, 1, 10, 1, 10, 1}, opt))
	assert.False(t, IsCyclical([]float64{1, 2, 3, 4, 5, 6}, opt))
	assert.False(t, IsCyclical([]float64{10, 1, 10, 1, 10}, opt), "needs six points")
}

func TestIsExponential(t *testing.T) {
	opt := DefaultOptions()
	assert.True(t, IsExponential([]float64{1, 2, 4, 8, 16}, opt))
	assert.False(t, IsExponential([]float64{1, 2, 3, 4, 5}, opt))
	assert.False(t, IsExponential([]float64{2, 4, 8}, opt), "needs four points")
	assert.False(t, IsExponential([]float64{-1, 0, 4, 8, 16}, opt), "needs four positive points")
	assert.True(t, IsExponential([]float64{-1, 1, 2, 4, 8, 16}, opt), "non-positive values are dropped")
}

func TestIsExponentialWithoutLinearComparison(t *testing.T) {
	opt := DefaultOptions()
	opt.ExponentialCompareLinear = false
	// the log of a line is still a tight, steep fit
	assert.True(t, IsExponential([]float64{1, 2, 3, 4, 5}, opt))
}

func TestIsSeasonal(t *testing.T) {
	opt := DefaultOptions()
	assert.True(t, IsSeasonal([]float64{1, 5, 3, 7, 1, 5, 3, 7}, opt))
	assert.False(t, IsSeasonal([]float64{1, 2, 3, 4, 5, 6, 7, 8}, opt))
	assert.False(t, IsSeasonal([]float64{1, 5, 3, 7, 1, 5, 3}, opt), "needs eight points")

	opt.SeasonalMaxStd = 5
	assert.True(t, IsSeasonal([]float64{10, 50, 30, 70, 12, 52, 32, 72}, opt))
}

func TestDetectPatternsOrder(t *testing.T) {
	got := DetectPatterns([]float64{1, 5, 3, 7, 1, 5, 3, 7}, DefaultOptions())
	assert.Equal(t, []string{PatternCyclical, PatternSeasonal}, got)

	assert.Empty(t, DetectPatterns([]float64{3, 1, 4}, DefaultOptions()))
}
