package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anomaliesOf(t *testing.T, series []float64, sigma float64) []float64 {
	t.Helper()
	s, err := ComputeStats(series)
	require.NoError(t, err)
	return DetectAnomalies(series, s, sigma)
}

func TestDetectAnomalies(t *testing.T) {
	series := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 200}
	assert.Equal(t, []float64{200}, anomaliesOf(t, series, 2))
}

func TestDetectAnomaliesBoundaryIsExclusive(t *testing.T) {
	// mean 28, std 36: |100-28| is exactly 2σ.
	assert.Empty(t, anomaliesOf(t, []float64{10, 10, 10, 10, 100}, 2))
	// five points can never sit more than 2σ out.
	assert.Empty(t, anomaliesOf(t, []float64{10, 10, 10, 10, 200}, 2))
}

func TestDetectAnomaliesKeepsSourceOrder(t *testing.T) {
	series := []float64{-500, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 1, 2, 500}
	assert.Equal(t, []float64{-500, 500}, anomaliesOf(t, series, 2))
}

func TestDetectAnomaliesZeroStd(t *testing.T) {
	assert.Nil(t, anomaliesOf(t, []float64{4, 4, 4}, 2))
}

func TestDetectAnomaliesSigmaIsTunable(t *testing.T) {
	series := []float64{10, 10, 10, 10, 100}
	assert.Equal(t, []float64{100}, anomaliesOf(t, series, 1.5))
}
