package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPearsonSimilarity_PerfectCorrelation(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{2, 4, 6, 8}
	require.InDelta(t, 1.0, pearsonSimilarity(a, b), 1e-9)
}

func TestPearsonSimilarity_ZeroVariance(t *testing.T) {
	a := []float64{5, 5, 5}
	b := []float64{1, 2, 3}
	require.Equal(t, 1.0, pearsonSimilarity(a, b))
}

func TestPearsonSimilarity_DropsNaN(t *testing.T) {
	a := []float64{1, 2, math.NaN(), 4}
	b := []float64{2, 4, 100, 8}
	r := pearsonSimilarityDroppingNaN(a, b)
	require.InDelta(t, 1.0, r, 1e-9)
}

func TestWelfordMeanVar(t *testing.T) {
	mean, variance := welfordMeanVar([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.InDelta(t, 5.0, mean, 1e-9)
	require.InDelta(t, 4.0, variance, 1e-9)
}
