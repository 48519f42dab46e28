package specgrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampler_ZeroOutsideBoundary(t *testing.T) {
	p := Peak{Mz: 500, Intens: 1000, Left: 499.9, Right: 500.1}
	s := NewSampler(p)

	require.Equal(t, 0.0, s.Intensity(499.8))
	require.Equal(t, 0.0, s.Intensity(500.2))
}

func TestSampler_MatchesApex(t *testing.T) {
	p := Peak{Mz: 500, Intens: 1000, Left: 499.9, Right: 500.1}
	s := NewSampler(p)

	require.InDelta(t, 1000, s.Intensity(500), 1e-6)
}

func TestSampler_SampleRange(t *testing.T) {
	p := Peak{Mz: 500, Intens: 1000, Left: 499.9, Right: 500.1}
	s := NewSampler(p)

	samples := s.SampleRange(5)
	require.Len(t, samples, 5)
	require.Equal(t, 0.0, samples[0])
	require.Equal(t, 0.0, samples[4])
}
