package specgrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNavigator_NearestPeak(t *testing.T) {
	s := Spectrum{RT: 10, Peaks: []Peak{
		{Mz: 500.0, Intens: 100},
		{Mz: 504.007, Intens: 50},
		{Mz: 508.0, Intens: 10},
	}}
	nav := NewNavigator(&s)

	p, err := nav.NearestPeak(504.01, 0.01)
	require.NoError(t, err)
	require.InDelta(t, 504.007, p.Mz, 1e-9)
}

func TestNavigator_NearestPeak_NoSuccessor(t *testing.T) {
	s := Spectrum{RT: 10, Peaks: []Peak{{Mz: 500, Intens: 1}}}
	nav := NewNavigator(&s)

	_, err := nav.NearestPeak(600, 0.01)
	require.ErrorIs(t, err, ErrNoSuccessor)
}

func TestNavigator_PeakAt_Precondition(t *testing.T) {
	s := Spectrum{RT: 10, Peaks: []Peak{{Mz: 500, Intens: 1}}}
	nav := NewNavigator(&s)

	require.Panics(t, func() { nav.PeakAt(5) })
}
