package peakpattern

import (
	"testing"

	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ChargeHighToLow(t *testing.T) {
	massPatterns := []labelconfig.MassPattern{{0}, {0, 8.0141988}}
	patterns := Generate(2, 4, 4, massPatterns)

	require.Len(t, patterns, 6)
	require.Equal(t, 4, patterns[0].Charge)
	require.Equal(t, 4, patterns[1].Charge)
	require.Equal(t, 3, patterns[2].Charge)
	require.Equal(t, 2, patterns[5].Charge)
}

func TestPeakPattern_Offset(t *testing.T) {
	p := PeakPattern{ID: 0, Charge: 2, MaxIsotopes: 4, MassShifts: labelconfig.MassPattern{0, 8.0141988}}

	require.InDelta(t, 0, p.Offset(0, 0), 1e-9)
	require.InDelta(t, c12c13Spacing/2, p.Offset(0, 1), 1e-9)
	require.InDelta(t, -c12c13Spacing/2, p.Offset(0, -1), 1e-9)
	require.InDelta(t, 8.0141988/2, p.Offset(1, 0), 1e-9)
}

func TestPeakPattern_NumPeptides(t *testing.T) {
	p := PeakPattern{MassShifts: labelconfig.MassPattern{0, 4, 8}}
	require.Equal(t, 3, p.NumPeptides())
}
