package filter

import (
	"testing"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/524D/multiplex/internal/peakpattern"
	"github.com/524D/multiplex/internal/specgrid"
	"github.com/stretchr/testify/require"
)

func TestSweep_SingleLightPeptideNoLabel(t *testing.T) {
	peaks := []specgrid.Peak{
		{Mz: 500.0, Intens: 1000, Left: 499.9, Right: 500.1},
		{Mz: 500.5, Intens: 400, Left: 500.4, Right: 500.6},
		{Mz: 501.0, Intens: 150, Left: 500.9, Right: 501.1},
	}
	grid, err := specgrid.BuildGrid([]specgrid.Spectrum{{RT: 150, Peaks: peaks}})
	require.NoError(t, err)

	pattern := peakpattern.PeakPattern{ID: 0, Charge: 2, MaxIsotopes: 3, MassShifts: labelconfig.MassPattern{0}}
	model := averagine.NewModel(nil, 1.0)

	cfg := Config{
		MzTolerance:         0.02,
		MzUnit:              "Da",
		IntensityCutoff:     100,
		PeptideSimilarity:   0.5,
		AveragineSimilarity: -1, // averagine shape of a synthetic test peak won't match the model closely
		AllowMissingPeaks:   false,
		IsotopesMin:         1,
	}

	results, raws := Sweep(pattern, grid, model, cfg, nil)
	require.NotEmpty(t, results)
	require.Equal(t, len(results), len(raws))
	require.Equal(t, 500.0, results[0].Mz)
}

func TestSweep_RejectsBelowIntensityCutoff(t *testing.T) {
	peaks := []specgrid.Peak{{Mz: 500.0, Intens: 10, Left: 499.9, Right: 500.1}}
	grid, err := specgrid.BuildGrid([]specgrid.Spectrum{{RT: 10, Peaks: peaks}})
	require.NoError(t, err)

	pattern := peakpattern.PeakPattern{ID: 0, Charge: 1, MaxIsotopes: 1, MassShifts: labelconfig.MassPattern{0}}
	model := averagine.NewModel(nil, 1.0)
	cfg := Config{MzTolerance: 0.02, MzUnit: "Da", IntensityCutoff: 100, AveragineSimilarity: -1, PeptideSimilarity: -1, IsotopesMin: 1}

	results, _ := Sweep(pattern, grid, model, cfg, nil)
	require.Empty(t, results)
}
