package engine

import (
	"context"
	"testing"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/524D/multiplex/internal/specgrid"
	"github.com/stretchr/testify/require"
)

func TestRun_EmptyInput(t *testing.T) {
	cfg := &labelconfig.Config{
		ChargeMin: 2, ChargeMax: 2,
		IsotopesMin: 1, IsotopesMax: 3,
		RTTypical: 60, MzUnit: "Da", MzTolerance: 0.02,
	}
	_, err := Run(context.Background(), nil, cfg, averagine.NewModel(nil, 1.0), Options{}, nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestRun_SingleLightPeptideNoLabel(t *testing.T) {
	peaks := []specgrid.Peak{
		{Mz: 500.0, Intens: 1000, Left: 499.9, Right: 500.1},
	}
	grid, err := specgrid.BuildGrid([]specgrid.Spectrum{{RT: 150, Peaks: peaks}})
	require.NoError(t, err)

	cfg := &labelconfig.Config{
		Samples:     labelconfig.SampleDescription{nil},
		LabelMasses: labelconfig.DefaultLabelTable(),
		ChargeMin:   2, ChargeMax: 2,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, RTMin: 0,
		MzUnit: "Da", MzTolerance: 0.02,
		IntensityCutoff:     100,
		PeptideSimilarity:   -1,
		AveragineSimilarity: -1,
	}

	result, err := Run(context.Background(), grid, cfg, averagine.NewModel(nil, 1.0), Options{}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Consensus)
}

func TestRun_ConfigError(t *testing.T) {
	cfg := &labelconfig.Config{
		ChargeMin: 0, ChargeMax: 2,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, MzUnit: "Da",
	}
	grid, err := specgrid.BuildGrid([]specgrid.Spectrum{{RT: 1, Peaks: []specgrid.Peak{{Mz: 1, Intens: 1}}}})
	require.NoError(t, err)

	_, err = Run(context.Background(), grid, cfg, averagine.NewModel(nil, 1.0), Options{}, nil)
	require.Error(t, err)
	var cerr *labelconfig.ConfigError
	require.ErrorAs(t, err, &cerr)
}
