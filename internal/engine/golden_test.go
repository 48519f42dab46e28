package engine

import (
	"context"
	"testing"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/524D/multiplex/internal/specgrid"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// approxFloat tolerates the tiny float drift a cubic-spline/correlation
// pipeline can introduce across otherwise-identical runs.
var approxFloat = cmpopts.EquateApprox(0, 1e-9)

func scanAt(rt float64, peaks []specgrid.Peak) specgrid.Spectrum {
	return specgrid.Spectrum{RT: rt, Peaks: peaks}
}

func peak(mz, intens, halfWidth float64) specgrid.Peak {
	return specgrid.Peak{Mz: mz, Intens: intens, Left: mz - halfWidth, Right: mz + halfWidth}
}

// silacLys8Grid builds a minimal synthetic MS1 grid holding a single light
// peptide and its Lys8-shifted heavy partner (delta mass 8.0142 at charge
// 2, so m/z shifts by 4.0071), across three consecutive scans so the
// clusterer has an RT span to work with.
func silacLys8Grid(t *testing.T) *specgrid.Grid {
	t.Helper()
	const lightMz = 500.0
	const heavyMz = lightMz + 4.0071

	var spectra []specgrid.Spectrum
	for i, rt := range []float64{140, 150, 160} {
		lightIntens := 1000.0 - float64(i)*10
		heavyIntens := 1200.0 - float64(i)*10
		spectra = append(spectra, scanAt(rt, []specgrid.Peak{
			peak(lightMz, lightIntens, 0.05),
			peak(heavyMz, heavyIntens, 0.05),
		}))
	}
	grid, err := specgrid.BuildGrid(spectra)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	return grid
}

func silacLys8Config() *labelconfig.Config {
	return &labelconfig.Config{
		Samples: labelconfig.SampleDescription{
			nil, {"Lys8"},
		},
		LabelMasses:         labelconfig.DefaultLabelTable(),
		ChargeMin:           2,
		ChargeMax:           2,
		IsotopesMin:         1,
		IsotopesMax:         1,
		RTTypical:           60,
		RTMin:               5,
		MzUnit:              "Da",
		MzTolerance:         0.02,
		IntensityCutoff:     100,
		PeptideSimilarity:   -1,
		AveragineSimilarity: -1,
	}
}

// TestRun_SILACLys8Doublet_Deterministic runs the same SILAC doublet
// scenario twice end to end and checks the two results are identical, per
// the engine's reproducibility invariant: identical input and config must
// yield identical consensus/feature maps, including IDs. Float fields are
// compared with approxFloat's 1e-9 relative tolerance.
func TestRun_SILACLys8Doublet_Deterministic(t *testing.T) {
	cfg := silacLys8Config()
	model := averagine.NewModel(averagine.NewMemCache(), 1.0)

	first, err := Run(context.Background(), silacLys8Grid(t), cfg, model, Options{}, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	second, err := Run(context.Background(), silacLys8Grid(t), silacLys8Config(), model, Options{}, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if diff := cmp.Diff(first.Consensus, second.Consensus, approxFloat); diff != "" {
		t.Errorf("consensus map differs across identical runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Features, second.Features, approxFloat); diff != "" {
		t.Errorf("feature map differs across identical runs (-first +second):\n%s", diff)
	}
}

// TestRun_SILACLys8Doublet_FindsPair checks the shape of the result
// against a hand-built expectation: at least one consensus feature, each
// with two peptide slots (light, heavy).
func TestRun_SILACLys8Doublet_FindsPair(t *testing.T) {
	cfg := silacLys8Config()
	model := averagine.NewModel(averagine.NewMemCache(), 1.0)

	result, err := Run(context.Background(), silacLys8Grid(t), cfg, model, Options{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Consensus) == 0 {
		t.Fatalf("expected at least one consensus feature, got none")
	}

	const wantSlots = 2 // light + Lys8-shifted heavy
	for _, cf := range result.Consensus {
		if len(cf.Intensities) != wantSlots {
			t.Errorf("consensus feature %s: got %d peptide slots, want %d", cf.ID, len(cf.Intensities), wantSlots)
		}
	}
}
