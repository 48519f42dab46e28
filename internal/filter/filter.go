// Package filter implements the pattern filter: the core algorithm that
// scans a spectrum grid for positions where a full isotopic envelope of a
// labelled peptide multiplet is present at every expected shifted m/z.
package filter

import (
	"math"

	"github.com/524D/multiplex/internal/averagine"
	"github.com/524D/multiplex/internal/logging"
	"github.com/524D/multiplex/internal/peakpattern"
	"github.com/524D/multiplex/internal/specgrid"
)

// Config carries the threshold parameters the filter sweep is run under.
// It is a flat, validated struct populated from labelconfig.Config; the
// filter package does not depend on labelconfig itself, to keep the
// dependency graph acyclic (labelconfig sits below peakpattern, which
// sits below filter).
type Config struct {
	MzTolerance         float64
	MzUnit              string // "ppm" or "Da"
	IntensityCutoff     float64
	PeptideSimilarity   float64
	AveragineSimilarity float64
	AllowMissingPeaks   bool
	IsotopesMin         int
	ProfileSamples      int // samples per peak for the neighbourhood correlation check; 0 means 5
}

func (c Config) tolDa(mz float64) float64 {
	if c.MzUnit == "ppm" {
		return mz * c.MzTolerance * 1e-6
	}
	return c.MzTolerance
}

// ResultPeak is a centroid position that passed every check for one
// PeakPattern, carrying the resolved intensity and m/z-shift matrices for
// every expected (peptide, isotope) slot.
type ResultPeak struct {
	PatternID int
	Charge    int
	RT        float64
	Mz        float64 // probe position: light peptide's mono-isotope m/z
	// Intensities[p][i] is the resolved intensity for peptide p, isotope i
	// (i in [0, MaxIsotopes)); NaN marks a missing slot under
	// allow_missing_peaks.
	Intensities [][]float64
	MzShifts    [][]float64
}

// ResultRaw is the finer-grained per-profile-sample variant of ResultPeak,
// used downstream for regression: for every expected slot, a vector of
// spline-sampled intensities across the matched peak's boundary interval.
type ResultRaw struct {
	PatternID int
	RT        float64
	Mz        float64
	Samples   [][][]float64 // Samples[p][i] = profile intensity samples
}

// rejectReason names which check failed for a candidate probe, recorded
// behind a debug log call so operators tuning thresholds can see why a
// position was rejected.
type rejectReason string

const (
	rejectAnchor     rejectReason = "anchor"
	rejectVeto       rejectReason = "veto"
	rejectEnvelope   rejectReason = "envelope"
	rejectAveragine  rejectReason = "averagine-similarity"
	rejectPeptideSim rejectReason = "peptide-similarity"
	rejectProfileCor rejectReason = "profile-correlation"
)

// Sweep runs the pattern filter for one PeakPattern across an entire Grid,
// returning every accepted ResultPeak/ResultRaw pair. Candidates are
// scanned spectrum-by-spectrum, peak-by-peak; each spectrum is
// independent, so Sweep is safe to call concurrently for different
// patterns against the same (read-only) Grid.
func Sweep(pattern peakpattern.PeakPattern, grid *specgrid.Grid, model *averagine.Model, cfg Config, log logging.Logger) ([]ResultPeak, []ResultRaw) {
	if log == nil {
		log = logging.Nop{}
	}

	var peaks []ResultPeak
	var raws []ResultRaw

	for _, spec := range grid.Spectra {
		nav := specgrid.NewNavigator(&spec)
		for qi := range spec.Peaks {
			probe := spec.Peaks[qi]
			rp, rr, reason, ok := evaluateCandidate(pattern, &spec, nav, probe, model, cfg)
			if !ok {
				if reason != "" {
					log.Debugf("pattern %d: reject probe rt=%.3f mz=%.5f: %s", pattern.ID, spec.RT, probe.Mz, reason)
				}
				continue
			}
			peaks = append(peaks, rp)
			raws = append(raws, rr)
		}
	}
	return peaks, raws
}

func evaluateCandidate(
	pattern peakpattern.PeakPattern,
	spec *specgrid.Spectrum,
	nav *specgrid.Navigator,
	probe specgrid.Peak,
	model *averagine.Model,
	cfg Config,
) (ResultPeak, ResultRaw, rejectReason, bool) {
	// 1. Mono-isotope anchor.
	if probe.Intens < cfg.IntensityCutoff {
		return ResultPeak{}, ResultRaw{}, rejectAnchor, false
	}

	nPeptides := pattern.NumPeptides()
	k := pattern.MaxIsotopes

	intens := make([][]float64, nPeptides)
	mzShifts := make([][]float64, nPeptides)
	samples := make([][][]float64, nPeptides)
	peakRefs := make([][]specgrid.Peak, nPeptides)
	for p := 0; p < nPeptides; p++ {
		intens[p] = make([]float64, k)
		mzShifts[p] = make([]float64, k)
		samples[p] = make([][]float64, k)
		peakRefs[p] = make([]specgrid.Peak, k)
	}

	found := make([]bool, nPeptides*k)

	for p := 0; p < nPeptides; p++ {
		for i := 0; i < k; i++ {
			expected := probe.Mz + pattern.Offset(p, i)
			if p == 0 && i == 0 {
				intens[p][i] = probe.Intens
				mzShifts[p][i] = 0
				peakRefs[p][i] = probe
				found[p*k+i] = true
				continue
			}
			tol := cfg.tolDa(expected)
			pk, err := nav.NearestPeak(expected, tol)
			if err != nil {
				intens[p][i] = math.NaN()
				mzShifts[p][i] = math.NaN()
				continue
			}
			intens[p][i] = pk.Intens
			mzShifts[p][i] = pk.Mz - expected
			peakRefs[p][i] = pk
			found[p*k+i] = true
		}
	}

	// 2. Below-mono-isotope veto.
	ratios := model.Ratios(probe.Mz*float64(pattern.Charge), max(k, 2))
	if len(ratios) >= 2 && ratios[1] > 0 {
		vetoExpected := probe.Mz + pattern.Offset(0, -1)
		vetoTol := cfg.tolDa(vetoExpected)
		if vp, err := nav.NearestPeak(vetoExpected, vetoTol); err == nil {
			threshold := probe.Intens * (ratios[0] / ratios[1])
			if !(vp.Intens < threshold) {
				return ResultPeak{}, ResultRaw{}, rejectVeto, false
			}
		}
	}

	// 3. Isotope envelope presence.
	minIsotopes := cfg.IsotopesMin
	if minIsotopes < 1 {
		minIsotopes = 1
	}
	for p := 0; p < nPeptides; p++ {
		present := 0
		for i := 0; i < k; i++ {
			if found[p*k+i] {
				present++
				continue
			}
			if i == 0 {
				// Mono-isotope slot missing for a non-light peptide: no
				// envelope to speak of.
				return ResultPeak{}, ResultRaw{}, rejectEnvelope, false
			}
			if !cfg.AllowMissingPeaks {
				return ResultPeak{}, ResultRaw{}, rejectEnvelope, false
			}
		}
		if present < minIsotopes {
			return ResultPeak{}, ResultRaw{}, rejectEnvelope, false
		}
	}

	// 4. Averagine similarity, per peptide.
	for p := 0; p < nPeptides; p++ {
		if pearsonSimilarityDroppingNaN(intens[p], ratios[:k]) < cfg.AveragineSimilarity {
			return ResultPeak{}, ResultRaw{}, rejectAveragine, false
		}
	}

	// 5. Peptide similarity, across every pair of peptides.
	for a := 0; a < nPeptides; a++ {
		for b := a + 1; b < nPeptides; b++ {
			if pearsonSimilarityDroppingNaN(intens[a], intens[b]) < cfg.PeptideSimilarity {
				return ResultPeak{}, ResultRaw{}, rejectPeptideSim, false
			}
		}
	}

	// 6. Intensity-profile correlation in m/z neighbourhood, using the
	// spline sampler. Each expected slot's shape across a small m/z window
	// around its matched peak must correlate with every other slot's
	// shape: all isotopologues must share the same elution within this
	// spectrum. Since every SampleRange is a 3-knot
	// (Left,0)-(Mz,peak)-(Right,0) curve, these shapes are already
	// near-proportional by construction, so this check is weaker than a
	// correlation over real raw profile data would be.
	nSamples := cfg.ProfileSamples
	if nSamples == 0 {
		nSamples = 5
	}
	var shapes [][]float64
	for p := 0; p < nPeptides; p++ {
		for i := 0; i < k; i++ {
			if !found[p*k+i] {
				continue
			}
			s := specgrid.NewSampler(peakRefs[p][i])
			shape := s.SampleRange(nSamples)
			samples[p][i] = shape
			shapes = append(shapes, shape)
		}
	}
	for a := 0; a < len(shapes); a++ {
		for b := a + 1; b < len(shapes); b++ {
			if pearsonSimilarity(shapes[a], shapes[b]) < cfg.PeptideSimilarity {
				return ResultPeak{}, ResultRaw{}, rejectProfileCor, false
			}
		}
	}

	rp := ResultPeak{
		PatternID:   pattern.ID,
		Charge:      pattern.Charge,
		RT:          spec.RT,
		Mz:          probe.Mz,
		Intensities: intens,
		MzShifts:    mzShifts,
	}
	rr := ResultRaw{
		PatternID: pattern.ID,
		RT:        spec.RT,
		Mz:        probe.Mz,
		Samples:   samples,
	}
	return rp, rr, "", true
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
