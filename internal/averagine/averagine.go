// Package averagine predicts the theoretical isotopic intensity ratios of a
// peptide from its neutral mass, using the "averagine" average amino-acid
// composition model (Senko et al. 1995).
package averagine

import "math"

// Average elemental composition of one averagine "residue" (111.1254
// daltons), expressed as atom counts per residue. Values taken from the
// standard averagine model used throughout proteomics tooling.
const (
	averagineMass = 111.1254

	cPerResidue = 4.9384
	hPerResidue = 7.7583
	nPerResidue = 1.3577
	oPerResidue = 1.4773
	sPerResidue = 0.0417
)

// isotope abundance of the heavier stable isotope, per element (C13, H2,
// N15, O18, S34). These are coarse single-extra-neutron probabilities
// sufficient for an averagine approximation, not a full isotope-cluster
// simulation.
const (
	abundC = 0.0107
	abundH = 0.000115
	abundN = 0.00364
	abundO = 0.00205
	abundS = 0.0425
)

// Model computes averagine isotope-ratio vectors for arbitrary peptide
// masses, optionally backed by a Cache to avoid recomputation across many
// probes that fall in the same mass bin.
type Model struct {
	cache   Cache
	binSize float64
}

// NewModel constructs a Model. A nil cache disables caching; binSize
// controls the mass-bin width (Da) used to key cache entries; a zero value
// defaults to 1 Da, matching the original tool's per-nominal-mass table.
func NewModel(cache Cache, binSize float64) *Model {
	if binSize <= 0 {
		binSize = 1.0
	}
	return &Model{cache: cache, binSize: binSize}
}

// Ratios returns theoretical relative intensities r_0..r_{k-1} for the
// first k isotopes of an averagine peptide of the given neutral mass. The
// result sums to 1 and every entry is strictly positive.
func (m *Model) Ratios(mass float64, k int) []float64 {
	bin := math.Round(mass/m.binSize) * m.binSize
	if m.cache != nil {
		if v, ok := m.cache.Get(bin, k); ok {
			return v
		}
	}
	r := computeRatios(bin, k)
	if m.cache != nil {
		m.cache.Set(bin, k, r)
	}
	return r
}

// computeRatios derives the isotope envelope for a peptide of the given
// mass from the averagine element-count scaling, combining per-element
// binomial isotope probabilities via convolution.
func computeRatios(mass float64, k int) []float64 {
	if k < 1 {
		k = 1
	}
	residues := mass / averagineMass

	dist := []float64{1}
	dist = convolveBinomial(dist, int(math.Round(residues*cPerResidue)), abundC, k)
	dist = convolveBinomial(dist, int(math.Round(residues*hPerResidue)), abundH, k)
	dist = convolveBinomial(dist, int(math.Round(residues*nPerResidue)), abundN, k)
	dist = convolveBinomial(dist, int(math.Round(residues*oPerResidue)), abundO, k)
	dist = convolveBinomial(dist, int(math.Round(residues*sPerResidue)), abundS, k)

	out := make([]float64, k)
	copy(out, dist)

	var sum float64
	for _, v := range out {
		sum += v
	}
	if sum <= 0 {
		// Degenerate mass (e.g. zero or negative); fall back to a uniform
		// decaying series so downstream similarity checks never divide by
		// zero.
		for i := range out {
			out[i] = 1.0 / float64(i+2)
			sum += out[i]
		}
	}
	for i := range out {
		out[i] /= sum
		if out[i] <= 0 {
			out[i] = math.SmallestNonzeroFloat64
		}
	}
	return out
}

// convolveBinomial convolves dist with the isotope-count binomial
// distribution Binomial(n, p), truncated to k terms. n is the number of
// atoms of one element, p the probability any one atom carries a heavy
// isotope.
func convolveBinomial(dist []float64, n int, p float64, k int) []float64 {
	if n <= 0 {
		return dist
	}
	binom := binomialPMF(n, p, k)
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		var s float64
		for j := 0; j <= i; j++ {
			if j >= len(dist) {
				break
			}
			s += dist[j] * binom[i-j]
		}
		out[i] = s
	}
	return out
}

func binomialPMF(n int, p float64, terms int) []float64 {
	out := make([]float64, terms)
	logq := math.Log1p(-p)
	for i := 0; i < terms && i <= n; i++ {
		out[i] = math.Exp(logBinomialCoeff(n, i) + float64(i)*math.Log(p) + float64(n-i)*logq)
	}
	return out
}

func logBinomialCoeff(n, k int) float64 {
	return lgamma(float64(n+1)) - lgamma(float64(k+1)) - lgamma(float64(n-k+1))
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
