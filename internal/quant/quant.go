// Package quant assembles quantified peptide multiplets from clustered
// filter hits: linear regression through the origin for per-peptide
// intensity ratios, reconciliation of raw sums against fitted ratios, and
// emission of both a consensus map and a per-peptide feature map.
package quant

import (
	"fmt"
	"math"

	"github.com/524D/multiplex/internal/cluster"
	"github.com/524D/multiplex/internal/filter"
	"github.com/google/uuid"
)

// idNamespace seeds deterministic (v5) UUIDs for consensus features and
// feature-map rows. Using a fixed namespace with content-derived names
// means two runs over identical input and config emit byte-identical ids,
// satisfying the engine's reproducibility invariant - a random (v4) UUID
// would not.
var idNamespace = uuid.MustParse("6f6e9b1a-6e8b-4f0b-9b0a-7f6b1c2d3e4f")

// ConsensusFeature is the final quantitation output for one cluster: the
// light peptide's centre-of-mass position, per-peptide intensities, charge
// and a quality score.
type ConsensusFeature struct {
	ID          string
	PatternID   int
	ClusterID   int
	Charge      int
	RT, Mz      float64 // light peptide's centre of mass
	Intensities []float64
	Ratios      []float64
	Quality     float64
}

// Feature is one row of the per-peptide feature map: one ConsensusFeature
// expands into NumPeptides Features, one per multiplet slot, sharing the
// consensus's cluster identity and quality score (the original tool does
// not compute a separate per-feature score).
type Feature struct {
	ID          string
	ConsensusID string
	PeptideIdx  int
	RT, Mz      float64
	Intensity   float64
	Quality     float64
}

// FeatureMap is the per-peptide output; ConsensusMap is the per-cluster
// output.
type FeatureMap []Feature
type ConsensusMap []ConsensusFeature

// regress fits the ratio r = (sum x_p*x_1) / (sum x_1^2), a simple linear
// regression through the origin. Pairs where either sample is NaN are
// dropped. If the denominator is zero, the slope is reported as NaN and
// the caller (reconcile) drops the peptide instead of propagating the
// error further, per the numeric-error handling rule.
func regress(light, other []float64) float64 {
	var num, den float64
	for i := range light {
		x1, xp := light[i], other[i]
		if math.IsNaN(x1) || math.IsNaN(xp) {
			continue
		}
		num += xp * x1
		den += x1 * x1
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// rawSum sums the non-NaN entries of xs.
func rawSum(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
	}
	return sum
}

// nanSlice returns a length-n slice filled with NaN, used to keep a
// peptide's profile series index-aligned with peptide 0's when a cluster
// member never matched a peak for that peptide.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// reconcile computes, for n peptides, the coherent intensity vector I'
// given raw sums I and fitted ratios r (r[0] is unused; r[p] is the ratio
// of peptide p to the light peptide, p >= 1). A NaN ratio drops that
// peptide: its entry is NaN and the other entries do not use it.
func reconcile(rawSums, ratios []float64) []float64 {
	n := len(rawSums)
	out := make([]float64, n)
	switch {
	case n == 1:
		out[0] = rawSums[0]
	case n == 2:
		r := ratios[1]
		i1, i2 := rawSums[0], rawSums[1]
		if math.IsNaN(r) {
			out[0] = i1
			out[1] = math.NaN()
			break
		}
		denom := 1 + r*r
		var i1p float64
		if denom == 0 {
			i1p = i1
		} else {
			i1p = (i1 + r*i2) / denom
		}
		out[0] = i1p
		out[1] = r * i1p
	default:
		out[0] = rawSums[0]
		for p := 1; p < n; p++ {
			out[p] = ratios[p] * rawSums[0]
		}
	}
	return out
}

// centreOfMass computes the intensity-weighted mean (rt, mz) for one
// peptide slot across the cluster's resolved mono-isotope centroid
// positions.
func centreOfMass(rts, mzs, weights []float64) (float64, float64) {
	var sumW, sumRT, sumMz float64
	for i := range rts {
		w := weights[i]
		if math.IsNaN(w) || w <= 0 {
			continue
		}
		sumW += w
		sumRT += w * rts[i]
		sumMz += w * mzs[i]
	}
	if sumW == 0 {
		return 0, 0
	}
	return sumRT / sumW, sumMz / sumW
}

// Assemble converts every cluster in clusters into a ConsensusFeature plus
// its per-peptide Feature rows. raws supplies the per-profile-sample
// intensity vectors (indexed the same as peaks) used for the regression.
func Assemble(peaks []filter.ResultPeak, raws []filter.ResultRaw, clusters map[int]map[int]cluster.Cluster) (ConsensusMap, FeatureMap) {
	var consensus ConsensusMap
	var features FeatureMap

	for patternID, byCluster := range clusters {
		for clusterID, c := range byCluster {
			cf, fts := assembleOne(patternID, clusterID, c, peaks, raws)
			consensus = append(consensus, cf)
			features = append(features, fts...)
		}
	}
	return consensus, features
}

func assembleOne(patternID, clusterID int, c cluster.Cluster, peaks []filter.ResultPeak, raws []filter.ResultRaw) (ConsensusFeature, []Feature) {
	if len(c.PeakIdx) == 0 {
		return ConsensusFeature{}, nil
	}
	nPeptides := len(peaks[c.PeakIdx[0]].Intensities)

	// centroidSeries[p] collects the resolved mono-isotope centroid
	// intensity per cluster member, feeding the raw intensity sums.
	// profileSeries[p] collects every spline-sampled profile point across
	// every member's mono-isotope peak (ResultRaw.Samples), giving the
	// regression far more data than one point per cluster member; a
	// member that never matched peptide p's mono-isotope is padded with
	// NaN so both series stay index-aligned.
	centroidSeries := make([][]float64, nPeptides)
	profileSeries := make([][]float64, nPeptides)
	rts := make([]float64, 0, len(c.PeakIdx))
	mzsLight := make([]float64, 0, len(c.PeakIdx))
	lightWeights := make([]float64, 0, len(c.PeakIdx))
	perPeptideRT := make([][]float64, nPeptides)
	perPeptideMz := make([][]float64, nPeptides)
	perPeptideW := make([][]float64, nPeptides)

	for p := 0; p < nPeptides; p++ {
		perPeptideRT[p] = make([]float64, 0, len(c.PeakIdx))
		perPeptideMz[p] = make([]float64, 0, len(c.PeakIdx))
		perPeptideW[p] = make([]float64, 0, len(c.PeakIdx))
	}

	for _, idx := range c.PeakIdx {
		pk := peaks[idx]
		rw := raws[idx]
		nSamples := 0
		if len(rw.Samples) > 0 && len(rw.Samples[0]) > 0 {
			nSamples = len(rw.Samples[0][0])
		}
		rts = append(rts, pk.RT)
		mzsLight = append(mzsLight, pk.Mz)
		lightWeights = append(lightWeights, pk.Intensities[0][0])
		for p := 0; p < nPeptides; p++ {
			mono := pk.Intensities[p][0]
			centroidSeries[p] = append(centroidSeries[p], mono)

			var shape []float64
			if p < len(rw.Samples) && len(rw.Samples[p]) > 0 {
				shape = rw.Samples[p][0]
			}
			if len(shape) == 0 {
				shape = nanSlice(nSamples)
			}
			profileSeries[p] = append(profileSeries[p], shape...)

			perPeptideRT[p] = append(perPeptideRT[p], pk.RT)
			perPeptideMz[p] = append(perPeptideMz[p], pk.Mz+pk.MzShifts[p][0])
			perPeptideW[p] = append(perPeptideW[p], mono)
		}
	}

	ratios := make([]float64, nPeptides)
	for p := 1; p < nPeptides; p++ {
		ratios[p] = regress(profileSeries[0], profileSeries[p])
	}

	rawSums := make([]float64, nPeptides)
	for p := 0; p < nPeptides; p++ {
		rawSums[p] = rawSum(centroidSeries[p])
	}

	intensities := reconcile(rawSums, ratios)

	quality := 1 - 1/float64(len(c.PeakIdx))
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}

	lightRT, lightMz := centreOfMass(rts, mzsLight, lightWeights)

	id := uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("consensus:%d:%d", patternID, clusterID))).String()

	cf := ConsensusFeature{
		ID:          id,
		PatternID:   patternID,
		ClusterID:   clusterID,
		Charge:      peaks[c.PeakIdx[0]].Charge,
		RT:          lightRT,
		Mz:          lightMz,
		Intensities: intensities,
		Ratios:      ratios,
		Quality:     quality,
	}

	features := make([]Feature, 0, nPeptides)
	for p := 0; p < nPeptides; p++ {
		rt, mz := centreOfMass(perPeptideRT[p], perPeptideMz[p], perPeptideW[p])
		fid := uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("feature:%d:%d:%d", patternID, clusterID, p))).String()
		features = append(features, Feature{
			ID:          fid,
			ConsensusID: id,
			PeptideIdx:  p,
			RT:          rt,
			Mz:          mz,
			Intensity:   intensities[p],
			Quality:     quality,
		})
	}

	return cf, features
}
