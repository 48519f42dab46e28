package filter

import "math"

// welfordMeanVar computes the mean and (population) variance of xs in one
// pass, using Welford's numerically stable running update rather than the
// naive sum-of-squares formula.
func welfordMeanVar(xs []float64) (mean, variance float64) {
	var m, m2 float64
	n := 0.0
	for _, x := range xs {
		n++
		delta := x - m
		m += delta / n
		delta2 := x - m
		m2 += delta * delta2
	}
	if n == 0 {
		return 0, 0
	}
	return m, m2 / n
}

// pearsonSimilarity returns the Pearson correlation coefficient between a
// and b. If either vector has zero variance (all entries equal), the pair
// is defined to have similarity 1 - constant vectors trivially agree with
// any shape, and the correlation formula's 0/0 must not be reported as "no
// similarity".
func pearsonSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	meanA, varA := welfordMeanVar(a)
	meanB, varB := welfordMeanVar(b)
	if varA == 0 && varB == 0 {
		return 1
	}
	if varA == 0 || varB == 0 {
		return 1
	}

	var cov float64
	for i := range a {
		cov += (a[i] - meanA) * (b[i] - meanB)
	}
	cov /= float64(len(a))

	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		return 1
	}
	r := cov / denom
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}

// pearsonSimilarityDroppingNaN filters out index pairs where either vector
// is NaN before computing pearsonSimilarity, matching the regression
// stage's "NaN pairs are dropped" rule.
func pearsonSimilarityDroppingNaN(a, b []float64) float64 {
	fa := make([]float64, 0, len(a))
	fb := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		fa = append(fa, a[i])
		fb = append(fb, b[i])
	}
	return pearsonSimilarity(fa, fb)
}
