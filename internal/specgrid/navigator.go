package specgrid

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoSuccessor reports navigation falling off the edge of the grid (past
// the last spectrum, or past the last/first peak of a spectrum). Callers
// that can make progress without a successor (the pattern filter, looking
// for the next candidate) absorb it locally; it is never returned further
// up than the filter sweep.
var ErrNoSuccessor = errors.New("specgrid: no successor")

// ErrPrecondition reports an index that claims to reference a peak outside
// its spectrum's bounds. This can only happen from a programming error (a
// stale index surviving a grid rebuild); Navigator panics rather than
// returning it, per the error taxonomy's "Precondition is fatal" rule.
var ErrPrecondition = errors.New("specgrid: index violates grid precondition")

// Navigator provides nearest-peak lookup within one Spectrum, scanning
// outward from the expected m/z.
type Navigator struct {
	spectrum *Spectrum
}

// NewNavigator wraps a spectrum for peak lookup.
func NewNavigator(s *Spectrum) *Navigator {
	return &Navigator{spectrum: s}
}

// NearestPeak finds the peak in the spectrum closest to mz, restricted to
// candidates within tolDa of mz. Returns ErrNoSuccessor if none qualify.
// Tie-break: closest m/z wins; on an exact m/z tie, the more intense peak
// wins.
func (n *Navigator) NearestPeak(mz, tolDa float64) (Peak, error) {
	peaks := n.spectrum.Peaks
	if len(peaks) == 0 {
		return Peak{}, ErrNoSuccessor
	}

	idx := sort.Search(len(peaks), func(i int) bool { return peaks[i].Mz >= mz })

	best := -1
	bestDist := math.Inf(1)
	consider := func(i int) {
		if i < 0 || i >= len(peaks) {
			return
		}
		pk := n.PeakAt(i)
		d := math.Abs(pk.Mz - mz)
		if d > tolDa {
			return
		}
		switch {
		case d < bestDist:
			best, bestDist = i, d
		case d == bestDist && best >= 0 && pk.Intens > n.PeakAt(best).Intens:
			best = i
		}
	}

	// Scan outward from idx-1 and idx until both sides exceed tolerance.
	for lo, hi := idx-1, idx; lo >= 0 || hi < len(peaks); lo, hi = lo-1, hi+1 {
		if lo >= 0 {
			if math.Abs(peaks[lo].Mz-mz) > tolDa && lo < idx-1 {
				lo = -1 // stop scanning further left once out of range
			} else {
				consider(lo)
			}
		}
		if hi < len(peaks) {
			if math.Abs(peaks[hi].Mz-mz) > tolDa && hi > idx {
				hi = len(peaks) // stop scanning further right once out of range
			} else {
				consider(hi)
			}
		}
		if lo < 0 && hi >= len(peaks) {
			break
		}
	}

	if best < 0 {
		return Peak{}, ErrNoSuccessor
	}
	return n.PeakAt(best), nil
}

// PeakAt returns the peak at position i. It panics with ErrPrecondition if
// i is out of range: a caller holding an index into this spectrum's peak
// slice that is out of bounds indicates a broken invariant elsewhere in
// the engine, not a recoverable runtime condition.
func (n *Navigator) PeakAt(i int) Peak {
	if i < 0 || i >= len(n.spectrum.Peaks) {
		panic(fmt.Errorf("%w: index %d, spectrum has %d peaks", ErrPrecondition, i, len(n.spectrum.Peaks)))
	}
	return n.spectrum.Peaks[i]
}
