// Package specgrid is the profile/centroid access layer: it holds the
// loaded spectrum grid, navigates it for nearest-peak lookups, and
// reconstructs spline-interpolated intensity at arbitrary m/z inside a
// peak's boundaries.
package specgrid

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by BuildGrid when, after the MS-level filter,
// no level-1 spectra remain. Per the error taxonomy this surfaces
// immediately; it is never absorbed internally.
var ErrEmptyInput = errors.New("specgrid: no MS1 spectra in input")

// Peak is a centroided peak: its m/z, intensity, and the left/right m/z
// boundary of the raw profile range that produced the centroid.
type Peak struct {
	Mz       float64
	Intens   float64
	Left     float64
	Right    float64
}

// Spectrum is one MS1 scan: a retention time and a sorted-by-mz sequence
// of centroided peaks.
type Spectrum struct {
	RT    float64
	Peaks []Peak
}

// Grid is an ordered, immutable sequence of Spectrum, the "2-D (retention
// time x m/z) peak grid" of the spec's component E. It is read-only after
// construction: no mutation, so no locks are needed on any hot path that
// reads it concurrently.
type Grid struct {
	Spectra []Spectrum
}

// BuildGrid validates and wraps a sequence of MS1 spectra into a Grid. Each
// spectrum's peaks must already be sorted by ascending, strictly
// increasing m/z; spectra are assumed already filtered to MS level 1 by
// the caller (the ambient mzML reader applies this filter before handing
// spectra to the engine).
func BuildGrid(spectra []Spectrum) (*Grid, error) {
	if len(spectra) == 0 {
		return nil, ErrEmptyInput
	}
	for si, s := range spectra {
		for i := 1; i < len(s.Peaks); i++ {
			if s.Peaks[i].Mz <= s.Peaks[i-1].Mz {
				return nil, fmt.Errorf("specgrid: spectrum %d: m/z not strictly increasing at peak %d", si, i)
			}
		}
	}
	return &Grid{Spectra: spectra}, nil
}
