package mzml

import (
	"github.com/524D/multiplex/internal/specgrid"
)

// boundaryFraction estimates a centroided peak's left/right m/z boundary
// as a fraction of the spacing to its neighbours, since mzML centroid
// peaks carry no boundary information of their own. This mirrors how a
// peak-picking step's profile window is typically reported: roughly
// symmetric around the centroid, shrinking as peaks grow denser.
const boundaryFraction = 0.4

// ToGrid reads every MS1 spectrum from f and assembles a specgrid.Grid,
// estimating each centroid peak's left/right boundary from the spacing to
// its immediate neighbours (clipped so neighbouring peaks' estimated
// windows never overlap).
func (f *MzML) ToGrid() (*specgrid.Grid, error) {
	var spectra []specgrid.Spectrum

	for i := 0; i < f.NumSpecs(); i++ {
		level, err := f.MSLevel(i)
		if err != nil {
			return nil, err
		}
		if level != 1 {
			continue
		}

		raw, err := f.ReadScan(i)
		if err != nil {
			return nil, err
		}
		rt, err := f.RetentionTime(i)
		if err != nil {
			return nil, err
		}

		peaks := make([]specgrid.Peak, len(raw))
		for j, p := range raw {
			left, right := estimateBoundary(raw, j)
			peaks[j] = specgrid.Peak{Mz: p.Mz, Intens: p.Intens, Left: left, Right: right}
		}
		spectra = append(spectra, specgrid.Spectrum{RT: rt, Peaks: peaks})
	}

	return specgrid.BuildGrid(spectra)
}

func estimateBoundary(peaks []Peak, i int) (left, right float64) {
	mz := peaks[i].Mz
	var halfLeft, halfRight float64
	if i > 0 {
		halfLeft = (mz - peaks[i-1].Mz) * boundaryFraction
	} else if i+1 < len(peaks) {
		halfLeft = (peaks[i+1].Mz - mz) * boundaryFraction
	}
	if i+1 < len(peaks) {
		halfRight = (peaks[i+1].Mz - mz) * boundaryFraction
	} else if i > 0 {
		halfRight = (mz - peaks[i-1].Mz) * boundaryFraction
	}
	if halfLeft == 0 {
		halfLeft = 0.01
	}
	if halfRight == 0 {
		halfRight = 0.01
	}
	return mz - halfLeft, mz + halfRight
}
