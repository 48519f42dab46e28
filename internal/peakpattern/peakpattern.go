// Package peakpattern expands the mass-shift patterns produced by
// internal/labelconfig into the full set of PeakPatterns a multiplet filter
// sweep is run against: one PeakPattern per (charge state, MassPattern)
// combination, each carrying the ordered list of expected m/z offsets for
// every (peptide, isotope) slot.
package peakpattern

import "github.com/524D/multiplex/internal/labelconfig"

// c12c13Spacing is the mass difference between consecutive carbon isotopes,
// expressed per unit charge (Da). The original tooling sometimes used a bare
// 1/c spacing instead; this engine always uses the constant below.
const c12c13Spacing = 1.00235

// PeakPattern is an ordered list of expected m/z offsets from a probe
// position, for a fixed charge and mass-shift pattern.
type PeakPattern struct {
	ID          int
	Charge      int
	MaxIsotopes int
	MassShifts  labelconfig.MassPattern
}

// NumPeptides is the number of co-eluting peptide forms this pattern
// describes (light, medium, heavy, ...).
func (p PeakPattern) NumPeptides() int {
	return len(p.MassShifts)
}

// Offset returns the expected m/z offset, relative to the probe m/z, for
// peptide index pep and isotope index iso. iso may be -1, which addresses
// the below-mono-isotope veto slot.
func (p PeakPattern) Offset(pep, iso int) float64 {
	return p.MassShifts[pep]/float64(p.Charge) + float64(iso)*(c12c13Spacing/float64(p.Charge))
}

// Generate expands massPatterns into the full PeakPattern set, one per
// (charge, MassPattern) pair. Charge is iterated from chargeMax down to
// chargeMin: a 4+ precursor can be mistaken for 2+, but not the reverse, so
// trying higher charges first avoids mis-assigning harmonics.
func Generate(chargeMin, chargeMax, maxIsotopesPerPeptide int, massPatterns []labelconfig.MassPattern) []PeakPattern {
	var list []PeakPattern
	id := 0
	for c := chargeMax; c >= chargeMin; c-- {
		for _, mp := range massPatterns {
			list = append(list, PeakPattern{
				ID:          id,
				Charge:      c,
				MaxIsotopes: maxIsotopesPerPeptide,
				MassShifts:  mp,
			})
			id++
		}
	}
	return list
}
