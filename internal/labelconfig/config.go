// Package labelconfig turns a user-supplied labelling description into the
// validated configuration consumed by the rest of the engine, and enumerates
// the mass-shift patterns ("MassPatterns") that a labelled peptide multiplet
// may exhibit.
package labelconfig

import "fmt"

// ConfigError reports a malformed or contradictory configuration: an
// unknown label, mixed labelling modes, or an invalid range. Per the error
// taxonomy, ConfigError always surfaces to the caller immediately; it is
// never absorbed internally.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "labelconfig: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Config is a flat, validated set of engine parameters, corresponding to
// spec.md section 6's configuration table. It carries no methods beyond
// validation; components downstream read the fields they need directly.
type Config struct {
	Samples     SampleDescription
	LabelMasses map[string]float64

	MissedCleavages int
	KnockOut        bool

	ChargeMin, ChargeMax int

	IsotopesMin, IsotopesMax int

	RTTypical float64 // cluster max RT width (s)
	RTMin     float64 // minimum cluster RT span (s)

	MzTolerance float64
	MzUnit      string // "ppm" or "Da"

	IntensityCutoff     float64
	PeptideSimilarity   float64
	AveragineSimilarity float64
}

// Validate checks the configuration for internal consistency. Where the
// spec allows a deterministic auto-correction (charge_min > charge_max), it
// performs the correction and reports it as a warning instead of an error.
func (c *Config) Validate() (warnings []string, err error) {
	if c.ChargeMin > c.ChargeMax {
		c.ChargeMin, c.ChargeMax = c.ChargeMax, c.ChargeMin
		warnings = append(warnings, fmt.Sprintf(
			"charge range was inverted, swapped to %d:%d", c.ChargeMin, c.ChargeMax))
	}
	if c.ChargeMin < 1 {
		return warnings, configErrorf("charge_min must be >= 1, got %d", c.ChargeMin)
	}
	if c.IsotopesMin > c.IsotopesMax {
		c.IsotopesMin, c.IsotopesMax = c.IsotopesMax, c.IsotopesMin
		warnings = append(warnings, fmt.Sprintf(
			"isotopes_per_peptide range was inverted, swapped to %d:%d", c.IsotopesMin, c.IsotopesMax))
	}
	if c.IsotopesMin < 1 {
		return warnings, configErrorf("isotopes_per_peptide must be >= 1, got %d", c.IsotopesMin)
	}
	if c.MzUnit != "ppm" && c.MzUnit != "Da" {
		return warnings, configErrorf("mz_unit must be %q or %q, got %q", "ppm", "Da", c.MzUnit)
	}
	if c.RTMin < 0 || c.RTTypical <= 0 {
		return warnings, configErrorf("rt_typical must be > 0 and rt_min must be >= 0")
	}
	if c.PeptideSimilarity < -1 || c.PeptideSimilarity > 1 ||
		c.AveragineSimilarity < -1 || c.AveragineSimilarity > 1 {
		return warnings, configErrorf("similarity thresholds must be in [-1,1]")
	}
	if c.MissedCleavages < 0 {
		return warnings, configErrorf("missed_cleavages must be >= 0, got %d", c.MissedCleavages)
	}
	return warnings, nil
}
