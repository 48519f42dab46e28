package labelconfig

import (
	"regexp"
	"strings"
)

// defaultLabelMasses are the built-in Δmass values (Da) for the standard
// labelling kits, taken from OpenMS FeatureFinderMultiplex's defaults.
var defaultLabelMasses = map[string]float64{
	"Arg6":      6.0201290,
	"Arg10":     10.0082686,
	"Lys4":      4.0251070,
	"Lys6":      6.0201290,
	"Lys8":      8.0141988,
	"Dimethyl0": 28.031300,
	"Dimethyl4": 32.056407,
	"Dimethyl6": 34.063117,
	"Dimethyl8": 36.075670,
	"ICPL0":     105.021464,
	"ICPL4":     109.046571,
	"ICPL6":     111.041593,
	"ICPL10":    115.066700,
}

// DefaultLabelTable returns a copy of the built-in label -> Δmass table, so
// callers can freely override entries without mutating the package default.
func DefaultLabelTable() map[string]float64 {
	out := make(map[string]float64, len(defaultLabelMasses))
	for k, v := range defaultLabelMasses {
		out[k] = v
	}
	return out
}

// SampleDescription is an ordered sequence of sample entries. Each entry is
// the (possibly empty) set of labels applied to that sample. Order is the
// light-to-heavy order of the multiplet.
type SampleDescription [][]string

// bracketRE matches one sample entry, delimited by any of [], (), {}.
var bracketRE = regexp.MustCompile(`[\[({]([^\])}]*)[\])}]`)

// labelSplitRE splits the labels inside one sample entry on comma,
// semicolon, colon or whitespace.
var labelSplitRE = regexp.MustCompile(`[,;:\s]+`)

// ParseSampleDescription parses a sample description string such as
// "[][Lys8,Arg10]" into a SampleDescription. Brackets may be any of
// []()  {}; labels inside a bracket pair may be separated by comma,
// semicolon, colon or space.
func ParseSampleDescription(s string) (SampleDescription, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SampleDescription{nil}, nil
	}
	matches := bracketRE.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return nil, configErrorf("invalid sample description %q", s)
	}
	desc := make(SampleDescription, 0, len(matches))
	for _, m := range matches {
		inner := strings.TrimSpace(m[1])
		if inner == "" {
			desc = append(desc, nil)
			continue
		}
		labels := labelSplitRE.Split(inner, -1)
		desc = append(desc, labels)
	}
	return desc, nil
}

// validateLabels checks that every label referenced in desc is known in
// massOf, returning a ConfigError naming the first unknown label found.
func validateLabels(desc SampleDescription, massOf map[string]float64) error {
	for _, sample := range desc {
		for _, label := range sample {
			if _, ok := massOf[label]; !ok {
				return configErrorf("unknown label %q", label)
			}
		}
	}
	return nil
}
