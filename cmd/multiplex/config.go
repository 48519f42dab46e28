package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/524D/multiplex/internal/labelconfig"
	"github.com/spf13/viper"
)

// ErrRangeSpec reports an inverted "min:max" range string (min above max)
// on the command line or in the config file.
var ErrRangeSpec = errors.New("invalid range specified")

var intRangeRE = regexp.MustCompile(`\s*(-?\d*):(-?\d*)`)

// parseIntRange parses a string like "2:4" into (2, 4), clamped to
// [defMin,defMax]. Either side may be omitted, in which case the matching
// default is used. If the result is inverted (min > max), it returns
// ErrRangeSpec along with min clamped down to max.
func parseIntRange(r string, defMin, defMax int) (int, int, error) {
	m := intRangeRE.FindStringSubmatch(r)
	minOut, maxOut := defMin, defMax
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.Atoi(m[1])
		if minOut < defMin {
			minOut = defMin
		}
	}
	if len(m) >= 3 && m[2] != "" {
		maxOut, _ = strconv.Atoi(m[2])
		if maxOut > defMax {
			maxOut = defMax
		}
	}
	var err error
	if minOut > maxOut {
		err = fmt.Errorf("%q: %w", r, ErrRangeSpec)
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// settings mirrors the fields read from multiplex.yaml / flags / env via
// viper. mapstructure tags match the config file's key names.
type settings struct {
	Samples             string             `mapstructure:"samples"`
	Labels              map[string]float64 `mapstructure:"labels"`
	MissedCleavages     int                `mapstructure:"missed_cleavages"`
	KnockOut            bool               `mapstructure:"knock_out"`
	Charge              string             `mapstructure:"charge"`
	IsotopesPerPeptide  string             `mapstructure:"isotopes_per_peptide"`
	RTTypical           float64            `mapstructure:"rt_typical"`
	RTMin               float64            `mapstructure:"rt_min"`
	MzTolerance         float64            `mapstructure:"mz_tolerance"`
	MzUnit              string             `mapstructure:"mz_unit"`
	IntensityCutoff     float64            `mapstructure:"intensity_cutoff"`
	PeptideSimilarity   float64            `mapstructure:"peptide_similarity"`
	AveragineSimilarity float64            `mapstructure:"averagine_similarity"`
	AllowMissingPeaks   bool               `mapstructure:"allow_missing_peaks"`
	Workers             int                `mapstructure:"workers"`
}

func defaultSettings() settings {
	return settings{
		Charge:              "2:4",
		IsotopesPerPeptide:  "3:6",
		RTTypical:           60,
		RTMin:               10,
		MzTolerance:         10,
		MzUnit:              "ppm",
		IntensityCutoff:     1000,
		PeptideSimilarity:   0.8,
		AveragineSimilarity: 0.8,
		AllowMissingPeaks:   false,
	}
}

// loadSettings unmarshals viper's resolved configuration (flags > env >
// YAML file > defaults) into a settings struct.
func loadSettings() (settings, error) {
	s := defaultSettings()
	if err := viper.Unmarshal(&s); err != nil {
		return s, err
	}
	return s, nil
}

// buildConfig turns resolved settings into a validated labelconfig.Config.
func buildConfig(s settings) (*labelconfig.Config, []string, error) {
	samples, err := labelconfig.ParseSampleDescription(s.Samples)
	if err != nil {
		return nil, nil, err
	}

	labels := s.Labels
	if labels == nil {
		labels = labelconfig.DefaultLabelTable()
	} else {
		defaults := labelconfig.DefaultLabelTable()
		for k, v := range defaults {
			if _, ok := labels[k]; !ok {
				labels[k] = v
			}
		}
	}

	// The bounds here are absolute sanity limits, not defaults: a
	// charge or isotope count outside them can never be physically
	// meaningful. A one-sided range (e.g. "2:" or ":6") falls back to
	// the matching bound.
	chargeMin, chargeMax, err := parseIntRange(s.Charge, 1, 20)
	if err != nil {
		return nil, nil, err
	}
	isoMin, isoMax, err := parseIntRange(s.IsotopesPerPeptide, 1, 20)
	if err != nil {
		return nil, nil, err
	}

	cfg := &labelconfig.Config{
		Samples:             samples,
		LabelMasses:         labels,
		MissedCleavages:     s.MissedCleavages,
		KnockOut:            s.KnockOut,
		ChargeMin:           chargeMin,
		ChargeMax:           chargeMax,
		IsotopesMin:         isoMin,
		IsotopesMax:         isoMax,
		RTTypical:           s.RTTypical,
		RTMin:               s.RTMin,
		MzTolerance:         s.MzTolerance,
		MzUnit:              s.MzUnit,
		IntensityCutoff:     s.IntensityCutoff,
		PeptideSimilarity:   s.PeptideSimilarity,
		AveragineSimilarity: s.AveragineSimilarity,
	}

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, warnings, err
	}
	return cfg, warnings, nil
}
