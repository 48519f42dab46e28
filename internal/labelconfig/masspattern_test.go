package labelconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateMassPatterns_SILACArg6Lys8(t *testing.T) {
	desc, err := ParseSampleDescription("[][Lys8,Arg10][Arg6]")
	require.NoError(t, err)

	cfg := &Config{
		Samples:         desc,
		LabelMasses:     DefaultLabelTable(),
		MissedCleavages: 1,
		ChargeMin:       1, ChargeMax: 1,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, MzUnit: "ppm",
	}
	patterns, err := GenerateMassPatterns(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, patterns)

	for _, p := range patterns {
		require.Equal(t, 0.0, p[0])
	}
}

func TestGenerateMassPatterns_UnknownLabel(t *testing.T) {
	desc, err := ParseSampleDescription("[][Bogus99]")
	require.NoError(t, err)

	cfg := &Config{
		Samples:     desc,
		LabelMasses: DefaultLabelTable(),
		ChargeMin:   1, ChargeMax: 1,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, MzUnit: "ppm",
	}
	_, err = GenerateMassPatterns(cfg)
	require.Error(t, err)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
}

func TestGenerateMassPatterns_NoLabelling(t *testing.T) {
	desc, err := ParseSampleDescription("[]")
	require.NoError(t, err)

	cfg := &Config{
		Samples:     desc,
		LabelMasses: DefaultLabelTable(),
		ChargeMin:   1, ChargeMax: 1,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, MzUnit: "ppm",
	}
	patterns, err := GenerateMassPatterns(cfg)
	require.NoError(t, err)
	require.Equal(t, []MassPattern{{0}}, patterns)
}

func TestGenerateMassPatterns_DimethylKnockOut(t *testing.T) {
	desc, err := ParseSampleDescription("[Dimethyl0][Dimethyl4][Dimethyl8]")
	require.NoError(t, err)

	cfg := &Config{
		Samples:         desc,
		LabelMasses:     DefaultLabelTable(),
		MissedCleavages: 0,
		KnockOut:        true,
		ChargeMin:       1, ChargeMax: 1,
		IsotopesMin: 1, IsotopesMax: 1,
		RTTypical: 60, MzUnit: "ppm",
	}
	patterns, err := GenerateMassPatterns(cfg)
	require.NoError(t, err)

	found := false
	for _, p := range patterns {
		if len(p) == 1 && p[0] == 0 {
			found = true
		}
	}
	require.True(t, found, "knock-out expansion must include the singleton [0] pattern")
}

func TestDedupePatterns(t *testing.T) {
	in := []MassPattern{{0, 1.5}, {0, 1.5}, {0, 2.0}}
	out := dedupePatterns(in)
	require.Len(t, out, 2)
}
