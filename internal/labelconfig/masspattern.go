package labelconfig

import (
	"strconv"
	"strings"
)

// MassPattern is an ordered sequence of Δmass values, always starting at 0
// (the light reference peptide).
type MassPattern []float64

// Mode classifies the labelling strategy in effect for a sample description.
type Mode int

const (
	ModeNone Mode = iota
	ModeSILAC
	ModeDimethyl
	ModeICPL
)

func classifyMode(desc SampleDescription) (Mode, error) {
	var silac, dimethyl, icpl bool
	for _, sample := range desc {
		for _, label := range sample {
			switch {
			case strings.HasPrefix(label, "Arg"), strings.HasPrefix(label, "Lys"):
				silac = true
			case strings.HasPrefix(label, "Dimethyl"):
				dimethyl = true
			case strings.HasPrefix(label, "ICPL"):
				icpl = true
			}
		}
	}
	switch n := boolCount(silac, dimethyl, icpl); {
	case n > 1:
		return ModeNone, configErrorf("mixed labelling modes are not supported")
	case silac:
		return ModeSILAC, nil
	case dimethyl:
		return ModeDimethyl, nil
	case icpl:
		return ModeICPL, nil
	default:
		return ModeNone, nil
	}
}

func boolCount(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

// GenerateMassPatterns enumerates every mass-shift pattern a peptide
// multiplet may exhibit for the given configuration, per spec.md section
// 4.A. The result is deduplicated.
func GenerateMassPatterns(cfg *Config) ([]MassPattern, error) {
	mode, err := classifyMode(cfg.Samples)
	if err != nil {
		return nil, err
	}
	if err := validateLabels(cfg.Samples, cfg.LabelMasses); err != nil {
		return nil, err
	}

	var list []MassPattern
	switch mode {
	case ModeSILAC:
		list = generateSILAC(cfg.Samples, cfg.LabelMasses, cfg.MissedCleavages)
	case ModeDimethyl, ModeICPL:
		list, err = generateDimethylICPL(cfg.Samples, cfg.LabelMasses, cfg.MissedCleavages)
		if err != nil {
			return nil, err
		}
	default:
		list = []MassPattern{{0}}
	}

	if cfg.KnockOut {
		list = expandKnockOut(list)
	}
	return dedupePatterns(list), nil
}

// generateSILAC enumerates SILAC mass shifts. For each (Arg-per-peptide,
// Lys-per-peptide) combination within the missed-cleavage budget, it sums
// the per-sample shift contributed by Arg6/Arg10/Lys4/Lys6/Lys8 labels. A
// sample's shift is only added to the pattern if, for every residue class
// whose per-peptide count is non-zero, some label in that sample "goes
// ahead" for it (carries a label for that residue), and the shift is
// non-zero; otherwise the whole sample is left out of that pattern.
func generateSILAC(desc SampleDescription, massOf map[string]float64, mc int) []MassPattern {
	var list []MassPattern
	for argPer := 0; argPer <= mc+1; argPer++ {
		for lysPer := 0; lysPer <= mc+1; lysPer++ {
			if argPer+lysPer > mc+1 {
				continue
			}
			pattern := MassPattern{0}
			for _, sample := range desc {
				var massShift float64
				goAheadArg, goAheadLys := false, false
				for _, label := range sample {
					arg6, arg10, lys4, lys6, lys8 := 0, 0, 0, 0, 0
					if strings.Contains(label, "Arg6") {
						arg6 = 1
					}
					if strings.Contains(label, "Arg10") {
						arg10 = 1
					}
					if strings.Contains(label, "Lys4") {
						lys4 = 1
					}
					if strings.Contains(label, "Lys6") {
						lys6 = 1
					}
					if strings.Contains(label, "Lys8") {
						lys8 = 1
					}
					massShift += float64(argPer)*(float64(arg6)*massOf["Arg6"]+float64(arg10)*massOf["Arg10"]) +
						float64(lysPer)*(float64(lys4)*massOf["Lys4"]+float64(lys6)*massOf["Lys6"]+float64(lys8)*massOf["Lys8"])
					if !(argPer != 0 && arg6+arg10 == 0) {
						goAheadArg = true
					}
					if !(lysPer != 0 && lys4+lys6+lys8 == 0) {
						goAheadLys = true
					}
				}
				if goAheadArg && goAheadLys && massShift != 0 {
					pattern = append(pattern, massShift)
				}
			}
			if len(pattern) > 1 {
				list = append(list, pattern)
			}
		}
	}
	return list
}

// generateDimethylICPL enumerates Dimethyl/ICPL mass shifts. Each sample is
// assumed to carry exactly one label.
func generateDimethylICPL(desc SampleDescription, massOf map[string]float64, mc int) ([]MassPattern, error) {
	for _, sample := range desc {
		if len(sample) != 1 {
			return nil, configErrorf("Dimethyl/ICPL labelling requires exactly one label per sample")
		}
	}
	base := massOf[desc[0][0]]
	var list []MassPattern
	for mcP := 0; mcP <= mc; mcP++ {
		pattern := make(MassPattern, 0, len(desc))
		for _, sample := range desc {
			pattern = append(pattern, float64(mcP+1)*(massOf[sample[0]]-base))
		}
		list = append(list, pattern)
	}
	return list, nil
}

// expandKnockOut adds, for every enumerated pattern, every nonempty strict
// subset interpreted as an independent observable multiplet (Δs rebased so
// the smallest shift is 0), plus the singleton [0]. Only arities up to 4 are
// handled; see spec.md's Open Questions.
func expandKnockOut(list []MassPattern) []MassPattern {
	if len(list) == 0 {
		return list
	}
	switch len(list[0]) {
	case 4:
		m := len(list)
		for i := 0; i < m; i++ {
			p := list[i]
			list = append(list,
				MassPattern{0, p[2] - p[1], p[3] - p[1]},
				MassPattern{0, p[2] - p[0], p[3] - p[0]},
				MassPattern{0, p[1] - p[0], p[3] - p[0]},
				MassPattern{0, p[1] - p[0], p[2] - p[0]},
				MassPattern{0, p[1]},
				MassPattern{0, p[2]},
				MassPattern{0, p[3]},
				MassPattern{0, p[2] - p[1]},
				MassPattern{0, p[3] - p[1]},
				MassPattern{0, p[3] - p[2]},
			)
		}
		list = append(list, MassPattern{0})
	case 3:
		m := len(list)
		for i := 0; i < m; i++ {
			p := list[i]
			list = append(list,
				MassPattern{0, p[1]},
				MassPattern{0, p[2] - p[1]},
				MassPattern{0, p[2]},
			)
		}
		list = append(list, MassPattern{0})
	case 2:
		list = append(list, MassPattern{0})
	}
	return list
}

func dedupePatterns(list []MassPattern) []MassPattern {
	seen := make(map[string]bool, len(list))
	out := make([]MassPattern, 0, len(list))
	for _, p := range list {
		key := patternKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

func patternKey(p MassPattern) string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	return b.String()
}
