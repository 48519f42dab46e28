// Package cluster groups the filter's accepted hit points into mass
// traces via deterministic, grid-based 2-D agglomerative clustering.
package cluster

import (
	"math"
	"sort"

	"github.com/524D/multiplex/internal/filter"
)

// Cluster is a set of FilterResultPeak indices sharing the same pattern id
// and charge, and proximity in (rt, mz).
type Cluster struct {
	ID         int
	PatternID  int
	PeakIdx    []int
	RTMin      float64
	RTMax      float64
}

// RTSpan returns the cluster's total retention-time span.
func (c Cluster) RTSpan() float64 {
	return c.RTMax - c.RTMin
}

// Config carries the clustering thresholds, derived from the engine's
// rt_typical/mz_tolerance configuration.
type Config struct {
	RTTypical   float64 // max RT gap within one cluster (s)
	RTMin       float64 // minimum cluster RT span to keep (s)
	MzTolerance float64 // tolerance value (ppm or Da, per MzUnit)
	MzUnit      string
}

func (c Config) mzTolDa(mz float64) float64 {
	if c.MzUnit == "ppm" {
		return mz * c.MzTolerance * 1e-6
	}
	return c.MzTolerance
}

type point struct {
	idx    int
	rt, mz float64
}

// Cluster2D groups peaks by pattern id, then clusters each pattern's
// points independently via grid-based agglomerative clustering. The
// result maps pattern id to cluster id to Cluster.
func Cluster2D(peaks []filter.ResultPeak, cfg Config) map[int]map[int]Cluster {
	byPattern := make(map[int][]point)
	for i, p := range peaks {
		byPattern[p.PatternID] = append(byPattern[p.PatternID], point{idx: i, rt: p.RT, mz: p.Mz})
	}

	out := make(map[int]map[int]Cluster, len(byPattern))
	for patternID, pts := range byPattern {
		out[patternID] = clusterOnePattern(patternID, pts, peaks, cfg)
	}
	return out
}

// clusterOnePattern performs deterministic ascending-distance agglomerative
// merging on one pattern's points. Two points merge iff they lie within
// RTTypical in RT and within the m/z tolerance (scaled to the point's m/z)
// in m/z. Merge order is by ascending Euclidean distance in the (rt,
// mz-scaled) grid, with ties broken by (rt, mz) lexicographic order -
// required for reproducible output given identical input.
func clusterOnePattern(patternID int, pts []point, allPeaks []filter.ResultPeak, cfg Config) map[int]Cluster {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].rt != pts[j].rt {
			return pts[i].rt < pts[j].rt
		}
		return pts[i].mz < pts[j].mz
	})

	parent := make([]int, len(pts))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	type edge struct {
		i, j int
		d    float64
	}
	var edges []edge
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			dRT := math.Abs(pts[i].rt - pts[j].rt)
			if dRT > cfg.RTTypical {
				continue
			}
			centerMz := (pts[i].mz + pts[j].mz) / 2
			dMz := math.Abs(pts[i].mz - pts[j].mz)
			if dMz > cfg.mzTolDa(centerMz) {
				continue
			}
			mzScale := cfg.mzTolDa(centerMz)
			if mzScale == 0 {
				mzScale = 1
			}
			d := math.Hypot(dRT/cfg.RTTypical, dMz/mzScale)
			edges = append(edges, edge{i, j, d})
		}
	}

	sort.Slice(edges, func(a, b int) bool {
		if edges[a].d != edges[b].d {
			return edges[a].d < edges[b].d
		}
		if pts[edges[a].i].rt != pts[edges[b].i].rt {
			return pts[edges[a].i].rt < pts[edges[b].i].rt
		}
		if pts[edges[a].i].mz != pts[edges[b].i].mz {
			return pts[edges[a].i].mz < pts[edges[b].i].mz
		}
		if pts[edges[a].j].rt != pts[edges[b].j].rt {
			return pts[edges[a].j].rt < pts[edges[b].j].rt
		}
		return pts[edges[a].j].mz < pts[edges[b].j].mz
	})

	for _, e := range edges {
		union(e.i, e.j)
	}

	groups := make(map[int][]int)
	for i := range pts {
		r := find(i)
		groups[r] = append(groups[r], i)
	}

	rootKeys := make([]int, 0, len(groups))
	for r := range groups {
		rootKeys = append(rootKeys, r)
	}
	sort.Slice(rootKeys, func(a, b int) bool {
		ga, gb := groups[rootKeys[a]], groups[rootKeys[b]]
		pa, pb := pts[ga[0]], pts[gb[0]]
		if pa.rt != pb.rt {
			return pa.rt < pb.rt
		}
		return pa.mz < pb.mz
	})

	out := make(map[int]Cluster)
	clusterID := 0
	for _, r := range rootKeys {
		members := groups[r]
		rtMin, rtMax := math.Inf(1), math.Inf(-1)
		peakIdx := make([]int, 0, len(members))
		for _, m := range members {
			pt := pts[m]
			peakIdx = append(peakIdx, pt.idx)
			if pt.rt < rtMin {
				rtMin = pt.rt
			}
			if pt.rt > rtMax {
				rtMax = pt.rt
			}
		}
		c := Cluster{ID: clusterID, PatternID: patternID, PeakIdx: peakIdx, RTMin: rtMin, RTMax: rtMax}
		if c.RTSpan() < cfg.RTMin {
			continue
		}
		out[clusterID] = c
		clusterID++
	}
	return out
}
