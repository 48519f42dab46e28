package cluster

import (
	"testing"

	"github.com/524D/multiplex/internal/filter"
	"github.com/stretchr/testify/require"
)

func TestCluster2D_GroupsNearbyPoints(t *testing.T) {
	peaks := []filter.ResultPeak{
		{PatternID: 0, RT: 100, Mz: 500.0},
		{PatternID: 0, RT: 101, Mz: 500.001},
		{PatternID: 0, RT: 300, Mz: 500.0},
	}
	cfg := Config{RTTypical: 5, RTMin: 0, MzTolerance: 10, MzUnit: "ppm"}

	out := Cluster2D(peaks, cfg)
	require.Len(t, out[0], 2)
}

func TestCluster2D_DiscardsShortSpan(t *testing.T) {
	peaks := []filter.ResultPeak{
		{PatternID: 0, RT: 100, Mz: 500.0},
		{PatternID: 0, RT: 100.1, Mz: 500.0},
	}
	cfg := Config{RTTypical: 5, RTMin: 10, MzTolerance: 10, MzUnit: "ppm"}

	out := Cluster2D(peaks, cfg)
	require.Empty(t, out[0])
}

func TestCluster2D_Deterministic(t *testing.T) {
	peaks := []filter.ResultPeak{
		{PatternID: 0, RT: 100, Mz: 500.0},
		{PatternID: 0, RT: 102, Mz: 500.0},
		{PatternID: 0, RT: 104, Mz: 500.0},
		{PatternID: 0, RT: 200, Mz: 600.0},
	}
	cfg := Config{RTTypical: 5, RTMin: 0, MzTolerance: 10, MzUnit: "ppm"}

	out1 := Cluster2D(peaks, cfg)
	out2 := Cluster2D(peaks, cfg)
	require.Equal(t, out1, out2)
}
