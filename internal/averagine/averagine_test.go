package averagine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModel_Ratios_SumsToOne(t *testing.T) {
	m := NewModel(nil, 1.0)
	r := m.Ratios(1500.0, 5)
	require.Len(t, r, 5)

	var sum float64
	for _, v := range r {
		require.Greater(t, v, 0.0)
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestModel_Ratios_CacheReused(t *testing.T) {
	cache := NewMemCache()
	m := NewModel(cache, 1.0)

	r1 := m.Ratios(2000.4, 4)
	r2 := m.Ratios(2000.4, 4)
	require.Equal(t, r1, r2)

	_, ok := cache.Get(2000.0, 4)
	require.True(t, ok)
}

func TestModel_Ratios_LargerMassShiftsEnvelopeRight(t *testing.T) {
	m := NewModel(nil, 1.0)
	small := m.Ratios(800, 5)
	large := m.Ratios(8000, 5)

	// A heavier averagine peptide carries more carbon atoms, so its mono
	// isotope peak (r_0) carries a smaller share of the total envelope.
	require.Less(t, large[0], small[0])
}
