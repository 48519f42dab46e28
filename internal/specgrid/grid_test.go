package specgrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildGrid_EmptyInput(t *testing.T) {
	_, err := BuildGrid(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildGrid_RejectsNonIncreasingMz(t *testing.T) {
	_, err := BuildGrid([]Spectrum{
		{RT: 10, Peaks: []Peak{{Mz: 500, Intens: 1}, {Mz: 499, Intens: 1}}},
	})
	require.Error(t, err)
}

func TestBuildGrid_OK(t *testing.T) {
	g, err := BuildGrid([]Spectrum{
		{RT: 10, Peaks: []Peak{{Mz: 500, Intens: 1}, {Mz: 501, Intens: 1}}},
	})
	require.NoError(t, err)
	require.Len(t, g.Spectra, 1)
}
