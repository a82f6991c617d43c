package oxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

func TestColumnKeyBijection(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 28: "AB", 702: "ZZ", 703: "AAA"}
	for n, want := range cases {
		got, err := GetColumnKey(n)
		require.NoError(t, err)
		require.Equal(t, want, got)

		back, err := GetColumnInt(got)
		require.NoError(t, err)
		require.Equal(t, n, back)
	}
}

func TestGetColumnKeyZeroIsProgrammerError(t *testing.T) {
	_, err := GetColumnKey(0)
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Programmer))
}

func TestCellCoordAsString(t *testing.T) {
	s, err := CellCoordAsString(27, 10)
	require.NoError(t, err)
	require.Equal(t, "AA10", s)
}
