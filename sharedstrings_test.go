package oxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSharedStrings(t *testing.T) *sharedStringsPart {
	t.Helper()
	doc, err := Create()
	require.NoError(t, err)
	return doc.Workbook().sharedStrings
}

func TestSharedStringsEmptyByDefault(t *testing.T) {
	sp := newTestSharedStrings(t)
	require.True(t, sp.Empty())
}

func TestSharedStringsAddDeduplicates(t *testing.T) {
	sp := newTestSharedStrings(t)

	i1 := sp.Add("foo")
	i2 := sp.Add("bar")
	i3 := sp.Add("foo")

	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
	require.Equal(t, 2, len(sp.strings))
	require.False(t, sp.Empty())
}

func TestSharedStringsAddPreservesInsertionOrder(t *testing.T) {
	sp := newTestSharedStrings(t)

	sp.Add("first")
	sp.Add("second")
	sp.Add("third")

	require.Equal(t, []string{"first", "second", "third"}, sp.strings)
}
