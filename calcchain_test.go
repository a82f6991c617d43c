package oxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCalcChain(t *testing.T) *calcChainPart {
	t.Helper()
	doc, err := Create()
	require.NoError(t, err)
	return doc.Workbook().calcChain
}

func TestCalcChainEmptyByDefault(t *testing.T) {
	cc := newTestCalcChain(t)
	require.True(t, cc.Empty())
}

func TestCalcChainAddEntryAppendsInOrder(t *testing.T) {
	cc := newTestCalcChain(t)

	cc.AddEntry(1, "A1")
	cc.AddEntry(1, "A2")
	cc.AddEntry(2, "B1")

	require.False(t, cc.Empty())
	require.Len(t, cc.entries, 3)
	require.Equal(t, calcChainEntry{sheetID: 1, cellRef: "A1"}, cc.entries[0])
	require.Equal(t, calcChainEntry{sheetID: 2, cellRef: "B1"}, cc.entries[2])
}
