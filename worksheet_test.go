package oxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

func newTestWorksheet(t *testing.T) (*Document, *Worksheet) {
	t.Helper()
	doc, err := Create()
	require.NoError(t, err)
	ws, err := doc.Workbook().GetWorksheet("Sheet1")
	require.NoError(t, err)
	return doc, ws
}

func TestAddRowAndCellCoordinates(t *testing.T) {
	_, ws := newTestWorksheet(t)

	r1 := ws.AddRow()
	require.Equal(t, 1, r1.Number())
	c1 := r1.AddCell()
	require.Equal(t, "A1", c1.Coord())
	c2 := r1.AddCell()
	require.Equal(t, "B1", c2.Coord())

	r2 := ws.AddRow()
	require.Equal(t, 2, r2.Number())
	c3 := r2.AddCell()
	require.Equal(t, "A2", c3.Coord())
}

func TestCellSetStringRoutesThroughSharedStrings(t *testing.T) {
	doc, ws := newTestWorksheet(t)

	row := ws.AddRow()
	c1 := row.AddCell()
	c1.SetString("hello")
	c2 := row.AddCell()
	c2.SetString("hello")
	c3 := row.AddCell()
	c3.SetString("world")

	require.False(t, doc.Workbook().sharedStrings.Empty())
	require.Equal(t, 2, len(doc.Workbook().sharedStrings.strings))
}

func TestCellSetFormulaRegistersCalcChainEntry(t *testing.T) {
	doc, ws := newTestWorksheet(t)

	row := ws.AddRow()
	cell := row.AddCell()
	cell.SetFormula("SUM(A1:A2)")

	require.False(t, doc.Workbook().calcChain.Empty())
}

func TestCellResetClearsPreviousValue(t *testing.T) {
	_, ws := newTestWorksheet(t)

	row := ws.AddRow()
	cell := row.AddCell()
	cell.SetInt(42)
	cell.SetBool(true)

	tAttr, ok := cell.el.GetAttr("t")
	require.True(t, ok)
	require.Equal(t, "b", tAttr)

	vs := cell.doc.ChildrenByTag(cell.el.ID, "v")
	require.Len(t, vs, 1)
	require.Equal(t, "1", *vs[0].Value)
}

func TestSetColumnWidthRejectsNonPositiveIndex(t *testing.T) {
	_, ws := newTestWorksheet(t)

	err := ws.SetColumnWidth(0, 10)
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Programmer))

	require.NoError(t, ws.SetColumnWidth(2, 15.5))
	require.Equal(t, 15.5, ws.columns[2])

	require.NoError(t, ws.SetColumnWidth(2, 0))
	_, exists := ws.columns[2]
	require.False(t, exists)
}

func TestMergeAndMergeRange(t *testing.T) {
	_, ws := newTestWorksheet(t)

	require.NoError(t, ws.Merge("A1:B2"))
	require.NoError(t, ws.MergeRange(3, 1, 4, 2))
	require.Len(t, ws.mergeCells, 2)
}

func TestMergeRejectsDegenerateRange(t *testing.T) {
	_, ws := newTestWorksheet(t)

	err := ws.Merge("A1:A1")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))
}

func TestMergeRejectsOverlap(t *testing.T) {
	_, ws := newTestWorksheet(t)

	require.NoError(t, ws.Merge("A1:B2"))
	err := ws.Merge("B2:C3")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Conflict))
}

func TestMergeRejectsMalformedRef(t *testing.T) {
	_, ws := newTestWorksheet(t)

	err := ws.Merge("not-a-range")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))
}
