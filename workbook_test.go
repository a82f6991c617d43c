package oxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

func TestAddSheetValidatesName(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	wb := doc.Workbook()

	_, err = wb.AddSheet("")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))

	_, err = wb.AddSheet("bad/name")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))

	_, err = wb.AddSheet(strings.Repeat("x", 32))
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))

	_, err = wb.AddSheet("Sheet1")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Conflict))
}

func TestAddSheetAssignsSequentialIDsAndFirstIsActive(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	wb := doc.Workbook()

	require.True(t, wb.sheetByName["Sheet1"].active)

	_, err = wb.AddSheet("Data")
	require.NoError(t, err)
	require.Equal(t, 2, wb.sheetByName["Data"].sheetID)
	require.False(t, wb.sheetByName["Data"].active)
}

func TestGetWorksheetNotFound(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	_, err = doc.Workbook().GetWorksheet("NoSuchSheet")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.NotFound))
}

func TestSetActiveSheetSwitchesExclusively(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	wb := doc.Workbook()

	_, err = wb.AddSheet("Data")
	require.NoError(t, err)

	require.NoError(t, wb.SetActiveSheet("Data"))
	require.False(t, wb.sheetByName["Sheet1"].active)
	require.True(t, wb.sheetByName["Data"].active)
	require.Equal(t, 1, wb.View().ActiveTab)
}

func TestHideSheetNotFound(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	err = doc.Workbook().HideSheet("NoSuchSheet")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.NotFound))
}

func TestRenameSheetNoOpOnSameName(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	require.NoError(t, doc.Workbook().RenameSheet("Sheet1", "Sheet1"))
}

func TestRenameSheetUpdatesWorksheetCache(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	wb := doc.Workbook()

	ws, err := wb.GetWorksheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, wb.RenameSheet("Sheet1", "Renamed"))

	got, err := wb.GetWorksheet("Renamed")
	require.NoError(t, err)
	require.Same(t, ws, got)

	_, err = wb.GetWorksheet("Sheet1")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.NotFound))
}
