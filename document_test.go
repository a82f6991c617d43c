package oxml

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/style"
)

func readZipEntry(t *testing.T, path, name string) []byte {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return b
		}
	}
	t.Fatalf("entry %q not found in %s", name, path)
	return nil
}

func zipEntryNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

// scenario 1: create() -> save_as produces the minimal archive with one
// default sheet.
func TestCreateEmptyWorkbookArchiveContents(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "a.xlsx")
	require.NoError(t, doc.SaveAs(out))

	names := zipEntryNames(t, out)
	for _, want := range []string{
		"[Content_Types].xml", "_rels/.rels", "xl/workbook.xml",
		"xl/_rels/workbook.xml.rels", "xl/theme/theme1.xml",
		"xl/styles.xml", "xl/worksheets/sheet1.xml",
	} {
		require.Contains(t, names, want)
	}
	// shared strings and calc chain are not written while empty
	require.NotContains(t, names, "xl/sharedStrings.xml")
	require.NotContains(t, names, "xl/calcChain.xml")

	wbXML := string(readZipEntry(t, out, "xl/workbook.xml"))
	require.Contains(t, wbXML, `name="Sheet1"`)
	require.Contains(t, wbXML, `sheetId="1"`)
	require.Contains(t, wbXML, `r:id="rId1"`)
}

// scenario 2: a second sheet plus hiding the first is reflected in the
// saved workbook XML.
func TestAddSecondSheetAndHideFirst(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	_, err = doc.Workbook().AddSheet("Data")
	require.NoError(t, err)
	require.NoError(t, doc.Workbook().HideSheet("Sheet1"))

	out := filepath.Join(t.TempDir(), "a.xlsx")
	require.NoError(t, doc.SaveAs(out))

	wbXML := string(readZipEntry(t, out, "xl/workbook.xml"))
	require.Equal(t, 2, bytes.Count([]byte(wbXML), []byte("<sheet ")))
	require.Contains(t, wbXML, `name="Sheet1"`)
	require.Contains(t, wbXML, `state="hidden"`)
	require.Contains(t, wbXML, `name="Data"`)
}

// scenario 5: renaming onto an existing name fails with Conflict and
// changes nothing.
func TestRenameSheetCollision(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	_, err = doc.Workbook().AddSheet("Data")
	require.NoError(t, err)

	err = doc.Workbook().RenameSheet("Sheet1", "Data")
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Conflict))

	_, err = doc.Workbook().GetWorksheet("Sheet1")
	require.NoError(t, err)
}

func TestStyleForDedupViaWorkbook(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)

	s := style.Setting{Bold: true, FontSize: 12}
	id1, err := doc.Workbook().StyleFor(s)
	require.NoError(t, err)
	id2, err := doc.Workbook().StyleFor(s)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.xlsx"))
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.PackageIO))
}

func TestOpenRoundTrip(t *testing.T) {
	doc, err := Create()
	require.NoError(t, err)
	ws, err := doc.Workbook().GetWorksheet("Sheet1")
	require.NoError(t, err)
	row := ws.AddRow()
	cell := row.AddCell()
	cell.SetString("hello")

	out := filepath.Join(t.TempDir(), "a.xlsx")
	require.NoError(t, doc.SaveAs(out))
	require.NoError(t, doc.Close())

	_, err = os.Stat(out)
	require.NoError(t, err)

	reopened, err := Open(out)
	require.NoError(t, err)
	rws, err := reopened.Workbook().GetWorksheet("Sheet1")
	require.NoError(t, err)
	require.NotNil(t, rws)
}
