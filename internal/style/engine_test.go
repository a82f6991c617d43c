package style

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/xmldom"
)

func TestResolveDedup(t *testing.T) {
	e := NewEngine()
	baseline := e.CellXfCount()

	s := Setting{Bold: true, FontSize: 12}
	id1, err := e.Resolve(s)
	require.NoError(t, err)
	id2, err := e.Resolve(s)
	require.NoError(t, err)

	require.Equal(t, id1, id2)
	require.Equal(t, baseline+1, e.CellXfCount())
}

func TestResolveDistinctSettingsDistinctIDs(t *testing.T) {
	e := NewEngine()
	id1, err := e.Resolve(Setting{Bold: true})
	require.NoError(t, err)
	id2, err := e.Resolve(Setting{Italic: true})
	require.NoError(t, err)
	require.NotEqual(t, id1, id2)
}

func TestResolveCustomNumberFormat(t *testing.T) {
	e := NewEngine()
	id, err := e.Resolve(Setting{NumberFormat: NumberFormat{Custom: "0.00%"}})
	require.NoError(t, err)

	xf, err := e.lookupStyle(id)
	require.NoError(t, err)
	require.GreaterOrEqual(t, xf.NumFmtID, firstCustomNumFmtID)
	require.Equal(t, firstCustomNumFmtID, xf.NumFmtID)
	require.Len(t, e.numFmts, 1)
	require.Equal(t, "0.00%", e.numFmts[0].code)
}

func TestResolveCustomNumberFormatRequiresCode(t *testing.T) {
	e := NewEngine()
	_, err := e.Resolve(Setting{NumberFormat: NumberFormat{}})
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Programmer))
}

func TestLoadEngineRejectsUnknownFontChild(t *testing.T) {
	doc := xmldom.NewDocument()
	root := doc.NewElement("styleSheet")
	doc.SetRoot(root)
	fonts := doc.NewElement("fonts")
	doc.AppendChild(root.ID, fonts)
	font := doc.NewElement("font")
	doc.AppendChild(fonts.ID, font)
	bogus := doc.NewElement("bogus")
	doc.AppendChild(font.ID, bogus)

	_, err := LoadEngine(doc)
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))
}

func TestLoadEngineRejectsUnknownBorderChild(t *testing.T) {
	doc := xmldom.NewDocument()
	root := doc.NewElement("styleSheet")
	doc.SetRoot(root)
	borders := doc.NewElement("borders")
	doc.AppendChild(root.ID, borders)
	border := doc.NewElement("border")
	doc.AppendChild(borders.ID, border)
	bogus := doc.NewElement("bogus")
	doc.AppendChild(border.ID, bogus)

	_, err := LoadEngine(doc)
	require.Error(t, err)
	require.ErrorIs(t, err, oxmlerr.Sentinel(oxmlerr.Schema))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	e := NewEngine()
	_, err := e.Resolve(Setting{Bold: true, FontSize: 14, Horizontal: "center", WrapText: true})
	require.NoError(t, err)
	_, err = e.Resolve(Setting{NumberFormat: NumberFormat{Custom: "0.00"}})
	require.NoError(t, err)

	doc := xmldom.NewDocument()
	e.WriteTree(doc)

	e2, err := LoadEngine(doc)
	require.NoError(t, err)

	require.Equal(t, e.CellXfCount(), e2.CellXfCount())
	require.Equal(t, e.CellStyleXfCount(), e2.CellStyleXfCount())
	require.Equal(t, len(e.fonts), len(e2.fonts))
	require.Equal(t, len(e.numFmts), len(e2.numFmts))
}
