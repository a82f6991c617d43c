package style

import (
	"strconv"

	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/xmldom"
)

// WriteTree rebuilds the `<styleSheet>` root's table children from the
// engine's current tables, in the exact order the "Serialization
// at close" names, then applies the schema reorder as a final safety net.
func (e *Engine) WriteTree(doc *xmldom.Document) {
	root, ok := doc.Root()
	if !ok {
		root = doc.NewElement("styleSheet")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
	}

	for _, tag := range []string{"numFmts", "fonts", "fills", "borders", "cellStyleXfs", "cellXfs"} {
		for _, c := range doc.ChildrenByTag(root.ID, tag) {
			doc.Remove(c.ID)
		}
	}

	if len(e.numFmts) > 0 {
		numFmts := doc.NewElement("numFmts")
		numFmts.SetAttr("count", strconv.Itoa(len(e.numFmts)))
		doc.AppendChild(root.ID, numFmts)
		for _, nf := range e.numFmts {
			el := doc.NewElement("numFmt")
			el.SetAttr("numFmtId", strconv.Itoa(nf.id))
			el.SetAttr("formatCode", nf.code)
			doc.AppendChild(numFmts.ID, el)
		}
	}

	fonts := doc.NewElement("fonts")
	fonts.SetAttr("count", strconv.Itoa(len(e.fonts)))
	doc.AppendChild(root.ID, fonts)
	for _, fe := range e.fonts {
		doc.AppendChild(fonts.ID, buildFontElement(doc, fe.f))
	}

	fills := doc.NewElement("fills")
	fills.SetAttr("count", strconv.Itoa(len(e.fills)))
	doc.AppendChild(root.ID, fills)
	for _, fe := range e.fills {
		doc.AppendChild(fills.ID, buildFillElement(doc, fe.fill))
	}

	borders := doc.NewElement("borders")
	borders.SetAttr("count", strconv.Itoa(len(e.borders)))
	doc.AppendChild(root.ID, borders)
	for _, be := range e.borders {
		doc.AppendChild(borders.ID, buildBorderElement(doc, be.borders))
	}

	cellStyleXfs := doc.NewElement("cellStyleXfs")
	cellStyleXfs.SetAttr("count", strconv.Itoa(len(e.cellStyleXfs)))
	doc.AppendChild(root.ID, cellStyleXfs)
	for _, xf := range e.cellStyleXfs {
		doc.AppendChild(cellStyleXfs.ID, buildXfElement(doc, xf, false))
	}

	cellXfs := doc.NewElement("cellXfs")
	cellXfs.SetAttr("count", strconv.Itoa(len(e.cellXfs)))
	doc.AppendChild(root.ID, cellXfs)
	for _, xf := range e.cellXfs {
		doc.AppendChild(cellXfs.ID, buildXfElement(doc, xf, true))
	}

	doc.ReorderChildren(root.ID, relschema.StylesOrder)
}

func buildFontElement(doc *xmldom.Document, f fontSetting) *xmldom.Element {
	el := doc.NewElement("font")
	if f.Bold {
		b := doc.NewElement("b")
		doc.AppendChild(el.ID, b)
	}
	if f.Italic {
		i := doc.NewElement("i")
		doc.AppendChild(el.ID, i)
	}
	if f.Strikethrough {
		s := doc.NewElement("strike")
		doc.AppendChild(el.ID, s)
	}
	if f.Underline != "" {
		u := doc.NewElement("u")
		if f.Underline != "single" {
			u.SetAttr("val", f.Underline)
		}
		doc.AppendChild(el.ID, u)
	}
	size := f.Size
	if size == 0 {
		size = 11
	}
	sz := doc.NewElement("sz")
	sz.SetAttr("val", strconv.FormatFloat(size, 'f', -1, 64))
	doc.AppendChild(el.ID, sz)

	if f.Color.isSet() {
		doc.AppendChild(el.ID, buildColorElement(doc, f.Color))
	}

	family := f.Family
	if family == "" {
		family = "Calibri"
	}
	name := doc.NewElement("name")
	name.SetAttr("val", family)
	doc.AppendChild(el.ID, name)

	return el
}

func buildFillElement(doc *xmldom.Document, f Fill) *xmldom.Element {
	el := doc.NewElement("fill")
	pf := doc.NewElement("patternFill")
	pattern := f.PatternType
	if pattern == "" {
		pattern = "none"
	}
	pf.SetAttr("patternType", pattern)
	if f.FgColor.isSet() {
		c := buildColorElement(doc, f.FgColor)
		c.Tag = "fgColor"
		doc.AppendChild(pf.ID, c)
	}
	if f.BgColor.isSet() {
		c := buildColorElement(doc, f.BgColor)
		c.Tag = "bgColor"
		doc.AppendChild(pf.ID, c)
	}
	doc.AppendChild(el.ID, pf)
	return el
}

func buildBorderElement(doc *xmldom.Document, b Borders) *xmldom.Element {
	el := doc.NewElement("border")
	doc.AppendChild(el.ID, buildBorderSideElement(doc, "left", b.Left))
	doc.AppendChild(el.ID, buildBorderSideElement(doc, "right", b.Right))
	doc.AppendChild(el.ID, buildBorderSideElement(doc, "top", b.Top))
	doc.AppendChild(el.ID, buildBorderSideElement(doc, "bottom", b.Bottom))
	doc.AppendChild(el.ID, buildBorderSideElement(doc, "diagonal", b.Diagonal))
	return el
}

func buildBorderSideElement(doc *xmldom.Document, tag string, s BorderSide) *xmldom.Element {
	el := doc.NewElement(tag)
	if s.Style != "" {
		el.SetAttr("style", s.Style)
	}
	if s.Color.isSet() {
		doc.AppendChild(el.ID, buildColorElement(doc, s.Color))
	}
	return el
}

func buildColorElement(doc *xmldom.Document, c Color) *xmldom.Element {
	el := doc.NewElement("color")
	switch c.Kind {
	case ColorTheme:
		el.SetAttr("theme", strconv.Itoa(c.Theme))
	case ColorRGB:
		el.SetAttr("rgb", c.RGB)
	case ColorIndexed:
		el.SetAttr("indexed", strconv.Itoa(c.Indexed))
	}
	return el
}

func buildXfElement(doc *xmldom.Document, xf xfEntry, isCellXf bool) *xmldom.Element {
	el := doc.NewElement("xf")
	el.SetAttr("numFmtId", strconv.Itoa(xf.NumFmtID))
	el.SetAttr("fontId", strconv.Itoa(xf.FontID))
	el.SetAttr("fillId", strconv.Itoa(xf.FillID))
	el.SetAttr("borderId", strconv.Itoa(xf.BorderID))
	if isCellXf {
		el.SetAttr("xfId", strconv.Itoa(xf.FormatID))
	}
	if xf.ApplyNumberFormat {
		el.SetAttr("applyNumberFormat", "1")
	}
	if xf.ApplyFont {
		el.SetAttr("applyFont", "1")
	}
	if xf.ApplyFill {
		el.SetAttr("applyFill", "1")
	}
	if xf.ApplyBorder {
		el.SetAttr("applyBorder", "1")
	}
	if xf.ApplyAlignment {
		el.SetAttr("applyAlignment", "1")
		align := doc.NewElement("alignment")
		if xf.Horizontal != "" {
			align.SetAttr("horizontal", xf.Horizontal)
		}
		if xf.Vertical != "" {
			align.SetAttr("vertical", xf.Vertical)
		}
		if xf.WrapText {
			align.SetAttr("wrapText", "1")
		}
		doc.AppendChild(el.ID, align)
	}
	return el
}
