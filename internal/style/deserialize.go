package style

import (
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/xmldom"
)

// LoadEngine reconstructs an Engine from an existing `<styleSheet>` tree,
// rebuilding each table's content hashes so indices already referenced by
// cells stay stable.
func LoadEngine(doc *xmldom.Document) (*Engine, error) {
	c, _ := lru.New[uuid.UUID, StyleId](cacheCapacity)
	e := &Engine{cache: c}

	root, ok := doc.Root()
	if !ok {
		return NewEngine(), nil
	}

	if numFmts := firstChild(doc, root.ID, "numFmts"); numFmts != nil {
		for _, nf := range doc.ChildrenByTag(numFmts.ID, "numFmt") {
			idStr, _ := nf.GetAttr("numFmtId")
			code, _ := nf.GetAttr("formatCode")
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return nil, oxmlerr.Wrap(oxmlerr.Schema, "load_styles", "numFmt", err)
			}
			e.numFmts = append(e.numFmts, numFmtEntry{hash: hashNumFmt(code), id: id, code: code})
		}
	}

	if fonts := firstChild(doc, root.ID, "fonts"); fonts != nil {
		for _, fc := range doc.ChildrenByTag(fonts.ID, "font") {
			f, err := parseFontElement(doc, fc)
			if err != nil {
				return nil, err
			}
			e.fonts = append(e.fonts, fontEntry{hash: hashFont(f), f: f})
		}
	}
	if len(e.fonts) == 0 {
		e.fonts = append(e.fonts, fontEntry{})
	}

	if fills := firstChild(doc, root.ID, "fills"); fills != nil {
		for _, fc := range doc.ChildrenByTag(fills.ID, "fill") {
			f := parseFillElement(doc, fc)
			e.fills = append(e.fills, fillEntry{hash: hashFill(f), fill: f})
		}
	}
	if len(e.fills) == 0 {
		e.fills = append(e.fills, fillEntry{fill: Fill{PatternType: "none"}})
	}

	if borders := firstChild(doc, root.ID, "borders"); borders != nil {
		for _, bc := range doc.ChildrenByTag(borders.ID, "border") {
			b, err := parseBorderElement(doc, bc)
			if err != nil {
				return nil, err
			}
			e.borders = append(e.borders, borderEntry{hash: hashBorders(b), borders: b})
		}
	}
	if len(e.borders) == 0 {
		e.borders = append(e.borders, borderEntry{})
	}

	if cellStyleXfs := firstChild(doc, root.ID, "cellStyleXfs"); cellStyleXfs != nil {
		for _, xc := range doc.ChildrenByTag(cellStyleXfs.ID, "xf") {
			xf, err := parseXfElement(doc, xc, false)
			if err != nil {
				return nil, err
			}
			xf.hash = hashPartialXf(xf)
			e.cellStyleXfs = append(e.cellStyleXfs, xf)
		}
	}
	if len(e.cellStyleXfs) == 0 {
		e.cellStyleXfs = append(e.cellStyleXfs, xfEntry{})
	}

	if cellXfs := firstChild(doc, root.ID, "cellXfs"); cellXfs != nil {
		for _, xc := range doc.ChildrenByTag(cellXfs.ID, "xf") {
			xf, err := parseXfElement(doc, xc, true)
			if err != nil {
				return nil, err
			}
			xf.hash = hashFullXf(xf)
			e.cellXfs = append(e.cellXfs, xf)
		}
	}
	if len(e.cellXfs) == 0 {
		e.cellXfs = append(e.cellXfs, xfEntry{})
	}

	return e, nil
}

func firstChild(doc *xmldom.Document, parentID int, tag string) *xmldom.Element {
	c := doc.ChildrenByTag(parentID, tag)
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

func parseFontElement(doc *xmldom.Document, el *xmldom.Element) (fontSetting, error) {
	var f fontSetting
	for _, cid := range el.Children {
		c, ok := doc.Get(cid)
		if !ok {
			continue
		}
		switch c.Tag {
		case "b":
			f.Bold = true
		case "i":
			f.Italic = true
		case "strike":
			f.Strikethrough = true
		case "u":
			if v, ok := c.GetAttr("val"); ok {
				f.Underline = v
			} else {
				f.Underline = "single"
			}
		case "sz":
			if v, ok := c.GetAttr("val"); ok {
				sz, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return f, oxmlerr.Wrap(oxmlerr.Schema, "load_styles", "font/sz", err)
				}
				f.Size = sz
			}
		case "name":
			if v, ok := c.GetAttr("val"); ok {
				f.Family = v
			}
		case "color":
			f.Color = parseColorElement(c)
		case "family", "scheme", "charset":
			// recognized but not modeled; these elements are not
			// written back (buildFontElement emits only b/i/strike/u,
			// sz, color and name).
		default:
			return f, oxmlerr.New(oxmlerr.Schema, "load_styles", "font", "unknown child element "+c.Tag)
		}
	}
	return f, nil
}

func parseFillElement(doc *xmldom.Document, el *xmldom.Element) Fill {
	var f Fill
	pf := firstChild(doc, el.ID, "patternFill")
	if pf == nil {
		return f
	}
	if v, ok := pf.GetAttr("patternType"); ok {
		f.PatternType = v
	}
	for _, cid := range pf.Children {
		c, ok := doc.Get(cid)
		if !ok {
			continue
		}
		switch c.Tag {
		case "fgColor":
			f.FgColor = parseColorElement(c)
		case "bgColor":
			f.BgColor = parseColorElement(c)
		}
	}
	return f
}

func parseBorderElement(doc *xmldom.Document, el *xmldom.Element) (Borders, error) {
	var b Borders
	for _, cid := range el.Children {
		c, ok := doc.Get(cid)
		if !ok {
			continue
		}
		switch c.Tag {
		case "left":
			b.Left = parseBorderSideElement(doc, c)
		case "right":
			b.Right = parseBorderSideElement(doc, c)
		case "top":
			b.Top = parseBorderSideElement(doc, c)
		case "bottom":
			b.Bottom = parseBorderSideElement(doc, c)
		case "diagonal":
			b.Diagonal = parseBorderSideElement(doc, c)
		default:
			return b, oxmlerr.New(oxmlerr.Schema, "load_styles", "border", "unknown child element "+c.Tag)
		}
	}
	return b, nil
}

func parseBorderSideElement(doc *xmldom.Document, c *xmldom.Element) BorderSide {
	var s BorderSide
	if v, ok := c.GetAttr("style"); ok {
		s.Style = v
	}
	if cc := firstChild(doc, c.ID, "color"); cc != nil {
		s.Color = parseColorElement(cc)
	}
	return s
}

func parseColorElement(el *xmldom.Element) Color {
	if v, ok := el.GetAttr("theme"); ok {
		n, _ := strconv.Atoi(v)
		return Color{Kind: ColorTheme, Theme: n}
	}
	if v, ok := el.GetAttr("rgb"); ok {
		return Color{Kind: ColorRGB, RGB: v}
	}
	if v, ok := el.GetAttr("indexed"); ok {
		n, _ := strconv.Atoi(v)
		return Color{Kind: ColorIndexed, Indexed: n}
	}
	return Color{}
}

func parseXfElement(doc *xmldom.Document, el *xmldom.Element, isCellXf bool) (xfEntry, error) {
	var xf xfEntry
	var err error
	if xf.NumFmtID, err = attrInt(el, "numFmtId"); err != nil {
		return xf, err
	}
	if xf.FontID, err = attrInt(el, "fontId"); err != nil {
		return xf, err
	}
	if xf.FillID, err = attrInt(el, "fillId"); err != nil {
		return xf, err
	}
	if xf.BorderID, err = attrInt(el, "borderId"); err != nil {
		return xf, err
	}
	if isCellXf {
		if xf.FormatID, err = attrInt(el, "xfId"); err != nil {
			return xf, err
		}
	}
	// Preserve the parsed apply-* gate attributes verbatim rather than
	// recomputing them from the resolved xf fields.
	xf.ApplyNumberFormat = attrFlag(el, "applyNumberFormat")
	xf.ApplyFont = attrFlag(el, "applyFont")
	xf.ApplyFill = attrFlag(el, "applyFill")
	xf.ApplyBorder = attrFlag(el, "applyBorder")
	xf.ApplyAlignment = attrFlag(el, "applyAlignment")

	if align := firstChild(doc, el.ID, "alignment"); align != nil {
		xf.Horizontal, _ = align.GetAttr("horizontal")
		xf.Vertical, _ = align.GetAttr("vertical")
		xf.WrapText = attrFlag(align, "wrapText")
	}
	return xf, nil
}

func attrInt(el *xmldom.Element, name string) (int, error) {
	v, ok := el.GetAttr(name)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, oxmlerr.Wrap(oxmlerr.Schema, "load_styles", name, err)
	}
	return n, nil
}

func attrFlag(el *xmldom.Element, name string) bool {
	v, ok := el.GetAttr(name)
	return ok && (v == "1" || v == "true")
}
