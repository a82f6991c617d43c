package oxml

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/style"
	"github.com/adnsv/oxml/internal/xmldom"
)

// Worksheet is the row/cell writer for one sheet's XML body.
// Rows and cells mutate the underlying tree directly as they are created;
// there is no separate staged in-memory row/cell model to reconcile on
// close.
type Worksheet struct {
	base        *part.Base
	sheetDataEl *xmldom.Element
	nextRow     int

	columns    map[int]float64 // 1-based column -> width; absent = default
	mergeCells []string        // "A1:B2" style refs, validated on Merge

	sharedStrings *sharedStringsPart
	calcChain     *calcChainPart
	sheetID       int
}

func worksheetPath(sheetID int) string {
	return "xl/worksheets/sheet" + strconv.Itoa(sheetID) + ".xml"
}

func loadWorksheetPart(st *store.Store, sheetID int, sharedStrings *sharedStringsPart, calcChain *calcChainPart) (*Worksheet, error) {
	path := worksheetPath(sheetID)
	base, err := part.Load(st, path, relschema.CTWorksheet, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("worksheet")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		root.SetAttr("xmlns:r", relschema.NSRelationships)
		doc.SetRoot(root)
		sd := doc.NewElement("sheetData")
		doc.AppendChild(root.ID, sd)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	doc := base.Doc()
	root, _ := doc.Root()

	sheetDataEl := firstChildByTag(doc, root.ID, "sheetData")
	if sheetDataEl == nil {
		sheetDataEl = doc.NewElement("sheetData")
		doc.AppendChild(root.ID, sheetDataEl)
	}

	ws := &Worksheet{
		base:          base,
		sheetDataEl:   sheetDataEl,
		nextRow:       1,
		columns:       map[int]float64{},
		sharedStrings: sharedStrings,
		calcChain:     calcChain,
		sheetID:       sheetID,
	}

	for _, r := range doc.ChildrenByTag(sheetDataEl.ID, "row") {
		if v, ok := r.GetAttr("r"); ok {
			if n, err := strconv.Atoi(v); err == nil && n >= ws.nextRow {
				ws.nextRow = n + 1
			}
		}
	}

	if cols, ok := doc.PopByTag(root.ID, "cols"); ok {
		for _, c := range doc.ChildrenByTag(cols.ID, "col") {
			minS, _ := c.GetAttr("min")
			maxS, _ := c.GetAttr("max")
			widthS, _ := c.GetAttr("width")
			min, err1 := strconv.Atoi(minS)
			max, err2 := strconv.Atoi(maxS)
			width, err3 := strconv.ParseFloat(widthS, 64)
			if err1 != nil || err2 != nil || err3 != nil || min > max {
				continue
			}
			for n := min; n <= max; n++ {
				ws.columns[n] = width
			}
		}
		doc.Remove(cols.ID)
	}

	if mc, ok := doc.PopByTag(root.ID, "mergeCells"); ok {
		for _, m := range doc.ChildrenByTag(mc.ID, "mergeCell") {
			if ref, ok := m.GetAttr("ref"); ok {
				ws.mergeCells = append(ws.mergeCells, ref)
			}
		}
		doc.Remove(mc.ID)
	}

	return ws, nil
}

// Row wraps one `<row>` element as it is being populated left to right.
type Row struct {
	doc       *xmldom.Document
	el        *xmldom.Element
	ws        *Worksheet
	rowNumber int
	nextCol   int
}

// AddRow appends a new row below the last one added.
func (ws *Worksheet) AddRow() *Row {
	n := ws.nextRow
	ws.nextRow++
	doc := ws.base.Doc()
	el := doc.NewElement("row")
	el.SetAttr("r", strconv.Itoa(n))
	doc.AppendChild(ws.sheetDataEl.ID, el)
	return &Row{doc: doc, el: el, ws: ws, rowNumber: n, nextCol: 1}
}

// SetHeight sets a custom row height in points.
func (r *Row) SetHeight(h float64) *Row {
	if h > 0 {
		r.el.SetAttr("ht", strconv.FormatFloat(h, 'g', -1, 64))
		r.el.SetAttr("customHeight", "1")
	}
	return r
}

// Number returns the row's 1-based row number.
func (r *Row) Number() int { return r.rowNumber }

// Cell wraps one `<c>` element.
type Cell struct {
	doc      *xmldom.Document
	el       *xmldom.Element
	ws       *Worksheet
	col, row int
	coord    string
}

// AddCell appends a new cell to the right of the last one added in this row.
func (r *Row) AddCell() *Cell {
	n := r.nextCol
	r.nextCol++
	coord, _ := CellCoordAsString(n, r.rowNumber) // n, r.rowNumber are always >= 1
	el := r.doc.NewElement("c")
	el.SetAttr("r", coord)
	r.doc.AppendChild(r.el.ID, el)
	return &Cell{doc: r.doc, el: el, ws: r.ws, col: n, row: r.rowNumber, coord: coord}
}

// Coord returns the cell's reference, e.g. "A1".
func (c *Cell) Coord() string { return c.coord }

func (c *Cell) reset() {
	for _, tag := range []string{"v", "f"} {
		if ch, ok := c.doc.PopByTag(c.el.ID, tag); ok {
			c.doc.Remove(ch.ID)
		}
	}
	c.el.RemoveAttr("t")
}

func (c *Cell) appendValue(v string) {
	vEl := c.doc.NewElement("v")
	vEl.SetValue(v)
	c.doc.AppendChild(c.el.ID, vEl)
}

// SetInt sets the cell's value to an integer.
func (c *Cell) SetInt(v int64) {
	c.reset()
	c.el.SetAttr("t", "n")
	c.appendValue(strconv.FormatInt(v, 10))
}

// SetFloat sets the cell's value to a floating-point number.
func (c *Cell) SetFloat(v float64) {
	c.reset()
	c.el.SetAttr("t", "n")
	c.appendValue(strconv.FormatFloat(v, 'g', -1, 64))
}

// SetBool sets the cell's value to a boolean.
func (c *Cell) SetBool(v bool) {
	c.reset()
	c.el.SetAttr("t", "b")
	if v {
		c.appendValue("1")
	} else {
		c.appendValue("0")
	}
}

// SetString sets the cell's value to text, routed through the workbook's
// shared-string table.
func (c *Cell) SetString(v string) {
	c.reset()
	c.el.SetAttr("t", "s")
	idx := c.ws.sharedStrings.Add(v)
	c.appendValue(strconv.Itoa(idx))
}

// SetFormula sets the cell's value to a formula expression (without the
// leading "="), registering it in the workbook's recalculation order.
func (c *Cell) SetFormula(expr string) {
	c.reset()
	fEl := c.doc.NewElement("f")
	fEl.SetValue(expr)
	c.doc.AppendChild(c.el.ID, fEl)
	c.ws.calcChain.AddEntry(c.ws.sheetID, c.coord)
}

// SetStyle assigns a previously resolved style to the cell.
func (c *Cell) SetStyle(id style.StyleId) {
	c.el.SetAttr("s", strconv.Itoa(int(id)))
}

// SetColumnWidth sets a custom width for a 1-based column, or clears it if
// width <= 0.
func (ws *Worksheet) SetColumnWidth(col int, width float64) error {
	if col <= 0 {
		return oxmlerr.New(oxmlerr.Programmer, "set_column_width", ws.base.FilePath, "column index must be greater than 0")
	}
	if width <= 0 {
		delete(ws.columns, col)
	} else {
		ws.columns[col] = width
	}
	return nil
}

// Merge marks the cell range ref (e.g. "A1:B2") as merged. Fails if ref is
// malformed, spans a single cell, or overlaps an existing merge.
func (ws *Worksheet) Merge(ref string) error {
	startCol, startRow, endCol, endRow, err := parseMergeRef(ref)
	if err != nil {
		return err
	}
	if err := ws.validateMergeRange(startCol, startRow, endCol, endRow); err != nil {
		return err
	}
	ws.mergeCells = append(ws.mergeCells, ref)
	return nil
}

// MergeRange is the coordinate-based equivalent of Merge.
func (ws *Worksheet) MergeRange(startCol, startRow, endCol, endRow int) error {
	if err := ws.validateMergeRange(startCol, startRow, endCol, endRow); err != nil {
		return err
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	a, err := CellCoordAsString(startCol, startRow)
	if err != nil {
		return err
	}
	b, err := CellCoordAsString(endCol, endRow)
	if err != nil {
		return err
	}
	ws.mergeCells = append(ws.mergeCells, a+":"+b)
	return nil
}

func parseMergeRef(ref string) (startCol, startRow, endCol, endRow int, err error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return 0, 0, 0, 0, oxmlerr.New(oxmlerr.Schema, "merge", "", "merge reference must be of the form 'A1:B2'")
	}
	startCol, startRow, err = parseCellRef(parts[0])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	endCol, endRow, err = parseCellRef(parts[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return startCol, startRow, endCol, endRow, nil
}

func parseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && (ref[i] < '0' || ref[i] > '9') {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, oxmlerr.New(oxmlerr.Schema, "merge", "", "invalid cell reference "+ref)
	}
	col, err = GetColumnInt(ref[:i])
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, oxmlerr.New(oxmlerr.Schema, "merge", "", "invalid row number in "+ref)
	}
	return col, row, nil
}

func (ws *Worksheet) validateMergeRange(startCol, startRow, endCol, endRow int) error {
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	if startRow > endRow {
		startRow, endRow = endRow, startRow
	}
	if startCol == endCol && startRow == endRow {
		return oxmlerr.New(oxmlerr.Schema, "merge", "", "merge range must span at least 2 cells")
	}
	for _, existing := range ws.mergeCells {
		exStartCol, exStartRow, exEndCol, exEndRow, err := parseMergeRef(existing)
		if err != nil {
			continue
		}
		if !(endCol < exStartCol || startCol > exEndCol || endRow < exStartRow || startRow > exEndRow) {
			return oxmlerr.New(oxmlerr.Conflict, "merge", "", "merge range overlaps an existing merge")
		}
	}
	return nil
}

// Close writes cols/mergeCells back into the tree and flushes the part.
func (ws *Worksheet) Close() error {
	doc := ws.base.Doc()
	root, _ := doc.Root()

	if len(ws.columns) > 0 {
		cols := doc.NewElement("cols")
		nums := maps.Keys(ws.columns)
		sort.Ints(nums)
		for _, n := range nums {
			col := doc.NewElement("col")
			col.SetAttr("min", strconv.Itoa(n))
			col.SetAttr("max", strconv.Itoa(n))
			col.SetAttr("width", strconv.FormatFloat(ws.columns[n], 'g', -1, 64))
			col.SetAttr("customWidth", "1")
			doc.AppendChild(cols.ID, col)
		}
		doc.AppendChild(root.ID, cols)
	}

	if len(ws.mergeCells) > 0 {
		mc := doc.NewElement("mergeCells")
		mc.SetAttr("count", strconv.Itoa(len(ws.mergeCells)))
		for _, ref := range ws.mergeCells {
			e := doc.NewElement("mergeCell")
			e.SetAttr("ref", ref)
			doc.AppendChild(mc.ID, e)
		}
		doc.AppendChild(root.ID, mc)
	}

	doc.ReorderChildren(root.ID, relschema.WorksheetOrder)
	return ws.base.Close()
}
