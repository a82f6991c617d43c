package oxml

import (
	"strconv"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/style"
	"github.com/adnsv/oxml/internal/xmldom"
)

const workbookPath = "xl/workbook.xml"

// sheetEntry is one row of the in-memory sheet collection: display
// name, relationship id, active flag, hidden flag.
type sheetEntry struct {
	name    string
	relID   string
	sheetID int
	active  bool
	hidden  bool
}

// WorkbookView is the workbook-level window state: which tab is active,
// visibility of the window itself, and the scroll/tab-ratio cosmetics
// Excel persists.
type WorkbookView struct {
	ActiveTab              int
	FirstSheet             int
	Minimized              bool
	ShowHorizontalScroll   bool
	ShowVerticalScroll     bool
	ShowSheetTabs          bool
	TabRatio               int
	AutoFilterDateGrouping bool
}

func defaultWorkbookView() *WorkbookView {
	return &WorkbookView{
		ShowHorizontalScroll:   true,
		ShowVerticalScroll:     true,
		ShowSheetTabs:          true,
		TabRatio:               600,
		AutoFilterDateGrouping: true,
	}
}

// WorkbookHandle is the root spreadsheet part: it owns the sheet
// collection and window view in memory, and orchestrates its children's
// lifecycle (theme, styles, shared strings, calc chain, worksheets) on
// Close.
type WorkbookHandle struct {
	store        *store.Store
	base         *part.Base
	rels         *part.Relationships
	contentTypes *part.ContentTypes

	theme  *part.Base
	styles *stylesPart

	sharedStrings *sharedStringsPart
	calcChain     *calcChainPart

	worksheets map[string]*Worksheet

	sheets      []*sheetEntry
	sheetByName map[string]*sheetEntry
	nextSheetID int
	view        *WorkbookView
}

func loadWorkbookPart(st *store.Store, ct *part.ContentTypes) (*WorkbookHandle, error) {
	base, err := part.Load(st, workbookPath, relschema.CTWorkbook, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("workbook")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		root.SetAttr("xmlns:r", relschema.NSRelationships)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	rels, err := part.LoadRelationships(st, workbookPath)
	if err != nil {
		return nil, err
	}

	theme, err := loadThemePart(st)
	if err != nil {
		return nil, err
	}
	styles, err := loadStylesPart(st)
	if err != nil {
		return nil, err
	}
	sharedStrings, err := loadSharedStringsPart(st)
	if err != nil {
		return nil, err
	}
	calcChain, err := loadCalcChainPart(st)
	if err != nil {
		return nil, err
	}

	wb := &WorkbookHandle{
		store:         st,
		base:          base,
		rels:          rels,
		contentTypes:  ct,
		theme:         theme,
		styles:        styles,
		sharedStrings: sharedStrings,
		calcChain:     calcChain,
		worksheets:    map[string]*Worksheet{},
		sheetByName:   map[string]*sheetEntry{},
		nextSheetID:   1,
		view:          defaultWorkbookView(),
	}

	doc := base.Doc()
	root, _ := doc.Root()

	if sheetsEl, ok := doc.PopByTag(root.ID, "sheets"); ok {
		for _, s := range doc.ChildrenByTag(sheetsEl.ID, "sheet") {
			name, _ := s.GetAttr("name")
			relID, _ := s.GetAttr("r:id")
			state, _ := s.GetAttr("state")
			sheetID := wb.nextSheetID
			if idS, ok := s.GetAttr("sheetId"); ok {
				if n, err := strconv.Atoi(idS); err == nil {
					sheetID = n
				}
			}
			e := &sheetEntry{name: name, relID: relID, sheetID: sheetID, hidden: state == "hidden" || state == "veryHidden"}
			wb.sheets = append(wb.sheets, e)
			wb.sheetByName[name] = e
			if sheetID >= wb.nextSheetID {
				wb.nextSheetID = sheetID + 1
			}
		}
		doc.Remove(sheetsEl.ID)
	}

	if bvEl, ok := doc.PopByTag(root.ID, "bookViews"); ok {
		if wvs := doc.ChildrenByTag(bvEl.ID, "workbookView"); len(wvs) > 0 {
			wv := wvs[0]
			if v, ok := wv.GetAttr("activeTab"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					wb.view.ActiveTab = n
				}
			}
			if v, ok := wv.GetAttr("firstSheet"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					wb.view.FirstSheet = n
				}
			}
			wb.view.ShowHorizontalScroll = attrBoolDefault(wv, "showHorizontalScroll", true)
			wb.view.ShowVerticalScroll = attrBoolDefault(wv, "showVerticalScroll", true)
			wb.view.ShowSheetTabs = attrBoolDefault(wv, "showSheetTabs", true)
			wb.view.Minimized = attrBoolDefault(wv, "minimized", false)
			if v, ok := wv.GetAttr("tabRatio"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					wb.view.TabRatio = n
				}
			}
			wb.view.AutoFilterDateGrouping = attrBoolDefault(wv, "autoFilterDateGrouping", true)
		}
		doc.Remove(bvEl.ID)
	}
	if wb.view.ActiveTab >= 0 && wb.view.ActiveTab < len(wb.sheets) {
		wb.sheets[wb.view.ActiveTab].active = true
	}

	return wb, nil
}

func attrBoolDefault(e *xmldom.Element, name string, def bool) bool {
	v, ok := e.GetAttr(name)
	if !ok {
		return def
	}
	return v == "1" || v == "true"
}

func validateSheetName(s string) error {
	n := len([]rune(s))
	if n == 0 {
		return oxmlerr.New(oxmlerr.Schema, "add_sheet", "", "sheet name must not be empty")
	}
	if n > 31 {
		return oxmlerr.New(oxmlerr.Schema, "add_sheet", "", "sheet name must be 31 characters or fewer")
	}
	if s[0] == '\'' || s[len(s)-1] == '\'' {
		return oxmlerr.New(oxmlerr.Schema, "add_sheet", "", "sheet name must not start or end with a single quote")
	}
	for _, ch := range s {
		switch ch {
		case ':', '\\', '/', '?', '*', '[', ']':
			return oxmlerr.New(oxmlerr.Schema, "add_sheet", "", "sheet name must not contain : \\ / ? * [ ]")
		}
	}
	return nil
}

// AddSheet appends a new, empty worksheet named name.
func (wb *WorkbookHandle) AddSheet(name string) (*Worksheet, error) {
	if _, exists := wb.sheetByName[name]; exists {
		return nil, oxmlerr.New(oxmlerr.Conflict, "add_sheet", name, "a sheet with this name already exists")
	}
	if err := validateSheetName(name); err != nil {
		return nil, err
	}

	sheetID := wb.nextSheetID
	wb.nextSheetID++
	relTarget := "worksheets/sheet" + strconv.Itoa(sheetID) + ".xml"
	relID := wb.rels.Add(part.Relationship{Target: relTarget, Type: relschema.RelTypeWorksheet})
	wb.contentTypes.AddOverride("/xl/"+relTarget, relschema.CTWorksheet)

	e := &sheetEntry{name: name, relID: relID, sheetID: sheetID}
	if len(wb.sheets) == 0 {
		e.active = true
	}
	wb.sheets = append(wb.sheets, e)
	wb.sheetByName[name] = e

	ws, err := loadWorksheetPart(wb.store, sheetID, wb.sharedStrings, wb.calcChain)
	if err != nil {
		return nil, err
	}
	wb.worksheets[name] = ws
	return ws, nil
}

// GetWorksheet returns the previously added sheet named name.
func (wb *WorkbookHandle) GetWorksheet(name string) (*Worksheet, error) {
	if _, ok := wb.sheetByName[name]; !ok {
		return nil, oxmlerr.New(oxmlerr.NotFound, "get_worksheet", name, "no such sheet")
	}
	if ws, ok := wb.worksheets[name]; ok {
		return ws, nil
	}
	e := wb.sheetByName[name]
	ws, err := loadWorksheetPart(wb.store, e.sheetID, wb.sharedStrings, wb.calcChain)
	if err != nil {
		return nil, err
	}
	wb.worksheets[name] = ws
	return ws, nil
}

// SetActiveSheet marks name as the workbook's active tab, clearing any
// other sheet's active flag.
func (wb *WorkbookHandle) SetActiveSheet(name string) error {
	e, ok := wb.sheetByName[name]
	if !ok {
		return oxmlerr.New(oxmlerr.NotFound, "set_active_sheet", name, "no such sheet")
	}
	for i, s := range wb.sheets {
		s.active = s == e
		if s.active {
			wb.view.ActiveTab = i
		}
	}
	return nil
}

// HideSheet marks name as hidden.
func (wb *WorkbookHandle) HideSheet(name string) error {
	e, ok := wb.sheetByName[name]
	if !ok {
		return oxmlerr.New(oxmlerr.NotFound, "hide_sheet", name, "no such sheet")
	}
	e.hidden = true
	return nil
}

// RenameSheet renames a sheet, failing with Conflict if newName is
// already taken.
func (wb *WorkbookHandle) RenameSheet(oldName, newName string) error {
	e, ok := wb.sheetByName[oldName]
	if !ok {
		return oxmlerr.New(oxmlerr.NotFound, "rename_sheet", oldName, "no such sheet")
	}
	if oldName == newName {
		return nil
	}
	if _, exists := wb.sheetByName[newName]; exists {
		return oxmlerr.New(oxmlerr.Conflict, "rename_sheet", newName, "a sheet with this name already exists")
	}
	if err := validateSheetName(newName); err != nil {
		return err
	}
	delete(wb.sheetByName, oldName)
	e.name = newName
	wb.sheetByName[newName] = e
	if ws, ok := wb.worksheets[oldName]; ok {
		delete(wb.worksheets, oldName)
		wb.worksheets[newName] = ws
	}
	return nil
}

// View returns the workbook's window view for inspection or mutation.
func (wb *WorkbookHandle) View() *WorkbookView { return wb.view }

// StyleFor resolves a style setting to an opaque StyleId via the workbook's
// shared style engine.
func (wb *WorkbookHandle) StyleFor(s style.Setting) (style.StyleId, error) {
	return wb.styles.Resolve(s)
}

// Close flushes every child part (worksheets, calc chain, shared strings,
// styles, theme), rebuilds the workbook's own `<sheets>`/`<bookViews>`
// summary, and closes the relationships and workbook parts themselves —
// the bottom-up order that lets parents see final child state.
func (wb *WorkbookHandle) Close() error {
	for _, ws := range wb.worksheets {
		if err := ws.Close(); err != nil {
			return err
		}
	}

	// Theme and styles are always written, but their relationships are
	// only allocated now, after every AddSheet call has already claimed
	// its rId — otherwise these would consume rId1/rId2 on an empty
	// rels table before the first worksheet ever got one.
	themeTarget, _, _ := wb.rels.GetOrCreateRelationship(relschema.RelTypeTheme, "theme", "theme1", "xml")
	wb.contentTypes.AddOverride("/"+themeTarget, relschema.CTTheme)
	stylesTarget, _, _ := wb.rels.GetOrCreateRelationship(relschema.RelTypeStyles, "", "styles", "xml")
	wb.contentTypes.AddOverride("/"+stylesTarget, relschema.CTStyles)

	if !wb.calcChain.Empty() {
		target, _, created := wb.rels.GetOrCreateRelationship(relschema.RelTypeCalcChain, "", "calcChain", "xml")
		if created {
			wb.contentTypes.AddOverride("/"+target, relschema.CTCalcChain)
		}
	}
	if err := wb.calcChain.Close(); err != nil {
		return err
	}
	if !wb.sharedStrings.Empty() {
		target, _, created := wb.rels.GetOrCreateRelationship(relschema.RelTypeSharedStrings, "", "sharedStrings", "xml")
		if created {
			wb.contentTypes.AddOverride("/"+target, relschema.CTSharedStrings)
		}
	}
	if err := wb.sharedStrings.Close(); err != nil {
		return err
	}
	if err := wb.styles.Close(); err != nil {
		return err
	}
	if err := wb.theme.Close(); err != nil {
		return err
	}

	doc := wb.base.Doc()
	root, _ := doc.Root()

	sheetsEl := doc.NewElement("sheets")
	for _, e := range wb.sheets {
		s := doc.NewElement("sheet")
		s.SetAttr("name", e.name)
		s.SetAttr("sheetId", strconv.Itoa(e.sheetID))
		if e.hidden {
			s.SetAttr("state", "hidden")
		}
		s.SetAttr("r:id", e.relID)
		doc.AppendChild(sheetsEl.ID, s)
	}
	doc.AppendChild(root.ID, sheetsEl)

	bookViewsEl := doc.NewElement("bookViews")
	wvEl := doc.NewElement("workbookView")
	wvEl.SetAttr("activeTab", strconv.Itoa(wb.view.ActiveTab))
	if wb.view.FirstSheet > 0 {
		wvEl.SetAttr("firstSheet", strconv.Itoa(wb.view.FirstSheet))
	}
	wvEl.SetAttr("showHorizontalScroll", boolAttr(wb.view.ShowHorizontalScroll))
	wvEl.SetAttr("showVerticalScroll", boolAttr(wb.view.ShowVerticalScroll))
	wvEl.SetAttr("showSheetTabs", boolAttr(wb.view.ShowSheetTabs))
	if wb.view.Minimized {
		wvEl.SetAttr("minimized", "1")
	}
	wvEl.SetAttr("tabRatio", strconv.Itoa(wb.view.TabRatio))
	wvEl.SetAttr("autoFilterDateGrouping", boolAttr(wb.view.AutoFilterDateGrouping))
	doc.AppendChild(bookViewsEl.ID, wvEl)
	doc.AppendChild(root.ID, bookViewsEl)

	doc.ReorderChildren(root.ID, relschema.WorkbookOrder)

	if err := wb.rels.Close(); err != nil {
		return err
	}
	return wb.base.Close()
}

func boolAttr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
