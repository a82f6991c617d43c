package oxml

import (
	"strconv"

	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/xmldom"
)

const calcChainPath = "xl/calcChain.xml"

type calcChainEntry struct {
	sheetID int
	cellRef string
}

// calcChainPart is the other minor deduplicating table owned as a child of
// the workbook: the order in which formula cells must be recalculated.
// Loaded together with the workbook, like sharedStringsPart, and written
// only once a formula cell has registered itself.
type calcChainPart struct {
	base    *part.Base
	entries []calcChainEntry
}

func loadCalcChainPart(st *store.Store) (*calcChainPart, error) {
	base, err := part.Load(st, calcChainPath, relschema.CTCalcChain, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("calcChain")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	cc := &calcChainPart{base: base}
	root, ok := base.Doc().Root()
	if ok {
		for _, c := range base.Doc().ChildrenByTag(root.ID, "c") {
			ref, _ := c.GetAttr("r")
			sheetID := 1
			if s, ok := c.GetAttr("i"); ok {
				if n, err := strconv.Atoi(s); err == nil {
					sheetID = n
				}
			}
			cc.entries = append(cc.entries, calcChainEntry{sheetID: sheetID, cellRef: ref})
			base.Doc().Remove(c.ID)
		}
	}
	return cc, nil
}

// AddEntry registers cellRef on sheetID as the next entry to recalculate.
func (cc *calcChainPart) AddEntry(sheetID int, cellRef string) {
	cc.entries = append(cc.entries, calcChainEntry{sheetID: sheetID, cellRef: cellRef})
}

// Empty reports whether no formula cell has ever registered an entry, in
// which case the part is dropped entirely rather than written as an empty
// shell.
func (cc *calcChainPart) Empty() bool { return len(cc.entries) == 0 }

func (cc *calcChainPart) Close() error {
	if cc.Empty() {
		return cc.base.CloseEmpty()
	}

	doc := cc.base.Doc()
	root, ok := doc.Root()
	if !ok {
		root = doc.NewElement("calcChain")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
	}
	for _, e := range cc.entries {
		c := doc.NewElement("c")
		c.SetAttr("r", e.cellRef)
		c.SetAttr("i", strconv.Itoa(e.sheetID))
		doc.AppendChild(root.ID, c)
	}
	return cc.base.Close()
}
