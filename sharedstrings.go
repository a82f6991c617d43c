package oxml

import (
	"strconv"

	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/xmldom"
)

const sharedStringsPath = "xl/sharedStrings.xml"

// sharedStringsPart is the minor deduplicating table of cell text content,
// owned as a child of the workbook and written only once at least one
// string has been registered.
type sharedStringsPart struct {
	base    *part.Base
	strings []string
	index   map[string]int
}

func loadSharedStringsPart(st *store.Store) (*sharedStringsPart, error) {
	base, err := part.Load(st, sharedStringsPath, relschema.CTSharedStrings, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("sst")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	sp := &sharedStringsPart{base: base, index: map[string]int{}}
	root, ok := base.Doc().Root()
	if ok {
		for _, si := range base.Doc().ChildrenByTag(root.ID, "si") {
			text := ""
			if t := firstChildByTag(base.Doc(), si.ID, "t"); t != nil && t.Value != nil {
				text = *t.Value
			}
			sp.index[text] = len(sp.strings)
			sp.strings = append(sp.strings, text)
			base.Doc().Remove(si.ID)
		}
	}
	return sp, nil
}

func firstChildByTag(doc *xmldom.Document, parentID int, tag string) *xmldom.Element {
	c := doc.ChildrenByTag(parentID, tag)
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// Add returns s's 0-based index in the shared string table, inserting it
// if not already present.
func (sp *sharedStringsPart) Add(s string) int {
	if i, ok := sp.index[s]; ok {
		return i
	}
	i := len(sp.strings)
	sp.strings = append(sp.strings, s)
	sp.index[s] = i
	return i
}

// Empty reports whether the table has no entries, in which case the part
// is dropped entirely rather than written as an empty shell.
func (sp *sharedStringsPart) Empty() bool { return len(sp.strings) == 0 }

func (sp *sharedStringsPart) Close() error {
	if sp.Empty() {
		return sp.base.CloseEmpty()
	}
	doc := sp.base.Doc()
	root, ok := doc.Root()
	if !ok {
		root = doc.NewElement("sst")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
	}
	root.SetAttr("count", strconv.Itoa(len(sp.strings)))
	root.SetAttr("uniqueCount", strconv.Itoa(len(sp.strings)))
	for _, s := range sp.strings {
		si := doc.NewElement("si")
		t := doc.NewElement("t")
		t.SetValue(s)
		doc.AppendChild(si.ID, t)
		doc.AppendChild(root.ID, si)
	}
	return sp.base.Close()
}
