package oxml

import (
	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/style"
	"github.com/adnsv/oxml/internal/xmldom"
)

const stylesPath = "xl/styles.xml"

// stylesPart binds the style.Engine to the `xl/styles.xml` part lifecycle:
// the engine owns the six dedup tables in memory, and this wrapper flushes
// them into the tree on Close.
type stylesPart struct {
	base   *part.Base
	engine *style.Engine
}

func loadStylesPart(st *store.Store) (*stylesPart, error) {
	base, err := part.Load(st, stylesPath, relschema.CTStyles, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("styleSheet")
		root.SetAttr("xmlns", relschema.NSSpreadsheetML)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	engine, err := style.LoadEngine(base.Doc())
	if err != nil {
		return nil, err
	}
	return &stylesPart{base: base, engine: engine}, nil
}

func (sp *stylesPart) Resolve(s style.Setting) (style.StyleId, error) {
	return sp.engine.Resolve(s)
}

func (sp *stylesPart) Close() error {
	sp.engine.WriteTree(sp.base.Doc())
	return sp.base.Close()
}
