package part

import (
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/xmldom"
)

const contentTypesPath = "[Content_Types].xml"

// ContentTypes is the package-wide `[Content_Types].xml` manifest (spec
// §4.G): `Default` extension entries plus `Override` per-part entries.
type ContentTypes struct {
	base *Base

	defaultOrder []string
	defaults     map[string]string // extension -> content-type

	overrideOrder []string
	overrides     map[string]string // part path -> content-type
}

// LoadContentTypes loads (or initializes with the standard rels/xml
// defaults) the content-types manifest.
func LoadContentTypes(st *store.Store) (*ContentTypes, error) {
	b, err := Load(st, contentTypesPath, relschema.CTXML, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("Types")
		root.SetAttr("xmlns", relschema.NSContentTypes)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	ct := &ContentTypes{
		base:      b,
		defaults:  map[string]string{},
		overrides: map[string]string{},
	}

	root, ok := b.Doc().Root()
	if ok {
		for _, d := range b.Doc().ChildrenByTag(root.ID, "Default") {
			ext, _ := d.GetAttr("Extension")
			typ, _ := d.GetAttr("ContentType")
			ct.ensureDefaultNoDirty(ext, typ)
		}
		for _, o := range b.Doc().ChildrenByTag(root.ID, "Override") {
			p, _ := o.GetAttr("PartName")
			typ, _ := o.GetAttr("ContentType")
			ct.addOverrideNoDirty(p, typ)
		}
		for _, c := range append(b.Doc().ChildrenByTag(root.ID, "Default"), b.Doc().ChildrenByTag(root.ID, "Override")...) {
			b.Doc().Remove(c.ID)
		}
	}
	if len(ct.defaultOrder) == 0 {
		ct.EnsureDefault("rels", relschema.CTRelationships)
		ct.EnsureDefault("xml", relschema.CTXML)
	}

	return ct, nil
}

func (ct *ContentTypes) ensureDefaultNoDirty(ext, contentType string) {
	if _, ok := ct.defaults[ext]; !ok {
		ct.defaultOrder = append(ct.defaultOrder, ext)
	}
	ct.defaults[ext] = contentType
}

func (ct *ContentTypes) addOverrideNoDirty(partPath, contentType string) {
	if _, ok := ct.overrides[partPath]; !ok {
		ct.overrideOrder = append(ct.overrideOrder, partPath)
	}
	ct.overrides[partPath] = contentType
}

// EnsureDefault registers a `<Default Extension=.. ContentType=..>` entry
// if ext isn't already registered.
func (ct *ContentTypes) EnsureDefault(ext, contentType string) {
	ct.ensureDefaultNoDirty(ext, contentType)
}

// AddOverride registers (or replaces) a `<Override PartName=.. ContentType=..>`
// entry for partPath (an absolute "/..." path).
func (ct *ContentTypes) AddOverride(partPath, contentType string) {
	ct.addOverrideNoDirty(partPath, contentType)
}

// GetOverride looks up the content type registered for partPath.
func (ct *ContentTypes) GetOverride(partPath string) (string, bool) {
	t, ok := ct.overrides[partPath]
	return t, ok
}

// RemoveOverride removes partPath's override, if any. Base.CloseEmpty
// does not call it; a deleted part's override stays unless removed here.
func (ct *ContentTypes) RemoveOverride(partPath string) {
	if _, ok := ct.overrides[partPath]; !ok {
		return
	}
	delete(ct.overrides, partPath)
	for i, p := range ct.overrideOrder {
		if p == partPath {
			ct.overrideOrder = append(ct.overrideOrder[:i], ct.overrideOrder[i+1:]...)
			break
		}
	}
}

// Close rewrites the `<Default>`/`<Override>` children in registration
// order and writes the tree back. The content-types manifest is always
// present, even if only carrying the two baseline defaults.
func (ct *ContentTypes) Close() error {
	doc := ct.base.Doc()
	root, ok := doc.Root()
	if !ok {
		root = doc.NewElement("Types")
		root.SetAttr("xmlns", relschema.NSContentTypes)
		doc.SetRoot(root)
	}

	for _, ext := range ct.defaultOrder {
		e := doc.NewElement("Default")
		e.SetAttr("Extension", ext)
		e.SetAttr("ContentType", ct.defaults[ext])
		doc.AppendChild(root.ID, e)
	}
	for _, p := range ct.overrideOrder {
		e := doc.NewElement("Override")
		e.SetAttr("PartName", p)
		e.SetAttr("ContentType", ct.overrides[p])
		doc.AppendChild(root.ID, e)
	}

	return ct.base.Close()
}
