package xmldom

import (
	"bytes"
	"strings"

	srwxml "github.com/adnsv/srw/xml"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// serializeScope mirrors nsScope but is built from an element's own stored
// Attrs (xmlns / xmlns:prefix) rather than from a decoder token, so the
// same URI->prefix resolution used during parsing can run in reverse.
type serializeScope map[string]string

func (s serializeScope) merge(attrs []Attr) serializeScope {
	child := make(serializeScope, len(s))
	for k, v := range s {
		child[k] = v
	}
	for _, a := range attrs {
		if a.Name == "xmlns" {
			child[""] = a.Value
		} else if strings.HasPrefix(a.Name, "xmlns:") {
			child[strings.TrimPrefix(a.Name, "xmlns:")] = a.Value
		}
	}
	return child
}

func (s serializeScope) prefixFor(uri string) (string, bool) {
	if uri == "" {
		return "", true
	}
	for prefix, u := range s {
		if u == uri {
			return prefix, true
		}
	}
	return "", false
}

// Serialize reverses Deserialize. The prolog is always
// `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`. Elements with
// neither children nor a value serialize as self-closing; elements with a
// value emit `<tag ...>value</tag>`; otherwise children are emitted in
// child-list order. Namespace declarations already present as attributes
// are emitted verbatim; a qualified tag is re-prefixed from its Namespace
// field using the nearest in-scope xmlns binding.
func Serialize(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	w := srwxml.NewWriter(&buf, srwxml.WriterConfig{Indent: srwxml.Indent2Spaces})
	w.XmlStandaloneDecl()

	root, ok := doc.Root()
	if !ok {
		return buf.Bytes(), nil
	}
	if err := emit(w, doc, root, serializeScope{}); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "serialize_tree", "", err)
	}
	return buf.Bytes(), nil
}

func emit(w *srwxml.Writer, doc *Document, e *Element, parentScope serializeScope) error {
	scope := parentScope.merge(e.Attrs)

	tag := e.Tag
	if e.Namespace != "" {
		if prefix, ok := scope.prefixFor(e.Namespace); ok && prefix != "" {
			tag = prefix + ":" + tag
		}
	}

	w.OTag(tag)
	for _, a := range e.Attrs {
		w.Attr(a.Name, a.Value)
	}

	if len(e.Children) == 0 {
		if e.Value != nil {
			w.Write(*e.Value)
		}
		w.CTag()
		return nil
	}

	for _, cid := range e.Children {
		c, ok := doc.Get(cid)
		if !ok {
			continue
		}
		if err := emit(w, doc, c, scope); err != nil {
			return err
		}
	}
	w.CTag()
	return nil
}
