package xmldom

import (
	"bytes"
	"encoding/xml"
	"io"
	"log/slog"
	"strings"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// nsScope is a prefix->URI mapping in effect at some point in the tree,
// built by merging a parent scope with an element's own xmlns attributes.
type nsScope map[string]string

func (s nsScope) merge(attrs []xml.Attr) nsScope {
	child := make(nsScope, len(s))
	for k, v := range s {
		child[k] = v
	}
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			child[a.Name.Local] = a.Value
		} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
			child[""] = a.Value
		}
	}
	return child
}

// prefixFor finds a prefix (possibly "" for the default namespace) bound to
// uri in scope, preferring an exact match; returns "", false if unbound.
func (s nsScope) prefixFor(uri string) (string, bool) {
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

// qualifiedAttrName reconstructs the literal "prefix:local" (or bare
// "local") form of an attribute name, using the in-scope prefix bindings.
// xmlns / xmlns:* attributes are reconstructed to their literal spelling so
// they round-trip verbatim.
func qualifiedAttrName(a xml.Attr, scope nsScope) string {
	switch {
	case a.Name.Space == "xmlns":
		return "xmlns:" + a.Name.Local
	case a.Name.Space == "" && a.Name.Local == "xmlns":
		return "xmlns"
	case a.Name.Space == "":
		return a.Name.Local
	default:
		if prefix, ok := scope.prefixFor(a.Name.Space); ok && prefix != "" {
			return prefix + ":" + a.Name.Local
		}
		return a.Name.Local
	}
}

type parseFrame struct {
	id          int
	scope       nsScope
	hasChildren bool
	text        []byte
}

// Deserialize reads well-formed XML from blob and constructs a Document.
//
// The <?xml ...?> declaration is consumed but not stored. Comments and
// processing instructions are skipped. Self-closing tags become empty
// elements. Text is kept as an element's Value only if the element has no
// element children when it closes; mixed text+child content discards the
// text (with a logged warning) rather than being supported
// and §9.
func Deserialize(blob []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(blob))
	doc := NewDocument()

	rootSeen := false
	var stack []*parseFrame
	scope := nsScope{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, oxmlerr.Wrap(oxmlerr.Schema, "deserialize_tree", "", err)
		}

		switch t := tok.(type) {
		case xml.ProcInst, xml.Directive, xml.Comment:
			// consumed, not stored

		case xml.StartElement:
			parentScope := scope
			if len(stack) > 0 {
				parentScope = stack[len(stack)-1].scope
			}
			curScope := parentScope.merge(t.Attr)

			e := doc.NewElement(t.Name.Local)
			e.Namespace = t.Name.Space
			for _, a := range t.Attr {
				e.SetAttr(qualifiedAttrName(a, curScope), a.Value)
			}

			if !rootSeen {
				doc.SetRoot(e)
				rootSeen = true
			} else if len(stack) > 0 {
				parent := stack[len(stack)-1]
				doc.AppendChild(parent.id, e)
				parent.hasChildren = true
			}

			stack = append(stack, &parseFrame{id: e.ID, scope: curScope})

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			e, ok := doc.Get(top.id)
			if !ok {
				continue
			}
			switch {
			case !top.hasChildren && len(top.text) > 0:
				v := string(top.text)
				e.Value = &v
			case top.hasChildren && len(bytes.TrimSpace(top.text)) > 0:
				slog.Default().Warn("xmldom: discarding mixed text content",
					"tag", e.Tag, "text", strings.TrimSpace(string(top.text)))
			}

		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text = append(top.text, t...)
			}
		}
	}

	return doc, nil
}
