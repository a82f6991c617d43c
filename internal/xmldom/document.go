// Package xmldom is a flattened, ID-keyed XML element graph and its
// byte-blob (de)serializer.
//
// Every element lives in one owner table keyed by a monotonically
// increasing integer ID; parent-child linkage is expressed purely through
// IDs. This gives O(1) element access, lets a caller pop a child during
// traversal without invalidating other references, and makes whole-document
// serialization a straightforward walk from the root.
package xmldom

import "github.com/adnsv/oxml/internal/oxmlerr"

// Attr is a single attribute in source (insertion) order.
type Attr struct {
	Name  string
	Value string
}

// Element is one node in the flattened tree.
type Element struct {
	ID        int
	Tag       string
	Namespace string // resolved URI, empty if unqualified
	Attrs     []Attr
	Value     *string
	Children  []int
	ParentID  int // 0 = no parent (root or detached)
}

// SetAttr inserts or overwrites an attribute, preserving the position of
// the first insertion when overwriting.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// GetAttr looks up an attribute by name.
func (e *Element) GetAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// SetValue sets the element's text content. A value and children are
// mutually exclusive in the serialized form; callers that add children to
// an element with a value get children precedence at serialization time.
func (e *Element) SetValue(v string) {
	e.Value = &v
}

// Document owns every Element in a tree.
type Document struct {
	Elements map[int]*Element
	RootID   int // 0 = no root yet
	nextID   int
}

// NewDocument returns an empty document with no root element.
func NewDocument() *Document {
	return &Document{
		Elements: map[int]*Element{},
	}
}

// NewElement allocates a fresh element with the next unused ID. The
// element is not yet attached to any parent; the caller must call
// AppendChild (or SetRoot, for the first element) to attach it.
func (d *Document) NewElement(tag string) *Element {
	d.nextID++
	e := &Element{ID: d.nextID, Tag: tag}
	d.Elements[e.ID] = e
	return e
}

// SetRoot designates e as the document root. e must have no parent.
func (d *Document) SetRoot(e *Element) {
	e.ParentID = 0
	d.RootID = e.ID
}

// Root returns the root element, if any.
func (d *Document) Root() (*Element, bool) {
	if d.RootID == 0 {
		return nil, false
	}
	return d.Get(d.RootID)
}

// Get looks up an element by ID.
func (d *Document) Get(id int) (*Element, bool) {
	e, ok := d.Elements[id]
	return e, ok
}

// AppendChild attaches child as the last child of parentID.
func (d *Document) AppendChild(parentID int, child *Element) {
	child.ParentID = parentID
	if parent, ok := d.Elements[parentID]; ok {
		parent.Children = append(parent.Children, child.ID)
	}
}

// InsertChildAt inserts child at position idx among parentID's children
// (clamped to the valid range).
func (d *Document) InsertChildAt(parentID int, child *Element, idx int) {
	child.ParentID = parentID
	parent, ok := d.Elements[parentID]
	if !ok {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(parent.Children) {
		idx = len(parent.Children)
	}
	parent.Children = append(parent.Children, 0)
	copy(parent.Children[idx+1:], parent.Children[idx:])
	parent.Children[idx] = child.ID
}

// ChildCount returns the number of direct children of id.
func (d *Document) ChildCount(id int) int {
	e, ok := d.Elements[id]
	if !ok {
		return 0
	}
	return len(e.Children)
}

// ChildrenByTag returns the direct children of parentID whose tag matches,
// in document order.
func (d *Document) ChildrenByTag(parentID int, tag string) []*Element {
	parent, ok := d.Elements[parentID]
	if !ok {
		return nil
	}
	var out []*Element
	for _, cid := range parent.Children {
		if c, ok := d.Elements[cid]; ok && c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// PopByTag removes and returns the first direct child of parentID with the
// given tag, or (nil, false) if none exists. The returned element (and its
// subtree) remains in d.Elements but is detached from its parent's child
// list; the caller owns reattaching it elsewhere or discarding it.
func (d *Document) PopByTag(parentID int, tag string) (*Element, bool) {
	parent, ok := d.Elements[parentID]
	if !ok {
		return nil, false
	}
	for i, cid := range parent.Children {
		c, ok := d.Elements[cid]
		if !ok || c.Tag != tag {
			continue
		}
		parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
		c.ParentID = 0
		return c, true
	}
	return nil, false
}

// Remove deletes id and its whole subtree from the document, and removes
// it from its parent's child list.
func (d *Document) Remove(id int) {
	e, ok := d.Elements[id]
	if !ok {
		return
	}
	if parent, ok := d.Elements[e.ParentID]; ok {
		for i, cid := range parent.Children {
			if cid == id {
				parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
				break
			}
		}
	}
	var drop func(nid int)
	drop = func(nid int) {
		n, ok := d.Elements[nid]
		if !ok {
			return
		}
		for _, cid := range n.Children {
			drop(cid)
		}
		delete(d.Elements, nid)
	}
	drop(id)
}

// FindIDsByAttr returns the IDs of every element carrying an attribute
// with the given name and value, in ID order.
func (d *Document) FindIDsByAttr(name, value string) []int {
	var out []int
	for id, e := range d.Elements {
		if v, ok := e.GetAttr(name); ok && v == value {
			out = append(out, id)
		}
	}
	sortInts(out)
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ReorderChildren stable-sorts parentID's children by the index of their
// tag in order; tags absent from order keep their relative position at the
// end. This implements the schema-defined child ordering
// requires for parts like workbook/worksheet/styles.
func (d *Document) ReorderChildren(parentID int, order []string) {
	parent, ok := d.Elements[parentID]
	if !ok {
		return
	}
	rank := make(map[string]int, len(order))
	for i, tag := range order {
		rank[tag] = i
	}
	const unranked = 1 << 30
	keyOf := func(cid int) int {
		c, ok := d.Elements[cid]
		if !ok {
			return unranked
		}
		if r, ok := rank[c.Tag]; ok {
			return r
		}
		return unranked
	}
	children := parent.Children
	for i := 1; i < len(children); i++ {
		for j := i; j > 0 && keyOf(children[j-1]) > keyOf(children[j]); j-- {
			children[j-1], children[j] = children[j], children[j-1]
		}
	}
}

// ErrConcurrentAccess is returned by document handle borrow checks.
func ErrConcurrentAccess(stage, path string) error {
	return oxmlerr.New(oxmlerr.ConcurrentAccess, stage, path, "concurrent access to document tree")
}
