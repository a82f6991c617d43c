package part

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/xmldom"
)

// Relationship is one `(Id, Target, Type, TargetMode)` edge.
type Relationship struct {
	ID         string
	Target     string
	Type       string
	TargetMode string // "" or "External"
}

// Relationships is the in-memory model of one `.rels` file: an ordered
// vector of edges, loaded lazily and flushed back on Close.
type Relationships struct {
	base    *Base
	relPath string
	baseDir string
	edges   []Relationship
}

// LoadRelationships loads (or initializes empty) the relationships file
// for ownerPartPath (pass "" for the package-level `_rels/.rels`).
func LoadRelationships(st *store.Store, ownerPartPath string) (*Relationships, error) {
	relPath := RelsPathFor(ownerPartPath)
	b, err := Load(st, relPath, relschema.CTRelationships, func() (*xmldom.Document, error) {
		doc := xmldom.NewDocument()
		root := doc.NewElement("Relationships")
		root.SetAttr("xmlns", relschema.NSPackageRels)
		doc.SetRoot(root)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	r := &Relationships{base: b, relPath: relPath, baseDir: BaseDirFor(relPath)}

	root, ok := b.Doc().Root()
	if ok {
		for _, c := range b.Doc().ChildrenByTag(root.ID, "Relationship") {
			id, _ := c.GetAttr("Id")
			target, _ := c.GetAttr("Target")
			typ, _ := c.GetAttr("Type")
			mode, _ := c.GetAttr("TargetMode")
			r.edges = append(r.edges, Relationship{ID: id, Target: target, Type: typ, TargetMode: mode})
		}
		// the pre-existing <Relationship> elements are now fully captured
		// in r.edges; Close rebuilds them from scratch.
		for _, c := range b.Doc().ChildrenByTag(root.ID, "Relationship") {
			b.Doc().Remove(c.ID)
		}
	}

	return r, nil
}

// GetTargetByID resolves rId's target against this file's base directory.
func (r *Relationships) GetTargetByID(rId string) (string, bool) {
	for _, e := range r.edges {
		if e.ID == rId {
			return ResolveTarget(r.baseDir, e.Target), true
		}
	}
	return "", false
}

// ByID returns the raw edge (unresolved target) for rId.
func (r *Relationships) ByID(rId string) (Relationship, bool) {
	for _, e := range r.edges {
		if e.ID == rId {
			return e, true
		}
	}
	return Relationship{}, false
}

// All returns the edges in insertion order.
func (r *Relationships) All() []Relationship {
	out := make([]Relationship, len(r.edges))
	copy(out, r.edges)
	return out
}

// nextID returns "rId{k}" where k is the smallest unused positive integer.
func (r *Relationships) nextID() string {
	used := make(map[int]bool, len(r.edges))
	for _, e := range r.edges {
		if n, ok := parseRID(e.ID); ok {
			used[n] = true
		}
	}
	for k := 1; ; k++ {
		if !used[k] {
			return fmt.Sprintf("rId%d", k)
		}
	}
}

func parseRID(id string) (int, bool) {
	if !strings.HasPrefix(id, "rId") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, "rId"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetOrCreateRelationship returns the resolved target of the first edge
// matching typ; on miss it allocates a new rId, synthesizes a target of
// `{dir}/{name}.{ext}`, pushes the edge, and returns the synthesized path.
func (r *Relationships) GetOrCreateRelationship(typ, dir, name, ext string) (target, id string, created bool) {
	for _, e := range r.edges {
		if e.Type == typ {
			return ResolveTarget(r.baseDir, e.Target), e.ID, false
		}
	}

	newTarget := strings.TrimSuffix(dir, "/")
	if newTarget != "" {
		newTarget += "/"
	}
	newTarget += name + "." + strings.TrimPrefix(ext, ".")

	rid := r.nextID()
	r.edges = append(r.edges, Relationship{ID: rid, Target: newTarget, Type: typ})
	return ResolveTarget(r.baseDir, newTarget), rid, true
}

// Add pushes a fully-specified edge (used for external relationships, or
// relationships whose target the caller already knows), allocating an ID
// if rel.ID is empty.
func (r *Relationships) Add(rel Relationship) string {
	if rel.ID == "" {
		rel.ID = r.nextID()
	}
	r.edges = append(r.edges, rel)
	return rel.ID
}

// DeleteRelationship removes every edge whose target (normalized with a
// leading slash) matches target.
func (r *Relationships) DeleteRelationship(target string) {
	norm := target
	if !strings.HasPrefix(norm, "/") {
		norm = "/" + norm
	}
	kept := r.edges[:0]
	for _, e := range r.edges {
		en := e.Target
		if !strings.HasPrefix(en, "/") {
			en = "/" + en
		}
		if en != norm {
			kept = append(kept, e)
		}
	}
	r.edges = kept
}

// Empty reports whether this file currently has no edges.
func (r *Relationships) Empty() bool { return len(r.edges) == 0 }

// Close appends all in-memory edges as <Relationship> children and writes
// the tree back, or deletes the file entirely if there are no edges left.
func (r *Relationships) Close() error {
	if len(r.edges) == 0 {
		return r.base.CloseEmpty()
	}

	doc := r.base.Doc()
	root, ok := doc.Root()
	if !ok {
		root = doc.NewElement("Relationships")
		root.SetAttr("xmlns", relschema.NSPackageRels)
		doc.SetRoot(root)
	}

	for _, e := range r.edges {
		rel := doc.NewElement("Relationship")
		rel.SetAttr("Id", e.ID)
		rel.SetAttr("Type", e.Type)
		rel.SetAttr("Target", e.Target)
		if e.TargetMode != "" {
			rel.SetAttr("TargetMode", e.TargetMode)
		}
		doc.AppendChild(root.ID, rel)
	}

	return r.base.Close()
}
