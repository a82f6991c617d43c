// Package part implements the lifecycle every concrete XML part shares,
// plus the two parts every package carries regardless of content: the
// relationships file and content-types manifest.
package part

import (
	"sync"

	"github.com/adnsv/oxml/internal/store"
	"github.com/adnsv/oxml/internal/xmldom"
)

// InitFunc builds the default tree for a part that doesn't exist yet.
type InitFunc func() (*xmldom.Document, error)

// Base is the common load-or-initialize / close-writes-back / single-
// writer-discipline lifecycle every concrete part embeds.
//
// Doc access is gated by a runtime borrow check: Borrow (shared, multiple
// readers may coexist) and BorrowMut (exclusive) both fail with a
// ConcurrentAccess error if a conflicting handle is already outstanding.
// This guards against the programmer error of re-entering a part's tree
// while a prior handle from the same call stack hasn't been released yet;
// the engine itself never calls into two goroutines at once.
type Base struct {
	Store       *store.Store
	FilePath    string
	ContentType string

	doc    *xmldom.Document
	mu     sync.Mutex
	reader int
	writer bool
	closed bool
}

// Load resolves filePath against the store: if the store already has a
// tree for it, that tree is reused; otherwise init is called to build the
// default content.
func Load(st *store.Store, filePath, contentType string, init InitFunc) (*Base, error) {
	doc, err := st.GetTree(filePath)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc, err = init()
		if err != nil {
			return nil, err
		}
	}
	return &Base{Store: st, FilePath: filePath, ContentType: contentType, doc: doc}, nil
}

// Borrow takes a shared (read) handle on the part's tree.
func (b *Base) Borrow() (*xmldom.Document, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writer {
		return nil, nil, xmldom.ErrConcurrentAccess("borrow", b.FilePath)
	}
	b.reader++
	return b.doc, func() {
		b.mu.Lock()
		b.reader--
		b.mu.Unlock()
	}, nil
}

// BorrowMut takes an exclusive (write) handle on the part's tree.
func (b *Base) BorrowMut() (*xmldom.Document, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.writer || b.reader > 0 {
		return nil, nil, xmldom.ErrConcurrentAccess("borrow_mut", b.FilePath)
	}
	b.writer = true
	return b.doc, func() {
		b.mu.Lock()
		b.writer = false
		b.mu.Unlock()
	}, nil
}

// Doc returns the tree directly, for callers (like this package's own
// Relationships/ContentTypes) that already guarantee single-writer
// discipline at a higher level.
func (b *Base) Doc() *xmldom.Document { return b.doc }

// Close writes the tree back to the store. Idempotent.
func (b *Base) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.Store.CloseTree(b.FilePath, b.doc)
}

// CloseEmpty deletes the part's entry instead of writing it back, for
// parts that end up with nothing worth keeping.
func (b *Base) CloseEmpty() error {
	b.closed = true
	return b.Store.DeleteEntry(b.FilePath)
}
