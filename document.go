// Package oxml reads and writes Office Open XML spreadsheet packages
// (.xlsx): a ZIP container of typed XML parts linked by a relationship
// graph, mirrored on top of an embedded SQLite store for random-access
// editing without holding the whole archive decompressed in memory.
package oxml

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/part"
	"github.com/adnsv/oxml/internal/relschema"
	"github.com/adnsv/oxml/internal/store"
)

// Option configures a Document at construction.
type Option func(*Document)

// WithLogger sets the logger a Document uses for close-path diagnostics
// that can't otherwise be surfaced (scope-exit cleanup can't return an
// error). Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// Document is a single open .xlsx package.
type Document struct {
	store        *store.Store
	contentTypes *part.ContentTypes
	globalRels   *part.Relationships
	workbook     *WorkbookHandle
	logger       *slog.Logger
}

func newDocument(st *store.Store, opts []Option) (*Document, error) {
	ct, err := part.LoadContentTypes(st)
	if err != nil {
		return nil, err
	}
	globalRels, err := part.LoadRelationships(st, "")
	if err != nil {
		return nil, err
	}
	wb, err := loadWorkbookPart(st, ct)
	if err != nil {
		return nil, err
	}

	target, _, created := globalRels.GetOrCreateRelationship(relschema.RelTypeOfficeDocument, "xl", "workbook", "xml")
	if created {
		ct.AddOverride("/"+target, relschema.CTWorkbook)
	}

	d := &Document{
		store:        st,
		contentTypes: ct,
		globalRels:   globalRels,
		workbook:     wb,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	runtime.SetFinalizer(d, func(d *Document) {
		if err := d.store.Close(); err != nil {
			d.logger.Error("closing package store on scope exit", "error", err)
		}
	})

	return d, nil
}

// Create starts a brand-new, empty workbook with one default sheet named
// "Sheet1".
func Create(opts ...Option) (*Document, error) {
	st, err := store.Open("", true)
	if err != nil {
		return nil, err
	}
	d, err := newDocument(st, opts)
	if err != nil {
		return nil, err
	}
	if _, err := d.workbook.AddSheet("Sheet1"); err != nil {
		return nil, err
	}
	return d, nil
}

// Open loads an existing .xlsx package from path.
func Open(path string, opts ...Option) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.PackageIO, "open", path, err)
	}
	st, err := store.Open(path, true)
	if err != nil {
		return nil, err
	}
	return newDocument(st, opts)
}

// Workbook returns the document's single root spreadsheet part.
func (d *Document) Workbook() *WorkbookHandle { return d.workbook }

// SaveAs flushes every part (bottom-up: worksheets and their ancestors,
// then the package-level relationships and content-types manifest) and
// writes a new ZIP archive to path.
func (d *Document) SaveAs(path string) error {
	if err := d.workbook.Close(); err != nil {
		return err
	}
	if err := d.contentTypes.Close(); err != nil {
		return err
	}
	if err := d.globalRels.Close(); err != nil {
		return err
	}
	return d.store.SaveAs(path)
}

// Close releases the document's underlying store without writing
// anything back. SaveAs does not release the store, so Close is also the
// call that ends a document after SaveAs.
func (d *Document) Close() error {
	return d.store.Close()
}
