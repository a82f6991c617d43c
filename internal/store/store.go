// Package store is the on-demand, compressed, random-access mirror of a
// ZIP package held in a local SQLite database. Every part
// reads, mutates, and eventually writes back through this store rather
// than touching the ZIP archive directly.
package store

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"io"
	"os"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/adnsv/oxml/internal/codec"
	"github.com/adnsv/oxml/internal/oxmlerr"
	"github.com/adnsv/oxml/internal/xmldom"
)

const schema = `
CREATE TABLE IF NOT EXISTS package_entries (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	file_name         TEXT NOT NULL UNIQUE,
	content_type      TEXT NOT NULL DEFAULT '',
	compression_type  TEXT NOT NULL,
	compression_level INTEGER NOT NULL,
	uncompressed_size INTEGER NOT NULL,
	compressed_size   INTEGER NOT NULL,
	file_content      BLOB,
	tree_content      BLOB
);
`

// Store is the SQLite-backed mirror of a package's ZIP entries.
type Store struct {
	db *sql.DB
}

// Open initializes the schema and, if path is non-empty, loads the ZIP
// archive at path fully into the store, one row per entry, compressed.
// dbInMemory selects whether the backing SQLite database itself lives in
// memory (true, the common case) or in a temp file (false, for very large
// packages where keeping every blob resident is undesirable).
func Open(path string, dbInMemory bool) (*Store, error) {
	dsn := ":memory:"
	if !dbInMemory {
		f, err := os.CreateTemp("", "oxml-store-*.sqlite")
		if err != nil {
			return nil, oxmlerr.Wrap(oxmlerr.PackageIO, "open_store", path, err)
		}
		f.Close()
		dsn = f.Name()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.PackageIO, "open_store", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, oxmlerr.Wrap(oxmlerr.PackageIO, "init_schema", path, err)
	}

	s := &Store{db: db}

	if path != "" {
		if err := s.loadArchive(path); err != nil {
			db.Close()
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) loadArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "load_archive", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return oxmlerr.Wrap(oxmlerr.PackageIO, "load_archive", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return oxmlerr.Wrap(oxmlerr.PackageIO, "load_archive", f.Name, err)
		}

		compressed, err := codec.Compress(codec.Deflate, codec.DefaultLevel, raw)
		if err != nil {
			return oxmlerr.Wrap(oxmlerr.Codec, "load_archive", f.Name, err)
		}

		if err := s.insert(f.Name, "", codec.Deflate, codec.DefaultLevel, len(raw), len(compressed), compressed); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insert(fileName, contentType string, typ codec.Type, level, uncompressedSize, compressedSize int, fileContent []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO package_entries
			(file_name, content_type, compression_type, compression_level, uncompressed_size, compressed_size, file_content, tree_content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, NULL)`,
		fileName, contentType, string(typ), level, uncompressedSize, compressedSize, fileContent,
	)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "insert", fileName, err)
	}
	return nil
}

// Put inserts a brand-new entry (used when a part initializes default
// content rather than loading it from an existing archive), or overwrites
// an existing one's raw bytes.
func (s *Store) Put(fileName, contentType string, raw []byte) error {
	compressed, err := codec.Compress(codec.Deflate, codec.DefaultLevel, raw)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.Codec, "put", fileName, err)
	}

	res, err := s.db.Exec(
		`UPDATE package_entries SET content_type=?, compression_type=?, compression_level=?,
			uncompressed_size=?, compressed_size=?, file_content=?, tree_content=NULL
		 WHERE file_name=?`,
		contentType, string(codec.Deflate), codec.DefaultLevel, len(raw), len(compressed), compressed, fileName,
	)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "put", fileName, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	return s.insert(fileName, contentType, codec.Deflate, codec.DefaultLevel, len(raw), len(compressed), compressed)
}

// Exists reports whether fileName has a row in the store.
func (s *Store) Exists(fileName string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM package_entries WHERE file_name=?`, fileName).Scan(&n)
	if err != nil {
		return false, oxmlerr.Wrap(oxmlerr.PackageIO, "exists", fileName, err)
	}
	return n > 0, nil
}

// GetTree loads the XML tree for fileName. If the row's tree_content is
// already populated, it is decoded directly; otherwise file_content is
// decompressed, parsed, and the parsed tree is persisted back into
// tree_content so future hits skip reparsing. A missing entry returns
// (nil, nil).
func (s *Store) GetTree(fileName string) (*xmldom.Document, error) {
	var fileContent, treeContent []byte
	err := s.db.QueryRow(`SELECT file_content, tree_content FROM package_entries WHERE file_name=?`, fileName).
		Scan(&fileContent, &treeContent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.PackageIO, "get_tree", fileName, err)
	}

	if treeContent != nil {
		raw, err := codec.Decompress(codec.Deflate, treeContent)
		if err != nil {
			return nil, oxmlerr.Wrap(oxmlerr.Codec, "decompress", fileName, err)
		}
		doc, err := xmldom.DecodeTree(raw)
		if err != nil {
			return nil, oxmlerr.Wrap(oxmlerr.Codec, "deserialize_tree", fileName, err)
		}
		return doc, nil
	}

	raw, err := codec.Decompress(codec.Deflate, fileContent)
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "decompress", fileName, err)
	}
	doc, err := xmldom.Deserialize(raw)
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Schema, "deserialize_tree", fileName, err)
	}

	if err := s.CloseTree(fileName, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CloseTree serializes doc into the internal tree representation,
// compresses it, and writes it back into tree_content, clearing
// file_content (the tree becomes the source of truth). If fileName has no
// existing row — a part created fresh by an InitFunc rather than loaded
// from an archive — a new row is inserted instead.
func (s *Store) CloseTree(fileName string, doc *xmldom.Document) error {
	encoded, err := xmldom.EncodeTree(doc)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.Codec, "encode_tree", fileName, err)
	}
	compressed, err := codec.Compress(codec.Deflate, codec.DefaultLevel, encoded)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.Codec, "compress", fileName, err)
	}

	res, err := s.db.Exec(
		`UPDATE package_entries SET tree_content=?, file_content=NULL, compression_type=?, compression_level=? WHERE file_name=?`,
		compressed, string(codec.Deflate), codec.DefaultLevel, fileName,
	)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "close_tree", fileName, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	if err := s.insert(fileName, "", codec.Deflate, codec.DefaultLevel, len(encoded), len(compressed), nil); err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE package_entries SET tree_content=? WHERE file_name=?`, compressed, fileName)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "close_tree", fileName, err)
	}
	return nil
}

// DeleteEntry removes fileName's row entirely.
func (s *Store) DeleteEntry(fileName string) error {
	_, err := s.db.Exec(`DELETE FROM package_entries WHERE file_name=?`, fileName)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "delete_entry", fileName, err)
	}
	return nil
}

type archiveRow struct {
	id          int
	fileName    string
	typ         codec.Type
	fileContent []byte
	treeContent []byte
}

// SaveAs enumerates every row in a deterministic order (by file name,
// matching an insertion-order-independent round trip)
// and streams each into a ZIP writer, overwriting path atomically.
func (s *Store) SaveAs(path string) error {
	rows, err := s.db.Query(`SELECT id, file_name, compression_type, file_content, tree_content FROM package_entries`)
	if err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
	}
	var entries []archiveRow
	for rows.Next() {
		var r archiveRow
		var typ string
		if err := rows.Scan(&r.id, &r.fileName, &typ, &r.fileContent, &r.treeContent); err != nil {
			rows.Close()
			return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
		}
		r.typ = codec.Type(typ)
		entries = append(entries, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.Compare(entries[i].fileName, entries[j].fileName) < 0
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		var raw []byte
		if e.treeContent != nil {
			decompressed, err := codec.Decompress(e.typ, e.treeContent)
			if err != nil {
				return oxmlerr.Wrap(oxmlerr.Codec, "save_archive", e.fileName, err)
			}
			doc, err := xmldom.DecodeTree(decompressed)
			if err != nil {
				return oxmlerr.Wrap(oxmlerr.Codec, "save_archive", e.fileName, err)
			}
			raw, err = xmldom.Serialize(doc)
			if err != nil {
				return oxmlerr.Wrap(oxmlerr.Codec, "save_archive", e.fileName, err)
			}
		} else {
			decompressed, err := codec.Decompress(e.typ, e.fileContent)
			if err != nil {
				return oxmlerr.Wrap(oxmlerr.Codec, "save_archive", e.fileName, err)
			}
			raw = decompressed
		}

		w, err := zw.Create(e.fileName)
		if err != nil {
			return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", e.fileName, err)
		}
		if _, err := w.Write(raw); err != nil {
			return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", e.fileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o666); err != nil {
		return oxmlerr.Wrap(oxmlerr.PackageIO, "save_archive", path, err)
	}
	return nil
}

// Close releases the backing SQLite connection.
func (s *Store) Close() error {
	return s.db.Close()
}
