// Package codec compresses and decompresses the byte blobs the package
// store persists per archive entry.
package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// Type names the compression algorithm a PackageEntry row was written with.
type Type string

const (
	// Deflate is the default general-purpose codec.
	Deflate Type = "deflate"
	// Stored means the blob is carried uncompressed (images, future work).
	Stored Type = "stored"
)

// DefaultLevel is the balanced compression level used unless a part opts
// into Stored.
const DefaultLevel = flate.DefaultCompression

// Compress deflates raw at the given level, or passes it through unchanged
// when typ is Stored.
func Compress(typ Type, level int, raw []byte) ([]byte, error) {
	if typ == Stored {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "compress", "", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "compress", "", err)
	}
	if err := w.Close(); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "compress", "", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(typ Type, blob []byte) ([]byte, error) {
	if typ == Stored {
		out := make([]byte, len(blob))
		copy(out, blob)
		return out, nil
	}

	r := flate.NewReader(bytes.NewReader(blob))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "decompress", "", err)
	}
	return out, nil
}
