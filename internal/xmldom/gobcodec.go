package xmldom

import (
	"bytes"
	"encoding/gob"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// treeGob is the on-disk shape of a cached tree: plain data, gob-friendly.
type treeGob struct {
	Elements map[int]*Element
	RootID   int
	NextID   int
}

// EncodeTree serializes doc into the internal binary representation the
// package store caches in a PackageEntry's tree_content column. This is
// distinct from Serialize, which produces the part's on-disk XML bytes.
func EncodeTree(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	g := treeGob{Elements: doc.Elements, RootID: doc.RootID, NextID: doc.nextID}
	if err := gob.NewEncoder(&buf).Encode(&g); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "encode_tree", "", err)
	}
	return buf.Bytes(), nil
}

// DecodeTree reverses EncodeTree.
func DecodeTree(blob []byte) (*Document, error) {
	var g treeGob
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&g); err != nil {
		return nil, oxmlerr.Wrap(oxmlerr.Codec, "decode_tree", "", err)
	}
	if g.Elements == nil {
		g.Elements = map[int]*Element{}
	}
	return &Document{Elements: g.Elements, RootID: g.RootID, nextID: g.NextID}, nil
}
