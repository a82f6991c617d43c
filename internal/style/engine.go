// Package style implements the content-addressed deduplication engine
// across the six interdependent OOXML style tables: number formats,
// fonts, fills, borders, cell-style xfs, and cell xfs.
package style

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// StyleId is the opaque handle callers carry on cells: an index into the
// cellXfs table.
type StyleId int

// cacheCapacity bounds the recently-resolved-settings cache.
const cacheCapacity = 25

// Engine owns the six tables and resolves StyleSetting values to StyleIds,
// guaranteeing identical settings always yield the same ID.
type Engine struct {
	numFmts []numFmtEntry
	fonts   []fontEntry
	fills   []fillEntry
	borders []borderEntry

	cellStyleXfs []xfEntry
	cellXfs      []xfEntry

	cache *lru.Cache[uuid.UUID, StyleId]
}

// NewEngine builds an engine pre-seeded with the index-0 default entries
// every styles.xml carries: default font, empty fill, empty border, and
// one default xf in each of cellStyleXfs/cellXfs.
func NewEngine() *Engine {
	c, _ := lru.New[uuid.UUID, StyleId](cacheCapacity)
	e := &Engine{cache: c}
	e.fonts = append(e.fonts, fontEntry{})
	e.fills = append(e.fills, fillEntry{fill: Fill{PatternType: "none"}})
	e.borders = append(e.borders, borderEntry{})
	e.cellStyleXfs = append(e.cellStyleXfs, xfEntry{})
	e.cellXfs = append(e.cellXfs, xfEntry{})
	return e
}

// Resolve hashes the setting, consults the LRU, and on miss builds the
// font/fill/border/numFmt rows, the partial
// cellStyleXfs row, and the full cellXfs row, appending wherever no
// existing row has the same structural hash.
func (e *Engine) Resolve(s Setting) (StyleId, error) {
	key := hashSetting(s)
	if id, ok := e.cache.Get(key); ok {
		return id, nil
	}

	numFmtID, err := e.resolveNumFmt(s.NumberFormat)
	if err != nil {
		return 0, err
	}

	fontID, applyFont := e.resolveFont(s.font())
	fillID, applyFill := e.resolveFill(s.Fill)
	borderID, applyBorder := e.resolveBorder(s.Borders)

	align := s.alignment()
	applyAlignment := !align.isDefault()
	applyNumberFormat := numFmtID != FormatGeneral

	partial := xfEntry{
		NumFmtID:          numFmtID,
		FontID:            fontID,
		FillID:            fillID,
		BorderID:          borderID,
		ApplyNumberFormat: applyNumberFormat,
		ApplyFont:         applyFont,
		ApplyFill:         applyFill,
		ApplyBorder:       applyBorder,
		ApplyAlignment:    applyAlignment,
		Horizontal:        align.Horizontal,
		Vertical:          align.Vertical,
		WrapText:          align.WrapText,
	}
	partial.hash = hashPartialXf(partial)
	formatID, ok := findXf(e.cellStyleXfs, partial.hash)
	if !ok {
		formatID = len(e.cellStyleXfs)
		e.cellStyleXfs = append(e.cellStyleXfs, partial)
	}

	full := partial
	full.FormatID = formatID
	full.hash = hashFullXf(full)
	styleIdx, ok := findXf(e.cellXfs, full.hash)
	if !ok {
		styleIdx = len(e.cellXfs)
		e.cellXfs = append(e.cellXfs, full)
	}

	id := StyleId(styleIdx)
	e.cache.Add(key, id)
	return id, nil
}

func (e *Engine) resolveNumFmt(nf NumberFormat) (int, error) {
	if nf.Builtin || nf == (NumberFormat{}) {
		return nf.BuiltinID, nil
	}
	if nf.Custom == "" {
		return 0, oxmlerr.New(oxmlerr.Programmer, "resolve_style", "", "custom number format requested without a format string")
	}
	hash := hashNumFmt(nf.Custom)
	if i, ok := findNumFmt(e.numFmts, hash); ok {
		return e.numFmts[i].id, nil
	}
	id := firstCustomNumFmtID + len(e.numFmts)
	e.numFmts = append(e.numFmts, numFmtEntry{hash: hash, id: id, code: nf.Custom})
	return id, nil
}

func (e *Engine) resolveFont(f fontSetting) (id int, apply bool) {
	if f.isDefault() {
		return 0, false
	}
	hash := hashFont(f)
	if i, ok := findFont(e.fonts[1:], hash); ok {
		return i + 1, true
	}
	e.fonts = append(e.fonts, fontEntry{hash: hash, f: f})
	return len(e.fonts) - 1, true
}

func (e *Engine) resolveFill(f Fill) (id int, apply bool) {
	if f.isDefault() {
		return 0, false
	}
	hash := hashFill(f)
	if i, ok := findFill(e.fills[1:], hash); ok {
		return i + 1, true
	}
	e.fills = append(e.fills, fillEntry{hash: hash, fill: f})
	return len(e.fills) - 1, true
}

func (e *Engine) resolveBorder(b Borders) (id int, apply bool) {
	if b.isDefault() {
		return 0, false
	}
	hash := hashBorders(b)
	if i, ok := findBorder(e.borders[1:], hash); ok {
		return i + 1, true
	}
	e.borders = append(e.borders, borderEntry{hash: hash, borders: b})
	return len(e.borders) - 1, true
}

// CellXfCount reports the live size of the cellXfs table, for tests and
// for the §8 scenario-3 "increases by exactly 1" assertion.
func (e *Engine) CellXfCount() int { return len(e.cellXfs) }

// CellStyleXfCount reports the live size of the cellStyleXfs table.
func (e *Engine) CellStyleXfCount() int { return len(e.cellStyleXfs) }

// lookupStyle is used by serialization/tests to recover the resolved
// fields behind a StyleId without re-hashing.
func (e *Engine) lookupStyle(id StyleId) (xfEntry, error) {
	if int(id) < 0 || int(id) >= len(e.cellXfs) {
		return xfEntry{}, oxmlerr.New(oxmlerr.Schema, "lookup_style", "", fmt.Sprintf("style id %d out of range", id))
	}
	return e.cellXfs[id], nil
}
