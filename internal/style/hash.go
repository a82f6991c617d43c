package style

import (
	"bytes"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
)

// structuralHash canonicalizes parts into a deterministic byte stream (fixed
// field order, `%v` formatting) and folds it through 128-bit FNV into a
// UUID, used as the content-address for style-table entries (spec
// §4.I, §9 "content-addressed table dedup").
func structuralHash(parts ...any) uuid.UUID {
	var buf bytes.Buffer
	for _, p := range parts {
		fmt.Fprintf(&buf, "%v|", p)
	}
	h := fnv.New128()
	h.Write(buf.Bytes())
	uid, _ := uuid.FromBytes(h.Sum(nil))
	return uid
}

func colorHashParts(c Color) any {
	return [4]any{c.Kind, c.Theme, c.RGB, c.Indexed}
}

func borderSideHashParts(b BorderSide) any {
	return [2]any{b.Style, colorHashParts(b.Color)}
}

func hashNumFmt(code string) uuid.UUID {
	return structuralHash("numFmt", code)
}

func hashFont(f fontSetting) uuid.UUID {
	return structuralHash("font", f.Family, f.Size, f.Bold, f.Italic, f.Underline,
		f.Strikethrough, colorHashParts(f.Color))
}

func hashFill(f Fill) uuid.UUID {
	return structuralHash("fill", f.PatternType, colorHashParts(f.FgColor), colorHashParts(f.BgColor))
}

func hashBorders(b Borders) uuid.UUID {
	return structuralHash("border", borderSideHashParts(b.Left), borderSideHashParts(b.Right),
		borderSideHashParts(b.Top), borderSideHashParts(b.Bottom), borderSideHashParts(b.Diagonal))
}

func hashPartialXf(x xfEntry) uuid.UUID {
	return structuralHash("xf-partial", x.NumFmtID, x.ApplyNumberFormat, x.FontID, x.FillID, x.BorderID,
		x.ApplyFont, x.ApplyFill, x.ApplyBorder, x.ApplyAlignment, x.Horizontal, x.Vertical, x.WrapText)
}

func hashFullXf(x xfEntry) uuid.UUID {
	return structuralHash("xf-full", hashPartialXf(x), x.FormatID)
}

func hashSetting(s Setting) uuid.UUID {
	return structuralHash("setting", s.NumberFormat.Builtin, s.NumberFormat.BuiltinID, s.NumberFormat.Custom,
		hashFont(s.font()), hashFill(s.Fill), hashBorders(s.Borders), s.Horizontal, s.Vertical, s.WrapText)
}
