package style

// Builtin number format IDs, per the ECMA-376 reserved range (0-163).
// Custom formats this engine assigns always start at 164.
const (
	FormatGeneral             = 0
	FormatInteger             = 1
	FormatTwoDecimal          = 2
	FormatThousands           = 3
	FormatThousandsTwoDecimal = 4
	FormatPercent             = 9
	FormatPercentTwoDecimal   = 10
	FormatScientific          = 11
	FormatFraction            = 12
	FormatDateShort           = 14
	FormatDateLong            = 15
	FormatTime                = 21
	FormatDateTime            = 22
	FormatText                = 49

	firstCustomNumFmtID = 164
)

// NumberFormat selects either one of the reserved built-in format codes or
// a caller-supplied custom format string.
type NumberFormat struct {
	Builtin   bool
	BuiltinID int
	Custom    string
}

// General returns Excel's built-in "General" display format. The zero
// NumberFormat resolves to the same format.
func General() NumberFormat { return NumberFormat{Builtin: true, BuiltinID: FormatGeneral} }

func (n NumberFormat) isDefault() bool {
	return n.Builtin && n.BuiltinID == FormatGeneral
}

// BorderSide is one edge of a cell border: a line style name (per
// ST_BorderStyle, e.g. "thin", "medium", "dashed") and its color.
type BorderSide struct {
	Style string
	Color Color
}

func (b BorderSide) isDefault() bool { return b.Style == "" && !b.Color.isSet() }

// Borders bundles the five border sides the format tracks per cell.
type Borders struct {
	Left, Right, Top, Bottom, Diagonal BorderSide
}

func (b Borders) isDefault() bool {
	return b.Left.isDefault() && b.Right.isDefault() && b.Top.isDefault() &&
		b.Bottom.isDefault() && b.Diagonal.isDefault()
}

// Fill is a cell's background pattern and its two colors.
type Fill struct {
	PatternType string
	FgColor     Color
	BgColor     Color
}

func (f Fill) isDefault() bool {
	return (f.PatternType == "" || f.PatternType == "none") && !f.FgColor.isSet() && !f.BgColor.isSet()
}

// Alignment carries the cell alignment attributes that live on `<xf>`.
type Alignment struct {
	Horizontal string
	Vertical   string
	WrapText   bool
}

func (a Alignment) isDefault() bool {
	return a.Horizontal == "" && a.Vertical == "" && !a.WrapText
}

// fontSetting is the font sub-record of a Setting, broken out so its
// default-ness can be tested independently (index 0 in the fonts table is
// the document's default font).
type fontSetting struct {
	Family        string
	Size          float64
	Bold          bool
	Italic        bool
	Underline     string
	Strikethrough bool
	Color         Color
}

func (f fontSetting) isDefault() bool {
	return f.Family == "" && f.Size == 0 && !f.Bold && !f.Italic &&
		f.Underline == "" && !f.Strikethrough && !f.Color.isSet()
}

// Setting is the caller-facing style request:
// hashable and equality-comparable by value, resolved to an opaque StyleId
// through Engine.Resolve.
type Setting struct {
	NumberFormat NumberFormat

	FontFamily    string
	FontSize      float64
	Bold          bool
	Italic        bool
	Underline     string
	Strikethrough bool
	FontColor     Color

	Fill Fill

	Borders Borders

	Horizontal string
	Vertical   string
	WrapText   bool
}

func (s Setting) font() fontSetting {
	return fontSetting{
		Family:        s.FontFamily,
		Size:          s.FontSize,
		Bold:          s.Bold,
		Italic:        s.Italic,
		Underline:     s.Underline,
		Strikethrough: s.Strikethrough,
		Color:         s.FontColor,
	}
}

func (s Setting) alignment() Alignment {
	return Alignment{Horizontal: s.Horizontal, Vertical: s.Vertical, WrapText: s.WrapText}
}
