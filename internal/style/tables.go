package style

import "github.com/google/uuid"

type numFmtEntry struct {
	hash uuid.UUID
	id   int
	code string
}

type fontEntry struct {
	hash uuid.UUID
	f    fontSetting
}

type fillEntry struct {
	hash uuid.UUID
	fill Fill
}

type borderEntry struct {
	hash    uuid.UUID
	borders Borders
}

// xfEntry backs both `cellStyleXfs` and `cellXfs` rows; the
// xf a cell points to additionally carries FormatID (the `xfId` pointer
// into cellStyleXfs), which a cellStyleXfs row itself leaves at 0.
type xfEntry struct {
	hash uuid.UUID

	NumFmtID int
	FontID   int
	FillID   int
	BorderID int
	FormatID int

	ApplyNumberFormat bool
	ApplyFont         bool
	ApplyFill         bool
	ApplyBorder       bool
	ApplyAlignment    bool

	Horizontal string
	Vertical   string
	WrapText   bool
}

func findNumFmt(table []numFmtEntry, hash uuid.UUID) (int, bool) {
	for i, e := range table {
		if e.hash == hash {
			return i, true
		}
	}
	return 0, false
}

func findFont(table []fontEntry, hash uuid.UUID) (int, bool) {
	for i, e := range table {
		if e.hash == hash {
			return i, true
		}
	}
	return 0, false
}

func findFill(table []fillEntry, hash uuid.UUID) (int, bool) {
	for i, e := range table {
		if e.hash == hash {
			return i, true
		}
	}
	return 0, false
}

func findBorder(table []borderEntry, hash uuid.UUID) (int, bool) {
	for i, e := range table {
		if e.hash == hash {
			return i, true
		}
	}
	return 0, false
}

func findXf(table []xfEntry, hash uuid.UUID) (int, bool) {
	for i, e := range table {
		if e.hash == hash {
			return i, true
		}
	}
	return 0, false
}
