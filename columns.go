package oxml

import (
	"strconv"
	"unicode"

	"github.com/adnsv/oxml/internal/oxmlerr"
)

// GetColumnKey converts a 1-based column number to its Excel column letters
// (1 -> "A", 26 -> "Z", 27 -> "AA", 702 -> "ZZ", 703 -> "AAA").
// n == 0 is a Programmer error, not a panic: caller misuse is reported,
// not a crash.
func GetColumnKey(n int) (string, error) {
	if n <= 0 {
		return "", oxmlerr.New(oxmlerr.Programmer, "get_column_key", "", "column index must be greater than 0")
	}
	var s []byte
	for n > 0 {
		n--
		s = append([]byte{byte('A' + n%26)}, s...)
		n /= 26
	}
	return string(s), nil
}

// GetColumnInt is the inverse of GetColumnKey: "A" -> 1, "Z" -> 26, "AA" ->
// 27, "AB" -> 28, matching `ConverterUtil::get_column_int`.
func GetColumnInt(key string) (int, error) {
	if key == "" {
		return 0, oxmlerr.New(oxmlerr.Programmer, "get_column_int", "", "column key must not be empty")
	}
	idx := 0
	for _, ch := range key {
		u := unicode.ToUpper(ch)
		if u < 'A' || u > 'Z' {
			return 0, oxmlerr.New(oxmlerr.Schema, "get_column_int", "", "invalid column letter in key")
		}
		idx = idx*26 + int(u-'A') + 1
	}
	return idx, nil
}

// CellCoordAsString converts 1-based column and row numbers to an Excel
// cell reference, e.g. (1, 1) -> "A1", (27, 10) -> "AA10".
func CellCoordAsString(col, row int) (string, error) {
	key, err := GetColumnKey(col)
	if err != nil {
		return "", err
	}
	return key + strconv.Itoa(row), nil
}
