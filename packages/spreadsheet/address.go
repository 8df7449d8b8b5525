package spreadsheet

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// ErrInvalidIdentifier is matched by every error returned for a malformed
// cell identifier, use errors.Is
var ErrInvalidIdentifier = errors.New("invalid cell identifier")

const (
	charA    = 'A'
	charZ    = 'Z'
	char0    = '0'
	char9    = '9'
	alphabet = 26
)

func isUpper(ch byte) bool { return ch >= charA && ch <= charZ }
func isDigit(ch byte) bool { return ch >= char0 && ch <= char9 }

func invalidIdentifier(id string, reason string) error {
	return &AppError{
		Code:    InvalidArgument,
		Message: fmt.Sprintf("invalid cell identifier %q: %s", id, reason),
		Err:     ErrInvalidIdentifier,
	}
}

// ColumnName converts a zero-based column index to its bijective base-26
// letters: 0 -> "A", 25 -> "Z", 26 -> "AA"
func ColumnName(col uint32) string {
	// 26^7 > 2^32, seven letters is enough
	var buf [8]byte
	i := len(buf)
	n := uint64(col) + 1
	for n > 0 {
		n--
		i--
		buf[i] = byte(charA + n%alphabet)
		n /= alphabet
	}
	return string(buf[i:])
}

// ColumnIndex converts bijective base-26 letters back to a zero-based column
// index
func ColumnIndex(name string) (uint32, error) {
	if name == "" {
		return 0, invalidIdentifier(name, "missing column letters")
	}
	var n uint64
	for i := 0; i < len(name); i++ {
		if !isUpper(name[i]) {
			return 0, invalidIdentifier(name, "column must be uppercase letters")
		}
		n = n*alphabet + uint64(name[i]-charA+1)
		if n > math.MaxUint32+1 {
			return 0, invalidIdentifier(name, "column out of range")
		}
	}
	return uint32(n - 1), nil
}

// Encode produces the identifier for a zero-based (row, col) position:
// column letters followed by the 1-based row number
func Encode(row, col uint32) string {
	return ColumnName(col) + strconv.FormatUint(uint64(row)+1, 10)
}

// Decode splits an identifier into its zero-based (row, col) position. the
// whole identifier must be uppercase letters followed by digits, with a row
// number of at least 1.
func Decode(id string) (row uint32, col uint32, err error) {
	split := 0
	for split < len(id) && isUpper(id[split]) {
		split++
	}
	if split == 0 {
		return 0, 0, invalidIdentifier(id, "missing column letters")
	}
	if split == len(id) {
		return 0, 0, invalidIdentifier(id, "missing row number")
	}
	for i := split; i < len(id); i++ {
		if !isDigit(id[i]) {
			return 0, 0, invalidIdentifier(id, "row must be digits")
		}
	}

	rowNumber, err := strconv.ParseUint(id[split:], 10, 64)
	if err != nil || rowNumber > math.MaxUint32+1 {
		return 0, 0, invalidIdentifier(id, "row out of range")
	}
	if rowNumber == 0 {
		return 0, 0, invalidIdentifier(id, "row numbers start at 1")
	}

	col, err = ColumnIndex(id[:split])
	if err != nil {
		return 0, 0, invalidIdentifier(id, "column out of range")
	}
	return uint32(rowNumber - 1), col, nil
}

// Canonical normalizes an identifier, "A01" -> "A1"
func Canonical(id string) (string, error) {
	row, col, err := Decode(id)
	if err != nil {
		return "", err
	}
	return Encode(row, col), nil
}

// compareIdentifiers orders identifiers by row then column. malformed
// identifiers sort last, by text.
func compareIdentifiers(a, b string) int {
	rowA, colA, errA := Decode(a)
	rowB, colB, errB := Decode(b)
	switch {
	case errA != nil && errB != nil:
		return cmp.Compare(a, b)
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	if c := cmp.Compare(rowA, rowB); c != 0 {
		return c
	}
	return cmp.Compare(colA, colB)
}

// SortIdentifiers sorts identifiers in place, rows outer, columns inner
func SortIdentifiers(ids []string) {
	slices.SortFunc(ids, compareIdentifiers)
}
