package spreadsheet

import (
	"fmt"
	"iter"
)

// RangeAddress represents an inclusive rectangle of cells. start is always
// the top-left corner, end the bottom-right.
type RangeAddress struct {
	StartRow    uint32
	StartColumn uint32
	EndRow      uint32
	EndColumn   uint32
}

// NewRangeAddress builds a range from two corner identifiers in any order
func NewRangeAddress(start, end string) (RangeAddress, error) {
	startRow, startCol, err := Decode(start)
	if err != nil {
		return RangeAddress{}, err
	}
	endRow, endCol, err := Decode(end)
	if err != nil {
		return RangeAddress{}, err
	}
	return RangeAddress{
		StartRow:    min(startRow, endRow),
		StartColumn: min(startCol, endCol),
		EndRow:      max(startRow, endRow),
		EndColumn:   max(startCol, endCol),
	}, nil
}

// Rows returns the number of rows covered
func (r RangeAddress) Rows() uint64 {
	return uint64(r.EndRow-r.StartRow) + 1
}

// Columns returns the number of columns covered
func (r RangeAddress) Columns() uint64 {
	return uint64(r.EndColumn-r.StartColumn) + 1
}

// Size returns the number of cells covered
func (r RangeAddress) Size() uint64 {
	return r.Rows() * r.Columns()
}

// Contains reports whether the position lies inside the range
func (r RangeAddress) Contains(row, col uint32) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartColumn && col <= r.EndColumn
}

func (r RangeAddress) String() string {
	return fmt.Sprintf("%s:%s", Encode(r.StartRow, r.StartColumn), Encode(r.EndRow, r.EndColumn))
}

// Cells returns an iterator over every identifier in the range, rows outer,
// columns inner
func (r RangeAddress) Cells() iter.Seq[string] {
	return func(yield func(string) bool) {
		// uint64 counters so a range ending at MaxUint32 still terminates
		for row := uint64(r.StartRow); row <= uint64(r.EndRow); row++ {
			for col := uint64(r.StartColumn); col <= uint64(r.EndColumn); col++ {
				if !yield(Encode(uint32(row), uint32(col))) {
					return
				}
			}
		}
	}
}

// CellsInRange lists every identifier in the inclusive rectangle spanned by
// two corners, whichever corner comes first
func CellsInRange(start, end string) ([]string, error) {
	r, err := NewRangeAddress(start, end)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, min(r.Size(), 1<<16))
	for id := range r.Cells() {
		ids = append(ids, id)
	}
	return ids, nil
}
