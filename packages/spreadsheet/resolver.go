package spreadsheet

// ResolveNumeric returns the numeric value a formula sees when it reads the
// cell at id. everything that is not a number, including text and error
// cells, reads as 0.
func ResolveNumeric(id string, s *Sheet) float64 {
	cell, exists := s.storage.cells[id]
	if !exists {
		return 0
	}

	var text string
	switch cell.Kind {
	case CellKindNumber:
		text = cell.RawValue
	case CellKindFormula:
		text = cell.DisplayValue
	default:
		return 0
	}

	num, ok := parseDecimal(text)
	if !ok {
		return 0
	}
	return num
}
