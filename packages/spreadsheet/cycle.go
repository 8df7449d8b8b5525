package spreadsheet

// HasCycle reports whether following formula references from probe reaches
// origin. visited may be nil. a probe that was already explored reports
// false, so diamond-shaped graphs are walked once per call. only cells of
// formula kind are followed, error cells end the path.
func HasCycle(origin, probe string, s *Sheet, visited map[string]struct{}) bool {
	if visited == nil {
		visited = make(map[string]struct{})
	}
	if _, seen := visited[probe]; seen {
		return false
	}
	visited[probe] = struct{}{}

	cell, exists := s.storage.cells[probe]
	if !exists || cell.Kind != CellKindFormula || cell.FormulaText == "" {
		return false
	}

	for _, ref := range s.formulaFor(cell).References {
		if ref == origin {
			return true
		}
		if HasCycle(origin, ref, s, visited) {
			return true
		}
	}
	return false
}
