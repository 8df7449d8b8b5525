package spreadsheet

// Storage holds the sparse cell map and the tables derived from it. only
// cells that were written are present.
type Storage struct {
	cells           map[string]*Cell
	formulas        *FormulaTable
	dependencyGraph *DependencyGraph
}

func newStorage() *Storage {
	return &Storage{
		cells:           make(map[string]*Cell),
		formulas:        NewFormulaTable(),
		dependencyGraph: NewDependencyGraph(),
	}
}

// put replaces the cell stored at cell.ID and re-indexes its formula
// references. pf is nil for non-formula cells.
func (st *Storage) put(cell *Cell, pf *ParsedFormula) {
	st.detach(cell.ID)

	if pf != nil {
		st.formulas.InternFormula(pf, cell.ID)
		st.dependencyGraph.SetFormula(cell.ID, pf.Text)
		for _, ref := range pf.References {
			st.dependencyGraph.AddCellDependency(cell.ID, ref)
		}
	}
	st.cells[cell.ID] = cell
}

// delete removes a cell. nodes for its dependents stay in the graph so
// they are still found by propagation.
func (st *Storage) delete(id string) bool {
	if _, exists := st.cells[id]; !exists {
		return false
	}
	st.detach(id)
	delete(st.cells, id)
	return true
}

// detach drops the formula bookkeeping for a cell
func (st *Storage) detach(id string) {
	st.formulas.RemoveCellReference(id)
	st.dependencyGraph.ClearDependencies(id)
}

func (st *Storage) clear() {
	st.cells = make(map[string]*Cell)
	st.formulas.Clear()
	st.dependencyGraph.Clear()
}
