package spreadsheet

import "strings"

// ParsedFormula is everything derived from a formula's text: the canonical
// references it mentions and its AST. parse failures are kept so the cell
// can show #ERROR! without reparsing.
type ParsedFormula struct {
	Text       string   // full text including the prefix
	References []string // canonical identifiers in order of first appearance
	AST        ASTNode  // nil when Err is set
	Err        error    // *SpreadsheetError from the parser
}

// ParseFormula parses formula text (with its prefix) once. reference-shaped
// substrings that are not valid identifiers ("A0") are left out of
// References.
func ParseFormula(text string) *ParsedFormula {
	body := strings.TrimPrefix(text, FormulaPrefix)
	pf := &ParsedFormula{Text: text}

	seen := make(map[string]struct{})
	for _, ref := range ExtractReferences(body) {
		id, err := Canonical(ref)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		pf.References = append(pf.References, id)
	}

	pf.AST, pf.Err = ParseExpression(body)
	return pf
}

// FormulaTable stores parsed formulas centrally, keyed by formula text, so
// cells sharing a formula share one parse.
type FormulaTable struct {
	// core formula storage

	textIndex map[string]uint32         // formula text -> formula ID
	parsed    map[uint32]*ParsedFormula // formula ID -> cached parse
	refCounts map[uint32]int            // formula ID -> reference count

	// cell tracking

	cellsUsingFormula map[uint32]map[string]struct{} // formula ID -> cells using it
	formulaAtCell     map[string]uint32              // cell -> formula ID (reverse index)

	nextID uint32
}

// NewFormulaTable creates a new formula table
func NewFormulaTable() *FormulaTable {
	return &FormulaTable{
		textIndex:         make(map[string]uint32),
		parsed:            make(map[uint32]*ParsedFormula),
		refCounts:         make(map[uint32]int),
		cellsUsingFormula: make(map[uint32]map[string]struct{}),
		formulaAtCell:     make(map[string]uint32),
		nextID:            1, // start at 1, reserve 0 for no formula
	}
}

// Lookup returns the interned parse for text, or parses it without
// interning
func (ft *FormulaTable) Lookup(text string) *ParsedFormula {
	if id, exists := ft.textIndex[text]; exists {
		return ft.parsed[id]
	}
	return ParseFormula(text)
}

// InternFormula adds a formula or increments its reference count if it
// already exists. tracks the cell using this formula. returns the formula ID.
func (ft *FormulaTable) InternFormula(pf *ParsedFormula, cell string) uint32 {
	// a cell holds one formula at a time
	if oldID, exists := ft.formulaAtCell[cell]; exists {
		if ft.parsed[oldID].Text == pf.Text {
			return oldID
		}
		ft.RemoveCellReference(cell)
	}

	id, exists := ft.textIndex[pf.Text]
	if !exists {
		id = ft.nextID
		ft.textIndex[pf.Text] = id
		ft.parsed[id] = pf
		ft.nextID++
	}

	ft.refCounts[id]++
	if ft.cellsUsingFormula[id] == nil {
		ft.cellsUsingFormula[id] = make(map[string]struct{})
	}
	ft.cellsUsingFormula[id][cell] = struct{}{}
	ft.formulaAtCell[cell] = id

	return id
}

// RemoveCellReference detaches the formula held by a cell. returns true if
// the formula was removed due to zero references.
func (ft *FormulaTable) RemoveCellReference(cell string) bool {
	id, exists := ft.formulaAtCell[cell]
	if !exists {
		return false
	}

	if cells, exists := ft.cellsUsingFormula[id]; exists {
		delete(cells, cell)
		if len(cells) == 0 {
			delete(ft.cellsUsingFormula, id)
		}
	}
	delete(ft.formulaAtCell, cell)

	ft.refCounts[id]--
	if ft.refCounts[id] <= 0 {
		ft.removeFormula(id)
		return true
	}
	return false
}

// removeFormula completely removes a formula from the table
func (ft *FormulaTable) removeFormula(id uint32) {
	if pf, exists := ft.parsed[id]; exists {
		delete(ft.textIndex, pf.Text)
	}
	delete(ft.parsed, id)
	delete(ft.refCounts, id)
	delete(ft.cellsUsingFormula, id)
}

// Get retrieves a parsed formula by ID
func (ft *FormulaTable) Get(id uint32) (*ParsedFormula, bool) {
	pf, exists := ft.parsed[id]
	return pf, exists
}

// FormulaAtCell returns the parsed formula held by a cell
func (ft *FormulaTable) FormulaAtCell(cell string) (*ParsedFormula, bool) {
	id, exists := ft.formulaAtCell[cell]
	if !exists {
		return nil, false
	}
	return ft.parsed[id], true
}

// CellsUsingFormula returns the cells sharing a formula, sorted
func (ft *FormulaTable) CellsUsingFormula(id uint32) []string {
	cells := make([]string, 0, len(ft.cellsUsingFormula[id]))
	for cell := range ft.cellsUsingFormula[id] {
		cells = append(cells, cell)
	}
	SortIdentifiers(cells)
	return cells
}

// GetReferenceCount returns the number of cells holding a formula
func (ft *FormulaTable) GetReferenceCount(id uint32) int {
	return ft.refCounts[id]
}

// Count returns the number of distinct formulas
func (ft *FormulaTable) Count() int {
	return len(ft.parsed)
}

// TotalReferences returns the total number of references across all formulas
func (ft *FormulaTable) TotalReferences() int {
	total := 0
	for _, count := range ft.refCounts {
		total += count
	}
	return total
}

// Clear removes all formulas from the table
func (ft *FormulaTable) Clear() {
	ft.textIndex = make(map[string]uint32)
	ft.parsed = make(map[uint32]*ParsedFormula)
	ft.refCounts = make(map[uint32]int)
	ft.cellsUsingFormula = make(map[uint32]map[string]struct{})
	ft.formulaAtCell = make(map[string]uint32)
	ft.nextID = 1
}
