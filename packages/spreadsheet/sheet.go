package spreadsheet

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// AppErrorCode represents gRPC-style error codes for application-level errors.
// note that we are skipping error codes that don't make sense for our use-case,
// like unauthenticated, or permission denied.
type AppErrorCode int

const (
	// OK indicates the operation completed successfully.
	OK AppErrorCode = 0

	// Unknown error. Errors raised by APIs that do not return enough error
	// information may be converted to this error.
	Unknown AppErrorCode = 2

	// InvalidArgument indicates client specified an invalid argument, such
	// as a malformed cell identifier.
	InvalidArgument AppErrorCode = 3

	// NotFound means some requested entity (e.g., a stored cell) was not
	// found.
	NotFound AppErrorCode = 5

	// OutOfRange means operation was attempted past the valid range.
	OutOfRange AppErrorCode = 11

	// Internal errors. Means some invariants expected by underlying
	// system has been broken.
	Internal AppErrorCode = 13
)

func (c AppErrorCode) String() string {
	switch c {
	case OK:
		return "ok"
	case Unknown:
		return "unknown"
	case InvalidArgument:
		return "invalid argument"
	case NotFound:
		return "not found"
	case OutOfRange:
		return "out of range"
	case Internal:
		return "internal"
	}
	return fmt.Sprintf("code %d", int(c))
}

// AppError represents errors at the application level (not
// spreadsheet formula errors)
type AppError struct {
	Code    AppErrorCode
	Message string
	Err     error // optional sentinel, see Unwrap
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewApplicationError creates a new application error
func NewApplicationError(code AppErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Option configures a Sheet
type Option func(*Sheet)

// WithLimits sets the navigable grid
func WithLimits(limits Limits) Option {
	return func(s *Sheet) {
		s.limits = limits
	}
}

// WithLogger sets the logger used for propagation tracing at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sheet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sheet is the formula engine: a sparse map of cells plus the formula table
// and dependency graph kept in step with it. every edit is classified,
// evaluated and propagated to all transitive dependents before it returns.
// a Sheet is not safe for concurrent use.
type Sheet struct {
	storage *Storage
	limits  Limits
	logger  *slog.Logger
}

// NewSheet creates an empty sheet
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		storage: newStorage(),
		limits:  DefaultLimits(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the navigable grid
func (s *Sheet) Limits() Limits {
	return s.limits
}

// ApplyEdit stores raw text at id and recomputes everything that reads it.
// the only error is an invalid identifier. formula failures are stored in
// the cell as an error kind with its token as display value.
func (s *Sheet) ApplyEdit(id string, rawText string) error {
	row, col, err := Decode(id)
	if err != nil {
		return err
	}
	cellID := Encode(row, col)

	cell := &Cell{
		ID:       cellID,
		Row:      row,
		Col:      col,
		Kind:     Classify(rawText),
		RawValue: rawText,
	}

	var pf *ParsedFormula
	if cell.Kind == CellKindFormula {
		pf = s.storage.formulas.Lookup(rawText)
		cell.RawValue = strings.TrimPrefix(rawText, FormulaPrefix)
		cell.FormulaText = rawText
		s.applyResult(cell, pf)
	}

	s.storage.put(cell, pf)
	s.logger.Debug("cell edited", "cell", cellID, "kind", cell.Kind.String(), "display", cell.DisplayText())

	s.propagate(cellID)
	return nil
}

// Remove collapses a cell back to absent and recomputes its dependents.
// removing an absent cell is a no-op.
func (s *Sheet) Remove(id string) error {
	cellID, err := Canonical(id)
	if err != nil {
		return err
	}
	if !s.storage.delete(cellID) {
		return nil
	}
	s.logger.Debug("cell removed", "cell", cellID)

	s.propagate(cellID)
	return nil
}

// Clear removes every cell
func (s *Sheet) Clear() {
	s.storage.clear()
}

// applyResult evaluates pf in place of cell and records the outcome
func (s *Sheet) applyResult(cell *Cell, pf *ParsedFormula) {
	result, err := s.evaluate(pf, cell.ID)
	cell.DisplayValue = FormatPrimitive(result)
	cell.Kind = CellKindFormula
	if err != nil {
		cell.Kind = CellKindError
	}
}

// propagate re-evaluates every formula cell that transitively reads
// changed, precedents first. error cells are not walked: they keep their
// token until edited directly.
func (s *Sheet) propagate(changed string) {
	graph := s.storage.dependencyGraph
	affected := graph.GetAllDependents(changed, s.isLiveFormula)
	if len(affected) == 0 {
		return
	}

	order, hasCycle := graph.CalculationOrder(affected)
	if hasCycle {
		// live formulas never form a cycle, a cycle is caught as #CIRCULAR!
		// when the closing edit is evaluated
		s.logger.Warn("dependency cycle among formula cells", "cell", changed)
	}

	for _, id := range order {
		cell := s.storage.cells[id]
		s.applyResult(cell, s.formulaFor(cell))
	}

	s.logger.Debug("propagated edit", "cell", changed, "recalculated", len(order))
}

func (s *Sheet) isLiveFormula(id string) bool {
	cell, exists := s.storage.cells[id]
	return exists && cell.Kind == CellKindFormula
}

// formulaFor returns the parse of a stored cell's formula
func (s *Sheet) formulaFor(cell *Cell) *ParsedFormula {
	if pf, ok := s.storage.formulas.FormulaAtCell(cell.ID); ok {
		return pf
	}
	return s.storage.formulas.Lookup(cell.FormulaText)
}

// Get returns a copy of the stored cell. malformed identifiers are never
// stored.
func (s *Sheet) Get(id string) (Cell, bool) {
	cellID, err := Canonical(id)
	if err != nil {
		return Cell{}, false
	}
	cell, exists := s.storage.cells[cellID]
	if !exists {
		return Cell{}, false
	}
	return *cell, true
}

// Display returns the presentation text of a cell, "" when absent
func (s *Sheet) Display(id string) string {
	cell, exists := s.Get(id)
	if !exists {
		return ""
	}
	return cell.DisplayText()
}

// Value returns the numeric value formulas see for a cell
func (s *Sheet) Value(id string) (float64, error) {
	cellID, err := Canonical(id)
	if err != nil {
		return 0, err
	}
	return ResolveNumeric(cellID, s), nil
}

// Len returns the number of stored cells
func (s *Sheet) Len() int {
	return len(s.storage.cells)
}

// IDs returns every stored identifier, rows outer, columns inner
func (s *Sheet) IDs() []string {
	ids := slices.Collect(maps.Keys(s.storage.cells))
	SortIdentifiers(ids)
	return ids
}

// Cells iterates over copies of the stored cells in IDs order
func (s *Sheet) Cells() iter.Seq2[string, Cell] {
	return func(yield func(string, Cell) bool) {
		for _, id := range s.IDs() {
			cell, exists := s.storage.cells[id]
			if !exists {
				continue
			}
			if !yield(id, *cell) {
				return
			}
		}
	}
}

// Snapshot copies the stored cells
func (s *Sheet) Snapshot() map[string]Cell {
	snapshot := make(map[string]Cell, len(s.storage.cells))
	for id, cell := range s.storage.cells {
		snapshot[id] = *cell
	}
	return snapshot
}

// Dependents returns the cells whose formulas directly reference id
func (s *Sheet) Dependents(id string) ([]string, error) {
	cellID, err := Canonical(id)
	if err != nil {
		return nil, err
	}
	return s.storage.dependencyGraph.GetDirectDependents(cellID), nil
}

// Precedents returns the cells the formula at id directly references
func (s *Sheet) Precedents(id string) ([]string, error) {
	cellID, err := Canonical(id)
	if err != nil {
		return nil, err
	}
	return s.storage.dependencyGraph.GetDirectPrecedents(cellID), nil
}

// Navigate moves one cell from id within the sheet's limits
func (s *Sheet) Navigate(id string, direction Direction) (string, error) {
	return Navigate(id, direction, s.limits)
}

// GetFormulaTable exposes the formula table, mostly for tests
func (s *Sheet) GetFormulaTable() *FormulaTable {
	return s.storage.formulas
}

// GetDependencyGraph exposes the dependency graph, mostly for tests
func (s *Sheet) GetDependencyGraph() *DependencyGraph {
	return s.storage.dependencyGraph
}

// RunnableSpreadsheet provides a chainable (builder-like) interface for
// sheet operations. wraps a Sheet and tracks errors internally
type RunnableSpreadsheet struct {
	sheet   *Sheet
	err     error
	printLn func(string)
}

// NewRunnableSpreadsheet creates a new RunnableSpreadsheet. printLn is
// required and will be used for all logging operations (Log, CheckError)
func NewRunnableSpreadsheet(printLn func(string), opts ...Option) *RunnableSpreadsheet {
	return &RunnableSpreadsheet{
		sheet:   NewSheet(opts...),
		err:     nil,
		printLn: printLn,
	}
}

// Set applies an edit (chainable)
func (r *RunnableSpreadsheet) Set(id string, rawText string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	r.err = r.sheet.ApplyEdit(id, rawText)
	return r
}

// Remove removes a cell (chainable)
func (r *RunnableSpreadsheet) Remove(id string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}
	r.err = r.sheet.Remove(id)
	return r
}

// SetBatch applies several edits in identifier order (chainable)
func (r *RunnableSpreadsheet) SetBatch(cells map[string]string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}

	ids := slices.Collect(maps.Keys(cells))
	SortIdentifiers(ids)
	for _, id := range ids {
		if err := r.sheet.ApplyEdit(id, cells[id]); err != nil {
			r.err = err
			return r
		}
	}
	return r
}

// Run returns the sheet and any error. typically the last method in the chain
func (r *RunnableSpreadsheet) Run() (*Sheet, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sheet, nil
}

// Error returns the current error state
func (r *RunnableSpreadsheet) Error() error {
	return r.err
}

// CheckError logs the current error using the PrintLn function (chainable)
func (r *RunnableSpreadsheet) CheckError() *RunnableSpreadsheet {
	if r.err != nil {
		r.printLn(fmt.Sprintf("ERROR: %v", r.err))
	} else {
		r.printLn("No errors")
	}
	return r
}

// Sheet returns the underlying sheet. use with caution as it bypasses
// error tracking.
func (r *RunnableSpreadsheet) Sheet() *Sheet {
	return r.sheet
}

// Reset clears the error state (chainable)
func (r *RunnableSpreadsheet) Reset() *RunnableSpreadsheet {
	r.err = nil
	return r
}

// Then allows conditional execution based on current error state
func (r *RunnableSpreadsheet) Then(fn func(*RunnableSpreadsheet) *RunnableSpreadsheet) *RunnableSpreadsheet {
	if r.err != nil {
		return r // skip if there's an error
	}
	return fn(r)
}

// Must panics if there's an error (chainable). useful for ensuring
// critical operations succeed
func (r *RunnableSpreadsheet) Must() *RunnableSpreadsheet {
	if r.err != nil {
		panic(r.err)
	}
	return r
}

// Value is a helper to get a single display value from the chain.
// example: NewRunnableSpreadsheet(p).Set("A1", "10").Set("A2", "=A1*2").Value("A2")
func (r *RunnableSpreadsheet) Value(id string) string {
	if r.err != nil {
		return ""
	}
	if _, err := Canonical(id); err != nil {
		r.err = err
		return ""
	}
	return r.sheet.Display(id)
}

// Values is a helper to get multiple display values from the chain
func (r *RunnableSpreadsheet) Values(ids ...string) []string {
	if r.err != nil {
		return nil
	}

	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = r.Value(id)
		if r.err != nil {
			return nil
		}
	}
	return values
}

// Log logs the display value of a cell using the provided PrintLn function
// (chainable)
func (r *RunnableSpreadsheet) Log(id string) *RunnableSpreadsheet {
	if r.err != nil {
		return r // no-op if there's already an error
	}

	cellID, err := Canonical(id)
	if err != nil {
		r.err = err
		return r
	}

	// fmt the output
	var output string
	if cell, exists := r.sheet.Get(cellID); !exists {
		output = fmt.Sprintf("%s: <empty>", cellID)
	} else {
		output = fmt.Sprintf("%s: %s", cellID, cell.DisplayText())
	}

	r.printLn(output)
	return r
}
