package spreadsheet

// Primitive represents a computed formula value.
// types:
//   - float64: numeric results
//   - string: text passthrough and error tokens
type Primitive any

// ErrorCode represents why a formula failed to evaluate. only the circular
// code has its own display token, everything else shows as #ERROR!
type ErrorCode uint8

const (
	ErrorCodeCircular ErrorCode = 1 // #CIRCULAR! - formula reads itself, directly or transitively
	ErrorCodeDiv0     ErrorCode = 2 // #ERROR! - division by zero
	ErrorCodeValue    ErrorCode = 3 // #ERROR! - malformed expression or unknown operand
	ErrorCodeNum      ErrorCode = 4 // #ERROR! - result is not a finite number
)

// display tokens stored in the DisplayValue of error cells
const (
	ErrorTokenCircular = "#CIRCULAR!"
	ErrorTokenOther    = "#ERROR!"
)

// ErrorMapper maps error codes to the token shown in the cell
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeCircular: ErrorTokenCircular,
	ErrorCodeDiv0:     ErrorTokenOther,
	ErrorCodeValue:    ErrorTokenOther,
	ErrorCodeNum:      ErrorTokenOther,
}

// SpreadsheetError preserves the error code of a failed evaluation. it is
// stored as cell data and never returned from ApplyEdit.
type SpreadsheetError struct {
	ErrorCode ErrorCode
	Message   string
}

func (e *SpreadsheetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Token()
}

// Token returns the display token for the error
func (e *SpreadsheetError) Token() string {
	if token, ok := ErrorMapper[e.ErrorCode]; ok {
		return token
	}
	return ErrorTokenOther
}

func NewSpreadsheetError(code ErrorCode, message string) *SpreadsheetError {
	if message == "" {
		message = ErrorMapper[code]
	}
	return &SpreadsheetError{
		ErrorCode: code,
		Message:   message,
	}
}

// CellKind classifies the content of a cell
type CellKind uint8

const (
	CellKindText    CellKind = 0
	CellKindNumber  CellKind = 1
	CellKindFormula CellKind = 2
	CellKindError   CellKind = 3
)

func (k CellKind) String() string {
	switch k {
	case CellKindText:
		return "text"
	case CellKindNumber:
		return "number"
	case CellKindFormula:
		return "formula"
	case CellKindError:
		return "error"
	}
	return "unknown"
}

// FormulaPrefix marks raw text as a formula
const FormulaPrefix = "="

// Cell represents a stored spreadsheet cell
type Cell struct {
	ID           string   // canonical identifier, e.g. "AB12"
	Row          uint32   // zero-based row index
	Col          uint32   // zero-based column index
	Kind         CellKind // text, number, formula or error
	RawValue     string   // text as entered, without the formula prefix
	FormulaText  string   // full formula including the prefix, formula/error cells only
	DisplayValue string   // evaluation result, formula/error cells only
}

// DisplayText formats the cell for presentation. number cells are
// re-parsed so "007" shows as "7", text cells show their raw text.
func (c *Cell) DisplayText() string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case CellKindNumber:
		num, ok := parseDecimal(c.RawValue)
		if !ok {
			return ""
		}
		return formatNumber(num)
	case CellKindFormula, CellKindError:
		return c.DisplayValue
	}
	return c.RawValue
}

// EditText returns the text an editor shows for the cell: the formula if
// there is one, otherwise the raw value
func (c *Cell) EditText() string {
	if c == nil {
		return ""
	}
	if c.FormulaText != "" {
		return c.FormulaText
	}
	return c.RawValue
}
