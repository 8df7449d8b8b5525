package spreadsheet

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Evaluate computes formula text as if it were stored at currentID. text
// without the formula prefix is returned unchanged. on failure the
// Primitive is the error token and the error a *SpreadsheetError, so
// callers can store either. evaluation never panics.
func Evaluate(formulaText string, s *Sheet, currentID string) (Primitive, error) {
	if !strings.HasPrefix(formulaText, FormulaPrefix) {
		return formulaText, nil
	}
	if id, err := Canonical(currentID); err == nil {
		currentID = id
	}
	return s.evaluate(s.storage.formulas.Lookup(formulaText), currentID)
}

// evaluate runs an already parsed formula. circular references are checked
// before any arithmetic.
func (s *Sheet) evaluate(pf *ParsedFormula, currentID string) (Primitive, error) {
	for _, ref := range pf.References {
		if ref == currentID || HasCycle(currentID, ref, s, nil) {
			err := NewSpreadsheetError(ErrorCodeCircular, fmt.Sprintf("circular reference through %s", ref))
			return err.Token(), err
		}
	}

	if pf.Err != nil {
		return failure(pf.Err)
	}

	value, err := pf.AST.Eval(s)
	if err != nil {
		return failure(err)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return failure(NewSpreadsheetError(ErrorCodeNum, "result is not a finite number"))
	}
	return value, nil
}

func failure(err error) (Primitive, error) {
	var spreadsheetErr *SpreadsheetError
	if !errors.As(err, &spreadsheetErr) {
		spreadsheetErr = NewSpreadsheetError(ErrorCodeValue, err.Error())
	}
	return spreadsheetErr.Token(), spreadsheetErr
}
