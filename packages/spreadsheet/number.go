package spreadsheet

import (
	"math"
	"strconv"
	"strings"
)

// Classify derives the kind of a cell from its raw text. it is re-run on
// every edit.
func Classify(rawText string) CellKind {
	if strings.HasPrefix(rawText, FormulaPrefix) {
		return CellKindFormula
	}
	if _, ok := parseDecimal(rawText); ok {
		return CellKindNumber
	}
	return CellKindText
}

// parseDecimal parses trimmed text as a finite decimal number. hex, binary,
// underscores and inf/nan spellings are rejected even though strconv
// accepts some of them.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch < '0' || ch > '9') && ch != '.' && ch != '+' && ch != '-' && ch != 'e' && ch != 'E' {
			return 0, false
		}
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(num, 0) || math.IsNaN(num) {
		return 0, false
	}
	return num, true
}

// formatNumber renders a float the way a JavaScript number prints: the
// shortest round-trip digits, exponent form below 1e-6 and from 1e21 up
func formatNumber(num float64) string {
	if num == 0 {
		// also covers negative zero
		return "0"
	}
	abs := math.Abs(num)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(num, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(s, "e")
		// strconv pads the exponent to two digits ("e-07")
		return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
	}
	return strconv.FormatFloat(num, 'f', -1, 64)
}

// FormatPrimitive stringifies an evaluation result the way DisplayValue holds it
func FormatPrimitive(value Primitive) string {
	switch v := value.(type) {
	case float64:
		return formatNumber(v)
	case string:
		return v
	case nil:
		return ""
	}
	return ""
}
