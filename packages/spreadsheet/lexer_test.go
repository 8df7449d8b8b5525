package spreadsheet

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		expression string
		tokens     []string
	}{
		{"A1+B1*2", []string{"A1", "+", "B1", "*", "2"}},
		{"(A1 + 10) / 2.5", []string{"(", "A1", "+", "10", ")", "/", "2.5"}},
		{"  12   34 ", []string{"12", "34"}},
		{"--1", []string{"-", "-", "1"}},
		{"1e+5", []string{"1e", "+", "5"}},
		{"SUM(A1)", []string{"SUM", "(", "A1", ")"}},
		{"a\tb\nc", []string{"a", "b", "c"}},
		{"5%", []string{"5%"}},
		{"", nil},
		{"   ", nil},
	}
	for _, c := range cases {
		if got := Tokenize(c.expression); !reflect.DeepEqual(got, c.tokens) {
			t.Errorf("Tokenize(%q) = %q, want %q", c.expression, got, c.tokens)
		}
	}
}

func TestIsCellReference(t *testing.T) {
	for token, want := range map[string]bool{
		"A1":    true,
		"AB100": true,
		"A0":    true,
		"A01":   true,
		"a1":    false,
		"A":     false,
		"1":     false,
		"A1B":   false,
		"1A":    false,
		"":      false,
		"A1.5":  false,
	} {
		if got := IsCellReference(token); got != want {
			t.Errorf("IsCellReference(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestExtractReferences(t *testing.T) {
	cases := []struct {
		expression string
		refs       []string
	}{
		{"A1+B1*2", []string{"A1", "B1"}},
		{"A1+A1", []string{"A1", "A1"}},
		{"SUM(A1)", []string{"A1"}},
		{"XA1", []string{"XA1"}},
		{"a1B2", []string{"B2"}},
		{"AB12CD34", []string{"AB12", "CD34"}},
		{"1+2", nil},
		{"ABC", nil},
		{"A10", []string{"A10"}},
	}
	for _, c := range cases {
		if got := ExtractReferences(c.expression); !reflect.DeepEqual(got, c.refs) {
			t.Errorf("ExtractReferences(%q) = %q, want %q", c.expression, got, c.refs)
		}
	}
}
