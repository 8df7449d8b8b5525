package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	evalCells, evalAt, showAST, dumpAfterRun = nil, "", false, false

	var out, stderr bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "=1+2*3"}, "7\n"},
		{[]string{"eval", "1+2*3"}, "7\n"},
		{[]string{"eval", "=A1/B1", "--set", "A1=10", "--set", "B1=4"}, "2.5\n"},
		{[]string{"eval", "=B1", "-s", "B1==A1+1", "-s", "A1=1"}, "2\n"},
		{[]string{"eval", "=1/0"}, "#ERROR!\n"},
		{[]string{"eval", "=A1+1", "--at", "A1"}, "#CIRCULAR!\n"},
		{[]string{"eval", "--ast", "=-(A1+2)*3"}, "((-(A1+2))*3)\n"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			got, err := execute(t, c.args...)
			if err != nil {
				t.Fatalf("execute failed: %v", err)
			}
			if got != c.want {
				t.Errorf("output = %q, want %q", got, c.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	if _, err := execute(t, "eval", "=1", "--set", "A1"); err == nil {
		t.Errorf("malformed --set accepted")
	}
	if _, err := execute(t, "eval", "=1", "--set", "a1=2"); err == nil {
		t.Errorf("invalid identifier accepted")
	}
	if _, err := execute(t, "eval", "--ast", "=1+"); err == nil {
		t.Errorf("unparsable formula accepted with --ast")
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "inputs.grid")
	second := filepath.Join(dir, "formulas.grid")
	if err := os.WriteFile(first, []byte("set A1 4\nset A2 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("set A3 \"=A1+A2\"\nshow A3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := execute(t, "run", first, second)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got != "A3\t10\n" {
		t.Errorf("output = %q", got)
	}

	got, err = execute(t, "run", "--dump", first)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "CELL") || !strings.Contains(got, "A2") {
		t.Errorf("dump output = %q", got)
	}

	if _, err := execute(t, "run", filepath.Join(dir, "missing.grid")); err == nil {
		t.Errorf("missing script accepted")
	}
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(&out, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	for _, line := range []string{
		"set A1 2",
		`set B1 "=A1*A1"`,
		"show B1",
		"deps A1",
		"nav B1 left",
		"bogus",
		"",
	} {
		if s.execute(line) {
			t.Fatalf("%q ended the session", line)
		}
	}
	want := []string{
		"B1\t4",
		"reads:   ",
		"read by: B1",
		"A1\t2",
	}
	lines := strings.Split(out.String(), "\n")
	for i, w := range want {
		if i >= len(lines) || lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if !strings.Contains(out.String(), "error: ") {
		t.Errorf("unknown command did not report an error: %q", out.String())
	}
	if !s.execute("exit") {
		t.Errorf("exit did not end the session")
	}
}
