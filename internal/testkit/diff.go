// Package testkit holds helpers shared by the calc tests.
package testkit

import (
	"fmt"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff from want to got, or "" when they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	s, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil || s == "" {
		// разница только в последнем переводе строки
		return fmt.Sprintf("want %q\ngot  %q\n", want, got)
	}
	return s
}

// EqualText fails t with a unified diff when got differs from want.
func EqualText(t testing.TB, want, got string) {
	t.Helper()
	if d := Diff(want, got); d != "" {
		t.Fatalf("output mismatch:\n%s", d)
	}
}
