package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"calc/internal/testkit"
)

func writeTemp(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	traceCleanup()
	return out.String(), errOut.String(), err
}

func TestDiagCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "calc.toml", "[diag]\nformat = \"short\"\n")
	good := writeTemp(t, dir, "good.calc", "fn f(x) = x;\nprint f(1);\n")
	bad := writeTemp(t, dir, "bad.calc", "fn f(x) = x;\nfn g() = f(1, 2) + y;\n")

	out, _, err := execute(t, "diag", "--config", cfg, "--ui", "off", "--color", "off", good, bad)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.HasSuffix(lines[0], "bad.calc:2:10: ERROR SEM3003: function `f` takes 1 argument(s) but 2 were supplied") {
		t.Fatalf("first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "bad.calc:2:20: ERROR SEM3001: undefined variable `y`") {
		t.Fatalf("second line %q", lines[1])
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "calc.toml", "")
	src := writeTemp(t, dir, "a.calc", "fn f(x, y) = x + y * 2;\nprint f(1, 2);\n")

	out, _, err := execute(t, "parse", "--config", cfg, src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	testkit.EqualText(t, "(fn f (x y) (+ x (* y 2)))\n(print (f 1 2))\n", out)
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if shouldUseTUI(uiModeOff, 10) || !shouldUseTUI(uiModeOn, 1) {
		t.Fatal("explicit modes ignored")
	}
}

// resetDiagFlags restores diag flags that a test set explicitly, since
// rootCmd is shared between tests.
func resetDiagFlags(t *testing.T, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range names {
			fl := diagCmd.Flags().Lookup(name)
			if err := fl.Value.Set(fl.DefValue); err != nil {
				t.Errorf("reset %s: %v", name, err)
			}
			fl.Changed = false
		}
	})
}

func TestDiagJSONIncludesQueryEvents(t *testing.T) {
	resetDiagFlags(t, "format", "log-queries")
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "calc.toml", "")
	src := writeTemp(t, dir, "a.calc", "fn f(x) = x;\n")

	out, errOut, err := execute(t, "diag", "--config", cfg, "--ui", "off", "--format", "json", "--log-queries", src)
	if err != nil {
		t.Fatalf("diag: %v\n%s", err, errOut)
	}
	var doc struct {
		Files []struct {
			File   string   `json:"file"`
			Events []string `json:"events"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if len(doc.Files) != 1 || len(doc.Files[0].Events) == 0 {
		t.Fatalf("expected events in json output:\n%s", out)
	}
	if !strings.HasPrefix(doc.Files[0].Events[0], "WillExecute compile") {
		t.Fatalf("first event = %q", doc.Files[0].Events[0])
	}
}
