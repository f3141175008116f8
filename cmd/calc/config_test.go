package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeTemp(t, root, configFileName, "")

	got, ok, err := findConfig(nested)
	if err != nil || !ok {
		t.Fatalf("findConfig = %q, %v, %v", got, ok, err)
	}
	wantAbs, _ := filepath.Abs(want)
	if got != wantAbs {
		t.Fatalf("found %q, want %q", got, wantAbs)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"full", "[diag]\nformat = \"json\"\nmax = 5\njobs = 2\ndisk_cache = true\nui = \"off\"\n[trace]\nlevel = \"phase\"\noutput = \"-\"\nmode = \"ring\"\n", ""},
		{"empty", "", ""},
		{"unknown key", "[diag]\ncolour = \"on\"\n", "unknown keys: diag.colour"},
		{"bad format", "[diag]\nformat = \"xml\"\n", "[diag].format"},
		{"negative max", "[diag]\nmax = -1\n", "[diag].max"},
		{"syntax", "[diag\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, t.TempDir(), configFileName, tt.text)
			_, _, err := loadConfig(path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("loadConfig: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyConfigKeepsExplicitFlags(t *testing.T) {
	path := writeTemp(t, t.TempDir(), configFileName, "[diag]\nformat = \"json\"\nmax = 7\n[trace]\nlevel = \"detail\"\n")

	root := &cobra.Command{Use: "calc"}
	root.PersistentFlags().String("config", path, "")
	root.PersistentFlags().String("trace-level", "off", "")
	cmd := &cobra.Command{Use: "diag", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().String("format", "pretty", "")
	cmd.Flags().Int("max-diagnostics", 100, "")
	root.AddCommand(cmd)

	root.SetArgs([]string{"diag", "--format", "short"})
	root.PersistentPreRunE = func(c *cobra.Command, _ []string) error { return applyConfig(c) }
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if v, _ := cmd.Flags().GetString("format"); v != "short" {
		t.Fatalf("format = %q, explicit flag must win", v)
	}
	if v, _ := cmd.Flags().GetInt("max-diagnostics"); v != 7 {
		t.Fatalf("max-diagnostics = %d, want 7 from config", v)
	}
	if v, _ := root.PersistentFlags().GetString("trace-level"); v != "detail" {
		t.Fatalf("trace-level = %q, want detail from config", v)
	}
}
