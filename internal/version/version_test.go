package version

import (
	"strings"
	"testing"
)

func TestColoredPlain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-beta.1", "1.0.0-beta.1"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in, false); got != tt.want {
			t.Fatalf("Colored(%q, false) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredEnabled(t *testing.T) {
	got := Colored("1.2.3-rc", true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc") {
		t.Fatalf("suffix lost in %q", got)
	}
}

func TestCurrent(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "1.2.3", "abc123"
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123" || info.BuildDate != BuildDate {
		t.Fatalf("Current() = %+v", info)
	}
}
