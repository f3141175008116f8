package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"calc/internal/diag"
	"calc/internal/source"
	"calc/internal/testkit"
)

func undefined(start, end uint32, name string) diag.Diagnostic {
	return diag.NewError(diag.SemaUndefinedVariable, source.Span{Start: start, End: end}, "undefined variable `"+name+"`")
}

func TestPretty(t *testing.T) {
	f := source.NewVirtualFile("test.calc", []byte("fn f(x) = y;\n"))
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{undefined(10, 11, "y")}, f, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "test.calc:1:11: ERROR SEM3001: undefined variable `y`\n" +
		"1 | fn f(x) = y;\n" +
		"  | " + strings.Repeat(" ", 10) + "^\n"
	testkit.EqualText(t, want, buf.String())
}

func TestPrettyWideRunes(t *testing.T) {
	f := source.NewVirtualFile("wide.calc", []byte("fn f() = 日本 + y;"))
	tests := []struct {
		name  string
		d     diag.Diagnostic
		caret string
	}{
		{"after wide text", undefined(18, 19, "y"), strings.Repeat(" ", 16) + "^"},
		{"wide span", undefined(9, 15, "日本"), strings.Repeat(" ", 9) + "^~~~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, []diag.Diagnostic{tt.d}, f, PrettyOpts{}); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if got, want := lines[len(lines)-1], "  | "+tt.caret; got != want {
				t.Fatalf("caret line %q, want %q", got, want)
			}
		})
	}
}

func TestPrettyContext(t *testing.T) {
	f := source.NewVirtualFile("ctx.calc", []byte("fn f(x) = x;\nfn g() = y;\n"))
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{undefined(22, 23, "y")}, f, PrettyOpts{Context: 3}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ctx.calc:2:10:", "1 | fn f(x) = x;", "2 | fn g() = y;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrettyEndOfInput(t *testing.T) {
	f := source.NewVirtualFile("eof.calc", []byte("print 1 + 2\n"))
	d := diag.NewError(diag.SynUnexpectedEOF, source.Span{Start: 12, End: 12}, "unexpected end of input")
	var buf bytes.Buffer
	if err := Pretty(&buf, []diag.Diagnostic{d}, f, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "eof.calc:2:1: ERROR SYN2002") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestShort(t *testing.T) {
	f := source.NewVirtualFile("dir/a.calc", []byte("fn f(x) = y;\nfn g() = z;"))
	var buf bytes.Buffer
	ds := []diag.Diagnostic{undefined(10, 11, "y"), undefined(22, 23, "z")}
	if err := Short(&buf, ds, f, PrettyOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "a.calc:1:11: ERROR SEM3001: undefined variable `y`\n" +
		"a.calc:2:10: ERROR SEM3001: undefined variable `z`\n"
	testkit.EqualText(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	f := source.NewVirtualFile("a.calc", []byte("fn f(x) = y;\nfn g() = z;"))
	ds := []diag.Diagnostic{undefined(10, 11, "y"), undefined(22, 23, "z")}

	file := BuildFile(ds, []string{"f", "g"}, f, JSONOpts{IncludePositions: true, Max: 1})
	if len(file.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %d diagnostics", len(file.Diagnostics))
	}
	loc := file.Diagnostics[0].Location
	if loc.StartLine != 1 || loc.StartCol != 11 || loc.EndCol != 12 || loc.StartByte != 10 {
		t.Fatalf("location = %+v", loc)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, []FileJSON{file, BuildFile(ds, nil, f, JSONOpts{})}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 3 || len(out.Files) != 2 {
		t.Fatalf("count = %d, files = %d", out.Count, len(out.Files))
	}
	if d := out.Files[1].Diagnostics[1]; d.Code != "SEM3001" || d.Severity != "ERROR" || d.Location.StartLine != 0 {
		t.Fatalf("second file diagnostic = %+v", d)
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path string
		mode PathMode
		base string
		want string
	}{
		{"/home/user/project/src/a.calc", PathModeRelative, "/home/user/project", "src/a.calc"},
		{"/home/user/project/src/a.calc", PathModeBasename, "", "a.calc"},
		{"/elsewhere/a.calc", PathModeRelative, "/home/user", "/elsewhere/a.calc"},
		{"a.calc", PathModeAuto, "", "a.calc"},
		{"/very/long/absolute/path/to/some/nested/directory/file.calc", PathModeAuto, "", "file.calc"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path, tt.mode, tt.base); got != tt.want {
			t.Fatalf("formatPath(%q, %d) = %q, want %q", tt.path, tt.mode, got, tt.want)
		}
	}
}
