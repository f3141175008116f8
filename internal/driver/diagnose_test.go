package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"calc/internal/diag"
	"calc/internal/source"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

type brief struct {
	Code    diag.Code
	Start   uint32
	End     uint32
	Message string
}

func briefs(ds []diag.Diagnostic) []brief {
	out := make([]brief, 0, len(ds))
	for _, d := range ds {
		out = append(out, brief{d.Code, d.Start(), d.End(), d.Message})
	}
	return out
}

func TestDiagnoseBatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.calc": "fn f(x) = y;\n",
		"b.calc": "fn f(x) = x;\nfn g() = f(1);\n",
	})
	paths := []string{
		filepath.Join(dir, "a.calc"),
		filepath.Join(dir, "b.calc"),
		filepath.Join(dir, "missing.calc"),
	}
	results, timer, err := Diagnose(context.Background(), paths, Options{LogQueries: true})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}

	a, b, missing := results[0], results[1], results[2]
	want := []brief{{diag.SemaUndefinedVariable, 10, 11, "undefined variable `y`"}}
	if got := briefs(a.Diagnostics); !reflect.DeepEqual(got, want) {
		t.Fatalf("a.calc diagnostics = %+v", got)
	}
	if !a.HasErrors() || b.HasErrors() {
		t.Fatalf("HasErrors: a=%v b=%v", a.HasErrors(), b.HasErrors())
	}
	if !reflect.DeepEqual(b.Functions, []string{"f", "g"}) {
		t.Fatalf("b.calc functions = %q", b.Functions)
	}
	if len(a.Events) == 0 || len(b.Events) == 0 {
		t.Fatalf("expected query events for both files")
	}
	if len(missing.Diagnostics) != 1 || missing.Diagnostics[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing.calc diagnostics = %+v", briefs(missing.Diagnostics))
	}
	if len(timer.Report().Phases) == 0 {
		t.Fatalf("timer recorded nothing")
	}
}

func TestDiagnoseMaxDiagnostics(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.calc": "fn f() = h(x, y, z);"})
	results, _, err := Diagnose(context.Background(), []string{filepath.Join(dir, "a.calc")}, Options{MaxDiagnostics: 2})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if n := len(results[0].Diagnostics); n != 2 {
		t.Fatalf("diagnostics = %d, want 2", n)
	}
	if results[0].Diagnostics[0].Code != diag.SemaUndefinedFunction {
		t.Fatalf("first diagnostic = %+v", briefs(results[0].Diagnostics))
	}
}

func TestDiagnoseDiskCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.calc": "fn f(x) = x;\nfn g() = f(1, 2);\n"})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	paths := []string{filepath.Join(dir, "a.calc")}

	first, _, err := Diagnose(context.Background(), paths, Options{DiskCache: cache})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, err := Diagnose(context.Background(), paths, Options{DiskCache: cache})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	if !reflect.DeepEqual(briefs(first[0].Diagnostics), briefs(second[0].Diagnostics)) {
		t.Fatalf("cached diagnostics differ: %+v vs %+v", briefs(first[0].Diagnostics), briefs(second[0].Diagnostics))
	}
	if !reflect.DeepEqual(first[0].Functions, second[0].Functions) {
		t.Fatalf("cached functions differ")
	}
}

func TestCachedFileHasNoQueryEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.calc":    "fn f(x) = x;\n",
		"copy.calc": "fn f(x) = x;\n",
		"c.calc":    "fn f(x) = x;\nfn g() = f(1);\n",
	})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	paths := []string{
		filepath.Join(dir, "a.calc"),
		filepath.Join(dir, "copy.calc"),
		filepath.Join(dir, "c.calc"),
	}
	results, _, err := Diagnose(context.Background(), paths, Options{DiskCache: cache, LogQueries: true})
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	a, cp, c := results[0], results[1], results[2]
	if a.Cached || !cp.Cached || c.Cached {
		t.Fatalf("cached: a=%v copy=%v c=%v", a.Cached, cp.Cached, c.Cached)
	}
	if len(a.Events) == 0 || len(c.Events) == 0 {
		t.Fatalf("expected events for compiled files")
	}
	if len(cp.Events) != 0 {
		t.Fatalf("cache hit must not report events, got %v", cp.Events)
	}
	// c.calc is the second edit of the session input
	for _, ev := range c.Events {
		if ev.Revision != 2 {
			t.Fatalf("c.calc got event from another revision: %s", ev)
		}
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := source.Sum([]byte("fn f() = 1;"))
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1, Hash: key}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || ok {
		t.Fatalf("Get = %v, %v; want miss", ok, err)
	}

	if err := cache.Put(key, toPayload("a.calc", key, []string{"f"}, nil)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, err := cache.Get(key, &out); err != nil || !ok {
		t.Fatalf("Get = %v, %v; want hit", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, err := cache.Get(key, &out); err != nil || ok {
		t.Fatalf("Get after DropAll = %v, %v", ok, err)
	}
}

func TestDiagnoseProgress(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.calc": "fn f(x) = y;", "b.calc": "fn f(x) = x;"})
	paths := []string{filepath.Join(dir, "a.calc"), filepath.Join(dir, "b.calc")}
	ch := make(chan Event, 64)
	if _, _, err := Diagnose(context.Background(), paths, Options{Progress: ChannelSink{Ch: ch}}); err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	close(ch)

	final := map[string]Status{}
	var last Event
	for ev := range ch {
		if ev.File != "" {
			final[ev.File] = ev.Status
		}
		last = ev
	}
	if final[paths[0]] != StatusError || final[paths[1]] != StatusDone {
		t.Fatalf("final statuses = %v", final)
	}
	if last.File != "" || last.Status != StatusDone {
		t.Fatalf("last event = %+v", last)
	}
}

func TestDiagnoseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Diagnose(ctx, []string{"whatever.calc"}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
