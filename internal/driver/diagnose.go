package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"calc/internal/compiler"
	"calc/internal/diag"
	"calc/internal/observ"
	"calc/internal/query"
	"calc/internal/source"
	"calc/internal/trace"
)

// Options configures a diagnose batch.
type Options struct {
	// MaxDiagnostics caps diagnostics per file; 0 means unlimited.
	MaxDiagnostics int
	// Jobs is passed to compiler.Options.
	Jobs int
	// DiskCache is consulted before compiling; nil disables it.
	DiskCache *DiskCache
	// LogQueries collects engine events into FileResult.Events.
	LogQueries bool
	Progress   ProgressSink
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path        string
	File        *source.File
	Functions   []string
	Diagnostics []diag.Diagnostic
	// Events are the engine events of this file's compilation (LogQueries).
	Events []query.Event
	Cached bool
}

// HasErrors reports whether any diagnostic is an error.
func (r FileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

// Session diagnoses files one after another through a single SourceProgram,
// so each file is an edit of the previous text and memoized work carries over.
type Session struct {
	opts   Options
	tracer trace.Tracer
	db     *compiler.Database
	src    compiler.SourceProgram
	open   bool
	timer  *observ.Timer
}

// NewSession creates a session; the tracer is taken from ctx.
func NewSession(ctx context.Context, opts Options) *Session {
	tracer := trace.FromContext(ctx)
	return &Session{
		opts:   opts,
		tracer: tracer,
		db: compiler.NewDatabase(compiler.Options{
			Jobs:         opts.Jobs,
			Tracer:       tracer,
			RecordEvents: opts.LogQueries,
		}),
		timer: observ.NewTimer(),
	}
}

// Timer returns per-phase timings collected so far.
func (s *Session) Timer() *observ.Timer { return s.timer }

// Diagnose runs every path in order. Load failures become IO diagnostics and
// do not stop the batch; a cancelled ctx or a compiler failure does.
func Diagnose(ctx context.Context, paths []string, opts Options) ([]FileResult, *observ.Timer, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "diagnose")
	defer span.WithExtra("files", strconv.Itoa(len(paths))).End("")

	s := NewSession(ctx, opts)
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}
	results := make([]FileResult, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return results, s.timer, err
		}
		res, err := s.DiagnoseFile(ctx, p)
		if err != nil {
			return results, s.timer, err
		}
		results = append(results, res)
	}
	emit(opts.Progress, Event{Stage: StageCompile, Status: StatusDone})
	return results, s.timer, nil
}

// DiagnoseFile loads path and compiles it as the session's next revision.
func (s *Session) DiagnoseFile(ctx context.Context, path string) (res FileResult, err error) {
	span := trace.Begin(s.tracer, trace.ScopeDriver, "diagnose_file", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", path)
	defer func() {
		span.WithExtra("diagnostics", strconv.Itoa(len(res.Diagnostics))).End(string(stageStatus(res, err)))
	}()
	started := time.Now()
	res.Path = path

	emit(s.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	idx := s.timer.Begin("load " + path)
	file, loadErr := source.LoadFile(path)
	s.timer.End(idx, "")
	if loadErr != nil {
		res.File = source.NewVirtualFile(path, nil)
		res.Diagnostics = []diag.Diagnostic{
			diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load file: %v", loadErr)),
		}
		emit(s.opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
		return res, nil
	}
	res.File = file

	if s.opts.DiskCache != nil {
		emit(s.opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		var payload DiskPayload
		ok, cacheErr := s.opts.DiskCache.Get(file.Hash, &payload)
		if cacheErr != nil {
			trace.Point(s.tracer, trace.ScopeDriver, "cache_error", cacheErr.Error())
		}
		if ok {
			res.Cached = true
			res.Events = s.takeEvents()
			res.Functions = payload.Functions
			res.Diagnostics = s.capped(fromPayload(&payload))
			emit(s.opts.Progress, Event{File: path, Stage: StageCache, Status: stageStatus(res, nil), Elapsed: time.Since(started)})
			return res, nil
		}
	}

	emit(s.opts.Progress, Event{File: path, Stage: StageCompile, Status: StatusWorking})
	idx = s.timer.Begin("compile " + path)
	out, err := s.compile(string(file.Content))
	s.timer.End(idx, strconv.Itoa(len(out.Diagnostics))+" diagnostics")
	res.Events = s.takeEvents()
	if err != nil {
		emit(s.opts.Progress, Event{File: path, Stage: StageCompile, Status: StatusError, Err: err})
		return res, fmt.Errorf("%s: %w", path, err)
	}
	res.Functions = out.Functions
	res.Diagnostics = s.capped(out.Diagnostics)

	if s.opts.DiskCache != nil {
		payload := toPayload(path, file.Hash, out.Functions, out.Diagnostics)
		if err := s.opts.DiskCache.Put(file.Hash, payload); err != nil {
			trace.Point(s.tracer, trace.ScopeDriver, "cache_error", err.Error())
		}
	}
	emit(s.opts.Progress, Event{File: path, Stage: StageCompile, Status: stageStatus(res, nil), Elapsed: time.Since(started)})
	return res, nil
}

func (s *Session) compile(text string) (compiler.CompileResult, error) {
	if !s.open {
		s.src = s.db.NewSourceProgram(text)
		s.open = true
	} else {
		s.src.SetText(text)
	}
	return s.db.Compile(s.src)
}

// takeEvents drains the engine log so each file only sees its own events.
func (s *Session) takeEvents() []query.Event {
	if !s.opts.LogQueries {
		return nil
	}
	return s.db.TakeEvents()
}

func (s *Session) capped(ds []diag.Diagnostic) []diag.Diagnostic {
	bag := diag.NewBag(s.opts.MaxDiagnostics)
	bag.AddAll(ds)
	return bag.Items()
}

func stageStatus(res FileResult, err error) Status {
	if err != nil || res.HasErrors() {
		return StatusError
	}
	return StatusDone
}
