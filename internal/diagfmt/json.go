package diagfmt

import (
	"encoding/json"
	"io"

	"calc/internal/diag"
	"calc/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FileJSON holds the diagnostics of one input file.
type FileJSON struct {
	File        string           `json:"file"`
	Functions   []string         `json:"functions,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	// Events: лог движка запросов (--log-queries), по одной строке на событие.
	Events []string `json:"events,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Files []FileJSON `json:"files"`
	Count int        `json:"count"`
}

func makeLocation(span source.Span, f *source.File, opts JSONOpts) LocationJSON {
	loc := LocationJSON{
		File:      formatPath(f.Path, opts.PathMode, opts.BaseDir),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		startPos, endPos := f.Position(span.Start), f.Position(span.End)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildFile формирует JSON-представление диагностик одного файла без сериализации.
func BuildFile(diags []diag.Diagnostic, functions []string, f *source.File, opts JSONOpts) FileJSON {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := FileJSON{
		File:        formatPath(f.Path, opts.PathMode, opts.BaseDir),
		Functions:   functions,
		Diagnostics: make([]DiagnosticJSON, 0, n),
	}
	for _, d := range diags[:n] {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, f, opts),
		})
	}
	return out
}

// JSON сериализует результаты по всем файлам одним документом.
func JSON(w io.Writer, files []FileJSON) error {
	output := DiagnosticsOutput{Files: files}
	if output.Files == nil {
		output.Files = []FileJSON{}
	}
	for _, f := range files {
		output.Count += len(f.Diagnostics)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
