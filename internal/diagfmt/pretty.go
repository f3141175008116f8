package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"calc/internal/diag"
	"calc/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидает уже отсортированный список с абсолютными спанами в файле f.
// Для каждой диагностики печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span.
func Pretty(w io.Writer, diags []diag.Diagnostic, f *source.File, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	path := formatPath(f.Path, opts.PathMode, opts.BaseDir)

	for i, d := range diags {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		start := f.Position(d.Primary.Start)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		); err != nil {
			return err
		}
		if err := writeSnippet(w, f, d.Primary, start, opts.Context, p); err != nil {
			return err
		}
	}
	return nil
}

func writeSnippet(w io.Writer, f *source.File, sp source.Span, start source.LineCol, context int8, p palette) error {
	first := start.Line
	if context > 0 {
		first -= min(uint32(context), start.Line-1)
	}
	gw := len(strconv.FormatUint(uint64(start.Line), 10))

	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if _, err := fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gw, ln), text); err != nil {
			return err
		}
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col-1), len(line))
	pad := runewidth.StringWidth(expandTabs(line[:col]))

	// многострочный спан подчёркиваем до конца первой строки
	end := min(col+int(sp.Len()), len(line))
	width := max(1, runewidth.StringWidth(expandTabs(line[col:end])))

	marker := "^" + strings.Repeat("~", width-1)
	_, err := fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", gw, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint(marker),
	)
	return err
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Short prints one line per diagnostic: path:line:col: SEV CODE: message.
func Short(w io.Writer, diags []diag.Diagnostic, f *source.File, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	path := formatPath(f.Path, opts.PathMode, opts.BaseDir)
	for _, d := range diags {
		pos := f.Position(d.Primary.Start)
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			path, pos.Line, pos.Col,
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(), d.Message,
		); err != nil {
			return err
		}
	}
	return nil
}
