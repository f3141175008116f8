package compiler

import (
	"errors"
	"fmt"
	"strconv"

	"calc/internal/ast"
	"calc/internal/diag"
	"calc/internal/query"
	"calc/internal/trace"
)

// CompileResult is the outcome of one compilation.
type CompileResult struct {
	Program ast.Program
	// Functions lists the function names in definition order.
	Functions []string
	// Diagnostics are absolute, deduplicated and sorted.
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r CompileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity >= diag.SevError {
			return true
		}
	}
	return false
}

func (db *Database) compileQuery(ctx *query.Ctx, src SourceProgram) ast.Program {
	prog := db.ParseStatements(ctx, src)
	db.TypeCheckProgram(ctx, prog)
	return prog
}

// Compile runs the compile query on the current text of src. A query cycle
// is a bug in the compiler and comes back as an error wrapping
// *query.CycleError.
func (db *Database) Compile(src SourceProgram) (res CompileResult, err error) {
	span := trace.Begin(db.tracer, trace.ScopePass, "compile", 0)
	ctx := db.q.Snapshot()
	defer ctx.Release()
	defer func() {
		r := recover()
		if r == nil {
			span.WithExtra("diagnostics", strconv.Itoa(len(res.Diagnostics))).End("")
			return
		}
		var cyc *query.CycleError
		if e, ok := r.(error); ok && errors.As(e, &cyc) {
			span.End("cycle")
			err = fmt.Errorf("compile: %w", cyc)
			return
		}
		panic(r)
	}()

	prog := db.compile.Get(ctx, src)
	raw := query.Accumulated(ctx, db.compile, src)
	anchors := prog.Anchors(ctx)

	bag := diag.NewBag(0)
	for _, d := range raw {
		bag.Add(db.absolute(d, anchors))
	}
	bag.Dedup()
	bag.Sort()

	fns := prog.Functions(ctx)
	names := make([]string, 0, len(fns))
	for _, f := range fns {
		names = append(names, db.FunctionName(f.Name()))
	}
	return CompileResult{Program: prog, Functions: names, Diagnostics: bag.Items()}, nil
}

// absolute moves a function-relative diagnostic back into file coordinates.
func (db *Database) absolute(d diag.Diagnostic, anchors ast.Anchors) diag.Diagnostic {
	anchor, ok := anchors[d.Primary.Def]
	if !ok {
		return d
	}
	d.Primary = d.Primary.Absolute(db.defs.Intern(nil, ast.UnknownDef), anchor)
	return d
}
