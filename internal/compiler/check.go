package compiler

import (
	"fmt"

	"calc/internal/ast"
	"calc/internal/diag"
	"calc/internal/query"
	"calc/internal/source"
)

type functionKey struct {
	Program ast.Program
	Name    ast.FunctionID
}

func (k functionKey) String() string { return fmt.Sprintf("name=%d", k.Name) }

type checkKey struct {
	Program  ast.Program
	Function ast.Function
}

func (k checkKey) String() string { return k.Function.String() }

// FindFunction returns the first function of prog called name, or the zero
// Function.
func (db *Database) FindFunction(ctx *query.Ctx, prog ast.Program, name ast.FunctionID) ast.Function {
	return db.findFunction.Get(ctx, functionKey{Program: prog, Name: name})
}

// TypeCheckFunction reports name and arity errors in fn's body.
func (db *Database) TypeCheckFunction(ctx *query.Ctx, prog ast.Program, fn ast.Function) {
	db.typeCheckFunction.Get(ctx, checkKey{Program: prog, Function: fn})
}

// TypeCheckProgram checks every function of prog, in parallel.
func (db *Database) TypeCheckProgram(ctx *query.Ctx, prog ast.Program) {
	db.typeCheckProgram.Get(ctx, prog)
}

func (db *Database) findFunctionQuery(ctx *query.Ctx, k functionKey) ast.Function {
	for _, f := range k.Program.Functions(ctx) {
		if f.Name() == k.Name {
			return f
		}
	}
	return ast.Function{}
}

// function_arity отделяет вызывающих от тела вызываемой функции:
// правка тела без смены параметров не перепроверяет вызывающих.
func (db *Database) functionArityQuery(ctx *query.Ctx, fn ast.Function) int {
	return fn.Data(ctx).Arity()
}

func (db *Database) typeCheckFunctionQuery(ctx *query.Ctx, k checkKey) struct{} {
	data := k.Function.Data(ctx)
	ast.Walk(&checker{
		ctx:  ctx,
		db:   db,
		prog: k.Program,
		data: data,
		rep:  ctx.Reporter(),
	}, &data.Body)
	return struct{}{}
}

func (db *Database) typeCheckProgramQuery(ctx *query.Ctx, prog ast.Program) struct{} {
	query.ForEach(ctx, db.opts.Jobs, prog.Functions(ctx), func(ctx *query.Ctx, fn ast.Function) {
		db.TypeCheckFunction(ctx, prog, fn)
	})
	return struct{}{}
}

// checker walks one function body. Every error is recoverable: children are
// visited regardless.
type checker struct {
	ctx  *query.Ctx
	db   *Database
	prog ast.Program
	data ast.FunctionData
	rep  diag.Reporter
}

func (c *checker) VisitExpr(e *ast.Expr) bool {
	switch e.Kind {
	case ast.ExprVariable:
		if !c.data.HasArg(e.Var) {
			diag.ReportError(c.rep, diag.SemaUndefinedVariable, e.Span,
				fmt.Sprintf("undefined variable `%s`", c.db.VariableName(e.Var)))
		}
	case ast.ExprCall:
		callee := c.db.FindFunction(c.ctx, c.prog, e.Fn)
		if !callee.IsValid() {
			diag.ReportError(c.rep, diag.SemaUndefinedFunction, e.Span,
				fmt.Sprintf("undefined function `%s`", c.db.FunctionName(e.Fn)))
			break
		}
		if want := c.db.functionArity.Get(c.ctx, callee); want != len(e.Args) {
			diag.ReportError(c.rep, diag.SemaArityMismatch, e.Span,
				fmt.Sprintf("function `%s` takes %d argument(s) but %d were supplied",
					c.db.FunctionName(e.Fn), want, len(e.Args)))
		}
	}
	return true
}

func (c *checker) VisitSpan(*source.Span) {}
