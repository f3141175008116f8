package compiler

import (
	"calc/internal/ast"
	"calc/internal/parser"
	"calc/internal/query"
)

// ParseStatements returns the tracked program for src.
func (db *Database) ParseStatements(ctx *query.Ctx, src SourceProgram) ast.Program {
	return db.parseStatements.Get(ctx, src)
}

// parse_statements: разбор, локализация спанов и трекинг функций.
// При синтаксической ошибке программа пустая, а ошибка уходит в диагностику.
func (db *Database) parseStatementsQuery(ctx *query.Ctx, src SourceProgram) ast.Program {
	text := src.Text(ctx)
	stmts, serr := parser.Parse([]byte(text), queryNames{ctx: ctx, db: db})
	if serr != nil {
		ctx.Report(serr.Diagnostic())
		return ast.TrackProgram(ctx, nil, nil)
	}

	var (
		fns     []ast.Function
		anchors = make(ast.Anchors)
		seen    = make(map[ast.FunctionID]uint32)
	)
	for i := range stmts {
		st := &stmts[i]
		// print не трекаются: у них нет стабильной идентичности
		if st.Kind != ast.StmtFunction {
			continue
		}
		n := seen[st.Fn]
		seen[st.Fn] = n + 1
		def := db.defs.Intern(ctx, ast.FunctionDef(st.Fn, n))

		ast.Localize(&st.Function, def, st.Span.Start)
		fns = append(fns, ast.TrackFunction(ctx, st.Fn, def, st.Function))
		anchors[def] = st.Span.Start
	}
	return ast.TrackProgram(ctx, fns, anchors)
}
