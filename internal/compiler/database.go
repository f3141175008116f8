package compiler

import (
	"runtime"

	"calc/internal/ast"
	"calc/internal/parser"
	"calc/internal/query"
	"calc/internal/source"
	"calc/internal/trace"
)

type Options struct {
	// Jobs bounds parallel type checking; 0 means GOMAXPROCS.
	Jobs int
	// Tracer receives compile spans and query engine events.
	Tracer trace.Tracer
	// RecordEvents keeps engine events for TakeEvents.
	RecordEvents bool
}

// Database is one compilation session. Interned names and definitions live
// as long as the Database; memoized results are reused across edits.
type Database struct {
	q      *query.Database
	opts   Options
	tracer trace.Tracer

	vars *query.Interned[string, ast.VariableID]
	fns  *query.Interned[string, ast.FunctionID]
	defs *query.Interned[ast.DefData, source.DefID]

	parseStatements   *query.Query[SourceProgram, ast.Program]
	findFunction      *query.Query[functionKey, ast.Function]
	functionArity     *query.Query[ast.Function, int]
	typeCheckFunction *query.Query[checkKey, struct{}]
	typeCheckProgram  *query.Query[ast.Program, struct{}]
	compile           *query.Query[SourceProgram, ast.Program]
}

func NewDatabase(opts Options) *Database {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	db := &Database{
		q:      query.NewDatabase(query.Options{Tracer: opts.Tracer, RecordEvents: opts.RecordEvents}),
		opts:   opts,
		tracer: opts.Tracer,
		vars:   query.NewInterned[string, ast.VariableID]("variables"),
		fns:    query.NewInterned[string, ast.FunctionID]("functions"),
		defs:   query.NewInterned[ast.DefData, source.DefID]("definitions"),
	}
	db.parseStatements = query.New(db.q, "parse_statements", db.parseStatementsQuery)
	db.findFunction = query.New(db.q, "find_function", db.findFunctionQuery)
	db.functionArity = query.New(db.q, "function_arity", db.functionArityQuery)
	db.typeCheckFunction = query.New(db.q, "type_check_function", db.typeCheckFunctionQuery)
	db.typeCheckProgram = query.New(db.q, "type_check_program", db.typeCheckProgramQuery)
	db.compile = query.New(db.q, "compile", db.compileQuery)
	return db
}

// Snapshot opens a read session for calling the query accessors directly.
func (db *Database) Snapshot() *query.Ctx { return db.q.Snapshot() }

// TakeEvents drains the engine event log (Options.RecordEvents).
func (db *Database) TakeEvents() []query.Event { return db.q.TakeEvents() }

func (db *Database) Revision() query.Revision { return db.q.Revision() }

func (db *Database) VariableName(id ast.VariableID) string { return db.vars.Lookup(id) }
func (db *Database) FunctionName(id ast.FunctionID) string { return db.fns.Lookup(id) }

// FunctionID interns a function name outside any query.
func (db *Database) FunctionID(name string) ast.FunctionID {
	return db.fns.Intern(nil, parser.Canonical(name))
}

// SourceProgram is the input cell holding the text being compiled.
type SourceProgram struct {
	text *query.Input[string]
}

func (db *Database) NewSourceProgram(text string) SourceProgram {
	return SourceProgram{text: query.NewInput(db.q, "source_text", text)}
}

func (s SourceProgram) Text(ctx *query.Ctx) string { return s.text.Get(ctx) }

// SetText replaces the source text and starts a new revision.
func (s SourceProgram) SetText(text string) query.Revision { return s.text.Set(text) }

func (s SourceProgram) String() string { return "source" }

// queryNames interns identifiers on behalf of the running parse query.
type queryNames struct {
	ctx *query.Ctx
	db  *Database
}

func (n queryNames) Variable(text string) ast.VariableID {
	return n.db.vars.Intern(n.ctx, parser.Canonical(text))
}

func (n queryNames) Function(text string) ast.FunctionID {
	return n.db.fns.Intern(n.ctx, parser.Canonical(text))
}

func (n queryNames) Unknown() source.DefID {
	return n.db.defs.Intern(n.ctx, ast.UnknownDef)
}
