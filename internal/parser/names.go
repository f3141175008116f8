package parser

import (
	"calc/internal/ast"
	"calc/internal/query"
	"calc/internal/source"

	"golang.org/x/text/unicode/norm"
)

// Canonical returns the NFC form of an identifier, so that canonically
// equivalent spellings intern to the same handle.
func Canonical(text string) string {
	if norm.NFC.IsNormalString(text) {
		return text
	}
	return norm.NFC.String(text)
}

// NameTable is a standalone Names for parsing outside a compiler database.
// It also resolves handles back to text for printing.
type NameTable struct {
	vars *query.Interned[string, ast.VariableID]
	fns  *query.Interned[string, ast.FunctionID]
	defs *query.Interned[ast.DefData, source.DefID]
}

func NewNameTable() *NameTable {
	return &NameTable{
		vars: query.NewInterned[string, ast.VariableID]("variables"),
		fns:  query.NewInterned[string, ast.FunctionID]("functions"),
		defs: query.NewInterned[ast.DefData, source.DefID]("definitions"),
	}
}

func (t *NameTable) Variable(text string) ast.VariableID {
	return t.vars.Intern(nil, Canonical(text))
}

func (t *NameTable) Function(text string) ast.FunctionID {
	return t.fns.Intern(nil, Canonical(text))
}

func (t *NameTable) Unknown() source.DefID {
	return t.defs.Intern(nil, ast.UnknownDef)
}

func (t *NameTable) VariableName(id ast.VariableID) string { return t.vars.Lookup(id) }
func (t *NameTable) FunctionName(id ast.FunctionID) string { return t.fns.Lookup(id) }
