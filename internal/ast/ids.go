package ast

type (
	// VariableID is an interned variable name.
	VariableID uint32
	// FunctionID is an interned function name.
	FunctionID uint32
)

const (
	NoVariableID VariableID = 0
	NoFunctionID FunctionID = 0
)

func (id VariableID) IsValid() bool { return id != NoVariableID }
func (id FunctionID) IsValid() bool { return id != NoFunctionID }

type DefKind uint8

const (
	// DefUnknown tags spans that are not yet attributed to a function.
	DefUnknown DefKind = iota
	DefFunction
)

// DefData is the interned payload behind a source.DefID.
type DefData struct {
	Kind DefKind
	Fn   FunctionID
	// Index tells apart functions with the same name in one file; 0 for the
	// first definition.
	Index uint32
}

// UnknownDef is the placeholder definition the parser tags spans with.
var UnknownDef = DefData{Kind: DefUnknown}

// FunctionDef describes the n-th definition of fn.
func FunctionDef(fn FunctionID, n uint32) DefData {
	return DefData{Kind: DefFunction, Fn: fn, Index: n}
}

// Names resolves interned handles back to text.
type Names interface {
	VariableName(VariableID) string
	FunctionName(FunctionID) string
}
