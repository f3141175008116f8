package ast

import (
	"fmt"
	"maps"
	"slices"

	"calc/internal/query"
	"calc/internal/source"
)

// Function is a handle to a tracked function definition. The zero value
// means "no function".
type Function struct {
	name FunctionID
	def  source.DefID
	data *query.Entity[FunctionData]
}

// TrackFunction tracks data under def inside the running query.
func TrackFunction(ctx *query.Ctx, name FunctionID, def source.DefID, data FunctionData) Function {
	return Function{
		name: name,
		def:  def,
		data: query.Track(ctx, def, data, FunctionData.Equal),
	}
}

func (f Function) Name() FunctionID  { return f.name }
func (f Function) Def() source.DefID { return f.def }
func (f Function) IsValid() bool     { return f.data != nil }

// Data reads the tracked payload.
func (f Function) Data(ctx *query.Ctx) FunctionData {
	return f.data.Get(ctx)
}

// ChangedAt is the revision the payload last changed at.
func (f Function) ChangedAt() query.Revision {
	return f.data.ChangedAt()
}

func (f Function) String() string {
	if !f.IsValid() {
		return "fn<none>"
	}
	return fmt.Sprintf("fn#%d", f.def)
}

// Anchors maps a function definition to its absolute start offset.
type Anchors map[source.DefID]uint32

func (a Anchors) Equal(o Anchors) bool {
	return maps.Equal(a, o)
}

type programField uint8

const (
	programFunctions programField = iota + 1
	programAnchors
)

// Program is a handle to the tracked result of parsing one source text.
type Program struct {
	functions *query.Entity[[]Function]
	anchors   *query.Entity[Anchors]
}

// TrackProgram tracks the function list and the anchor table as two
// independent fields: moving a function changes anchors only.
func TrackProgram(ctx *query.Ctx, fns []Function, anchors Anchors) Program {
	return Program{
		functions: query.Track(ctx, programFunctions, fns, slices.Equal[[]Function]),
		anchors:   query.Track(ctx, programAnchors, anchors, Anchors.Equal),
	}
}

func (p Program) IsValid() bool { return p.functions != nil }

func (p Program) Functions(ctx *query.Ctx) []Function {
	return p.functions.Get(ctx)
}

func (p Program) Anchors(ctx *query.Ctx) Anchors {
	return p.anchors.Get(ctx)
}

func (p Program) String() string { return "program" }
