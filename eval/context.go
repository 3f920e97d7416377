package eval

import (
	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
	"github.com/sv-tools/svpp/value"
)

// NodeID is an opaque HIR node identifier. HIR construction is out of scope
// (§1); a Context implementation is free to back this with whatever node
// representation its own HIR uses.
type NodeID int

// EnvID is an opaque parameter-environment identifier (§ GLOSSARY's "env").
type EnvID int

// HirKind discriminates the HIR node shapes constant_value_of dispatches on
// (§4.2's "Entry points").
type HirKind int

const (
	HirExpr HirKind = iota
	HirValueParam
	HirGenvarDecl
	HirEnumVariant
	HirVarDecl
	HirOther
)

// HirNode is the minimal view of a HIR node the evaluator needs. Desc is
// used in diagnostic messages the way the original's `desc_full()` /
// `human_span()` pair is.
type HirNode struct {
	Kind HirKind
	Desc string
	Span source.Span

	Param   *ValueParam
	Genvar  *GenvarDecl
	Variant *EnumVariant
}

// ValueParam is a value-parameter declaration: an optional default
// expression, evaluated if the environment supplies no binding.
type ValueParam struct {
	NodeID     NodeID
	HasDefault bool
	Default    NodeID
}

// GenvarDecl is a genvar declaration: an optional initializer, required if
// the environment supplies no binding.
type GenvarDecl struct {
	NodeID  NodeID
	HasInit bool
	Init    NodeID
}

// EnumVariant is an enum member: either an explicit initializer or an
// implicit ordinal index.
type EnumVariant struct {
	Index          int
	HasInitializer bool
	Initializer    NodeID
}

// BindingKind discriminates a ParamEnvBinding (§4.2's "Indirect"/"Direct").
type BindingKind int

const (
	BindingNone BindingKind = iota
	BindingDirect
	BindingIndirect
)

// ParamEnvBinding is one binding an environment may supply for a node:
// either a concrete value, an indirection to another node/environment pair,
// or nothing (BindingNone).
type ParamEnvBinding struct {
	Kind BindingKind
	// BindingDirect
	Direct value.Value
	// BindingIndirect
	IndirectNode NodeID
	IndirectEnv  EnvID
}

// ParamEnvData is an environment's binding table, keyed by the node the
// binding applies to.
type ParamEnvData struct {
	Bindings map[NodeID]ParamEnvBinding
}

// Find looks up node's binding, reporting BindingNone if absent.
func (d ParamEnvData) Find(node NodeID) ParamEnvBinding {
	if b, ok := d.Bindings[node]; ok {
		return b
	}
	return ParamEnvBinding{Kind: BindingNone}
}

// Context is the query facade the evaluator consumes (§6's "Context
// facade"): HIR/MIR lookups, type queries, parameter-environment data, the
// value interner, and the diagnostic sink. Everything it serves is either an
// external collaborator (§1's Non-goals: HIR, MIR, type inference) or shared
// state (the interner, the diagnostic handler); the fold logic itself lives
// in Evaluator, not behind this interface.
type Context interface {
	// HirOf returns the HIR node for id.
	HirOf(id NodeID) (HirNode, error)
	// MIRRvalue lowers an expression node to a MIR rvalue under env.
	MIRRvalue(id NodeID, env EnvID) *Rvalue
	// TypeOf returns the fully resolved type of id under env.
	TypeOf(id NodeID, env EnvID) (value.Type, error)
	// ParamEnvData returns env's binding table.
	ParamEnvData(env EnvID) ParamEnvData
	// ParamEnvContexts returns the node(s) at which env was instantiated,
	// for attaching "declared here"/"instantiated here" diagnostic notes.
	ParamEnvContexts(env EnvID) []NodeID
	// Interner returns the value interner constant folding interns into.
	Interner() *value.Interner
	// Handler returns the diagnostic sink.
	Handler() *reporter.Handler
	// Span returns the human-readable span of a node, for diagnostics.
	Span(id NodeID) source.Span
}
