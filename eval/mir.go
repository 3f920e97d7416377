// Package eval implements the Constant-Value Evaluator of §4.2: an
// interpreter over a mid-level intermediate representation (MIR) of
// elaborated expressions that folds them into interned [value.Value]s,
// resolving parameters, generate-loop variables, and enumeration indices.
//
// HIR/MIR construction proper is out of scope (§1's Non-goals); the types in
// this file are the minimal MIR rvalue shape the fold in eval.go operates
// over, sufficient to exercise every opcode in §4.2's table without
// reimplementing a parser or type checker.
package eval

import (
	"github.com/sv-tools/svpp/source"
	"github.com/sv-tools/svpp/value"
)

// Opcode is the closed set of MIR rvalue forms the evaluator folds (§4.2).
type Opcode int

const (
	OpConst Opcode = iota
	OpCastValueDomain
	OpCastVectorToAtom
	OpCastAtomToVector
	OpCastSign
	OpTruncate
	OpZeroExtend
	OpSignExtend
	OpCastToBool
	OpConstructArray
	OpConstructStruct
	OpUnaryBitwise
	OpBinaryBitwise
	OpIntUnaryArith
	OpIntBinaryArith
	OpIntComp
	OpConcat
	OpRepeat
	OpShift
	OpReduction
	OpTernary
	OpMember
	OpVar
	OpPort
	OpAssignment
	OpIndex
	OpError
)

// UnaryBitwiseOp is the opcode-specific operator for OpUnaryBitwise.
type UnaryBitwiseOp int

const (
	BitwiseNot UnaryBitwiseOp = iota
)

// BinaryBitwiseOp is the opcode-specific operator for OpBinaryBitwise and
// OpReduction.
type BinaryBitwiseOp int

const (
	BitwiseAnd BinaryBitwiseOp = iota
	BitwiseOr
	BitwiseXor
)

// IntUnaryArithOp is the opcode-specific operator for OpIntUnaryArith.
type IntUnaryArithOp int

const (
	ArithNeg IntUnaryArithOp = iota
)

// IntBinaryArithOp is the opcode-specific operator for OpIntBinaryArith.
type IntBinaryArithOp int

const (
	ArithAdd IntBinaryArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
	ArithPow
)

// IntCompOp is the opcode-specific operator for OpIntComp.
type IntCompOp int

const (
	CompEq IntCompOp = iota
	CompNeq
	CompLt
	CompLeq
	CompGt
	CompGeq
)

// ShiftDir is the direction operand of OpShift.
type ShiftDir int

const (
	ShiftLeft ShiftDir = iota
	ShiftRight
)

// Rvalue is one node of the minimal MIR expression tree the evaluator folds.
// Only the fields relevant to Op are populated.
type Rvalue struct {
	Ty   value.Type
	Span source.Span
	Op   Opcode

	// Error is an explicit tombstone marker, independent of Op == OpError:
	// it models mir.is_error(), which in the original can be set on any
	// opcode once upstream lowering has already failed.
	Error bool

	// OpConst
	Value value.Value

	// OpCastValueDomain/CastVectorToAtom/CastAtomToVector/CastSign/
	// Truncate/ZeroExtend/SignExtend/CastToBool/UnaryBitwise/
	// IntUnaryArith/Reduction
	Arg *Rvalue

	// OpBinaryBitwise/IntBinaryArith/IntComp/Shift (Lhs is the value being
	// shifted, Rhs is the shift amount)
	Lhs, Rhs *Rvalue

	// OpConstructArray/ConstructStruct/Concat, in order
	Elems []*Rvalue

	// OpRepeat
	Count int

	// OpUnaryBitwise
	UnaryBitwiseOp UnaryBitwiseOp
	// OpBinaryBitwise/Reduction
	BinaryBitwiseOp BinaryBitwiseOp
	// OpIntUnaryArith
	IntUnaryArithOp IntUnaryArithOp
	// OpIntBinaryArith
	IntBinaryArithOp IntBinaryArithOp
	// OpIntComp
	IntCompOp IntCompOp

	// OpShift
	ShiftDir   ShiftDir
	ShiftArith bool

	// OpTernary
	Cond, TrueValue, FalseValue *Rvalue

	// OpMember
	Field int
}

// IsError reports whether r is a tombstone, either because it was lowered as
// one directly (the Error flag, mirroring mir.is_error()) or because its Op
// is the explicit OpError variant.
func (r *Rvalue) IsError() bool {
	return r != nil && (r.Error || r.Op == OpError)
}
