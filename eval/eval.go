package eval

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/value"
)

// Evaluator implements the constant-folding entry points of §4.2:
// constant_value_of (HIR-level dispatch) and const_mir_rvalue (the MIR
// opcode fold), plus the supporting type_default_value and is_constant
// queries. It is referentially transparent given a fixed Context and
// environment (§5); memoization of const_mir_rvalue is local to one
// Evaluator instance via memo, the same cache-boundary role §5 assigns to
// the Context's query interface.
type Evaluator struct {
	ctx  Context
	memo map[*Rvalue]value.Value
}

// New constructs an Evaluator backed by ctx.
func New(ctx Context) *Evaluator {
	return &Evaluator{ctx: ctx, memo: make(map[*Rvalue]value.Value)}
}

// ConstantValueOf determines the constant value of a HIR node under env
// (§4.2's "constant_value_of"). A non-nil error is reserved for failures of
// the Context itself (an unknown node, a type that could not be inferred) —
// an external collaborator breaking its contract, not a user-visible
// diagnostic. Every condition §7 lists as a named failure mode of constant
// evaluation proper (missing parameter assignment, uninitialized genvar,
// an unimplemented node kind) instead emits a diagnostic through the
// handler and returns the `Error` tombstone with a nil error, exactly as
// const_mir_rvalue does, so a caller folding this value into a larger
// expression gets the short-circuit behavior of §4.2 for free.
func (e *Evaluator) ConstantValueOf(node NodeID, env EnvID) (value.Value, error) {
	hir, err := e.ctx.HirOf(node)
	if err != nil {
		return nil, err
	}

	switch hir.Kind {
	case HirExpr:
		mir := e.ctx.MIRRvalue(node, env)
		return e.ConstMIRRvalue(mir), nil

	case HirValueParam:
		p := hir.Param
		switch b := e.ctx.ParamEnvData(env).Find(p.NodeID); b.Kind {
		case BindingIndirect:
			return e.ConstantValueOf(b.IndirectNode, b.IndirectEnv)
		case BindingDirect:
			return b.Direct, nil
		}
		if p.HasDefault {
			return e.ConstantValueOf(p.Default, env)
		}
		return e.emitUnassigned(node, env, hir)

	case HirGenvarDecl:
		g := hir.Genvar
		switch b := e.ctx.ParamEnvData(env).Find(g.NodeID); b.Kind {
		case BindingIndirect:
			return e.ConstantValueOf(b.IndirectNode, b.IndirectEnv)
		case BindingDirect:
			return b.Direct, nil
		}
		if g.HasInit {
			return e.ConstantValueOf(g.Init, env)
		}
		e.ctx.Handler().HandleWarningf(hir.Span.Begin(), "%s not initialized", hir.Desc)
		return e.errTombstone(node, env), nil

	case HirEnumVariant:
		v := hir.Variant
		if v.HasInitializer {
			return e.ConstantValueOf(v.Initializer, env)
		}
		ty, err := e.ctx.TypeOf(node, env)
		if err != nil {
			return nil, err
		}
		return e.ctx.Interner().Intern(value.MakeInt(ty, big.NewInt(int64(v.Index)))), nil

	case HirVarDecl:
		e.ctx.Handler().HandleWarningf(hir.Span.Begin(), "%s has no constant value", hir.Desc)
		return e.errTombstone(node, env), nil

	default:
		e.ctx.Handler().HandleWarningf(hir.Span.Begin(), "constant value computation of %s is not implemented", hir.Desc)
		return e.errTombstone(node, env), nil
	}
}

// errTombstone builds the Error value for node, using its inferred type
// when available so the tombstone at least carries the right type tag
// (§4.2's opcode table always does this); value.ErrorType is the fallback
// when the type itself could not be determined.
func (e *Evaluator) errTombstone(node NodeID, env EnvID) value.Value {
	ty, err := e.ctx.TypeOf(node, env)
	if err != nil {
		ty = value.ErrorType
	}
	return e.ctx.Interner().Intern(value.MakeError(ty))
}

// emitUnassigned reports a value parameter that was neither bound nor
// given a default, attaching "declared here" notes at every instantiation
// site recorded for env (§7: "notes at parameter declaration/instantiation
// sites are attached when applicable"), then returns the Error tombstone.
func (e *Evaluator) emitUnassigned(node NodeID, env EnvID, hir HirNode) (value.Value, error) {
	var notes []reporter.Note
	for _, c := range e.ctx.ParamEnvContexts(env) {
		notes = append(notes, reporter.Note{Pos: e.ctx.Span(c).Begin(), Message: "parameter declared here:"})
	}
	e.ctx.Handler().HandleWarning(hir.Span.Begin(), notes, fmt.Errorf("%s not assigned and has no default", hir.Desc))
	return e.errTombstone(node, env), nil
}

// ConstMIRRvalue folds a MIR rvalue into a value (§4.2's opcode table). It
// always succeeds in the sense of returning a Value: failures are reported
// through the Context's handler and represented as the Error tombstone,
// which then short-circuits every enclosing opcode (§7, §8).
func (e *Evaluator) ConstMIRRvalue(mir *Rvalue) value.Value {
	if v, ok := e.memo[mir]; ok {
		return v
	}
	v := e.constMIRRvalueInner(mir)
	e.memo[mir] = v
	return v
}

func (e *Evaluator) constMIRRvalueInner(mir *Rvalue) value.Value {
	in := e.ctx.Interner()

	if mir.IsError() {
		return in.Intern(value.MakeError(mir.Ty))
	}

	switch mir.Op {
	case OpCastValueDomain, OpCastVectorToAtom, OpCastAtomToVector, OpCastSign, OpTruncate, OpZeroExtend, OpSignExtend:
		inner := e.ConstMIRRvalue(mir.Arg)
		e.ctx.Handler().HandleWarningf(mir.Span.Begin(),
			"cast ignored during constant evaluation: casts %q from %s to %s",
			mir.Arg.Span.Extract(), mir.Arg.Ty.Kind, mir.Ty.Kind)
		return in.Intern(value.Data{Ty: mir.Ty, Kind: inner.Kind, IntVal: inner.IntVal, Specials: inner.Specials, XBits: inner.XBits, TimeVal: inner.TimeVal, Fields: inner.Fields})

	case OpCastToBool:
		v := e.ConstMIRRvalue(mir.Arg)
		if v.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		return in.Intern(value.MakeInt(mir.Ty, boolInt(v.IsTrue())))

	case OpConstructArray:
		elems := make([]value.Value, len(mir.Elems))
		for i, el := range mir.Elems {
			v := e.ConstMIRRvalue(el)
			if v.IsError() {
				return in.Intern(value.MakeError(mir.Ty))
			}
			elems[i] = v
		}
		return in.Intern(value.MakeArray(mir.Ty, elems))

	case OpConstructStruct:
		elems := make([]value.Value, len(mir.Elems))
		for i, el := range mir.Elems {
			v := e.ConstMIRRvalue(el)
			if v.IsError() {
				return in.Intern(value.MakeError(mir.Ty))
			}
			elems[i] = v
		}
		return in.Intern(value.MakeStruct(mir.Ty, elems))

	case OpConst:
		return mir.Value

	case OpUnaryBitwise:
		arg := e.ConstMIRRvalue(mir.Arg)
		if arg.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		argInt, _ := arg.Int()
		return in.Intern(value.MakeInt(mir.Ty, constUnaryBitwise(mir.UnaryBitwiseOp, argInt, mir.Arg.Ty.Resolve().Width)))

	case OpBinaryBitwise:
		lhs, rhs := e.ConstMIRRvalue(mir.Lhs), e.ConstMIRRvalue(mir.Rhs)
		if lhs.IsError() || rhs.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		l, _ := lhs.Int()
		r, _ := rhs.Int()
		return in.Intern(value.MakeInt(mir.Ty, constBinaryBitwise(mir.BinaryBitwiseOp, l, r)))

	case OpIntUnaryArith:
		arg := e.ConstMIRRvalue(mir.Arg)
		if arg.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		argInt, _ := arg.Int()
		return in.Intern(value.MakeInt(mir.Ty, constUnaryArith(mir.IntUnaryArithOp, argInt)))

	case OpIntBinaryArith:
		lhs, rhs := e.ConstMIRRvalue(mir.Lhs), e.ConstMIRRvalue(mir.Rhs)
		if lhs.IsError() || rhs.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		l, _ := lhs.Int()
		r, _ := rhs.Int()
		return in.Intern(value.MakeInt(mir.Ty, constBinaryArith(mir.IntBinaryArithOp, l, r)))

	case OpIntComp:
		lhs, rhs := e.ConstMIRRvalue(mir.Lhs), e.ConstMIRRvalue(mir.Rhs)
		if lhs.IsError() || rhs.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		l, _ := lhs.Int()
		r, _ := rhs.Int()
		return in.Intern(value.MakeInt(mir.Ty, constComp(mir.IntCompOp, l, r)))

	case OpConcat:
		result := big.NewInt(0)
		for _, el := range mir.Elems {
			v := e.ConstMIRRvalue(el)
			if v.IsError() {
				return in.Intern(value.MakeError(mir.Ty))
			}
			iv, _ := v.Int()
			result.Lsh(result, uint(el.Ty.Resolve().Width))
			result.Or(result, iv)
		}
		return in.Intern(value.MakeInt(mir.Ty, result))

	case OpRepeat:
		v := e.ConstMIRRvalue(mir.Arg)
		if v.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		iv, _ := v.Int()
		w := uint(mir.Arg.Ty.Resolve().Width)
		result := big.NewInt(0)
		for i := 0; i < mir.Count; i++ {
			result.Lsh(result, w)
			result.Or(result, iv)
		}
		return in.Intern(value.MakeInt(mir.Ty, result))

	case OpAssignment, OpVar, OpPort:
		e.ctx.Handler().HandleWarningf(mir.Span.Begin(), "value is not constant")
		return in.Intern(value.MakeError(mir.Ty))

	case OpMember:
		v := e.ConstMIRRvalue(mir.Arg)
		if v.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		return v.Fields[mir.Field]

	case OpTernary:
		cond := e.ConstMIRRvalue(mir.Cond)
		trueVal := e.ConstMIRRvalue(mir.TrueValue)
		falseVal := e.ConstMIRRvalue(mir.FalseValue)
		if cond.IsError() || trueVal.IsError() || falseVal.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		if cond.IsTrue() {
			return trueVal
		}
		return falseVal

	case OpShift:
		v := e.ConstMIRRvalue(mir.Lhs)
		amount := e.ConstMIRRvalue(mir.Rhs)
		if v.IsError() || amount.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		vi, _ := v.Int()
		ai, _ := amount.Int()
		return in.Intern(value.MakeInt(mir.Ty, constShift(mir.ShiftDir, vi, ai)))

	case OpReduction:
		arg := e.ConstMIRRvalue(mir.Arg)
		if arg.IsError() {
			return in.Intern(value.MakeError(mir.Ty))
		}
		argInt, _ := arg.Int()
		return in.Intern(value.MakeInt(mir.Ty, constReduction(mir.BinaryBitwiseOp, argInt, mir.Arg.Ty.Resolve().Width)))

	case OpIndex:
		panic(fmt.Sprintf("%s: constant folding of slices not implemented", mir.Span.Begin()))

	case OpError:
		return in.Intern(value.MakeError(mir.Ty))

	default:
		panic(fmt.Sprintf("%s: unhandled MIR opcode %d in constant folding", mir.Span.Begin(), mir.Op))
	}
}

func boolInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

func constUnaryBitwise(op UnaryBitwiseOp, arg *big.Int, width int) *big.Int {
	switch op {
	case BitwiseNot:
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
		return new(big.Int).Sub(mask, arg)
	default:
		panic("eval: unknown UnaryBitwiseOp")
	}
}

func constBinaryBitwise(op BinaryBitwiseOp, lhs, rhs *big.Int) *big.Int {
	switch op {
	case BitwiseAnd:
		return new(big.Int).And(lhs, rhs)
	case BitwiseOr:
		return new(big.Int).Or(lhs, rhs)
	case BitwiseXor:
		return new(big.Int).Xor(lhs, rhs)
	default:
		panic("eval: unknown BinaryBitwiseOp")
	}
}

func constUnaryArith(op IntUnaryArithOp, arg *big.Int) *big.Int {
	switch op {
	case ArithNeg:
		return new(big.Int).Neg(arg)
	default:
		panic("eval: unknown IntUnaryArithOp")
	}
}

func constBinaryArith(op IntBinaryArithOp, lhs, rhs *big.Int) *big.Int {
	switch op {
	case ArithAdd:
		return new(big.Int).Add(lhs, rhs)
	case ArithSub:
		return new(big.Int).Sub(lhs, rhs)
	case ArithMul:
		return new(big.Int).Mul(lhs, rhs)
	case ArithDiv:
		return new(big.Int).Quo(lhs, rhs)
	case ArithMod:
		return new(big.Int).Rem(lhs, rhs)
	case ArithPow:
		result := big.NewInt(1)
		cnt := new(big.Int).Set(rhs)
		for cnt.Sign() > 0 {
			result.Mul(result, lhs)
			cnt.Sub(cnt, big.NewInt(1))
		}
		return result
	default:
		panic("eval: unknown IntBinaryArithOp")
	}
}

func constComp(op IntCompOp, lhs, rhs *big.Int) *big.Int {
	c := lhs.Cmp(rhs)
	switch op {
	case CompEq:
		return boolInt(c == 0)
	case CompNeq:
		return boolInt(c != 0)
	case CompLt:
		return boolInt(c < 0)
	case CompLeq:
		return boolInt(c <= 0)
	case CompGt:
		return boolInt(c > 0)
	case CompGeq:
		return boolInt(c >= 0)
	default:
		panic("eval: unknown IntCompOp")
	}
}

func constShift(dir ShiftDir, value, amount *big.Int) *big.Int {
	if !amount.IsInt64() {
		return big.NewInt(0)
	}
	amt := amount.Int64()
	left := dir == ShiftLeft
	if amt < 0 {
		amt = -amt
		left = !left
	}
	result := new(big.Int)
	if left {
		result.Lsh(value, uint(amt))
	} else {
		result.Rsh(value, uint(amt))
	}
	return result
}

func constReduction(op BinaryBitwiseOp, arg *big.Int, width int) *big.Int {
	switch op {
	case BitwiseAnd:
		full := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
		return boolInt(arg.Cmp(full) == 0)
	case BitwiseOr:
		return boolInt(arg.Sign() != 0)
	case BitwiseXor:
		count := 0
		for _, b := range arg.Bytes() {
			count += bits.OnesCount8(b)
		}
		return boolInt(count%2 == 1)
	default:
		panic("eval: unknown BinaryBitwiseOp in reduction")
	}
}

// TypeDefaultValue determines the default value of ty (§4.2's
// "type_default_value").
func (e *Evaluator) TypeDefaultValue(ty value.Type) value.Value {
	in := e.ctx.Interner()
	switch ty.Kind {
	case value.KindError:
		return in.Intern(value.MakeError(ty))
	case value.KindVoid:
		return in.Intern(value.Data{Ty: ty, Kind: value.Void})
	case value.KindTime:
		return in.Intern(value.MakeTime(big.NewRat(0, 1)))
	case value.KindInt:
		return in.Intern(value.MakeInt(ty, big.NewInt(0)))
	case value.KindNamed:
		return e.TypeDefaultValue(*ty.Elem)
	case value.KindStruct:
		fields := make([]value.Value, len(ty.Fields))
		for i, f := range ty.Fields {
			fields[i] = e.TypeDefaultValue(f)
		}
		return in.Intern(value.MakeStruct(ty, fields))
	case value.KindArray:
		elem := e.TypeDefaultValue(*ty.Elem)
		elems := make([]value.Value, ty.Length)
		for i := range elems {
			elems[i] = elem
		}
		return in.Intern(value.MakeArray(ty, elems))
	default:
		panic(fmt.Sprintf("eval: unhandled TypeKind %s in type_default_value", ty.Kind))
	}
}

// IsConstant reports whether node is a value parameter, genvar declaration,
// or enum variant (§4.2's "is_constant").
func (e *Evaluator) IsConstant(node NodeID) (bool, error) {
	hir, err := e.ctx.HirOf(node)
	if err != nil {
		return false, err
	}
	switch hir.Kind {
	case HirValueParam, HirGenvarDecl, HirEnumVariant:
		return true, nil
	default:
		return false, nil
	}
}
