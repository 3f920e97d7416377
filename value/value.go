package value

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind is the closed set of forms a Value's payload can take (§3).
type Kind int

const (
	// Void is the `void` value.
	Void Kind = iota
	// Int is an arbitrary-precision integer, with four-state special bits.
	Int
	// Time is an arbitrary-precision rational time interval.
	Time
	// Composite is a struct or array, as an ordered sequence of Values.
	Composite
	// Error is the tombstone: a value of known type signaling an upstream
	// failure, which short-circuits every downstream opcode (§4.2, §7).
	Error
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "Void"
	case Int:
		return "Int"
	case Time:
		return "Time"
	case Composite:
		return "Composite"
	case Error:
		return "Error"
	default:
		return "Kind(?)"
	}
}

// Data is the payload of an interned Value: `{ ty, kind }` from §3, plus the
// fields each Kind variant carries. Only the fields relevant to Kind are
// populated; the zero value of the others is never inspected.
type Data struct {
	Ty   Type
	Kind Kind

	// Int
	IntVal *big.Int
	// Specials[i] == 1 marks bit i as x-or-z; XBits[i] == 1 marks it
	// specifically x (so z <=> Specials set, XBits clear). Represented as
	// bitmasks; both conceptually have length Ty.Width, though no opcode
	// in this core produces a non-zero mask yet (§9 "Four-state bits").
	Specials *big.Int
	XBits    *big.Int

	// Time
	TimeVal *big.Rat

	// Composite
	Fields []Value
}

// Value is an interned reference to a Data record (§3: "Immutable record
// ..., interned; identity may be used for equality in hot paths but
// structural equality is the contract"). Obtained from an [Interner].
type Value = *Data

// IsError reports whether v is (or carries) a computation-error tombstone.
func (d *Data) IsError() bool {
	return d.Ty.IsError() || d.Kind == Error
}

// IsTrue reports whether d evaluates to true in a boolean context.
func (d *Data) IsTrue() bool {
	return !d.IsFalse()
}

// IsFalse reports whether d evaluates to false in a boolean context.
func (d *Data) IsFalse() bool {
	switch d.Kind {
	case Void:
		return true
	case Int:
		return d.IntVal.Sign() == 0
	case Time:
		return d.TimeVal.Sign() == 0
	case Composite:
		return false
	case Error:
		return true
	default:
		return true
	}
}

// Int returns d's integer payload, if d.Kind == Int.
func (d *Data) Int() (*big.Int, bool) {
	if d.Kind != Int {
		return nil, false
	}
	return d.IntVal, true
}

// String renders d the way the original's `Display for ValueKind` does.
func (d *Data) String() string {
	switch d.Kind {
	case Void:
		return "void"
	case Int:
		return d.IntVal.String()
	case Time:
		return d.TimeVal.String()
	case Composite:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
	case Error:
		return "<error>"
	default:
		return "<?>"
	}
}

// MakeError builds a tombstone Data of the given type.
func MakeError(ty Type) Data {
	return Data{Ty: ty, Kind: Error}
}

// MakeInt builds an integer Data, truncated to ty's width (§3 invariant,
// §8 round-trip property). Panics if ty does not resolve to KindInt, as in
// the original ("create int value with non-int type" is a contract
// violation, not a user-visible error).
func MakeInt(ty Type, v *big.Int) Data {
	w := ty.Resolve().Width
	return MakeIntSpecial(ty, v, zeroBits(w), zeroBits(w))
}

// MakeIntSpecial builds an integer Data with explicit special/x bitmasks.
func MakeIntSpecial(ty Type, v *big.Int, specials, xbits *big.Int) Data {
	resolved := ty.Resolve()
	if resolved.Kind != KindInt {
		panic(fmt.Sprintf("value: create int value %s with non-int type %s", v, ty.Kind))
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(resolved.Width))
	truncated := new(big.Int).Mod(v, mod)
	return Data{Ty: ty, Kind: Int, IntVal: truncated, Specials: specials, XBits: xbits}
}

func zeroBits(width int) *big.Int {
	return new(big.Int)
}

// MakeTime builds a time Data.
func MakeTime(q *big.Rat) Data {
	return Data{Ty: TimeType, Kind: Time, TimeVal: q}
}

// MakeStruct builds a struct Data. Panics if ty is not a struct type.
func MakeStruct(ty Type, fields []Value) Data {
	if ty.Resolve().Kind != KindStruct {
		panic(fmt.Sprintf("value: create struct value with non-struct type %s", ty.Kind))
	}
	return Data{Ty: ty, Kind: Composite, Fields: fields}
}

// MakeArray builds an array Data. Panics if ty is not an array type.
func MakeArray(ty Type, elems []Value) Data {
	if ty.Resolve().Kind != KindArray {
		panic(fmt.Sprintf("value: create array value with non-array type %s", ty.Kind))
	}
	return Data{Ty: ty, Kind: Composite, Fields: elems}
}
