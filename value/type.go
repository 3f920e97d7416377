// Package value implements the Value data model of §3: immutable, interned
// records carrying a type and a kind (void, arbitrary-precision integer,
// rational time, composite, or error tombstone), together with the
// constructors that enforce their invariants (§3's "Invariants" and the
// round-trip property of §8).
package value

// TypeKind is the closed set of type shapes a Value's Ty may take. The
// original distinguishes several integer/bit-vector variants (Int, Bit,
// BitVector, BitScalar); this core collapses them into one KindInt carrying
// a width, since every one of them is reduced modulo 2^width at
// construction and nothing downstream needs to distinguish them further.
type TypeKind int

const (
	KindError TypeKind = iota
	KindVoid
	KindTime
	KindInt
	KindStruct
	KindArray
	KindNamed
)

func (k TypeKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindVoid:
		return "void"
	case KindTime:
		return "time"
	case KindInt:
		return "int"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindNamed:
		return "named"
	default:
		return "TypeKind(?)"
	}
}

// Type describes the shape of a Value. Struct and array element types are
// carried directly rather than resolved through a separate type table,
// since this core has no surrounding type-interning system of its own.
type Type struct {
	Kind TypeKind

	// Width is the bit width for KindInt (1 for a scalar bit).
	Width int
	// Signed marks a KindInt as two's-complement. No opcode in §4.2 honors
	// this yet (see §9 "Signed comparison"); it is carried so a more
	// complete evaluator can thread it through IntComp/Shift later.
	Signed bool

	// Fields holds field types in declaration order for KindStruct.
	Fields []Type
	// Elem is the element type for KindArray, or the aliased type for
	// KindNamed.
	Elem *Type
	// Length is the element count for KindArray.
	Length int

	// Name labels a KindNamed alias for diagnostics.
	Name string
}

// ErrorType, VoidType, and TimeType are the singleton non-parametric types.
var (
	ErrorType = Type{Kind: KindError}
	VoidType  = Type{Kind: KindVoid}
	TimeType  = Type{Kind: KindTime}
)

// IntType constructs an integer/bit-vector type of the given width.
func IntType(width int, signed bool) Type {
	return Type{Kind: KindInt, Width: width, Signed: signed}
}

// StructType constructs a struct type with the given fields, in order.
func StructType(fields ...Type) Type {
	return Type{Kind: KindStruct, Fields: fields}
}

// ArrayType constructs a packed array of length copies of elem.
func ArrayType(length int, elem Type) Type {
	return Type{Kind: KindArray, Length: length, Elem: &elem}
}

// NamedType constructs a named alias of elem, mirroring
// TypeKind::Named(_, _, ty) from the original.
func NamedType(name string, elem Type) Type {
	return Type{Kind: KindNamed, Name: name, Elem: &elem}
}

// Resolve follows KindNamed aliases to the underlying type, mirroring
// ty.resolve_name().
func (t Type) Resolve() Type {
	for t.Kind == KindNamed {
		t = *t.Elem
	}
	return t
}

// IsError reports whether t is the error type.
func (t Type) IsError() bool {
	return t.Kind == KindError
}
