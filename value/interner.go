package value

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/sv-tools/svpp/internal/arena"
	"github.com/sv-tools/svpp/internal/intern"
)

// Interner is the ValueArena / Interner external collaborator of §2 and §6:
// it deduplicates Data records and hands out stable *Data references.
//
// canonKey can be long (it embeds full type descriptions and big.Int hex
// digits), so it is not used as a map key directly: it is first resolved to
// a compact, stable internal/intern.ID via table, and the dedup map is keyed
// on that ID instead. table's own locking already handles the
// string-to-ID race; index's read-lock-then-write-lock-on-miss discipline
// covers the second map, from ID to the interned Value.
//
// No observable behavior depends on pointer identity (§9): two calls to
// Intern with structurally equal Data always return the same Value.
type Interner struct {
	mu    sync.RWMutex
	table intern.Table
	index map[intern.ID]Value
	arena arena.Arena[Data]
}

// NewInterner returns a ready-to-use Interner. The zero value also works;
// this constructor exists for symmetry with the rest of the package.
func NewInterner() *Interner {
	return &Interner{}
}

// Intern deduplicates d and returns a stable reference to it.
func (in *Interner) Intern(d Data) Value {
	key := in.table.Intern(canonKey(d))

	in.mu.RLock()
	if v, ok := in.index[key]; ok {
		in.mu.RUnlock()
		return v
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if v, ok := in.index[key]; ok {
		return v
	}

	ptr := in.arena.New(d)
	v := ptr.In(&in.arena)
	if in.index == nil {
		in.index = make(map[intern.ID]Value)
	}
	in.index[key] = v
	return v
}

// canonKey builds a structural key for d suitable for deduplication. It does
// not need to be human-readable, only injective over distinguishable Data.
func canonKey(d Data) string {
	var b strings.Builder
	writeType(&b, d.Ty)
	fmt.Fprintf(&b, "|%d|", d.Kind)
	switch d.Kind {
	case Int:
		fmt.Fprintf(&b, "%s,%s,%s", d.IntVal.Text(16), bigText(d.Specials), bigText(d.XBits))
	case Time:
		fmt.Fprintf(&b, "%s", d.TimeVal.RatString())
	case Composite:
		for _, f := range d.Fields {
			fmt.Fprintf(&b, "%p;", f)
		}
	}
	return b.String()
}

func bigText(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.Text(16)
}

func writeType(b *strings.Builder, t Type) {
	fmt.Fprintf(b, "(%d,%d,%t,%q,%d)", t.Kind, t.Width, t.Signed, t.Name, t.Length)
	if t.Elem != nil {
		writeType(b, *t.Elem)
	}
	for _, f := range t.Fields {
		writeType(b, f)
	}
}
