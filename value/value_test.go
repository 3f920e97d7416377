package value_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sv-tools/svpp/value"
)

func TestMakeIntRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		n int64
		w int
	}{
		{300, 8}, {0, 8}, {255, 8}, {256, 8}, {-1, 8}, {1, 1}, {2, 1}, {-2, 1},
	} {
		ty := value.IntType(tc.w, false)
		d := value.MakeInt(ty, big.NewInt(tc.n))
		mod := new(big.Int).Lsh(big.NewInt(1), uint(tc.w))
		want := new(big.Int).Mod(big.NewInt(tc.n), mod)
		got, ok := d.Int()
		assert.True(ok)
		assert.Equal(0, want.Cmp(got), "makeInt(%d, width %d): got %s want %s", tc.n, tc.w, got, want)
		assert.True(got.Sign() >= 0)
		assert.True(got.Cmp(mod) < 0)
	}
}

func TestMakeInt300Mod256(t *testing.T) {
	assert := assert.New(t)
	d := value.MakeInt(value.IntType(8, false), big.NewInt(300))
	assert.Equal("44", d.String())
}

func TestMakeIntPanicsOnNonIntType(t *testing.T) {
	assert := assert.New(t)
	assert.Panics(func() {
		value.MakeInt(value.VoidType, big.NewInt(1))
	})
}

func TestErrorPropagation(t *testing.T) {
	assert := assert.New(t)
	d := value.MakeError(value.IntType(8, false))
	assert.True(d.IsError())
	assert.True(d.IsFalse())
	assert.Equal("<error>", d.String())
}

func TestIsFalse(t *testing.T) {
	assert := assert.New(t)
	assert.True((&value.Data{Kind: value.Void}).IsFalse())
	zero := value.MakeInt(value.IntType(4, false), big.NewInt(0))
	assert.True((&zero).IsFalse())
	one := value.MakeInt(value.IntType(4, false), big.NewInt(1))
	assert.False((&one).IsFalse())
}

func TestCompositeDisplay(t *testing.T) {
	assert := assert.New(t)
	in := value.NewInterner()
	a := in.Intern(value.MakeInt(value.IntType(4, false), big.NewInt(0)))
	b := in.Intern(value.MakeInt(value.IntType(2, false), big.NewInt(0)))
	ty := value.StructType(value.IntType(4, false), value.IntType(2, false))
	s := value.MakeStruct(ty, []value.Value{a, b})
	assert.Equal("{ 0, 0 }", s.String())
}

func TestInternerDeduplicates(t *testing.T) {
	assert := assert.New(t)
	in := value.NewInterner()
	ty := value.IntType(8, false)
	v1 := in.Intern(value.MakeInt(ty, big.NewInt(42)))
	v2 := in.Intern(value.MakeInt(ty, big.NewInt(42)))
	assert.True(v1 == v2)

	v3 := in.Intern(value.MakeInt(ty, big.NewInt(43)))
	assert.False(v1 == v3)
}

func TestNamedTypeResolves(t *testing.T) {
	assert := assert.New(t)
	aliased := value.NamedType("my_byte", value.IntType(8, false))
	d := value.MakeInt(aliased, big.NewInt(300))
	got, _ := d.Int()
	assert.Equal("44", got.String())
}
