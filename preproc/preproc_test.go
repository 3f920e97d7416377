package preproc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sv-tools/svpp/preproc"
	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
)

// run preprocesses text as a single root source and returns the
// concatenation of extracted spans of every emitted token, plus any fatal
// error (§8: "expected is the concatenation of extracted spans of emitted
// tokens").
func run(t *testing.T, text string, predefined ...preproc.Predefined) (string, error) {
	t.Helper()
	mgr := source.NewManager()
	root := mgr.Add("test.sv", text)
	handler := reporter.NewHandler(nil)
	p := preproc.New(mgr, root, handler, predefined)

	var sb strings.Builder
	for tok, err := range p.All() {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(tok.Span.Extract())
	}
	return sb.String(), nil
}

func TestMacroZeroArgInvocationVsSingleEmptyArgument(t *testing.T) {
	assert := assert.New(t)

	got, err := run(t, "`define foo() body\n`foo()\n")
	assert.NoError(err)
	assert.Equal("body\n", got)
}

func TestMacroArityMismatchIsFatal(t *testing.T) {
	assert := assert.New(t)

	_, err := run(t, "`define foo(x,y) x y\n`foo(1)\n")
	assert.Error(err)
}

func TestNestedIfdefElsifElse(t *testing.T) {
	assert := assert.New(t)

	text := "`ifdef A\naaa\n`elsif B\nbbb\n`else\nccc\n`endif\n"
	got, err := run(t, text)
	assert.NoError(err)
	assert.Equal("\nccc\n\n", got, "neither A nor B defined: only the else branch and the newline after `endif emit")

	got, err = run(t, text, preproc.Predefined{Name: "B"})
	assert.NoError(err)
	assert.Equal("\nbbb\n\n", got)

	got, err = run(t, text, preproc.Predefined{Name: "A"})
	assert.NoError(err)
	assert.Equal("\naaa\n\n", got)
}

func TestIfndef(t *testing.T) {
	assert := assert.New(t)

	got, err := run(t, "`ifndef FOO\nyes\n`endif\n")
	assert.NoError(err)
	assert.Equal("\nyes\n\n", got)

	got, err = run(t, "`ifndef FOO\nyes\n`endif\n", preproc.Predefined{Name: "FOO"})
	assert.NoError(err)
	assert.Equal("\n", got)
}

func TestUndefineallIdempotence(t *testing.T) {
	assert := assert.New(t)

	// §8 invariant: "undefineall; define X V; undefineall" leaves macro_defs
	// empty. Observed indirectly: X is no longer recognized afterward, so
	// a bare `X is an unknown directive (fatal), not a macro expansion. Only
	// the newlines following the two `undefineall lines are emitted before it.
	got, err := run(t, "`undefineall\n`define X V\n`undefineall\n`X\n")
	assert.Equal("\n\n", got)
	assert.Error(err)
	assert.Contains(err.Error(), "unknown compiler directive")
}

func TestUndef(t *testing.T) {
	assert := assert.New(t)

	_, err := run(t, "`define X 1\n`undef X\n`X\n")
	assert.Error(err)
	assert.Contains(err.Error(), "unknown compiler directive")
}

func TestPredefinedMacroWithBody(t *testing.T) {
	assert := assert.New(t)

	body := "1"
	got, err := run(t, "`FOO\n", preproc.Predefined{Name: "FOO", Body: &body})
	assert.NoError(err)
	assert.Equal("1\n", got)
}

func TestEscapeForms(t *testing.T) {
	assert := assert.New(t)

	got, err := run(t, "a`\"b`\\c\n")
	assert.NoError(err)
	assert.Equal(`a"b\c`+"\n", got)
}

func TestTokenPasteSeparatorAlwaysConsumed(t *testing.T) {
	assert := assert.New(t)

	got, err := run(t, "ab``cd\n")
	assert.NoError(err)
	assert.Equal("abcd\n", got)
}

func TestDefaultNettypeNone(t *testing.T) {
	assert := assert.New(t)

	_, err := run(t, "`default_nettype none\n")
	assert.NoError(err)
}

func TestIncludeMissingFileIsFatal(t *testing.T) {
	assert := assert.New(t)

	_, err := run(t, "`include \"nope.svh\"\n")
	assert.Error(err)
}
