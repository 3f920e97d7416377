package preproc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sv-tools/svpp/preproc"
	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
)

func TestPreprocessAllRunsEachRootIndependently(t *testing.T) {
	assert := assert.New(t)

	mgr := source.NewManager()
	roots := []*source.Handle{
		mgr.Add("a.sv", "`define X 1\n`X\n"),
		mgr.Add("b.sv", "`define X 2\n`X\n"),
		mgr.Add("c.sv", "`define X 3\n`X\n"),
	}

	results, err := preproc.PreprocessAll(context.Background(), mgr, roots,
		func(root *source.Handle) *reporter.Handler { return reporter.NewHandler(nil) },
		nil, 2)
	assert.NoError(err)
	assert.Len(results, 3)

	for i, res := range results {
		assert.NoError(res.Err)
		assert.Equal(roots[i].Path(), res.Path)
		var text string
		for _, tok := range res.Tokens {
			text += tok.Span.Extract()
		}
		assert.Contains(text, string(rune('1'+i)), "each root's macro expansion must not leak into another's")
		for j := range roots {
			if j != i {
				assert.NotContains(text, string(rune('1'+j)))
			}
		}
	}
}

func TestPreprocessAllReportsPerRootError(t *testing.T) {
	assert := assert.New(t)

	mgr := source.NewManager()
	roots := []*source.Handle{
		mgr.Add("ok.sv", "hello\n"),
		mgr.Add("bad.sv", "`nosuchdirective\n"),
	}

	results, err := preproc.PreprocessAll(context.Background(), mgr, roots,
		func(root *source.Handle) *reporter.Handler { return reporter.NewHandler(nil) },
		nil, 4)
	assert.NoError(err)
	assert.NoError(results[0].Err)
	assert.Error(results[1].Err)
}
