package preproc

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
)

// Result is one root source's outcome from PreprocessAll: either its
// flattened token stream, or the fatal error that ended it early (§4.1.4).
type Result struct {
	Path   string
	Tokens []Token
	Err    error
}

// PreprocessAll runs one independent Preprocessor per root, bounded to at
// most parallelism concurrent passes via a semaphore.Weighted, and returns
// one Result per root in the same order as roots (§5: "concurrency is the
// driver's business" — the engine itself stays single-pass and
// non-reentrant; this is the driver-level helper that exercises it across
// many sources at once). A handlerFor factory is used rather than a single
// shared *reporter.Handler because Handler latches its first error: with one
// shared Handler, every later fatal diagnostic of any root would be reported
// as the first root's error.
func PreprocessAll(
	ctx context.Context,
	mgr *source.Manager,
	roots []*source.Handle,
	handlerFor func(root *source.Handle) *reporter.Handler,
	predefined []Predefined,
	parallelism int64,
) ([]Result, error) {
	results := make([]Result, len(roots))
	sem := semaphore.NewWeighted(parallelism)
	var wg sync.WaitGroup

	for i, root := range roots {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return results, err
		}
		wg.Add(1)
		go func(i int, root *source.Handle) {
			defer wg.Done()
			defer sem.Release(1)

			handler := handlerFor(root)
			p := New(mgr, root, handler, predefined)
			res := Result{Path: root.Path()}
			for tok, err := range p.All() {
				if err != nil {
					res.Err = err
					break
				}
				res.Tokens = append(res.Tokens, tok)
			}
			results[i] = res
		}(i, root)
	}

	wg.Wait()
	return results, ctx.Err()
}
