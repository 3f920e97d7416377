package preproc_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sv-tools/svpp/internal/golden"
	"github.com/sv-tools/svpp/preproc"
	"github.com/sv-tools/svpp/reporter"
	"github.com/sv-tools/svpp/source"
)

// splitFixture parses the ">>>FILE <name><<<...content..." convention used
// by multi-file testdata fixtures (§8 scenarios 1 and 2, where the included
// file's content must not gain a newline it didn't have). A fixture with no
// such marker is treated as a single file named "test.sv".
func splitFixture(text string) map[string]string {
	const marker = ">>>FILE "
	const closer = "<<<"
	if !strings.HasPrefix(text, marker) {
		return map[string]string{"test.sv": text}
	}

	files := make(map[string]string)
	rest := text
	for len(rest) > 0 {
		rest = strings.TrimPrefix(rest, marker)
		idx := strings.Index(rest, closer)
		name := rest[:idx]
		rest = rest[idx+len(closer):]

		next := strings.Index(rest, marker)
		var content string
		if next == -1 {
			content, rest = rest, ""
		} else {
			content, rest = rest[:next], rest[next:]
		}
		files[name] = content
	}
	return files
}

// errContains is a golden.CompareFunc that checks substring containment
// rather than exact equality, since a diagnostic's rendered position prefix
// is incidental to what §8's end-to-end scenarios actually assert.
func errContains(got, want string) string {
	if want == "" {
		if got != "" {
			return fmt.Sprintf("expected no fatal error, got %q", got)
		}
		return ""
	}
	if !strings.Contains(got, want) {
		return fmt.Sprintf("expected fatal error containing %q, got %q", want, got)
	}
	return ""
}

// TestEndToEndScenarios runs spec.md §8's six end-to-end preprocessor
// scenarios as a golden corpus: each "sv" input's flattened, emitted token
// stream is compared against a ".tok" file (the concatenation of extracted
// spans, per §8), and any fatal diagnostic against a ".err" file.
func TestEndToEndScenarios(t *testing.T) {
	corpus := golden.Corpus{
		Root:       "testdata",
		Extensions: []string{"sv"},
		Outputs: []golden.Output{
			{Extension: "tok"},
			{Extension: "err", Compare: errContains},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		files := splitFixture(text)
		mgr := source.NewManager()
		var root *source.Handle
		for name, content := range files {
			h := mgr.Add(name, content)
			if name == "test.sv" {
				root = h
			}
		}

		handler := reporter.NewHandler(nil)
		p := preproc.New(mgr, root, handler, nil)

		var sb strings.Builder
		for tok, err := range p.All() {
			if err != nil {
				outputs[1] = err.Error()
				break
			}
			sb.WriteString(tok.Span.Extract())
		}
		outputs[0] = sb.String()
	})
}
