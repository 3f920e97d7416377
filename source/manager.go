package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Manager opens files and hands out [Handle]s, implementing the
// SourceManager external collaborator. It also owns the configured include
// search paths used by `include resolution (§4.1.2): the directory
// containing the including file is always searched first, then each
// configured path in order.
//
// A Manager may be shared by several concurrently running Preprocessors
// (PreprocessAll does exactly this); mu guards handles and anonCount so
// that concurrent Open/ResolveInclude/AddAnonymous calls don't race. A
// single Preprocessor pass itself remains non-reentrant (§5).
type Manager struct {
	mu sync.Mutex

	includePaths []string
	handles      map[string]*Handle
	anonCount    int
}

// NewManager creates a Manager with the given literal include search paths.
func NewManager(includePaths ...string) *Manager {
	return &Manager{
		includePaths: append([]string(nil), includePaths...),
		handles:      make(map[string]*Handle),
	}
}

// AddIncludeGlob expands pattern (a doublestar glob, e.g. "vendor/**/rtl")
// once against the filesystem and appends every matching directory to the
// include search path list, in match order. This supplements the literal
// include paths passed to NewManager without changing the search order
// contract of §4.1.2: glob-expanded directories are tried in the position
// their pattern occupied, after the directory of the including file.
func (m *Manager) AddIncludeGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("source: invalid include glob %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS("."), pattern)
	if err != nil {
		return fmt.Errorf("source: expanding include glob %q: %w", pattern, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, dir := range matches {
		fi, err := os.Stat(dir)
		if err == nil && fi.IsDir() {
			m.includePaths = append(m.includePaths, dir)
		}
	}
	return nil
}

// Open opens path directly (no search), returning nil if it cannot be read.
func (m *Manager) Open(path string) *Handle {
	m.mu.Lock()
	if h, ok := m.handles[path]; ok {
		m.mu.Unlock()
		return h
	}
	m.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[path]; ok {
		return h
	}
	h := newHandle(path, string(data))
	m.handles[path] = h
	return h
}

// Add registers already-loaded content under the given name, e.g. for
// sources supplied in memory by a test or driver.
func (m *Manager) Add(name, content string) *Handle {
	h := newHandle(name, content)
	m.mu.Lock()
	m.handles[name] = h
	m.mu.Unlock()
	return h
}

// AddAnonymous registers content with a synthesized, unique name. This is
// how predefined macro bodies are categorized (§6): each body is installed
// as a zero-argument macro whose text is lexed against one of these
// anonymous sources.
func (m *Manager) AddAnonymous(content string) *Handle {
	m.mu.Lock()
	m.anonCount++
	name := fmt.Sprintf("<predefined:%d>", m.anonCount)
	m.mu.Unlock()
	return m.Add(name, content)
}

// ResolveInclude implements the search order of §4.1.2: the directory
// containing fromPath is tried first, then each configured include path in
// order. The first file that exists wins.
func (m *Manager) ResolveInclude(fromPath, filename string) (*Handle, bool) {
	if filepath.IsAbs(filename) {
		if h := m.Open(filename); h != nil {
			return h, true
		}
		return nil, false
	}

	m.mu.Lock()
	includePaths := append([]string(nil), m.includePaths...)
	m.mu.Unlock()

	candidates := make([]string, 0, 1+len(includePaths))
	candidates = append(candidates, filepath.Join(filepath.Dir(fromPath), filename))
	for _, dir := range includePaths {
		candidates = append(candidates, filepath.Join(dir, filename))
	}

	for _, c := range candidates {
		if h := m.Open(c); h != nil {
			return h, true
		}
	}
	return nil, false
}
