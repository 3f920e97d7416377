package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sv-tools/svpp/source"
)

func TestResolveIncludeSearchOrder(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	assert.NoError(os.Mkdir(incDir, 0o755))

	assert.NoError(os.WriteFile(filepath.Join(dir, "local.svh"), []byte("local"), 0o644))
	assert.NoError(os.WriteFile(filepath.Join(incDir, "local.svh"), []byte("fromsearchpath"), 0o644))

	mgr := source.NewManager(incDir)
	root := mgr.Add(filepath.Join(dir, "top.sv"), "")

	h, ok := mgr.ResolveInclude(root.Path(), "local.svh")
	assert.True(ok)
	assert.Equal("local", h.Text(), "the including file's own directory is searched first")
}

func TestResolveIncludeFallsBackToSearchPath(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	incDir := filepath.Join(dir, "inc")
	assert.NoError(os.Mkdir(incDir, 0o755))
	assert.NoError(os.WriteFile(filepath.Join(incDir, "only_there.svh"), []byte("fromsearchpath"), 0o644))

	mgr := source.NewManager(incDir)
	root := mgr.Add(filepath.Join(dir, "top.sv"), "")

	h, ok := mgr.ResolveInclude(root.Path(), "only_there.svh")
	assert.True(ok)
	assert.Equal("fromsearchpath", h.Text())
}

func TestResolveIncludeMissingFails(t *testing.T) {
	assert := assert.New(t)

	mgr := source.NewManager()
	root := mgr.Add("top.sv", "")
	_, ok := mgr.ResolveInclude(root.Path(), "nope.svh")
	assert.False(ok)
}

func TestAddAnonymousUniqueNames(t *testing.T) {
	assert := assert.New(t)

	mgr := source.NewManager()
	a := mgr.AddAnonymous("`define FOO 1")
	b := mgr.AddAnonymous("`define BAR 2")
	assert.NotEqual(a.Path(), b.Path())
}
