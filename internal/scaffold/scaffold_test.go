package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectix/doop-lang/internal/compiler"
	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/parser"
	"github.com/tectix/doop-lang/pkg/ast"
)

func TestInit_CreatesProject(t *testing.T) {
	dir := t.TempDir()

	err := Init(dir, "Webshop")
	require.NoError(t, err)

	cfg, err := config.LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "Webshop", cfg.Title)
	assert.Equal(t, "docs", cfg.Output.Dir)

	_, err = os.Stat(filepath.Join(dir, SampleFile))
	require.NoError(t, err)
}

func TestInit_DefaultTitle(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init(dir, ""))

	cfg, err := config.LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "Architecture", cfg.Title)
}

func TestInit_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "project")

	require.NoError(t, Init(dir, ""))

	_, err := os.Stat(filepath.Join(dir, "doop.yaml"))
	require.NoError(t, err)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, ""))

	err := Init(dir, "Again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_SampleCompilesCleanly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, ""))

	path := filepath.Join(dir, SampleFile)
	result, err := compiler.Compile(context.Background(), []string{path}, compiler.Options{})
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Empty(t, result.Diagnostics, "starter project should compile without diagnostics")

	assert.True(t, result.Graph.HasComponent("Storefront"))
	assert.True(t, result.Graph.HasComponent("Orders"))
	_, ok := result.Graph.View("Checkout")
	assert.True(t, ok)
}

func TestInit_SampleIsCanonical(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, ""))

	path := filepath.Join(dir, SampleFile)
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	file, err := parser.Parse(path, src)
	require.NoError(t, err)

	assert.Equal(t, string(src), string(ast.Format(file)), "formatting the starter file should be a no-op")
}
