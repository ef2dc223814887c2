package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectix/doop-lang/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder("main", "abc123")
	require.NoError(t, b.AddComponent(graph.Component{Name: "Auth", File: "auth.doop", Line: 1}))
	require.NoError(t, b.AddComponent(graph.Component{Name: "Sessions", File: "auth.doop", Line: 9}))
	require.NoError(t, b.AddEdge(graph.Edge{From: "Auth", To: "Sessions", Kind: graph.KindDependsOn}))
	return b.Build()
}

func TestNewCarriesGraphMetadata(t *testing.T) {
	g := testGraph(t)
	inputs := []Input{{Path: "auth.doop", Size: 120}}
	m := New(g, "1.2.3", inputs, []string{"README.md", "graph.json"}, 2)

	assert.Equal(t, g.ID, m.ID)
	assert.Equal(t, "1.2.3", m.Version)
	assert.Equal(t, g.GeneratedAt, m.GeneratedAt)
	assert.Equal(t, "main", m.Branch)
	assert.Equal(t, "abc123", m.CommitSHA)
	assert.Equal(t, graph.Stats{Components: 2, Views: 0, Edges: 1}, m.Stats)
	assert.Equal(t, 2, m.Warnings)
	assert.Equal(t, inputs, m.Inputs)
	assert.Equal(t, []string{"README.md", "graph.json"}, m.Artifacts)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.doop"), []byte("component A {}"), 0644))

	inputs := Files(dir, []string{"a.doop", "missing.doop"})
	require.Len(t, inputs, 2)
	assert.Equal(t, "a.doop", inputs[0].Path)
	assert.Equal(t, int64(14), inputs[0].Size)
	assert.Equal(t, "missing.doop", inputs[1].Path)
	assert.Zero(t, inputs[1].Size)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := New(testGraph(t), "dev", Files(dir, nil), []string{"README.md"}, 0)
	require.NoError(t, m.Write(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, m.Version, loaded.Version)
	assert.True(t, m.GeneratedAt.Equal(loaded.GeneratedAt))
	assert.Equal(t, m.Stats, loaded.Stats)
	assert.Equal(t, m.Artifacts, loaded.Artifacts)
}

func TestWriteFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(testGraph(t), "dev", nil, nil, 0).Write(dir))

	data, err := os.ReadFile(filepath.Join(dir, Filename))
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"commit_sha": "abc123"`)
	assert.Contains(t, text, `"version": "dev"`)
	assert.Contains(t, text, `"stats"`)
	assert.True(t, len(text) > 0 && text[len(text)-1] == '\n')
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Filename), []byte("{not json"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
}
