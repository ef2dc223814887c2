package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"svg", "png", "pdf"}, Formats())
	for _, f := range Formats() {
		assert.True(t, allowedFormats[f])
	}
}

func TestDefaults(t *testing.T) {
	g := New()
	assert.Equal(t, "dot", g.Bin)
	assert.Equal(t, 30*time.Second, g.Timeout)

	zero := &Graphviz{}
	assert.Equal(t, "dot", zero.bin())
	assert.Equal(t, 30*time.Second, zero.timeout())
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	// Rejected before any binary lookup: the bogus bin is never touched.
	g := &Graphviz{Bin: "definitely-not-a-real-binary"}
	_, err := g.Render(context.Background(), []byte("digraph g {}"), "exe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported render format: exe")
	assert.Contains(t, err.Error(), "svg, png, pdf")
}

func TestRenderMissingBinary(t *testing.T) {
	g := &Graphviz{Bin: "doop-test-no-such-binary"}
	assert.False(t, g.Available())

	_, err := g.Render(context.Background(), []byte("digraph g {}"), "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphviz not found")
}

func TestRenderSmoke(t *testing.T) {
	g := New()
	if !g.Available() {
		t.Skip("graphviz not installed")
	}

	out, err := g.Render(context.Background(), []byte("digraph g { a -> b; }"), "svg")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

func TestRenderBadSource(t *testing.T) {
	g := New()
	if !g.Available() {
		t.Skip("graphviz not installed")
	}

	_, err := g.Render(context.Background(), []byte("this is not dot"), "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dot -Tsvg failed")
}
