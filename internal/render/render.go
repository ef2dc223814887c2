// Package render shells out to Graphviz to rasterize DOT sources.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Output formats Graphviz may be asked for. Anything else is rejected
// before a command line is built.
var allowedFormats = map[string]bool{
	"svg": true,
	"png": true,
	"pdf": true,
}

// Formats returns the supported render formats.
func Formats() []string {
	return []string{"svg", "png", "pdf"}
}

// Graphviz renders DOT sources by invoking the dot binary.
type Graphviz struct {
	Bin     string        // dot binary; default "dot"
	Timeout time.Duration // per render; default 30s
}

// New returns a Graphviz renderer with defaults.
func New() *Graphviz {
	return &Graphviz{Bin: "dot", Timeout: 30 * time.Second}
}

func (g *Graphviz) bin() string {
	if g.Bin != "" {
		return g.Bin
	}
	return "dot"
}

func (g *Graphviz) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return 30 * time.Second
}

// Available reports whether the dot binary can be found on PATH.
func (g *Graphviz) Available() bool {
	_, err := exec.LookPath(g.bin())
	return err == nil
}

// Render converts DOT source into the requested format.
func (g *Graphviz) Render(ctx context.Context, dotSrc []byte, format string) ([]byte, error) {
	if !allowedFormats[format] {
		return nil, fmt.Errorf("unsupported render format: %s (supported: %s)",
			format, strings.Join(Formats(), ", "))
	}
	if _, err := exec.LookPath(g.bin()); err != nil {
		return nil, fmt.Errorf("graphviz not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, g.bin(), "-T"+format)
	cmd.Stdin = bytes.NewReader(dotSrc)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("bin", g.bin()).Str("format", format).Msg("rendering diagram")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("dot -T%s failed: %w: %s", format, err, msg)
		}
		return nil, fmt.Errorf("dot -T%s failed: %w", format, err)
	}
	return stdout.Bytes(), nil
}
