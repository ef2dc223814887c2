package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/emitter"
	"github.com/tectix/doop-lang/internal/render"
)

func diagramCmd() *cobra.Command {
	var (
		dir          string
		outputDir    string
		direction    string
		renderFormat string
	)

	cmd := &cobra.Command{
		Use:   "diagram [files...]",
		Short: "Generate Graphviz DOT diagrams, optionally rendered",
		Long: `Generates a DOT diagram of the full architecture plus one per view.

With --render, each .dot file is also rendered through Graphviz. The dot
binary must be on PATH (override with DOOP_GRAPHVIZ_BIN).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, cfg, _, err := compileProject(ctx, dir, args)
			if err != nil {
				return err
			}

			if err := printDiagnostics(result.Diagnostics, false); err != nil {
				return err
			}
			if result.Diagnostics.HasErrors() {
				return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics.Errors()))
			}

			cfg.Merge(&config.ProjectConfig{
				Output:  config.OutputConfig{Dir: outputDir},
				Diagram: config.DiagramConfig{Direction: direction, Format: renderFormat},
			})

			registry := emitter.NewRegistry()
			em, err := registry.Get("dot")
			if err != nil {
				return err
			}
			artifacts, err := em.Emit(result.Graph, emitter.Options{Direction: cfg.Diagram.Direction})
			if err != nil {
				return fmt.Errorf("emitter %s failed: %w", em.Name(), err)
			}

			outDir := filepath.Join(dir, cfg.Output.Dir)
			written, err := writeArtifacts(outDir, artifacts)
			if err != nil {
				return err
			}
			fmt.Printf("📦 Wrote %d diagram file(s) to %s\n", len(written), outDir)

			if renderFormat == "" {
				return nil
			}
			return renderDiagrams(ctx, outDir, artifacts, cfg.Diagram.Format)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides doop.yaml)")
	cmd.Flags().StringVar(&direction, "direction", "", "Rank direction: LR or TB (overrides doop.yaml)")
	cmd.Flags().StringVarP(&renderFormat, "render", "r", "", fmt.Sprintf("Render format: %s", strings.Join(render.Formats(), ", ")))

	return cmd
}

// renderDiagrams runs Graphviz over each emitted .dot artifact, writing the
// rendered file beside it.
func renderDiagrams(ctx context.Context, outDir string, artifacts []emitter.Artifact, format string) error {
	envCfg, err := config.Load()
	if err != nil {
		return err
	}
	gv := &render.Graphviz{
		Bin:     envCfg.GraphvizBin,
		Timeout: time.Duration(envCfg.RenderTimeout) * time.Second,
	}
	if !gv.Available() {
		return fmt.Errorf("graphviz binary %q not found on PATH; install graphviz or set DOOP_GRAPHVIZ_BIN", envCfg.GraphvizBin)
	}

	for _, a := range artifacts {
		out, err := gv.Render(ctx, a.Data, format)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", a.Path, err)
		}
		target := strings.TrimSuffix(a.Path, filepath.Ext(a.Path)) + "." + format
		path := filepath.Join(outDir, target)
		if err := os.WriteFile(path, out, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("✅ Rendered: %s\n", path)
	}
	return nil
}
