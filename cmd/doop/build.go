package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/emitter"
	"github.com/tectix/doop-lang/internal/manifest"
	"github.com/tectix/doop-lang/pkg/graph"
)

func buildCmd() *cobra.Command {
	var (
		dir       string
		outputDir string
		formats   []string
		title     string
		direction string
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile the project and write all configured artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, cfg, paths, err := compileProject(ctx, dir, args)
			if err != nil {
				return err
			}

			if err := printDiagnostics(result.Diagnostics, jsonOut); err != nil {
				return err
			}
			if result.Diagnostics.HasErrors() {
				return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics.Errors()))
			}

			cfg.Merge(&config.ProjectConfig{
				Title:   title,
				Output:  config.OutputConfig{Dir: outputDir, Formats: formats},
				Diagram: config.DiagramConfig{Direction: direction},
			})

			outDir := filepath.Join(dir, cfg.Output.Dir)
			written, err := emitAll(result.Graph, cfg, outDir)
			if err != nil {
				return err
			}

			inputs := manifest.Files(dir, relPaths(dir, paths))
			m := manifest.New(result.Graph, version, inputs, written, len(result.Diagnostics.Warnings()))
			if err := m.Write(outDir); err != nil {
				return err
			}

			if !jsonOut {
				fmt.Printf("📦 Wrote %d artifact(s) to %s\n", len(written)+1, outDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides doop.yaml)")
	cmd.Flags().StringSliceVarP(&formats, "formats", "f", nil, "Emitters to run: markdown, dot, json (overrides doop.yaml)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Documentation title (overrides doop.yaml)")
	cmd.Flags().StringVar(&direction, "direction", "", "Diagram rank direction: LR or TB (overrides doop.yaml)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print diagnostics as JSON on stdout")

	return cmd
}

// emitAll runs every configured emitter and writes its artifacts under
// outDir. It returns the relative paths written, in emit order.
func emitAll(g *graph.Graph, cfg *config.ProjectConfig, outDir string) ([]string, error) {
	registry := emitter.NewRegistry()
	opts := emitter.Options{Title: cfg.Title, Direction: cfg.Diagram.Direction}

	formats := cfg.Output.Formats
	if len(formats) == 0 {
		formats = config.DefaultProjectConfig().Output.Formats
	}

	var written []string
	for _, name := range formats {
		em, err := registry.Get(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("%w\nAvailable: %v", err, registry.List())
		}
		artifacts, err := em.Emit(g, opts)
		if err != nil {
			return nil, fmt.Errorf("emitter %s failed: %w", em.Name(), err)
		}
		paths, err := writeArtifacts(outDir, artifacts)
		if err != nil {
			return nil, err
		}
		written = append(written, paths...)
	}
	return written, nil
}

// writeArtifacts persists artifacts under outDir, creating parent
// directories as needed.
func writeArtifacts(outDir string, artifacts []emitter.Artifact) ([]string, error) {
	var written []string
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, a.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, a.Path)
	}
	return written, nil
}
