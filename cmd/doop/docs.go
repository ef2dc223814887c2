package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/emitter"
)

func docsCmd() *cobra.Command {
	var (
		dir       string
		outputDir string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "docs [files...]",
		Short: "Generate markdown documentation only",
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
				Title:  title,
				Output: config.OutputConfig{Dir: outputDir},
			})

			registry := emitter.NewRegistry()
			em, err := registry.Get("markdown")
			if err != nil {
				return err
			}
			artifacts, err := em.Emit(result.Graph, emitter.Options{Title: cfg.Title})
			if err != nil {
				return fmt.Errorf("emitter %s failed: %w", em.Name(), err)
			}

			outDir := filepath.Join(dir, cfg.Output.Dir)
			written, err := writeArtifacts(outDir, artifacts)
			if err != nil {
				return err
			}

			fmt.Printf("📦 Wrote %d documentation file(s) to %s\n", len(written), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides doop.yaml)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Documentation title (overrides doop.yaml)")

	return cmd
}
