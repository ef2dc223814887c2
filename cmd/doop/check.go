package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var (
		dir      string
		jsonOut  bool
		strictly bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Compile the project and report diagnostics without writing artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, _, paths, err := compileProject(ctx, dir, args)
			if err != nil {
				return err
			}

			if err := printDiagnostics(result.Diagnostics, jsonOut); err != nil {
				return err
			}

			if result.Diagnostics.HasErrors() {
				return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics.Errors()))
			}
			if strictly && len(result.Diagnostics.Warnings()) > 0 {
				return fmt.Errorf("compilation produced %d warning(s) in strict mode", len(result.Diagnostics.Warnings()))
			}

			if !jsonOut {
				stats := result.Graph.Stats()
				fmt.Printf("✅ %d file(s) OK: %d components, %d views, %d relationships\n",
					len(paths), stats.Components, stats.Views, stats.Edges)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print diagnostics as JSON on stdout")
	cmd.Flags().BoolVar(&strictly, "strict", false, "Treat warnings as failures")

	return cmd
}
