package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/parser"
	"github.com/tectix/doop-lang/pkg/ast"
)

func fmtCmd() *cobra.Command {
	var (
		dir   string
		write bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Format DOOP source files canonically",
		Long: `Rewrites DOOP sources in canonical form: two-space indentation,
normalized string quoting, and a fixed section order.

By default the formatted source is printed to stdout. With -w files are
rewritten in place; with -l only the names of files whose formatting
differs are printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadProjectConfig(dir)
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			paths, err := resolveInputs(dir, args, cfg)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .doop source files found under %s", dir)
			}

			changed := 0
			for _, path := range paths {
				differs, err := formatFile(path, write, list)
				if err != nil {
					return err
				}
				if differs {
					changed++
				}
			}

			if list && changed > 0 {
				return fmt.Errorf("%d file(s) not formatted canonically", changed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite files in place instead of printing to stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List files whose formatting differs, exit non-zero if any")

	return cmd
}

// formatFile formats one source file according to the flags and reports
// whether its canonical form differs from the on-disk content.
func formatFile(path string, write, list bool) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("cannot read %s: %w", path, err)
	}

	file, err := parser.Parse(path, src)
	if err != nil {
		return false, fmt.Errorf("cannot format %s: %w", path, err)
	}

	formatted := ast.Format(file)
	differs := !bytes.Equal(src, formatted)

	switch {
	case list:
		if differs {
			fmt.Println(path)
		}
	case write:
		if differs {
			if err := os.WriteFile(path, formatted, 0644); err != nil {
				return false, fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Printf("✅ Formatted: %s\n", path)
		}
	default:
		os.Stdout.Write(formatted)
	}
	return differs, nil
}
