package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/scaffold"
)

func initCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new DOOP project with a doop.yaml and a starter file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			if err := scaffold.Init(dir, title); err != nil {
				return err
			}

			fmt.Printf("✅ Created project in %s\n", dir)
			fmt.Printf("   Edit %s, then run: doop build -d %s\n", scaffold.SampleFile, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Documentation title written to doop.yaml")

	return cmd
}
