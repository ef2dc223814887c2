package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/compiler"
	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/internal/vcs"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:     "doop",
		Short:   "DOOP - architecture description compiler",
		Long:    `DOOP compiles .doop architecture descriptions into documentation, diagrams, and a machine-readable graph.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(docsCmd())
	rootCmd.AddCommand(diagramCmd())
	rootCmd.AddCommand(fmtCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// compileProject loads the project config under dir, discovers sources (or
// uses the explicitly passed paths), and runs the compiler over them.
func compileProject(ctx context.Context, dir string, args []string) (*compiler.Result, *config.ProjectConfig, []string, error) {
	cfg, err := config.LoadProjectConfig(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load project config: %w", err)
	}

	paths, err := resolveInputs(dir, args, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, nil, fmt.Errorf("no .doop source files found under %s", dir)
	}

	envCfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	head := vcs.Head(dir)

	result, err := compiler.Compile(ctx, paths, compiler.Options{
		MaxComponents:    cfg.Limits.MaxComponents,
		MaxRelationships: cfg.Limits.MaxRelationships,
		Workers:          envCfg.Workers,
		Branch:           head.Branch,
		CommitSHA:        head.CommitSHA,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return result, cfg, paths, nil
}

// resolveInputs returns the source paths to compile: explicit args win,
// otherwise the project tree is walked using the config's include/exclude
// patterns. Output is sorted so diagnostics and artifacts are stable across
// runs.
func resolveInputs(dir string, args []string, cfg *config.ProjectConfig) ([]string, error) {
	if len(args) > 0 {
		for _, p := range args {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("cannot read %s: %w", p, err)
			}
		}
		return args, nil
	}
	return findSources(dir, cfg)
}

// findSources walks dir collecting files matched by the include patterns,
// skipping hidden directories, excluded directories, and the output
// directory.
func findSources(dir string, cfg *config.ProjectConfig) ([]string, error) {
	exts := includeExts(cfg.Include)
	excluded := excludedDirNames(cfg.Exclude)
	if cfg.Output.Dir != "" {
		excluded[filepath.Base(cfg.Output.Dir)] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || excluded[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// includeExts extracts file extensions from include patterns like
// "**/*.doop". Patterns without an extension are ignored; when nothing
// usable remains, ".doop" is assumed.
func includeExts(patterns []string) map[string]bool {
	exts := make(map[string]bool)
	for _, p := range patterns {
		if ext := filepath.Ext(p); ext != "" && !strings.ContainsAny(ext, "*?[") {
			exts[strings.ToLower(ext)] = true
		}
	}
	if len(exts) == 0 {
		exts[".doop"] = true
	}
	return exts
}

// excludedDirNames extracts plain directory names from exclude patterns
// like "**/node_modules/**".
func excludedDirNames(patterns []string) map[string]bool {
	names := make(map[string]bool)
	for _, p := range patterns {
		name := strings.TrimSuffix(strings.TrimPrefix(p, "**/"), "/**")
		if name != "" && !strings.ContainsAny(name, "*?[/") {
			names[name] = true
		}
	}
	return names
}

// printDiagnostics renders the diagnostic list for humans on stderr, or as
// JSON on stdout when asJSON is set.
func printDiagnostics(diags diag.List, asJSON bool) error {
	if asJSON {
		b, err := diags.JSON()
		if err != nil {
			return fmt.Errorf("failed to marshal diagnostics: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if n, w := len(diags.Errors()), len(diags.Warnings()); n > 0 || w > 0 {
		fmt.Fprintf(os.Stderr, "\n%d error(s), %d warning(s)\n", n, w)
	}
	return nil
}

// relPaths rewrites paths relative to root where possible, for readable
// manifests and summaries.
func relPaths(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}
