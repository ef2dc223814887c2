// Package compiler drives the pipeline: read sources, lex and parse them
// in parallel, resolve sequentially, and return the graph with every
// diagnostic batched and sorted.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tectix/doop-lang/internal/diag"
	"github.com/tectix/doop-lang/internal/lexer"
	"github.com/tectix/doop-lang/internal/parser"
	"github.com/tectix/doop-lang/internal/resolver"
	"github.com/tectix/doop-lang/pkg/ast"
	"github.com/tectix/doop-lang/pkg/graph"
)

// MaxFileSize bounds one source file. Oversized files are rejected with a
// resource-limit diagnostic before they are read into the parser.
const MaxFileSize = 10 << 20 // 10 MiB

// Options configures a compilation.
type Options struct {
	MaxFileSize      int64  // 0 means MaxFileSize
	MaxComponents    int    // 0 means the resolver default
	MaxRelationships int    // 0 means the resolver default
	Workers          int    // Parallel parse width; 0 means NumCPU
	Branch           string // Provenance recorded on the graph
	CommitSHA        string
}

func (o Options) maxFileSize() int64 {
	if o.MaxFileSize > 0 {
		return o.MaxFileSize
	}
	return MaxFileSize
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Source is one named input, already in memory.
type Source struct {
	Path string
	Data []byte
}

// Result is the outcome of one compilation. Graph is nil whenever
// Diagnostics contains errors; warnings alone leave it intact.
type Result struct {
	Graph       *graph.Graph
	Files       []*ast.File // Successfully parsed files, in input order
	Diagnostics diag.List
}

// OK reports whether the compilation produced a usable graph.
func (r *Result) OK() bool {
	return r.Graph != nil
}

// Compile reads the given files in order and compiles them as one project.
// IO failures are returned as an error; everything wrong with the sources
// themselves comes back as diagnostics in the result.
func Compile(ctx context.Context, paths []string, opts Options) (*Result, error) {
	var diags diag.List
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.Size() > opts.maxFileSize() {
			diags.Add(sizeDiagnostic(p, info.Size(), opts.maxFileSize()))
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		sources = append(sources, Source{Path: p, Data: data})
	}
	return compile(ctx, sources, paths, diags, opts)
}

// CompileSources compiles in-memory sources as one project, in order.
func CompileSources(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	order := make([]string, len(sources))
	for i, s := range sources {
		order[i] = s.Path
	}
	return compile(ctx, sources, order, diag.List{}, opts)
}

func compile(ctx context.Context, sources []Source, fileOrder []string, diags diag.List, opts Options) (*Result, error) {
	log.Debug().Int("files", len(sources)).Msg("compiling DOOP sources")

	var todo []Source
	for _, s := range sources {
		if int64(len(s.Data)) > opts.maxFileSize() {
			diags.Add(sizeDiagnostic(s.Path, int64(len(s.Data)), opts.maxFileSize()))
			continue
		}
		todo = append(todo, s)
	}

	// Each file parses independently; the resolver is the only phase that
	// needs all of them together.
	files := make([]*ast.File, len(todo))
	parseErrs := make([]error, len(todo))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, src := range todo {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := parser.Parse(src.Path, src.Data)
			if err != nil {
				parseErrs[i] = err
				return nil
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var parsed []*ast.File
	for i, src := range todo {
		if err := parseErrs[i]; err != nil {
			diags.Add(parseDiagnostic(src.Path, err))
			continue
		}
		parsed = append(parsed, files[i])
	}

	res := &Result{Files: parsed}
	if diags.HasErrors() {
		// Never resolve over partial syntax trees.
		diags.Sort(fileOrder)
		res.Diagnostics = diags
		return res, nil
	}

	gr, semDiags := resolver.Resolve(parsed, resolver.Options{
		MaxComponents:    opts.MaxComponents,
		MaxRelationships: opts.MaxRelationships,
		Branch:           opts.Branch,
		CommitSHA:        opts.CommitSHA,
	})
	diags.Add(semDiags...)
	diags.Sort(fileOrder)

	res.Graph = gr
	res.Diagnostics = diags
	if gr != nil {
		st := gr.Stats()
		log.Debug().
			Int("components", st.Components).
			Int("views", st.Views).
			Int("edges", st.Edges).
			Msg("graph resolved")
	}
	return res, nil
}

func sizeDiagnostic(path string, size, limit int64) diag.Diagnostic {
	return diag.New(diag.StageLex, diag.SeverityError, diag.CodeResourceLimit,
		path, 1, 1, "file is %d bytes, exceeding the %d-byte limit", size, limit)
}

func parseDiagnostic(path string, err error) diag.Diagnostic {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.ToDiagnostic(path)
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.ToDiagnostic(path)
	}
	return diag.New(diag.StageParse, diag.SeverityError, diag.CodeUnexpectedToken,
		path, 0, 0, "%v", err)
}
