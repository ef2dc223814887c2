// Package manifest records what one build produced, so tooling can tell
// stale artifacts from current ones.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/tectix/doop-lang/pkg/graph"
)

// Filename is the manifest's name inside the output directory.
const Filename = "manifest.json"

// Input is one source file that went into the build.
type Input struct {
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// Manifest describes one build.
type Manifest struct {
	ID          string      `json:"id"`                // Graph ID of the build
	Version     string      `json:"version,omitempty"` // Toolchain version
	GeneratedAt time.Time   `json:"generated_at"`
	Branch      string      `json:"branch,omitempty"`
	CommitSHA   string      `json:"commit_sha,omitempty"`
	Stats       graph.Stats `json:"stats"`
	Warnings    int         `json:"warnings"`
	Inputs      []Input     `json:"inputs"`    // Source files, in input order
	Artifacts   []string    `json:"artifacts"` // Generated files, relative to the output dir
}

// New builds a manifest for the given graph and file lists.
func New(g *graph.Graph, version string, inputs []Input, artifacts []string, warnings int) *Manifest {
	return &Manifest{
		ID:          g.ID,
		Version:     version,
		GeneratedAt: g.GeneratedAt,
		Branch:      g.Branch,
		CommitSHA:   g.CommitSHA,
		Stats:       g.Stats(),
		Warnings:    warnings,
		Inputs:      inputs,
		Artifacts:   artifacts,
	}
}

// Files describes the given source paths, relative to root, with their
// on-disk sizes. A file that cannot be statted keeps size zero.
func Files(root string, paths []string) []Input {
	inputs := make([]Input, 0, len(paths))
	for _, p := range paths {
		in := Input{Path: p}
		if info, err := os.Stat(filepath.Join(root, p)); err == nil {
			in.Size = info.Size()
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Write stores the manifest in dir.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(dir, Filename), data, 0644)
}

// Load reads the manifest from dir.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
