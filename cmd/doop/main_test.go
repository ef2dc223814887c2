package main

import (
	"path/filepath"
	"testing"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/testutil"
)

func TestIncludeExts(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		ext      string
		want     bool
	}{
		{"default glob", []string{"**/*.doop"}, ".doop", true},
		{"default glob other ext", []string{"**/*.doop"}, ".txt", false},
		{"uppercase normalized", []string{"*.DOOP"}, ".doop", true},
		{"empty falls back", nil, ".doop", true},
		{"extensionless ignored", []string{"src/**"}, ".doop", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := includeExts(tt.patterns)[tt.ext]
			if got != tt.want {
				t.Errorf("includeExts(%v)[%s] = %v, want %v", tt.patterns, tt.ext, got, tt.want)
			}
		})
	}
}

func TestExcludedDirNames(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"**/node_modules/**", "node_modules", true},
		{"**/docs/**", "docs", true},
		{"vendor/**", "vendor", true},
		{"**/*.bak", "*.bak", false},
		{"a/b/**", "a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := excludedDirNames([]string{tt.pattern})[tt.name]
			if got != tt.want {
				t.Errorf("excludedDirNames(%q)[%q] = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}

func TestFindSources(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"b.doop":               "component B {}",
		"a.doop":               "component A {}",
		"sub/c.doop":           "component C {}",
		"notes.txt":            "not a source",
		"docs/generated.doop":  "component Skipped {}",
		".hidden/d.doop":       "component Hidden {}",
		"vendor/dep/e.doop":    "component Vendored {}",
		"node_modules/f.doop":  "component Dep {}",
		"sub/nested/deep.doop": "component Deep {}",
	})

	cfg := config.DefaultProjectConfig()
	paths, err := findSources(dir, cfg)
	if err != nil {
		t.Fatalf("findSources: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.doop"),
		filepath.Join(dir, "b.doop"),
		filepath.Join(dir, "sub", "c.doop"),
		filepath.Join(dir, "sub", "nested", "deep.doop"),
	}
	if len(paths) != len(want) {
		t.Fatalf("findSources returned %d paths, want %d: %v", len(paths), len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestFindSources_SkipsOutputDir(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"a.doop":          "component A {}",
		"build/out.doop":  "component Out {}",
		"build/site.html": "<html></html>",
	})

	cfg := config.DefaultProjectConfig()
	cfg.Output.Dir = "build"

	paths, err := findSources(dir, cfg)
	if err != nil {
		t.Fatalf("findSources: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "a.doop" {
		t.Errorf("findSources = %v, want just a.doop", paths)
	}
}

func TestResolveInputs_ExplicitArgs(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"a.doop": "component A {}",
		"b.doop": "component B {}",
	})

	explicit := []string{filepath.Join(dir, "b.doop")}
	paths, err := resolveInputs(dir, explicit, config.DefaultProjectConfig())
	if err != nil {
		t.Fatalf("resolveInputs: %v", err)
	}
	if len(paths) != 1 || paths[0] != explicit[0] {
		t.Errorf("resolveInputs = %v, want %v", paths, explicit)
	}
}

func TestResolveInputs_MissingExplicitArg(t *testing.T) {
	_, err := resolveInputs(t.TempDir(), []string{"/nonexistent/x.doop"}, config.DefaultProjectConfig())
	if err == nil {
		t.Error("resolveInputs with missing explicit file should return error")
	}
}

func TestRelPaths(t *testing.T) {
	root := filepath.Join("/", "proj")
	got := relPaths(root, []string{
		filepath.Join(root, "a.doop"),
		filepath.Join(root, "sub", "b.doop"),
		filepath.Join("/", "elsewhere", "c.doop"),
	})

	want := []string{"a.doop", filepath.Join("sub", "b.doop"), filepath.Join("/", "elsewhere", "c.doop")}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("relPaths[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
