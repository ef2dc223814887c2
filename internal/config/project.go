package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a doop.yaml file in a project directory
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Title used on the generated documentation index
	Title string `yaml:"title,omitempty"`

	// File patterns
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`

	// Output settings
	Output OutputConfig `yaml:"output,omitempty"`

	// Diagram settings
	Diagram DiagramConfig `yaml:"diagram,omitempty"`

	// Project limits
	Limits LimitsConfig `yaml:"limits,omitempty"`
}

// OutputConfig holds artifact output preferences
type OutputConfig struct {
	// Directory artifacts are written to, relative to the project root
	Dir string `yaml:"dir,omitempty"`

	// Emitters to run (markdown, dot, json)
	Formats []string `yaml:"formats,omitempty"`
}

// DiagramConfig holds Graphviz rendering preferences
type DiagramConfig struct {
	// Rank direction: LR or TB
	Direction string `yaml:"direction,omitempty"`

	// Render format: svg, png, or pdf
	Format string `yaml:"format,omitempty"`
}

// LimitsConfig bounds project size
type LimitsConfig struct {
	MaxComponents    int `yaml:"max_components,omitempty"`
	MaxRelationships int `yaml:"max_relationships,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version: "1.0",
		Title:   "Architecture",
		Include: []string{"**/*.doop"},
		Exclude: []string{
			"**/docs/**",
			"**/node_modules/**",
			"**/vendor/**",
		},
		Output: OutputConfig{
			Dir:     "docs",
			Formats: []string{"markdown", "dot", "json"},
		},
		Diagram: DiagramConfig{
			Direction: "LR",
			Format:    "svg",
		},
		Limits: LimitsConfig{
			MaxComponents:    500,
			MaxRelationships: 1000,
		},
	}
}

// LoadProjectConfig loads a doop.yaml from the given directory
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, "doop.yaml")

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Also try doop.yml
		configPath = filepath.Join(dir, "doop.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return DefaultProjectConfig(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to doop.yaml
func SaveProjectConfig(dir string, cfg *ProjectConfig) error {
	configPath := filepath.Join(dir, "doop.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Title != "" {
		c.Title = other.Title
	}

	if len(other.Include) > 0 {
		c.Include = other.Include
	}

	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}

	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}

	if len(other.Output.Formats) > 0 {
		c.Output.Formats = other.Output.Formats
	}

	if other.Diagram.Direction != "" {
		c.Diagram.Direction = other.Diagram.Direction
	}

	if other.Diagram.Format != "" {
		c.Diagram.Format = other.Diagram.Format
	}

	if other.Limits.MaxComponents != 0 {
		c.Limits.MaxComponents = other.Limits.MaxComponents
	}

	if other.Limits.MaxRelationships != 0 {
		c.Limits.MaxRelationships = other.Limits.MaxRelationships
	}
}
