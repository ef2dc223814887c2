// Package scaffold creates new DOOP projects with a config file and a
// starter architecture description.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/pkg/ast"
)

// SampleFile is the name of the starter source file Init writes.
const SampleFile = "architecture.doop"

// Init writes a doop.yaml and a starter architecture file into dir,
// creating the directory if needed. It refuses to overwrite existing files
// so a stray `doop init` cannot clobber a real project.
func Init(dir, title string) error {
	for _, name := range []string{"doop.yaml", "doop.yml", SampleFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", filepath.Join(dir, name))
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	cfg := config.DefaultProjectConfig()
	if title != "" {
		cfg.Title = title
	}
	if err := config.SaveProjectConfig(dir, cfg); err != nil {
		return err
	}

	sample := ast.Format(sampleFile())
	if err := os.WriteFile(filepath.Join(dir, SampleFile), sample, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", SampleFile, err)
	}
	return nil
}

// sampleFile builds the starter architecture in memory. Rendering it through
// the canonical printer keeps `doop fmt` a no-op on a fresh project.
func sampleFile() *ast.File {
	required := true
	zero := ast.Value{Kind: ast.ValueNumber, Num: 0, Raw: "0"}

	return &ast.File{
		Decls: []ast.Decl{
			&ast.Component{
				Name:        "Storefront",
				Description: "Customer-facing web application",
				Relationships: []ast.Relationship{
					{Kind: "uses", Target: "Catalog", Reason: "renders product listings"},
					{Kind: "communicates_with", Target: "Orders", Reason: "submits checkouts"},
				},
				Visualization: &ast.Visualization{Color: "#1f77b4", Group: "frontend"},
			},
			&ast.Component{
				Name:        "Catalog",
				Description: "Product catalog and search",
				Properties: []ast.Property{
					{
						Name:        "product_count",
						Type:        "Number",
						Description: "Number of products currently listed",
						Default:     &zero,
					},
				},
				Methods: []ast.Method{
					{
						Name:        "search",
						Params:      []ast.Parameter{{Name: "query", Type: "String"}},
						ReturnType:  "String",
						Description: "Finds products matching the query",
					},
				},
				Visualization: &ast.Visualization{Color: "#2ca02c", Group: "backend"},
			},
			&ast.Component{
				Name:        "Orders",
				Description: "Order intake and fulfillment",
				Properties: []ast.Property{
					{
						Name:        "payment_provider",
						Type:        "String",
						Description: "Name of the upstream payment gateway",
						Required:    &required,
					},
				},
				Methods: []ast.Method{
					{
						Name:         "place",
						Params:       []ast.Parameter{{Name: "cart", Type: "String"}},
						ReturnType:   "Boolean",
						Precondition: "cart is not empty",
					},
				},
				Relationships: []ast.Relationship{
					{Kind: "depends_on", Target: "Catalog", Reason: "validates product availability"},
				},
				Visualization: &ast.Visualization{Color: "#ff7f0e", Group: "backend"},
			},
			&ast.View{
				Name:        "Checkout",
				Description: "How a purchase flows through the system",
				Includes:    []ast.Include{{Name: "Storefront"}, {Name: "Orders"}},
				Sequence: []ast.SequenceStep{
					{From: "User", To: "Storefront", Message: "place order"},
					{From: "Storefront", To: "Orders", Message: "submit cart"},
					{From: "Orders", To: "Storefront", Message: "confirmation"},
				},
			},
		},
	}
}
