// Package render turns a generation result into formatted Go source files.
package render

import (
	"fmt"

	"github.com/autoocto/clientgen/internal/ir"
	"github.com/autoocto/clientgen/templates"
)

// File is one generated output file.
type File struct {
	Name    string
	Content []byte
}

// Options control the rendered client surface.
type Options struct {
	Package     string
	ServiceName string
	TemplateDir string
}

// Client renders the typed client for a generation result: a models file
// and a client file, both gofmt-formatted with imports resolved.
func Client(res *ir.Result, opts Options) ([]File, error) {
	if opts.Package == "" {
		opts.Package = "client"
	}

	engine, err := NewEngine(templates.FS, opts.TemplateDir, nil)
	if err != nil {
		return nil, err
	}

	view := BuildView(res, opts.Package, opts.ServiceName)

	files := make([]File, 0, 2)
	for _, spec := range []struct {
		template string
		name     string
	}{
		{"models.go.tmpl", "models.go"},
		{"client.go.tmpl", "client.go"},
	} {
		src, err := engine.Execute(spec.template, view)
		if err != nil {
			return nil, err
		}
		formatted, err := Format([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", spec.name, err)
		}
		files = append(files, File{Name: spec.name, Content: formatted})
	}

	return files, nil
}
