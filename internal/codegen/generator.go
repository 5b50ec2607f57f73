// Package codegen runs the generation pipeline: detect the version family,
// resolve the schema graph under that family's capabilities, then build
// models and operations into the IR handed to the renderer.
package codegen

import (
	"fmt"

	"github.com/autoocto/clientgen/internal/build"
	"github.com/autoocto/clientgen/internal/dialect"
	"github.com/autoocto/clientgen/internal/ir"
	"github.com/autoocto/clientgen/internal/resolve"
)

// Generator owns the static configuration of a pipeline: the version
// compatibility table, the per-family feature table and the type table.
// One Generator serves many runs; each run owns its own graph and caches.
type Generator struct {
	detector   *dialect.Detector
	dispatcher *dialect.Dispatcher
	types      build.TypeTable
}

// Option adjusts a Generator's static tables.
type Option func(*Generator)

// WithCompatTable replaces the version-compatibility table.
func WithCompatTable(table dialect.CompatTable) Option {
	return func(g *Generator) { g.detector = dialect.NewDetector(table) }
}

// WithFeatureTable replaces the per-family capability table.
func WithFeatureTable(table dialect.FeatureTable) Option {
	return func(g *Generator) { g.dispatcher = dialect.NewDispatcher(table) }
}

// WithTypeTable replaces the primitive type-mapping table.
func WithTypeTable(table build.TypeTable) Option {
	return func(g *Generator) { g.types = table }
}

// New builds a generator over the default tables.
func New(opts ...Option) *Generator {
	g := &Generator{
		detector:   dialect.NewDetector(dialect.DefaultCompatTable),
		dispatcher: dialect.NewDispatcher(dialect.DefaultFeatureTable),
		types:      build.DefaultTypeTable,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes the pipeline for one document. Only structural failures
// (dangling refs, unwalkable shapes) return an error; every other
// degradation accumulates as a warning on the result.
func (g *Generator) Run(doc *ir.Document) (*ir.Result, error) {
	var warnings ir.Warnings

	family := g.detector.Detect(doc, &warnings)
	features := g.dispatcher.CapabilitiesFor(family)

	resolver := resolve.New(doc, features, &warnings)
	graph, err := resolver.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving schemas: %w", err)
	}

	mapper := build.NewTypeMapper(g.types, &warnings)
	models := build.NewModelBuilder(mapper, &warnings)
	models.Build(graph)

	operations, err := build.NewOperationBuilder(doc, resolver, features, mapper, &warnings).Build()
	if err != nil {
		return nil, fmt.Errorf("building operations: %w", err)
	}

	return &ir.Result{
		Family:     family,
		Models:     models.Models(),
		Operations: operations,
		Warnings:   warnings,
	}, nil
}
