// Package dialect classifies spec documents into version families and owns
// the per-family capability table. All family-specific behavior downstream
// is driven by the Features a Dispatcher hands out, never by ad hoc version
// checks.
package dialect

import (
	"strconv"
	"strings"

	"github.com/autoocto/clientgen/internal/ir"
)

// Rule maps a version-string prefix in a given document field to a family.
type Rule struct {
	// Field is the document key carrying the version: "swagger" or "openapi".
	Field string
	// Prefix matches the start of the version string ("2.0", "3.1").
	Prefix string

	Family ir.Family
}

// CompatTable is the ordered version-compatibility table. First match wins.
type CompatTable []Rule

// DefaultCompatTable covers every released spec series.
var DefaultCompatTable = CompatTable{
	{Field: "swagger", Prefix: "2.0", Family: ir.FamilySwagger2},
	{Field: "openapi", Prefix: "3.0", Family: ir.FamilyOpenAPI3},
	{Field: "openapi", Prefix: "3.1", Family: ir.FamilyOpenAPI31},
	{Field: "openapi", Prefix: "3.2", Family: ir.FamilyOpenAPI32},
}

// Detector classifies a raw document into a version family. The table is
// explicit constructor configuration, not package state.
type Detector struct {
	table CompatTable
}

// NewDetector builds a detector over a compatibility table.
func NewDetector(table CompatTable) *Detector {
	return &Detector{table: table}
}

// Detect reads the declared version string and matches it against the
// table. An unrecognized or missing version never fails: it falls back to
// the nearest known family and records a warning.
func (d *Detector) Detect(doc *ir.Document, warnings *ir.Warnings) ir.Family {
	field := "openapi"
	if doc.Swagger != "" {
		field = "swagger"
	}
	version := doc.Version()

	for _, rule := range d.table {
		if rule.Field == field && strings.HasPrefix(version, rule.Prefix) {
			return rule.Family
		}
	}

	fallback := d.nearest(version)
	if version == "" {
		warnings.Add(ir.WarnVersionFallback, "", "document declares no version; assuming %s", fallback)
	} else {
		warnings.Add(ir.WarnVersionFallback, "", "unrecognized version %q; falling back to %s", version, fallback)
	}
	return fallback
}

// nearest picks the table family whose version series is numerically
// closest to the declared one, preferring the newer family on ties. An
// unparsable version lands on the openapi3 baseline.
func (d *Detector) nearest(version string) ir.Family {
	declared, ok := parseSeries(version)
	if !ok {
		return ir.FamilyOpenAPI3
	}

	best := ir.FamilyOpenAPI3
	bestDist := -1.0
	for _, rule := range d.table {
		series, ok := parseSeries(rule.Prefix)
		if !ok {
			continue
		}
		dist := declared - series
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist <= bestDist {
			best = rule.Family
			bestDist = dist
		}
	}
	return best
}

// parseSeries extracts major.minor as a comparable float ("3.1.0" -> 3.1).
func parseSeries(version string) (float64, bool) {
	version = strings.TrimSpace(version)
	if idx := strings.IndexAny(version, "-+"); idx >= 0 {
		version = version[:idx]
	}
	parts := strings.Split(version, ".")
	if len(parts) < 1 || parts[0] == "" {
		return 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minor := 0
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, false
		}
	}
	return float64(major) + float64(minor)/10, true
}
