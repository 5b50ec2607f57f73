package ir

import "fmt"

// WarningKind classifies recoverable degradations. Only structural failures
// abort a run; everything here accumulates on the Result instead.
type WarningKind string

const (
	WarnVersionFallback     WarningKind = "version-fallback"
	WarnCompositionConflict WarningKind = "composition-conflict"
	WarnUnmappedType        WarningKind = "unmapped-type"
)

// Warning is one recoverable degradation, located by the document pointer
// it was detected at.
type Warning struct {
	Kind    WarningKind
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s at %s: %s", w.Kind, w.Path, w.Message)
}

// Warnings accumulates recoverable degradations across a run.
type Warnings []Warning

// Add records a warning.
func (ws *Warnings) Add(kind WarningKind, path, format string, args ...any) {
	*ws = append(*ws, Warning{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)})
}

// OfKind returns the subset with the given kind.
func (ws Warnings) OfKind(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range ws {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Result is the intermediate representation handed to the renderer: the
// models, the operations in declaration order, and any accumulated
// warnings. It holds no reference to the source document.
type Result struct {
	Family     Family
	Models     []Model
	Operations []Operation
	Warnings   Warnings
}

// Model returns the named model, nil when absent.
func (r *Result) Model(name string) *Model {
	for i := range r.Models {
		if r.Models[i].Name == name {
			return &r.Models[i]
		}
	}
	return nil
}
