package resolve

import "fmt"

// RefError is the fatal structural failure: a $ref that does not resolve
// within the document. Unlike warnings it aborts the run.
type RefError struct {
	// Ref is the unresolvable reference as written.
	Ref string
	// Path is the document pointer the reference was encountered at.
	Path string
}

func (e *RefError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unresolvable $ref %q", e.Ref)
	}
	return fmt.Sprintf("unresolvable $ref %q at %s", e.Ref, e.Path)
}

// StructureError reports a document shape the resolver cannot walk, such as
// a schema location holding a scalar.
type StructureError struct {
	Path    string
	Message string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("malformed document at %s: %s", e.Path, e.Message)
}
