// Package preflight validates a spec document against its specification
// before generation. The core resolver only checks what it needs to emit
// types; full conformance checking is delegated here.
package preflight

import (
	"fmt"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
)

// Validate runs document validation over raw spec bytes and returns one
// message per finding. Swagger 2.0 documents are skipped: the validator
// only speaks OpenAPI 3.x.
func Validate(data []byte) ([]string, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document for validation: %w", err)
	}

	if doc.GetSpecInfo() != nil && doc.GetSpecInfo().SpecType == "swagger" {
		return []string{"validation skipped: Swagger 2.0 documents are not supported by the validator"}, nil
	}

	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return nil, fmt.Errorf("building validator: %w", errs[0])
	}

	valid, valErrs := v.ValidateDocument()
	if valid {
		return nil, nil
	}

	findings := make([]string, 0, len(valErrs))
	for _, e := range valErrs {
		if e == nil {
			continue
		}
		msg := e.Message
		if e.Reason != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Reason)
		}
		findings = append(findings, msg)
	}
	return findings, nil
}
