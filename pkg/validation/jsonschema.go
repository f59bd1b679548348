package validation

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-parselet/pkg/value"
)

const schemaResource = "schema.json"

// Schema is a compiled JSON Schema.
type Schema struct {
	compiled *jsonschema.Schema
}

// CompileSchema compiles raw. Drafts 4 to 2020-12 are supported; documents
// without "$schema" are treated as 2020-12.
func CompileSchema(raw []byte) (*Schema, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("validation: schema is empty")
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("validation: load schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks v against the schema.
func (s *Schema) Validate(v value.Value) Result {
	if s == nil || s.compiled == nil {
		return Result{Valid: true}
	}
	doc, err := jsonValue(v)
	if err != nil {
		return Result{Issues: []Issue{{Message: err.Error()}}}
	}
	err = s.compiled.Validate(doc)
	if err == nil {
		return Result{Valid: true}
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Result{Issues: []Issue{{Message: err.Error()}}}
	}
	return Result{Issues: leafIssues(verr)}
}

// Validate compiles raw and checks v in one step.
func Validate(raw []byte, v value.Value) (Result, error) {
	schema, err := CompileSchema(raw)
	if err != nil {
		return Result{}, err
	}
	return schema.Validate(v), nil
}

// leafIssues flattens the cause tree, keeping only the innermost errors.
func leafIssues(root *jsonschema.ValidationError) []Issue {
	var out []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, Issue{
				Path:    e.InstanceLocation,
				Field:   fieldPath(e.InstanceLocation),
				Message: strings.TrimSpace(e.Message),
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
