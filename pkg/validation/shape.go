package validation

import (
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-parselet/pkg/definition"
	"github.com/goliatone/go-parselet/pkg/value"
)

// ShapeSchema describes the result tree def produces. Non-repeatable leaves
// are strings, repeatable leaves arrays of strings, records objects and
// repeatable records arrays of objects. Constants accept any value.
func ShapeSchema(def *definition.Definition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	if def == nil || def.Fields == nil {
		return schema
	}
	schema.Title = def.Name
	schema.Description = def.Description
	fillObject(schema, def.Fields.Fields, false)
	return schema
}

func fillObject(schema *openapi3.Schema, fields []definition.Field, grouped bool) {
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}
	for _, f := range fields {
		schema.WithProperty(f.Name, specSchema(f.Spec, grouped))
		if alwaysPresent(f.Spec, grouped) {
			schema.Required = append(schema.Required, f.Name)
		}
	}
}

func specSchema(spec *definition.Spec, grouped bool) *openapi3.Schema {
	switch spec.Kind {
	case definition.KindLeaf:
		str := openapi3.NewStringSchema()
		str.Description = spec.Selector.Raw
		if spec.Repeatable {
			return openapi3.NewArraySchema().WithItems(str)
		}
		return str
	case definition.KindRecord:
		obj := openapi3.NewObjectSchema()
		fillObject(obj, spec.Fields, grouped)
		return obj
	case definition.KindWrapper:
		obj := openapi3.NewObjectSchema()
		fillObject(obj, spec.Fields, true)
		return openapi3.NewArraySchema().WithItems(obj)
	default:
		return openapi3.NewSchema()
	}
}

// alwaysPresent reports whether a field appears in every result. Inside a
// group only constants are guaranteed; outside, only non-repeatable leaves
// can be omitted.
func alwaysPresent(spec *definition.Spec, grouped bool) bool {
	if spec.Kind == definition.KindConstant {
		return true
	}
	if grouped {
		return false
	}
	return spec.Kind != definition.KindLeaf || spec.Repeatable
}

// CheckShape validates v against ShapeSchema(def).
func CheckShape(def *definition.Definition, v value.Value) Result {
	return checkOpenAPI(ShapeSchema(def), v)
}

func checkOpenAPI(schema *openapi3.Schema, v value.Value) Result {
	doc, err := jsonValue(v)
	if err != nil {
		return Result{Issues: []Issue{{Message: err.Error()}}}
	}
	err = schema.VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}
	return Result{Issues: openAPIIssues(err)}
}

func openAPIIssues(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []Issue
		for _, item := range multi {
			out = append(out, openAPIIssues(item)...)
		}
		return out
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		path := "/" + strings.Join(pointer, "/")
		if len(pointer) == 0 {
			path = ""
		}
		return []Issue{{
			Path:    path,
			Field:   strings.Join(pointer, "."),
			Message: schemaErr.Reason,
		}}
	}
	return []Issue{{Message: err.Error()}}
}
