// Package validation checks extraction results. ShapeSchema derives an
// OpenAPI schema describing what a definition can produce; Schema wraps a
// user supplied JSON Schema. Both report problems as Issues keyed by the
// dotted field path of the offending value.
package validation
