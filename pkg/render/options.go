package render

// RenderOptions describe per-request settings renderers may honour.
type RenderOptions struct {
	// Template is inline template content or a path to a template file. Only
	// the template renderer reads it.
	Template string
	// Indent is the number of spaces per nesting level. Zero selects the
	// renderer default.
	Indent int
	// Compact disables indentation where the format allows it.
	Compact bool
	// Globals are exposed to templates next to the result fields.
	Globals map[string]any
}

// IndentOr returns Indent, or fallback when Indent is not positive.
func (o RenderOptions) IndentOr(fallback int) int {
	if o.Indent > 0 {
		return o.Indent
	}
	return fallback
}
