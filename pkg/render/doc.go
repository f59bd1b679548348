// Package render defines the renderer contract for extraction results and a
// registry to look renderers up by name. Implementations live under
// pkg/renderers.
package render
