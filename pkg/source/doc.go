// Package source exposes the public contracts for locating and fetching the
// raw inputs of an extraction run: HTML documents and parselet definitions.
// Implementations live under internal/source to keep transport details
// hidden from consumers.
package source
