// Package orchestrator wires the load → parse → compile → extract → group →
// validate → render pipeline behind a single entry point. Every stage can be
// replaced through options.
package orchestrator
