// Package adapter maps institution-specific export layouts onto the
// canonical transaction fields. Each institution is one Adapter in a
// Registry; adding a bank means registering a new adapter, never editing
// an existing one.
package adapter

import (
	"fmt"
	"strings"
)

// Canonical field names produced by every adapter.
const (
	FieldDate   = "date"
	FieldName   = "name"
	FieldAmount = "amount"
	fieldDebit  = "debit"
	fieldCredit = "credit"
)

// Row is one canonical-field row. Values are still text; the normalizer
// owns date parsing and amount coercion.
type Row struct {
	Date   string
	Name   string
	Amount string
	Source string
}

// Adapter converts a raw tabular export (header + rows) for one
// institution into canonical rows.
type Adapter interface {
	// Source returns the institution identifier, e.g. "chase".
	Source() string
	// Map produces canonical rows, or a *SchemaError if a required
	// canonical field cannot be located in the header.
	Map(header []string, rows [][]string) ([]Row, error)
}

// Registry holds adapters keyed by source identifier.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter. Panics on duplicate source.
func (r *Registry) Register(a Adapter) {
	key := strings.ToLower(a.Source())
	if _, ok := r.adapters[key]; ok {
		panic("duplicate adapter source: " + key)
	}
	r.adapters[key] = a
}

// Get returns the adapter for source, or nil.
func (r *Registry) Get(source string) Adapter {
	return r.adapters[strings.ToLower(source)]
}

// Sources returns the registered source identifiers.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		out = append(out, k)
	}
	return out
}

// Default returns a registry with all built-in adapters.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Chase())
	r.Register(Discover())
	r.Register(Citi())
	return r
}

// UnknownSourceError means no adapter is registered for a source.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("no adapter registered for source %q", e.Source)
}

// SchemaError means a required canonical field was absent after aliasing.
// It aborts the whole file: a misidentified column risks systematically
// wrong amounts or dates.
type SchemaError struct {
	Source  string
	Missing string   // canonical field that could not be located
	Headers []string // headers actually present, as found in the file
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %q: required field %q not found (headers: %s)",
		e.Source, e.Missing, strings.Join(e.Headers, ", "))
}
