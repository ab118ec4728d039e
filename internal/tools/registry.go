// Package tools implements the Tool Registry, Path Sanitizer, and Tool
// Executor: the gateway's sandboxed local capability surface (spec §4.1-4.3).
package tools

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Registry is the static, immutable catalog of tools the gateway exposes.
// It is safe for concurrent, lock-free reads once built (spec §5 "Shared
// resources").
type Registry struct {
	byName  map[string]ToolDescriptor
	schemas map[string]*jsonschema.Schema
	order   []string
}

// NewRegistry compiles the fixed tool catalog, including a one-time
// jsonschema.CompileString pass over each descriptor's parameter schema so
// argument validation has real teeth instead of being prompt-only
// decoration (spec SPEC_FULL.md §4.1).
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]ToolDescriptor, len(catalog)),
		schemas: make(map[string]*jsonschema.Schema, len(catalog)),
		order:   make([]string, 0, len(catalog)),
	}

	for _, d := range catalog {
		raw, err := json.Marshal(d.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshaling schema for %s: %w", d.Name, err)
		}
		schema, err := jsonschema.CompileString(d.Name, string(raw))
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", d.Name, err)
		}
		r.byName[d.Name] = d
		r.schemas[d.Name] = schema
		r.order = append(r.order, d.Name)
	}

	return r, nil
}

// IsKnown reports whether name is a registered tool.
func (r *Registry) IsKnown(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Descriptors returns the catalog in stable, declaration order — the same
// slice is advertised on every loop iteration that offers tools (spec §4.5).
func (r *Registry) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

func (r *Registry) descriptor(name string) (ToolDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func (r *Registry) schema(name string) *jsonschema.Schema {
	return r.schemas[name]
}
