package ogm

import "strings"

// Registry resolves entity type names to registered *Type metadata. Types are
// expected to register during package init; lookups after that are read-only.
type Registry struct {
	types map[string]*Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds a type under its namespace-qualified name. Registering the
// same name twice replaces the earlier entry.
func (r *Registry) Register(t *Type) {
	r.types[t.key()] = t
}

// Lookup returns the type registered as namespace.name, or nil.
func (r *Registry) Lookup(namespace, name string) *Type {
	return r.types[namespace+"."+name]
}

// DefaultRegistry backs the package-level declaration constructors. Entity
// packages register their types here from init.
var DefaultRegistry = NewRegistry()

// Register adds a type to the default registry.
func Register(t *Type) {
	DefaultRegistry.Register(t)
}

// splitTypeName splits a dotted type name into its namespace and bare name.
// A name without a dot has an empty namespace and resolves against the
// declaring entity's own namespace.
func splitTypeName(s string) (namespace, name string) {
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}
