package featgraph

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Factory reconstructs a feature from its description tokens, resolving any
// token-encoded input ids through the feature map. A factory either fully
// constructs a valid feature or fails.
type Factory func(tokens []string, features FeatureMap) (Feature, error)

// Registry maps kind tags to factories. It replaces the usual process-global
// type map with an explicit object passed to deserialization call sites, so
// tests can use isolated registries.
//
// Registry is not safe for concurrent use; populate it before any
// deserialization begins.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the raw-input sentinel kind
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}
	r.Register(KindInput, inputFactory)
	return r
}

// Register inserts or overwrites the factory for a kind. There is no removal
// operation.
func (r *Registry) Register(kind string, fn Factory) {
	r.factories[kind] = fn
}

// Kinds returns the registered kind tags, sorted.
func (r *Registry) Kinds() []string {
	kinds := maps.Keys(r.factories)
	slices.Sort(kinds)
	return kinds
}

// Create looks up the factory for kind and delegates to it.
func (r *Registry) Create(kind string, tokens []string, features FeatureMap) (Feature, error) {
	fn, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return fn(tokens, features)
}

// FromDescription reconstructs a feature from the token sequence
// [id, kind, ...]. Id and kind are trimmed of surrounding whitespace before
// the kind is dispatched through the registry.
func (r *Registry) FromDescription(tokens []string, features FeatureMap) (Feature, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: want at least [id kind], got %d tokens", ErrBadDescription, len(tokens))
	}
	tokens = slices.Clone(tokens)
	tokens[0] = strings.TrimSpace(tokens[0])
	tokens[1] = strings.TrimSpace(tokens[1])
	return r.Create(tokens[1], tokens, features)
}

// IDAllocator hands out ids of the form "f_0", "f_1", ... Each graph owns its
// own allocator, so isolated graphs number their features independently.
type IDAllocator struct {
	next int
}

// NextID returns a fresh id.
func (a *IDAllocator) NextID() string {
	id := fmt.Sprintf("f_%d", a.next)
	a.next++
	return id
}
