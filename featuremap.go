package featgraph

import "fmt"

// FeatureMap accumulates reconstructed features during one deserialization
// pass, keyed by id. Factories query it to resolve input references; ids not
// yet present are a caller error, since inputs must be fully defined earlier
// in the stream. The map is transient and not persisted.
type FeatureMap map[string]Feature

// Add inserts a fully constructed feature. Duplicate ids are rejected; no
// partially initialized feature is ever inserted.
func (m FeatureMap) Add(f Feature) error {
	if _, exists := m[f.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrFeatureExists, f.ID())
	}
	m[f.ID()] = f
	return nil
}

// Get looks up a feature by id.
func (m FeatureMap) Get(id string) (Feature, bool) {
	f, ok := m[id]
	return f, ok
}

// ResolveInputs maps the given ids to already-reconstructed features. Any
// unknown id is a hard failure.
func (m FeatureMap) ResolveInputs(ids []string) ([]Feature, error) {
	inputs := make([]Feature, 0, len(ids))
	for _, id := range ids {
		f, ok := m[id]
		if !ok {
			return nil, fmt.Errorf("%w: input %q not defined before its dependent", ErrFeatureNotFound, id)
		}
		inputs = append(inputs, f)
	}
	return inputs, nil
}
