package featgraph

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// InputFeature is the raw-input sentinel: the designated kind representing
// externally supplied data. It has no inputs of its own; an external driver
// pushes frames into it with SetFrame, which dirties the downstream subgraph.
type InputFeature struct {
	*Base

	frame []float64
}

var _ Feature = (*InputFeature)(nil)

// NewInputFeature creates a raw-input feature of the given width. Until the
// first SetFrame its output is the zero vector.
func NewInputFeature(id string, numColumns int) *InputFeature {
	f := &InputFeature{
		frame: make([]float64, numColumns),
	}
	f.Base = NewBase(id, KindInput, numColumns, f.currentFrame, nil,
		WithDescribe(func() []string {
			return []string{strconv.Itoa(numColumns)}
		}),
	)
	return f
}

func (f *InputFeature) currentFrame(_ []Feature) ([]float64, error) {
	return f.frame, nil
}

func (f *InputFeature) IsRawInput() bool {
	return true
}

// SetFrame stores a new raw frame and push-invalidates every transitive
// dependent.
func (f *InputFeature) SetFrame(frame []float64) error {
	if len(frame) != f.NumColumns() {
		return fmt.Errorf("input %s: %w: frame has %d columns, %d declared",
			f.ID(), ErrColumnMismatch, len(frame), f.NumColumns())
	}
	f.frame = slices.Clone(frame)
	f.SetDirtyFlag(true)
	return nil
}

func inputFactory(tokens []string, _ FeatureMap) (Feature, error) {
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: input feature wants [id kind columns], got %d tokens",
			ErrBadDescription, len(tokens))
	}
	columns, err := strconv.Atoi(strings.TrimSpace(tokens[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad column count %q: %v", ErrBadDescription, tokens[2], err)
	}
	if columns <= 0 {
		return nil, fmt.Errorf("%w: column count must be positive, got %d", ErrBadDescription, columns)
	}
	return NewInputFeature(tokens[0], columns), nil
}
