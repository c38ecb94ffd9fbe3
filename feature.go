package featgraph

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// KindInput is the reserved kind tag of the raw-input sentinel. It is
// registered in every Registry created with NewRegistry.
const KindInput = "Input"

// Feature is a vertex in a feature-extraction DAG. Each feature produces a
// fixed-width float64 vector derived from zero or more upstream features.
// Evaluation is pull-based and cached: GetOutput recomputes only when the
// feature is dirty, and invalidation is pushed downstream through the
// dependent back-edges via SetDirtyFlag.
//
// Features are not safe for concurrent use. Callers must serialize all graph
// traversal and mutation externally.
type Feature interface {
	// ID returns the process-unique identity, immutable after construction.
	ID() string

	// Kind returns the type tag used for serialization and registry lookup.
	Kind() string

	// NumColumns returns the fixed output width.
	NumColumns() int

	// HasOutput reports the negation of the dirty flag. It does not
	// guarantee a populated cache: a caller toggling the flag outside the
	// normal compute/invalidate sequence can observe true without any value
	// ever having been computed. This is the documented contract.
	HasOutput() bool

	// GetOutput returns the output vector, recomputing it first if the
	// feature is dirty or the cache is empty. Repeated calls with no
	// intervening invalidation compute at most once. Clearing the dirty
	// flag here never cascades to dependents. The returned slice is a
	// copy; mutating it does not touch the cache.
	GetOutput() ([]float64, error)

	// Reset marks this feature dirty and recursively resets every
	// dependent, forcing full-subtree recomputation.
	Reset()

	// WarmupTime returns the number of initial input frames this feature
	// must observe before its output is considered valid. The default is
	// the maximum over all inputs, 0 for a feature without inputs.
	WarmupTime() int

	// SetDirtyFlag sets the local flag. Setting it to true cascades to
	// every dependent; setting it to false affects only this feature.
	SetDirtyFlag(dirty bool)

	// GetInputs returns the upstream features in positionally significant
	// order.
	GetInputs() []Feature

	// GetDependents returns the downstream back-references.
	GetDependents() []Feature

	// AddInputFeature and AddDependent are one-sided graph-construction
	// primitives. Use Connect to keep both sides of an edge in sync.
	AddInputFeature(f Feature)
	AddDependent(f Feature)

	// GetDescription returns the ordered token sequence
	// [id, kind, input ids..., kind-specific fields...].
	GetDescription() []string

	// GetColumnDescriptions returns one label per output column.
	GetColumnDescriptions() []string

	// Serialize writes the description tokens tab-separated, newline
	// terminated.
	Serialize(w io.Writer) error

	// FindInputFeature walks only the first input, recursively, looking
	// for the raw-input sentinel. Inputs beyond index 0 are never
	// inspected at any level; pipelines are expected to be linear chains.
	FindInputFeature() (Feature, bool)

	// IsRawInput reports whether this feature is the raw-input sentinel.
	IsRawInput() bool
}

// ComputeFunc produces the output vector of a feature from its inputs. The
// returned slice must have exactly the declared number of columns.
type ComputeFunc func(inputs []Feature) ([]float64, error)

// Option configures a Base during construction.
type Option func(*Base)

// WithDescribe appends kind-specific tokens to the feature description.
func WithDescribe(fn func() []string) Option {
	return func(b *Base) {
		b.describe = fn
	}
}

// WithWarmup overrides the default warmup computation. The hook receives the
// input features so kinds with internal buffering can extend the inherited
// maximum.
func WithWarmup(fn func(inputs []Feature) int) Option {
	return func(b *Base) {
		b.warmup = fn
	}
}

// Base carries the shared feature contract: identity, edges, the dirty flag
// and the cached output. Concrete kinds embed *Base and provide their compute
// step, so the graph itself never contains numeric kernels.
type Base struct {
	id         string
	kind       string
	numColumns int

	inputs     []Feature
	dependents []Feature

	dirty  bool
	cached []float64

	compute  ComputeFunc
	describe func() []string
	warmup   func(inputs []Feature) int
}

var _ Feature = (*Base)(nil)

// NewBase constructs the shared part of a feature. A fresh feature is dirty
// until its first successful GetOutput. The inputs slice is adopted as-is;
// callers must pair the dependent back-edges, typically via Connect or
// Graph.AddDescription.
func NewBase(id, kind string, numColumns int, compute ComputeFunc, inputs []Feature, opts ...Option) *Base {
	b := &Base{
		id:         id,
		kind:       kind,
		numColumns: numColumns,
		inputs:     inputs,
		dirty:      true,
		compute:    compute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Base) ID() string {
	return b.id
}

func (b *Base) Kind() string {
	return b.kind
}

func (b *Base) NumColumns() int {
	return b.numColumns
}

func (b *Base) HasOutput() bool {
	return !b.dirty
}

func (b *Base) GetOutput() ([]float64, error) {
	if b.dirty || len(b.cached) == 0 {
		out, err := b.compute(b.inputs)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", b.id, err)
		}
		if len(out) != b.numColumns {
			return nil, fmt.Errorf("feature %s: %w: compute produced %d columns, %d declared",
				b.id, ErrColumnMismatch, len(out), b.numColumns)
		}
		b.cached = out
		// Clear only the local flag; clearing never cascades.
		b.dirty = false
	}
	return slices.Clone(b.cached), nil
}

func (b *Base) Reset() {
	b.dirty = true
	for _, d := range b.dependents {
		d.Reset()
	}
}

func (b *Base) WarmupTime() int {
	if b.warmup != nil {
		return b.warmup(b.inputs)
	}
	return MaxWarmupTime(b.inputs)
}

// MaxWarmupTime returns the maximum WarmupTime over the given features, 0 for
// an empty slice. Kinds overriding their warmup usually add their own buffer
// length on top of this.
func MaxWarmupTime(inputs []Feature) int {
	maxTime := 0
	for _, in := range inputs {
		if w := in.WarmupTime(); w > maxTime {
			maxTime = w
		}
	}
	return maxTime
}

func (b *Base) SetDirtyFlag(dirty bool) {
	b.dirty = dirty
	if dirty {
		for _, d := range b.dependents {
			d.SetDirtyFlag(true)
		}
	}
}

func (b *Base) GetInputs() []Feature {
	return b.inputs
}

func (b *Base) GetDependents() []Feature {
	return b.dependents
}

func (b *Base) AddInputFeature(f Feature) {
	b.inputs = append(b.inputs, f)
}

func (b *Base) AddDependent(f Feature) {
	b.dependents = append(b.dependents, f)
}

func (b *Base) GetDescription() []string {
	desc := make([]string, 0, len(b.inputs)+2)
	desc = append(desc, b.id, b.kind)
	for _, in := range b.inputs {
		desc = append(desc, in.ID())
	}
	if b.describe != nil {
		desc = append(desc, b.describe()...)
	}
	return desc
}

func (b *Base) GetColumnDescriptions() []string {
	descs := make([]string, b.numColumns)
	for i := range descs {
		descs[i] = fmt.Sprintf("%s_%d", b.kind, i)
	}
	return descs
}

func (b *Base) Serialize(w io.Writer) error {
	if _, err := io.WriteString(w, strings.Join(b.GetDescription(), "\t")+"\n"); err != nil {
		return fmt.Errorf("serialize feature %s: %w", b.id, err)
	}
	return nil
}

func (b *Base) FindInputFeature() (Feature, bool) {
	if len(b.inputs) == 0 {
		return nil, false
	}
	first := b.inputs[0]
	if first.IsRawInput() {
		return first, true
	}
	return first.FindInputFeature()
}

func (b *Base) IsRawInput() bool {
	return false
}

// Connect wires input as an upstream of dependent, updating both the forward
// edge and the back-reference in one step so the mirrored-edge invariant
// cannot drift.
func Connect(input, dependent Feature) {
	dependent.AddInputFeature(input)
	input.AddDependent(dependent)
}
