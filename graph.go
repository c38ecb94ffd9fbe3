package featgraph

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/featgraph/featgraph/textio"
)

// Graph aggregates a registry, an id allocator and the features of one
// pipeline, in insertion order. All construction state lives on the graph;
// there are no process-wide registries or counters.
//
// Graph is not safe for concurrent use. Topology changes are expected to
// complete before steady-state evaluation begins.
type Graph struct {
	registry *Registry
	ids      IDAllocator

	features FeatureMap
	order    []string

	log logr.Logger
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithLogger sets the logger used by the graph. The default discards
// everything.
func WithLogger(log logr.Logger) GraphOption {
	return func(g *Graph) {
		g.log = log
	}
}

// NewGraph creates an empty graph. A nil registry gets a fresh one with only
// the raw-input kind registered.
func NewGraph(reg *Registry, opts ...GraphOption) *Graph {
	if reg == nil {
		reg = NewRegistry()
	}
	g := &Graph{
		registry: reg,
		features: make(FeatureMap),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Registry returns the registry features of this graph deserialize through.
func (g *Graph) Registry() *Registry {
	return g.registry
}

// NextID allocates a fresh feature id unique within this graph.
func (g *Graph) NextID() string {
	return g.ids.NextID()
}

// Add registers a feature. Duplicate ids are rejected.
func (g *Graph) Add(f Feature) error {
	if err := g.features.Add(f); err != nil {
		return err
	}
	g.order = append(g.order, f.ID())
	return nil
}

// Get looks up a feature by id.
func (g *Graph) Get(id string) (Feature, bool) {
	return g.features.Get(id)
}

// Features returns all features in insertion order.
func (g *Graph) Features() []Feature {
	fs := make([]Feature, 0, len(g.order))
	for _, id := range g.order {
		fs = append(fs, g.features[id])
	}
	return fs
}

// Len returns the number of features.
func (g *Graph) Len() int {
	return len(g.order)
}

// Terminals returns the features no other feature depends on, in insertion
// order. These are the pipeline outputs an external driver pulls.
func (g *Graph) Terminals() []Feature {
	var terminals []Feature
	for _, f := range g.Features() {
		if len(f.GetDependents()) == 0 {
			terminals = append(terminals, f)
		}
	}
	return terminals
}

// Serialize writes every feature as one description line, in dependency
// order: each input appears before any feature that references it, so the
// output can be decoded back in file order.
func (g *Graph) Serialize(w io.Writer) error {
	order, err := g.topologicalOrder()
	if err != nil {
		return err
	}
	for _, id := range order {
		if err := g.features[id].Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes an indented human-readable rendering of the graph, one feature
// per line with its upstream edges below it.
func (g *Graph) Dump(w io.Writer) error {
	tw := textio.NewWriter()
	for _, f := range g.Features() {
		tw.Write(f.ID()).Write(" (").Write(f.Kind()).Write(", ")
		tw.WriteInt(f.NumColumns()).Write(" cols)").WriteNewLine()
		tw.IncreaseIndent()
		for _, in := range f.GetInputs() {
			tw.Write("<- ").Write(in.ID()).WriteNewLine()
		}
		tw.DecreaseIndent()
	}
	if _, err := io.WriteString(w, tw.String()); err != nil {
		return fmt.Errorf("dump graph: %w", err)
	}
	return nil
}
