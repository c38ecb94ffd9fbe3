package featgraph

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Validation limits to prevent pathological cases.
const (
	MaxFeaturesPerGraph = 10000
	MaxDepth            = 500
)

// Validate checks the structural invariants of the graph: acyclicity,
// mirrored input/dependent edges, and that every referenced input is itself a
// member. All violations are collected and returned as one error.
func (g *Graph) Validate() error {
	if len(g.features) > MaxFeaturesPerGraph {
		return fmt.Errorf("%w: feature count %d exceeds maximum %d",
			ErrInvalidGraph, len(g.features), MaxFeaturesPerGraph)
	}

	var errs error
	errs = multierr.Append(errs, g.detectCycles())
	errs = multierr.Append(errs, g.validateEdges())
	return errs
}

// detectCycles runs a DFS along the input edges of every feature. A feature
// appearing in its own transitive inputs closure is a cycle.
func (g *Graph) detectCycles() error {
	visited := make(map[string]bool, len(g.features))
	recStack := make(map[string]bool, len(g.features))

	var dfs func(f Feature, path []string, depth int) error
	dfs = func(f Feature, path []string, depth int) error {
		if depth > MaxDepth {
			return fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidGraph, MaxDepth)
		}

		id := f.ID()
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, in := range f.GetInputs() {
			if !visited[in.ID()] {
				if err := dfs(in, path, depth+1); err != nil {
					return err
				}
			} else if recStack[in.ID()] {
				cycle := append(path, in.ID())
				return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(cycle, " -> "))
			}
		}

		recStack[id] = false
		return nil
	}

	for _, id := range g.order {
		if !visited[id] {
			if err := dfs(g.features[id], nil, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateEdges checks that every forward edge has its back-reference and
// vice versa, and that no feature references an input outside the graph.
func (g *Graph) validateEdges() error {
	var errs error
	for _, id := range g.order {
		f := g.features[id]
		for _, in := range f.GetInputs() {
			if _, ok := g.features[in.ID()]; !ok {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s references input %s not in graph",
					ErrInvalidGraph, id, in.ID()))
				continue
			}
			if !hasFeature(in.GetDependents(), id) {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s lists input %s, but %s does not list it as dependent",
					ErrEdgeMismatch, id, in.ID(), in.ID()))
			}
		}
		for _, d := range f.GetDependents() {
			if !hasFeature(d.GetInputs(), id) {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s lists dependent %s, but %s does not list it as input",
					ErrEdgeMismatch, id, d.ID(), d.ID()))
			}
		}
	}
	return errs
}

func hasFeature(fs []Feature, id string) bool {
	for _, f := range fs {
		if f.ID() == id {
			return true
		}
	}
	return false
}

// topologicalOrder returns the feature ids in dependency order (inputs before
// dependents) using Kahn's algorithm. Ties are broken by insertion order so
// the result is deterministic and a round trip through Serialize/ReadGraph is
// stable.
func (g *Graph) topologicalOrder() ([]string, error) {
	rank := make(map[string]int, len(g.order))
	for i, id := range g.order {
		rank[id] = i
	}

	inDegree := make(map[string]int, len(g.features))
	for _, id := range g.order {
		inDegree[id] = len(g.features[id].GetInputs())
	}

	queue := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	result := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		for _, d := range g.features[id].GetDependents() {
			did := d.ID()
			if _, ok := inDegree[did]; !ok {
				continue // dependent outside the graph, caught by Validate
			}
			inDegree[did]--
			if inDegree[did] == 0 {
				queue = insertByRank(queue, did, rank)
			}
		}
	}

	if len(result) != len(g.order) {
		return nil, fmt.Errorf("%w: topological sort failed", ErrCycleDetected)
	}
	return result, nil
}

// insertByRank inserts id into queue keeping it sorted by insertion rank.
func insertByRank(queue []string, id string, rank map[string]int) []string {
	idx := sort.Search(len(queue), func(i int) bool {
		return rank[queue[i]] >= rank[id]
	})
	queue = append(queue, "")
	copy(queue[idx+1:], queue[idx:])
	queue[idx] = id
	return queue
}
