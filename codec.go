package featgraph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AddDescription decodes one description line (already split into tokens)
// and registers the result. The feature's input ids are resolved by the
// kind's factory against everything decoded so far; after the feature is
// accepted, the dependent back-edges its inputs imply are paired. A failed
// line contributes nothing to the graph.
func (g *Graph) AddDescription(tokens []string) error {
	f, err := g.registry.FromDescription(tokens, g.features)
	if err != nil {
		return err
	}
	if err := g.Add(f); err != nil {
		return err
	}
	for _, in := range f.GetInputs() {
		in.AddDependent(f)
	}
	g.log.V(1).Info("decoded feature", "id", f.ID(), "kind", f.Kind(), "inputs", len(f.GetInputs()))
	return nil
}

// ReadGraph decodes tab-separated description lines, in file order, into a
// fresh graph. Inputs must appear before any feature that references them;
// an unresolved input id fails the read. Blank lines are skipped.
func ReadGraph(r io.Reader, reg *Registry, opts ...GraphOption) (*Graph, error) {
	g := NewGraph(reg, opts...)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := g.AddDescription(strings.Split(line, "\t")); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	g.log.Info("graph decoded", "features", g.Len())
	return g, nil
}
