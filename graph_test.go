package featgraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGraphAdd(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		g := NewGraph(nil)
		assert.NoError(t, g.Add(NewInputFeature("b", 1)))
		assert.NoError(t, g.Add(NewInputFeature("a", 1)))

		fs := g.Features()
		assert.Equal(t, 2, len(fs))
		assert.Equal(t, "b", fs[0].ID())
		assert.Equal(t, "a", fs[1].ID())
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		g := NewGraph(nil)
		assert.NoError(t, g.Add(NewInputFeature("a", 1)))
		err := g.Add(NewInputFeature("a", 1))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrFeatureExists))
		assert.Equal(t, 1, g.Len())
	})
}

func TestGraphNextID(t *testing.T) {
	g := NewGraph(nil)
	assert.Equal(t, "f_0", g.NextID())
	assert.Equal(t, "f_1", g.NextID())

	// A second graph numbers independently.
	g2 := NewGraph(nil)
	assert.Equal(t, "f_0", g2.NextID())
}

func TestGraphTerminals(t *testing.T) {
	g := NewGraph(nil)
	in := NewInputFeature("in", 1)
	s1 := newSumFeature("s1", nil)
	s2 := newSumFeature("s2", nil)
	Connect(in, s1)
	Connect(in, s2)
	assert.NoError(t, g.Add(in))
	assert.NoError(t, g.Add(s1))
	assert.NoError(t, g.Add(s2))

	terminals := g.Terminals()
	assert.Equal(t, 2, len(terminals))
	assert.Equal(t, "s1", terminals[0].ID())
	assert.Equal(t, "s2", terminals[1].ID())
}

func TestGraphSerializeOrder(t *testing.T) {
	// Features added out of dependency order still serialize inputs first.
	g := NewGraph(nil)
	in := NewInputFeature("in", 1)
	sum := newSumFeature("sum", nil)
	Connect(in, sum)
	assert.NoError(t, g.Add(sum))
	assert.NoError(t, g.Add(in))

	var sb strings.Builder
	assert.NoError(t, g.Serialize(&sb))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	assert.Equal(t, 2, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "in\t"))
	assert.True(t, strings.HasPrefix(lines[1], "sum\t"))
}

func TestGraphValidate(t *testing.T) {
	t.Run("valid graph passes", func(t *testing.T) {
		g := NewGraph(nil)
		in := NewInputFeature("in", 1)
		sum := newSumFeature("sum", nil)
		Connect(in, sum)
		assert.NoError(t, g.Add(in))
		assert.NoError(t, g.Add(sum))
		assert.NoError(t, g.Validate())
	})

	t.Run("cycle is detected", func(t *testing.T) {
		g := NewGraph(nil)
		a := newSumFeature("a", nil)
		b := newSumFeature("b", nil)
		Connect(a, b)
		Connect(b, a)
		assert.NoError(t, g.Add(a))
		assert.NoError(t, g.Add(b))

		err := g.Validate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCycleDetected))
	})

	t.Run("one-sided forward edge is reported", func(t *testing.T) {
		g := NewGraph(nil)
		in := NewInputFeature("in", 1)
		sum := newSumFeature("sum", nil)
		sum.AddInputFeature(in) // back-reference never paired
		assert.NoError(t, g.Add(in))
		assert.NoError(t, g.Add(sum))

		err := g.Validate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrEdgeMismatch))
	})

	t.Run("one-sided back edge is reported", func(t *testing.T) {
		g := NewGraph(nil)
		in := NewInputFeature("in", 1)
		sum := newSumFeature("sum", nil)
		in.AddDependent(sum) // forward edge never paired
		assert.NoError(t, g.Add(in))
		assert.NoError(t, g.Add(sum))

		err := g.Validate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrEdgeMismatch))
	})

	t.Run("input outside the graph is reported", func(t *testing.T) {
		g := NewGraph(nil)
		in := NewInputFeature("in", 1)
		sum := newSumFeature("sum", nil)
		Connect(in, sum)
		assert.NoError(t, g.Add(sum)) // in never added

		err := g.Validate()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidGraph))
	})

	t.Run("serialize fails on a cyclic graph", func(t *testing.T) {
		g := NewGraph(nil)
		a := newSumFeature("a", nil)
		b := newSumFeature("b", nil)
		Connect(a, b)
		Connect(b, a)
		assert.NoError(t, g.Add(a))
		assert.NoError(t, g.Add(b))

		err := g.Serialize(&strings.Builder{})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCycleDetected))
	})
}

func TestGraphDump(t *testing.T) {
	g := NewGraph(nil)
	in := NewInputFeature("in", 2)
	sum := newSumFeature("sum", nil)
	Connect(in, sum)
	assert.NoError(t, g.Add(in))
	assert.NoError(t, g.Add(sum))

	var sb strings.Builder
	assert.NoError(t, g.Dump(&sb))

	assert.Equal(t,
		"in (Input, 2 cols)\n"+
			"sum (Sum, 1 cols)\n"+
			"    <- in\n",
		sb.String())
}
