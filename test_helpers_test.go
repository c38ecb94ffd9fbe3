package featgraph

import (
	"fmt"
	"strconv"
	"strings"
)

// Test kinds used across the package tests. Sum adds all columns of all
// inputs into one column; Window passes its input through but needs `window`
// frames of warmup and carries the window length as an extra description
// token.
const (
	kindSum    = "Sum"
	kindWindow = "Window"
)

// newCountingFeature returns a feature whose compute step counts its own
// invocations. Every column of the output carries the current count.
func newCountingFeature(id string, columns int, inputs ...Feature) (Feature, *int) {
	calls := new(int)
	compute := func(_ []Feature) ([]float64, error) {
		*calls++
		out := make([]float64, columns)
		for i := range out {
			out[i] = float64(*calls)
		}
		return out, nil
	}
	return NewBase(id, "Counting", columns, compute, inputs), calls
}

func newSumFeature(id string, inputs []Feature) Feature {
	compute := func(ins []Feature) ([]float64, error) {
		total := 0.0
		for _, in := range ins {
			vec, err := in.GetOutput()
			if err != nil {
				return nil, err
			}
			for _, v := range vec {
				total += v
			}
		}
		return []float64{total}, nil
	}
	return NewBase(id, kindSum, 1, compute, inputs)
}

func sumFactory(tokens []string, features FeatureMap) (Feature, error) {
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: sum wants at least one input", ErrBadDescription)
	}
	inputs, err := features.ResolveInputs(tokens[2:])
	if err != nil {
		return nil, err
	}
	return newSumFeature(tokens[0], inputs), nil
}

func newWindowFeature(id string, input Feature, window int) Feature {
	compute := func(ins []Feature) ([]float64, error) {
		return ins[0].GetOutput()
	}
	return NewBase(id, kindWindow, input.NumColumns(), compute, []Feature{input},
		WithDescribe(func() []string {
			return []string{strconv.Itoa(window)}
		}),
		WithWarmup(func(ins []Feature) int {
			return MaxWarmupTime(ins) + window
		}),
	)
}

func windowFactory(tokens []string, features FeatureMap) (Feature, error) {
	if len(tokens) != 4 {
		return nil, fmt.Errorf("%w: window wants [id kind input window], got %d tokens",
			ErrBadDescription, len(tokens))
	}
	inputs, err := features.ResolveInputs(tokens[2:3])
	if err != nil {
		return nil, err
	}
	window, err := strconv.Atoi(strings.TrimSpace(tokens[3]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad window %q", ErrBadDescription, tokens[3])
	}
	return newWindowFeature(tokens[0], inputs[0], window), nil
}

// newTestRegistry returns a registry with the test kinds registered on top of
// the built-in input kind.
func newTestRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(kindSum, sumFactory)
	reg.Register(kindWindow, windowFactory)
	return reg
}
