// Package featgraph implements a directed-acyclic dependency graph of
// feature nodes for incremental signal/feature-extraction pipelines, e.g. an
// embedded sensor or audio front-end feeding a downstream model.
//
// # Overview
//
// Each Feature produces a fixed-width float64 vector derived from zero or
// more upstream features. Evaluation is pull-based and cached: a terminal
// feature's GetOutput lazily recomputes the minimum necessary, and new raw
// data is push-invalidated from the raw-input sentinel through the dependent
// back-edges.
//
//	reg := featgraph.NewRegistry()
//	g := featgraph.NewGraph(reg)
//
//	in := featgraph.NewInputFeature(g.NextID(), 2)
//	sum := featgraph.NewBase(g.NextID(), "Sum", 1, sumCompute, nil)
//	featgraph.Connect(in, sum)
//	g.Add(in)
//	g.Add(sum)
//
//	out, err := sum.GetOutput() // computes
//	in.SetFrame([]float64{1, 2}) // dirties sum
//	out, err = sum.GetOutput()   // recomputes
//
// # Caching contract
//
// A fresh feature is dirty. GetOutput computes iff the feature is dirty or
// the cache is empty, then clears only the local flag. SetDirtyFlag(true)
// cascades to every transitive dependent; SetDirtyFlag(false) never cascades.
// Reset dirties a feature and all its transitive dependents. HasOutput is
// literally the negation of the dirty flag and makes no promise about the
// cache.
//
// # Serialization
//
// A feature serializes to one tab-separated line:
//
//	<id>\t<kind>\t<input-id-1>...\t<kind-specific-field-1>...
//
// Graph.Serialize emits lines in dependency order; ReadGraph decodes them in
// file order, resolving input references through a FeatureMap and dispatching
// kinds through an explicit Registry. An input id not defined on an earlier
// line is a hard failure, as is an unregistered kind; a failed line
// contributes nothing.
//
// # Ownership
//
// Inputs are forward references that keep upstream features reachable;
// dependents are back-references only and carry no ownership semantics. Use
// Connect to add an edge so both sides stay in sync, and Graph.Validate to
// check acyclicity and edge consistency.
//
// # Thread safety
//
// Nothing in this package is safe for concurrent use. Callers must serialize
// all graph construction, evaluation and invalidation externally; see the
// kfeed package for a driver that gives each routine its own graph.
package featgraph
