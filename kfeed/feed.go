// Package kfeed drives featgraph pipelines from Kafka: raw frames are
// consumed from an input topic, pushed into a pipeline's raw-input feature,
// and the terminal feature vectors are produced to an output topic.
//
// The graph itself is single-threaded, so every consumer routine owns a
// private pipeline built by the PipelineBuilder; routines never share
// features.
package kfeed

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/featgraph/featgraph"
)

// Pipeline is one routine's private evaluation unit: a graph, the raw-input
// feature frames are pushed into, and the terminal features whose vectors
// are produced downstream.
type Pipeline struct {
	Graph   *featgraph.Graph
	Input   *featgraph.InputFeature
	Outputs []featgraph.Feature
}

// PipelineBuilder creates a fresh, fully wired pipeline. It is invoked once
// per routine.
type PipelineBuilder func() (*Pipeline, error)

// Feed consumes frames from an input topic and produces feature vectors to
// an output topic, one record per terminal feature per frame, keyed by the
// feature id.
type Feed struct {
	brokers     []string
	group       string
	inputTopic  string
	outputTopic string

	numRoutines int
	pollTimeout time.Duration

	build PipelineBuilder
	log   logr.Logger

	// mu guards routines and eg; Close may run from another goroutine
	// while Run is still starting up.
	mu       sync.Mutex
	routines []*routine
	eg       *errgroup.Group
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logr.Logger) FeedOption {
	return func(f *Feed) {
		f.log = log
	}
}

// WithNumRoutines sets how many consumer routines to run. Each routine gets
// its own client and its own pipeline.
func WithNumRoutines(n int) FeedOption {
	return func(f *Feed) {
		f.numRoutines = n
	}
}

// WithGroup sets the consumer group name.
func WithGroup(group string) FeedOption {
	return func(f *Feed) {
		f.group = group
	}
}

// WithPollTimeout sets the per-poll timeout.
func WithPollTimeout(d time.Duration) FeedOption {
	return func(f *Feed) {
		f.pollTimeout = d
	}
}

// New creates a Feed.
func New(brokers []string, inputTopic, outputTopic string, build PipelineBuilder, opts ...FeedOption) *Feed {
	f := &Feed{
		brokers:     brokers,
		group:       "featgraph-feed",
		inputTopic:  inputTopic,
		outputTopic: outputTopic,
		numRoutines: 1,
		pollTimeout: 10 * time.Second,
		build:       build,
		log:         logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run blocks until all routines exit, either by an error or by a graceful
// shutdown triggered by Close.
func (f *Feed) Run() error {
	routines := make([]*routine, 0, f.numRoutines)
	for i := 0; i < f.numRoutines; i++ {
		pipeline, err := f.build()
		if err != nil {
			return fmt.Errorf("build pipeline: %w", err)
		}
		if err := validatePipeline(pipeline); err != nil {
			return err
		}

		r, err := newRoutine(f.log.WithName(fmt.Sprintf("routine-%d", i)), f, pipeline)
		if err != nil {
			return err
		}
		routines = append(routines, r)
	}

	grp := &errgroup.Group{}
	f.mu.Lock()
	f.routines = routines
	f.eg = grp
	for _, r := range routines {
		grp.Go(r.run)
	}
	f.mu.Unlock()

	return grp.Wait()
}

// Close requests a graceful shutdown and waits for Run to return. Closing a
// feed that was never run is a no-op.
func (f *Feed) Close() error {
	f.mu.Lock()
	routines := f.routines
	eg := f.eg
	f.mu.Unlock()

	for _, r := range routines {
		r.requestClose()
	}
	if eg != nil {
		return eg.Wait()
	}
	return nil
}

func validatePipeline(p *Pipeline) error {
	if p.Input == nil {
		return fmt.Errorf("pipeline has no raw-input feature")
	}
	if len(p.Outputs) == 0 {
		return fmt.Errorf("pipeline has no output features")
	}
	if p.Graph != nil {
		if err := p.Graph.Validate(); err != nil {
			return fmt.Errorf("pipeline graph: %w", err)
		}
	}
	return nil
}
