package kfeed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/featgraph/featgraph"
)

// routine is one consumer loop with a private pipeline. It tracks how many
// frames it has seen so it can honor the pipeline's warmup time before the
// first produce.
type routine struct {
	client *kgo.Client
	log    logr.Logger

	pipeline    *Pipeline
	outputTopic string
	pollTimeout time.Duration

	warmup     int
	framesSeen int

	// produce sends one feature vector downstream. Installed by newRoutine;
	// an indirection so the evaluation path can be driven without a broker.
	produce func(featureID string, vec []float64)

	closeRequested chan struct{}

	futuresWg sync.WaitGroup
	futuresMu sync.Mutex
	futures   []error
}

func newRoutine(log logr.Logger, f *Feed, pipeline *Pipeline) (*routine, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(f.brokers...),
		kgo.ConsumerGroup(f.group),
		kgo.ConsumeTopics(f.inputTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	r := &routine{
		client:         client,
		log:            log,
		pipeline:       pipeline,
		outputTopic:    f.outputTopic,
		pollTimeout:    f.pollTimeout,
		warmup:         featgraph.MaxWarmupTime(pipeline.Outputs),
		closeRequested: make(chan struct{}),
	}
	r.produce = r.produceRecord
	return r, nil
}

func (r *routine) run() error {
	r.log.Info("routine started", "warmup", r.warmup)

	for {
		select {
		case <-r.closeRequested:
			return r.shutdown()
		default:
		}

		pollCtx, cancel := context.WithTimeout(context.Background(), r.pollTimeout)
		fetches := r.client.PollFetches(pollCtx)
		cancel()

		if fetches.IsClientClosed() {
			return nil
		}
		if err := fetches.Err(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			for _, fetchErr := range fetches.Errors() {
				if errors.Is(fetchErr.Err, context.DeadlineExceeded) {
					continue
				}
				r.log.Error(fetchErr.Err, "fetch error", "topic", fetchErr.Topic, "partition", fetchErr.Partition)
				return fmt.Errorf("fetch error on topic %s, partition %d: %w",
					fetchErr.Topic, fetchErr.Partition, fetchErr.Err)
			}
		}

		var procErr error
		fetches.EachRecord(func(rec *kgo.Record) {
			if procErr != nil {
				return
			}
			procErr = r.handleRecord(rec)
		})
		if procErr != nil {
			r.log.Error(procErr, "failed to process record")
			return procErr
		}

		if err := r.flush(); err != nil {
			return err
		}
	}
}

// handleRecord pushes one frame through the pipeline. The frame dirties the
// raw input's whole dependent closure; pulling each output then recomputes
// exactly the stale features.
func (r *routine) handleRecord(rec *kgo.Record) error {
	frame, err := DecodeFrame(rec.Value)
	if err != nil {
		return fmt.Errorf("record at offset %d: %w", rec.Offset, err)
	}
	if err := r.pipeline.Input.SetFrame(frame); err != nil {
		return err
	}

	r.framesSeen++
	if r.framesSeen <= r.warmup {
		r.log.V(1).Info("skipping frame during warmup", "seen", r.framesSeen, "warmup", r.warmup)
		return nil
	}

	for _, out := range r.pipeline.Outputs {
		vec, err := out.GetOutput()
		if err != nil {
			return err
		}
		r.produce(out.ID(), vec)
	}
	return nil
}

func (r *routine) produceRecord(featureID string, vec []float64) {
	r.futuresWg.Add(1)
	r.client.Produce(context.Background(), &kgo.Record{
		Key:   []byte(featureID),
		Value: EncodeFrame(vec),
		Topic: r.outputTopic,
	}, func(_ *kgo.Record, err error) {
		if err != nil {
			r.futuresMu.Lock()
			r.futures = append(r.futures, err)
			r.futuresMu.Unlock()
		}
		r.futuresWg.Done()
	})
}

// flush waits for all in-flight produces and surfaces the first failure.
func (r *routine) flush() error {
	r.futuresWg.Wait()

	r.futuresMu.Lock()
	defer r.futuresMu.Unlock()
	for _, err := range r.futures {
		if err != nil {
			return fmt.Errorf("failed to produce: %w", err)
		}
	}
	r.futures = r.futures[:0]
	return nil
}

func (r *routine) shutdown() error {
	// Offsets auto-commit; Close performs the final commit.
	err := r.flush()
	r.client.Close()
	r.log.Info("routine closed")
	return err
}

func (r *routine) requestClose() {
	close(r.closeRequested)
}
