package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	streamsrc "github.com/bionicotaku/lingo-services-features/internal/stream"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/require"
)

// ---- Test Doubles ----

type fakeSource struct {
	records chan *streamsrc.Record
	errs    chan error
	closed  bool
	mu      sync.Mutex
}

func newFakeSource(buffer int) *fakeSource {
	return &fakeSource{
		records: make(chan *streamsrc.Record, buffer),
		errs:    make(chan error, buffer),
	}
}

func (f *fakeSource) Poll(ctx context.Context, timeout time.Duration) (*streamsrc.Record, error) {
	select {
	case err := <-f.errs:
		return nil, err
	case rec := <-f.records:
		return rec, nil
	case <-time.After(timeout):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSource) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeProcessor struct {
	topic string
	err   error

	mu   sync.Mutex
	seen []*streamsrc.Record
}

func (f *fakeProcessor) Topic() string { return f.topic }

func (f *fakeProcessor) Process(_ context.Context, rec *streamsrc.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, rec)
	return f.err
}

func (f *fakeProcessor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func newTestRunner(t *testing.T, source streamsrc.Source, procs ...Processor) *Runner {
	t.Helper()
	runner, err := NewRunner(RunnerParams{
		Source:      source,
		Processors:  procs,
		PollTimeout: 10 * time.Millisecond,
		LogEvery:    1000,
		Logger:      log.NewStdLogger(io.Discard),
	})
	require.NoError(t, err)
	return runner
}

// ---- Tests ----

func TestRunnerDispatchesByTopic(t *testing.T) {
	source := newFakeSource(8)
	userProc := &fakeProcessor{topic: streamsrc.TopicUserEvents}
	contentProc := &fakeProcessor{topic: streamsrc.TopicContentEvents}
	runner := newTestRunner(t, source, userProc, contentProc)

	source.records <- &streamsrc.Record{Topic: streamsrc.TopicUserEvents, Payload: []byte(`{}`)}
	source.records <- &streamsrc.Record{Topic: streamsrc.TopicContentEvents, Payload: []byte(`{}`)}
	source.records <- &streamsrc.Record{Topic: "unknown-topic", Payload: []byte(`{}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	require.Eventually(t, func() bool {
		return userProc.count() == 1 && contentProc.count() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, source.isClosed())
}

func TestRunnerStopsWhenSourceExhausted(t *testing.T) {
	source := newFakeSource(8)
	proc := &fakeProcessor{topic: streamsrc.TopicUserEvents}
	runner := newTestRunner(t, source, proc)

	source.records <- &streamsrc.Record{Topic: streamsrc.TopicUserEvents, Payload: []byte(`{}`)}

	done := make(chan error, 1)
	go func() { done <- runner.Run(context.Background()) }()

	require.Eventually(t, func() bool { return proc.count() == 1 }, time.Second, 5*time.Millisecond)

	source.errs <- streamsrc.ErrBacklogEOF
	select {
	case err := <-done:
		require.ErrorIs(t, err, streamsrc.ErrBacklogEOF)
	case <-time.After(time.Second):
		t.Fatal("runner kept polling an exhausted source")
	}
	require.True(t, source.isClosed())
}

func TestRunnerContinuesPastProcessorError(t *testing.T) {
	source := newFakeSource(8)
	proc := &fakeProcessor{topic: streamsrc.TopicUserEvents, err: errors.New("boom")}
	runner := newTestRunner(t, source, proc)

	source.records <- &streamsrc.Record{Topic: streamsrc.TopicUserEvents, Payload: []byte(`{}`)}
	source.records <- &streamsrc.Record{Topic: streamsrc.TopicUserEvents, Payload: []byte(`{}`)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	require.Eventually(t, func() bool { return proc.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestNewRunnerValidation(t *testing.T) {
	if _, err := NewRunner(RunnerParams{Logger: log.NewStdLogger(io.Discard)}); err == nil {
		t.Fatalf("expected error without source")
	}
	source := newFakeSource(1)
	if _, err := NewRunner(RunnerParams{Source: source, Logger: log.NewStdLogger(io.Discard)}); err == nil {
		t.Fatalf("expected error without processors")
	}
	dup := &fakeProcessor{topic: streamsrc.TopicUserEvents}
	if _, err := NewRunner(RunnerParams{Source: source, Processors: []Processor{dup, dup}, Logger: log.NewStdLogger(io.Discard)}); err == nil {
		t.Fatalf("expected error for duplicate topics")
	}
}
