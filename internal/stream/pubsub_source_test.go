package stream

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
)

func TestPubsubSourceEnqueueAndDrain(t *testing.T) {
	source := NewPubsubSource(nil, 4, log.NewStdLogger(io.Discard))

	msg := &gcpubsub.Message{
		Data:       []byte(`{"event_type":"user_click"}`),
		Attributes: map[string]string{AttrTopic: TopicUserEvents, AttrKey: "user_1"},
	}
	if err := source.enqueue(context.Background(), msg); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := source.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rec, err := source.Poll(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if rec == nil || rec.Topic != TopicUserEvents || rec.Key != "user_1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := source.Poll(context.Background(), 50*time.Millisecond); err != ErrBacklogEOF {
		t.Fatalf("expected ErrBacklogEOF after drain, got %v", err)
	}
}

func TestPubsubSourceCloseIsIdempotent(t *testing.T) {
	source := NewPubsubSource(nil, 1, log.NewStdLogger(io.Discard))
	if err := source.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := source.Poll(context.Background(), 10*time.Millisecond); err != ErrBacklogEOF {
		t.Fatalf("expected ErrBacklogEOF, got %v", err)
	}
}

func TestPubsubSourceSkipsNilMessage(t *testing.T) {
	source := NewPubsubSource(nil, 1, log.NewStdLogger(io.Discard))
	if err := source.enqueue(context.Background(), nil); err != nil {
		t.Fatalf("nil message must be ignored: %v", err)
	}
	_ = source.Close()
	if _, err := source.Poll(context.Background(), 10*time.Millisecond); err != ErrBacklogEOF {
		t.Fatalf("expected empty buffer, got %v", err)
	}
}
