package stream

import (
	"context"
	"sync"
	"time"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
)

// PubsubSource 将 gcpubsub 的 StreamingPull 回调模型适配为 Poll 模型。
//
// 后台 Receive 循环把消息压入有界 channel；消息在入队后即确认
// （auto-commit 语义），因此投递保证是至少一次，与上游契约一致。
type PubsubSource struct {
	subscriber gcpubsub.Subscriber
	records    chan *Record
	log        *log.Helper

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPubsubSource 构造基于 Pub/Sub 订阅的事件源。
func NewPubsubSource(subscriber gcpubsub.Subscriber, buffer int, logger log.Logger) *PubsubSource {
	if buffer <= 0 {
		buffer = 128
	}
	return &PubsubSource{
		subscriber: subscriber,
		records:    make(chan *Record, buffer),
		log:        log.NewHelper(logger),
		done:       make(chan struct{}),
	}
}

// Poll 返回下一条记录；timeout 内无消息返回 (nil, nil)；
// 源已关闭且缓冲读尽时返回 ErrBacklogEOF。
func (s *PubsubSource) Poll(ctx context.Context, timeout time.Duration) (*Record, error) {
	s.start()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case rec, ok := <-s.records:
		if !ok {
			return nil, ErrBacklogEOF
		}
		return rec, nil
	case <-s.done:
		// 背景循环已退出；清空残余缓冲后报告 EOF。
		select {
		case rec := <-s.records:
			return rec, nil
		default:
			return nil, ErrBacklogEOF
		}
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close 停止背景消费循环。已入队的记录仍可被 Poll 读出。
func (s *PubsubSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.started {
		s.cancel()
	} else {
		close(s.done)
	}
	return nil
}

// start 惰性启动背景 Receive 循环。
func (s *PubsubSource) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		err := s.subscriber.Receive(ctx, s.enqueue)
		if err != nil && ctx.Err() == nil {
			s.log.Errorw("msg", "stream receive terminated", "error", err)
		}
	}()
}

// enqueue 把一条 Pub/Sub 消息转换为 Record 压入缓冲。
// 返回 nil 即确认消息；缓冲满时阻塞，构成天然背压。
func (s *PubsubSource) enqueue(ctx context.Context, msg *gcpubsub.Message) error {
	if msg == nil {
		return nil
	}
	rec := &Record{
		Topic:   msg.Attributes[AttrTopic],
		Key:     msg.Attributes[AttrKey],
		Payload: msg.Data,
	}
	select {
	case s.records <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Source = (*PubsubSource)(nil)
