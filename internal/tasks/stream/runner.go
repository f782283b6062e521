// Package stream 驱动事件流消费循环，把记录按主题分发给处理器。
package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/stream"

	"github.com/go-kratos/kratos/v2/log"
)

// Processor 是单主题的记录处理器。Process 返回错误表示处理失败；
// 返回 nil 即视为消费完成。
type Processor interface {
	Topic() string
	Process(ctx context.Context, rec *stream.Record) error
}

// Runner 封装 poll-dispatch 消费循环。
type Runner struct {
	source      stream.Source
	processors  map[string]Processor
	pollTimeout time.Duration
	logEvery    int
	logger      *log.Helper
}

// RunnerParams 注入 Runner 所需依赖。
type RunnerParams struct {
	Source      stream.Source
	Processors  []Processor
	PollTimeout time.Duration
	LogEvery    int
	Logger      log.Logger
}

// NewRunner 构造消费循环。
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("stream runner: source is required")
	}
	if len(params.Processors) == 0 {
		return nil, fmt.Errorf("stream runner: at least one processor is required")
	}
	processors := make(map[string]Processor, len(params.Processors))
	for _, p := range params.Processors {
		if p == nil {
			continue
		}
		if _, dup := processors[p.Topic()]; dup {
			return nil, fmt.Errorf("stream runner: duplicate processor for topic %s", p.Topic())
		}
		processors[p.Topic()] = p
	}
	if len(processors) == 0 {
		return nil, fmt.Errorf("stream runner: at least one processor is required")
	}
	pollTimeout := params.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = time.Second
	}
	logEvery := params.LogEvery
	if logEvery <= 0 {
		logEvery = 100
	}
	return &Runner{
		source:      params.Source,
		processors:  processors,
		pollTimeout: pollTimeout,
		logEvery:    logEvery,
		logger:      log.NewHelper(params.Logger),
	}, nil
}

// Run 轮询事件源直到 context 取消。空轮询继续等待；积压读尽说明源已
// 永久关闭，返回错误交由进程退出，而不是空转轮询；处理失败只记日志后
// 跳过，避免单条坏记录阻塞整个循环。
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		if err := r.source.Close(); err != nil {
			r.logger.Warnw("msg", "close stream source", "error", err)
		}
	}()

	r.logger.WithContext(ctx).Infow("msg", "stream runner started",
		"topics", len(r.processors), "poll_timeout", r.pollTimeout.String())

	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			r.logger.Infow("msg", "stream runner stopped", "processed", processed)
			return err
		}

		rec, err := r.source.Poll(ctx, r.pollTimeout)
		if err != nil {
			if errors.Is(err, stream.ErrBacklogEOF) {
				r.logger.WithContext(ctx).Warnw("msg", "stream source exhausted", "processed", processed)
				return fmt.Errorf("stream runner: %w", err)
			}
			if ctx.Err() != nil {
				continue
			}
			r.logger.WithContext(ctx).Errorw("msg", "poll stream source", "error", err)
			continue
		}
		if rec == nil {
			continue
		}

		proc, ok := r.processors[rec.Topic]
		if !ok {
			// 未注册主题的记录直接确认，避免无人消费的积压无限重投。
			continue
		}
		if err := proc.Process(ctx, rec); err != nil {
			r.logger.WithContext(ctx).Errorw("msg", "process record failed",
				"topic", rec.Topic, "key", rec.Key, "error", err)
			continue
		}

		processed++
		if processed%r.logEvery == 0 {
			r.logger.WithContext(ctx).Infow("msg", "stream progress", "processed", processed)
		}
	}
}
