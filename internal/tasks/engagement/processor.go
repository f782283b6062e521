package engagement

import (
	"context"

	"github.com/bionicotaku/lingo-services-features/internal/models/events"
	"github.com/bionicotaku/lingo-services-features/internal/stream"

	"github.com/go-kratos/kratos/v2/log"
)

// Processor 消费 user-events 主题的原始记录。
//
// Process 只在需要重投递时返回错误（离线日志写失败）；格式损坏或
// 缺失标识的记录落日志后丢弃，避免毒丸消息阻塞分区。
type Processor struct {
	handler *EventHandler
	log     *log.Helper
	metrics *engagementMetrics
}

// NewProcessor 构造用户事件处理器。
func NewProcessor(handler *EventHandler, metrics *engagementMetrics, logger log.Logger) *Processor {
	return &Processor{
		handler: handler,
		log:     log.NewHelper(logger),
		metrics: metrics,
	}
}

// Topic 返回本处理器订阅的逻辑主题。
func (p *Processor) Topic() string { return stream.TopicUserEvents }

// Process 解码并应用一条记录。
func (p *Processor) Process(ctx context.Context, rec *stream.Record) error {
	if rec == nil || len(rec.Payload) == 0 {
		return nil
	}
	evt, err := events.DecodeUserEvent(rec.Payload)
	if err != nil {
		p.log.WithContext(ctx).Warnw("msg", "decode user event failed",
			"error", err, "payload", truncate(rec.Payload, 256))
		p.metrics.recordDropped(ctx, "decode_error")
		return nil
	}
	return p.handler.Handle(ctx, evt)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
