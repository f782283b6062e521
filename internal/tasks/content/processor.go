// Package content 消费 content-events 主题，维护帖子维度的特征。
package content

import (
	"context"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/models/events"
	"github.com/bionicotaku/lingo-services-features/internal/stream"

	"github.com/go-kratos/kratos/v2/log"
)

// featureWriter 定义处理器所需的双写能力。
type featureWriter interface {
	WriteValue(ctx context.Context, def catalog.FeatureDefinition, entityID string, value int64) error
}

// Processor 处理帖子生命周期事件。
//
// post_created 为新帖播种 post_views_10m=0，让滑动窗口计数器从发布
// 时刻起即可读；浏览递增由用户事件侧驱动。velocity 与 upvote_ratio
// 依赖尚未接入的投票流，lifecycle 事件到达时暂不计算。
type Processor struct {
	writer   featureWriter
	log      *log.Helper
	viewsDef catalog.FeatureDefinition
}

// NewProcessor 构造帖子事件处理器。
func NewProcessor(writer featureWriter, logger log.Logger) *Processor {
	viewsDef, _ := catalog.Lookup(catalog.PostViews10m)
	return &Processor{
		writer:   writer,
		log:      log.NewHelper(logger),
		viewsDef: viewsDef,
	}
}

// Topic 返回本处理器订阅的逻辑主题。
func (p *Processor) Topic() string { return stream.TopicContentEvents }

// Process 解码并应用一条帖子事件。
func (p *Processor) Process(ctx context.Context, rec *stream.Record) error {
	if rec == nil || len(rec.Payload) == 0 {
		return nil
	}
	evt, err := events.DecodeContentEvent(rec.Payload)
	if err != nil {
		p.log.WithContext(ctx).Warnw("msg", "decode content event failed", "error", err)
		return nil
	}
	if evt.PostID == "" {
		return nil
	}

	switch evt.Type {
	case events.KindPostCreated:
		return p.writer.WriteValue(ctx, p.viewsDef, evt.PostID, 0)
	case events.KindPostEdited, events.KindPostDeleted:
		// 编辑与删除暂不影响特征值；删除后的键随 TTL 自然过期。
		return nil
	default:
		p.log.WithContext(ctx).Debugf("content: skip unsupported event type %s", evt.Type)
		return nil
	}
}
