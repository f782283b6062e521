package engagement

import (
	"context"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/models/events"
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

// 互动得分权重：浏览 1 分，点击 3 分。
const (
	viewWeight  = 1
	clickWeight = 3
)

// featureWriter 定义处理器所需的双写能力。
type featureWriter interface {
	IncrementCounter(ctx context.Context, def catalog.FeatureDefinition, entityID string, delta int64) (int64, bool, error)
	WriteValue(ctx context.Context, def catalog.FeatureDefinition, entityID string, value int64) error
	ReadCounter(ctx context.Context, def catalog.FeatureDefinition, entityID string) int64
}

var _ featureWriter = (*services.FeatureWriter)(nil)

// EventHandler 把用户互动事件投影成在线/离线特征。
type EventHandler struct {
	writer  featureWriter
	log     *log.Helper
	metrics *engagementMetrics
	clock   func() time.Time

	clicksDef catalog.FeatureDefinition
	viewsDef  catalog.FeatureDefinition
	scoreDef  catalog.FeatureDefinition
}

// NewEventHandler 构造用户事件处理器。
func NewEventHandler(writer featureWriter, logger log.Logger, metrics *engagementMetrics) *EventHandler {
	clicksDef, _ := catalog.Lookup(catalog.UserClicks1h)
	viewsDef, _ := catalog.Lookup(catalog.UserViews1h)
	scoreDef, _ := catalog.Lookup(catalog.UserEngagementScore)
	return &EventHandler{
		writer:    writer,
		log:       log.NewHelper(logger),
		metrics:   metrics,
		clock:     time.Now,
		clicksDef: clicksDef,
		viewsDef:  viewsDef,
		scoreDef:  scoreDef,
	}
}

// Handle 应用单条用户事件：按类型递增对应计数器，然后无条件重算
// 互动得分并双写。缺失 user_id 的事件静默丢弃。
func (h *EventHandler) Handle(ctx context.Context, evt *events.UserEvent) error {
	if evt == nil {
		return nil
	}
	if evt.UserID == "" {
		h.metrics.recordDropped(ctx, "missing_user_id")
		return nil
	}

	switch evt.Type {
	case events.KindUserClick:
		if _, _, err := h.writer.IncrementCounter(ctx, h.clicksDef, evt.UserID, 1); err != nil {
			return err
		}
	case events.KindUserView:
		if _, _, err := h.writer.IncrementCounter(ctx, h.viewsDef, evt.UserID, 1); err != nil {
			return err
		}
	case events.KindUserUpvote, events.KindUserDownvote, events.KindUserComment:
		// 投票与评论暂不驱动独立计数器，仅参与后续的得分重算。
	default:
		// 未识别的类型不驱动任何计数器，但带 user_id 就仍参与得分重算。
		h.log.WithContext(ctx).Debugf("engagement: no counter for event type %s", evt.Type)
	}

	if err := h.recomputeScore(ctx, evt.UserID); err != nil {
		return err
	}
	h.metrics.recordProcessed(ctx, string(evt.Type), evt.Timestamp, h.clock())
	return nil
}

// recomputeScore 从在线计数器读取当前值并按权重重算互动得分。
// 缺失的计数器按 0 处理（冷启动或 TTL 过期）。
func (h *EventHandler) recomputeScore(ctx context.Context, userID string) error {
	views := h.writer.ReadCounter(ctx, h.viewsDef, userID)
	clicks := h.writer.ReadCounter(ctx, h.clicksDef, userID)
	score := views*viewWeight + clicks*clickWeight
	return h.writer.WriteValue(ctx, h.scoreDef, userID, score)
}
