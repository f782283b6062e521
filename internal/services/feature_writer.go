package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/models/po"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// onlineStore 定义双写所需的在线缓存能力。
type onlineStore interface {
	Set(ctx context.Context, def catalog.FeatureDefinition, entityID string, value any)
	Get(ctx context.Context, def catalog.FeatureDefinition, entityID string) (string, bool)
	Increment(ctx context.Context, def catalog.FeatureDefinition, entityID string, delta int64) (int64, bool)
}

// offlineStore 定义双写所需的离线追加能力。
type offlineStore interface {
	Append(ctx context.Context, sess txmanager.Session, row po.OfflineFeatureRow) error
}

// txRunner 是事务管理器的最小消费面。
type txRunner interface {
	WithinTx(ctx context.Context, opts txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error
}

var _ onlineStore = (*repositories.OnlineFeatureStore)(nil)
var _ offlineStore = (*repositories.OfflineFeatureStore)(nil)
var _ txRunner = txmanager.Manager(nil)

// FeatureWriter 实现双写：先写在线缓存（廉价、可降级），随即把同一值
// 追加进离线日志（昂贵、必须持久）。两次写入不构成事务——两写之间的
// 崩溃会让离线滞后一条，这是可检测漂移的主要来源，由校验器观测，
// 不在此处同步修复。
type FeatureWriter struct {
	online  onlineStore
	offline offlineStore
	tx      txRunner
	// retryAttempts 离线写失败时的即时补偿重试次数；0 表示记录漂移。
	retryAttempts int
	log           *log.Helper
}

// NewFeatureWriter 构造双写器。
func NewFeatureWriter(online onlineStore, offline offlineStore, tx txRunner, retryAttempts int, logger log.Logger) (*FeatureWriter, error) {
	if online == nil {
		return nil, fmt.Errorf("feature writer: online store is required")
	}
	if offline == nil {
		return nil, fmt.Errorf("feature writer: offline store is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("feature writer: tx manager is required")
	}
	return &FeatureWriter{
		online:        online,
		offline:       offline,
		tx:            tx,
		retryAttempts: retryAttempts,
		log:           log.NewHelper(logger),
	}, nil
}

// IncrementCounter 原子递增在线计数器并把递增后的值镜像到离线日志。
// 在线递增失败时降级：跳过离线镜像（避免记录一个从未存在过的值），
// 返回 (0, false)。离线写失败向上传播。
func (w *FeatureWriter) IncrementCounter(ctx context.Context, def catalog.FeatureDefinition, entityID string, delta int64) (int64, bool, error) {
	newValue, ok := w.online.Increment(ctx, def, entityID, delta)
	if !ok {
		return 0, false, nil
	}
	if err := w.appendOffline(ctx, def, entityID, strconv.FormatInt(newValue, 10)); err != nil {
		return newValue, true, err
	}
	return newValue, true, nil
}

// WriteValue 写入派生值（覆盖在线表示，追加离线行）。
// 在线写失败被缓存层吸收，离线行仍然追加：离线日志不应短于在线状态。
func (w *FeatureWriter) WriteValue(ctx context.Context, def catalog.FeatureDefinition, entityID string, value int64) error {
	w.online.Set(ctx, def, entityID, value)
	return w.appendOffline(ctx, def, entityID, strconv.FormatInt(value, 10))
}

// ReadCounter 读取在线计数器；缺失视为 0。
func (w *FeatureWriter) ReadCounter(ctx context.Context, def catalog.FeatureDefinition, entityID string) int64 {
	raw, found := w.online.Get(ctx, def, entityID)
	if !found {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		w.log.WithContext(ctx).Warnw("msg", "non-numeric counter value",
			"feature", def.Name, "entity_id", entityID, "value", raw)
		return 0
	}
	return value
}

// appendOffline 在事务内追加离线行；按配置做有界即时重试。
func (w *FeatureWriter) appendOffline(ctx context.Context, def catalog.FeatureDefinition, entityID, value string) error {
	row := po.OfflineFeatureRow{
		EntityID:    entityID,
		EntityType:  def.EntityType,
		FeatureName: def.Name,
		Value:       value,
		ComputedAt:  time.Now().UTC(),
	}
	var lastErr error
	for attempt := 0; attempt <= w.retryAttempts; attempt++ {
		lastErr = w.tx.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
			return w.offline.Append(txCtx, sess, row)
		})
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("mirror feature %s/%s offline: %w", def.Name, entityID, lastErr)
}
