package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/models/po"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// ErrUnknownFeature 表示请求校验的特征不在目录中。
var ErrUnknownFeature = errors.New("unknown feature")

// onlineReader 校验所需的在线读能力。单点校验走 Get，批量轮次走
// MultiGet，一次往返读取同一实体的全部特征。
type onlineReader interface {
	Get(ctx context.Context, def catalog.FeatureDefinition, entityID string) (string, bool)
	MultiGet(ctx context.Context, defs []catalog.FeatureDefinition, entityID string) map[string]*string
}

// offlineReader 校验所需的离线读能力。
type offlineReader interface {
	ReadLatest(ctx context.Context, entityID string, entityType catalog.EntityType, featureName string, asOf *time.Time) (string, bool, error)
}

// checkRecorder 校验结果的持久化与聚合能力。
type checkRecorder interface {
	Record(ctx context.Context, sess txmanager.Session, result po.ConsistencyCheckResult) error
	Aggregate(ctx context.Context, windowHours int) (po.ConsistencyStats, error)
}

var _ onlineReader = (*repositories.OnlineFeatureStore)(nil)
var _ offlineReader = (*repositories.OfflineFeatureStore)(nil)
var _ checkRecorder = (*repositories.ConsistencyRepository)(nil)

// Summary 汇总一轮批量校验的结论。
type Summary struct {
	TotalChecks  int
	Consistent   int
	Inconsistent int
	// ConsistencyRate 为 1 - Inconsistent/TotalChecks；空轮次记为 0。
	ConsistencyRate float64
	Results         []po.ConsistencyCheckResult
}

// ConsistencyChecker 逐特征对比在线缓存与离线日志，并把每次结论落库。
// 读取路径绕过任何写入逻辑：校验只观测漂移，从不修复。
type ConsistencyChecker struct {
	online   onlineReader
	offline  offlineReader
	recorder checkRecorder
	compare  Comparator
	cfg      configloader.CheckerConfig
	log      *log.Helper
}

// NewConsistencyChecker 构造校验器；比较器由 cfg.Comparison 选择。
func NewConsistencyChecker(
	online onlineReader,
	offline offlineReader,
	recorder checkRecorder,
	cfg configloader.CheckerConfig,
	logger log.Logger,
) (*ConsistencyChecker, error) {
	cmp, err := NewComparator(cfg.Comparison)
	if err != nil {
		return nil, fmt.Errorf("consistency checker: %w", err)
	}
	return &ConsistencyChecker{
		online:   online,
		offline:  offline,
		recorder: recorder,
		compare:  cmp,
		cfg:      cfg,
		log:      log.NewHelper(logger),
	}, nil
}

// CheckFeature 对单个 (实体, 特征) 做一次在线/离线对比并落库结论。
// 未知特征不触达任何存储，直接返回 ErrUnknownFeature。
func (c *ConsistencyChecker) CheckFeature(ctx context.Context, featureName, entityID string) (po.ConsistencyCheckResult, error) {
	def, ok := catalog.Lookup(featureName)
	if !ok {
		return po.ConsistencyCheckResult{}, fmt.Errorf("%w: %s", ErrUnknownFeature, featureName)
	}

	var onlineValue *string
	if raw, found := c.online.Get(ctx, def, entityID); found {
		onlineValue = &raw
	}
	return c.checkOne(ctx, def, entityID, onlineValue)
}

// checkOne 用已取得的在线值完成离线读取、对比与落库。
func (c *ConsistencyChecker) checkOne(ctx context.Context, def catalog.FeatureDefinition, entityID string, onlineValue *string) (po.ConsistencyCheckResult, error) {
	var offlineValue *string
	raw, found, err := c.offline.ReadLatest(ctx, entityID, def.EntityType, def.Name, nil)
	if err != nil {
		return po.ConsistencyCheckResult{}, fmt.Errorf("read offline %s/%s: %w", def.Name, entityID, err)
	}
	if found {
		offlineValue = &raw
	}

	consistent, diff := c.compare.Compare(onlineValue, offlineValue)
	result := po.ConsistencyCheckResult{
		EntityID:     entityID,
		EntityType:   def.EntityType,
		FeatureName:  def.Name,
		OnlineValue:  onlineValue,
		OfflineValue: offlineValue,
		IsConsistent: consistent,
		CheckTime:    time.Now().UTC(),
	}
	if diff != "" {
		result.Difference = &diff
	}
	if err := c.recorder.Record(ctx, nil, result); err != nil {
		return result, fmt.Errorf("record consistency check: %w", err)
	}
	return result, nil
}

// CheckEntities 对每个实体校验其实体类型下的全部目录特征。
// 同一实体的在线侧通过 MultiGet 批量读取，每实体只打一次往返。
func (c *ConsistencyChecker) CheckEntities(ctx context.Context, entityType catalog.EntityType, entityIDs []string) (Summary, error) {
	defs := catalog.ForEntityType(entityType)
	summary := Summary{Results: make([]po.ConsistencyCheckResult, 0, len(entityIDs)*len(defs))}
	for _, entityID := range entityIDs {
		onlineValues := c.online.MultiGet(ctx, defs, entityID)
		for _, def := range defs {
			result, err := c.checkOne(ctx, def, entityID, onlineValues[def.Name])
			if err != nil {
				return summary, err
			}
			summary.Results = append(summary.Results, result)
			summary.TotalChecks++
			if result.IsConsistent {
				summary.Consistent++
			} else {
				summary.Inconsistent++
			}
		}
	}
	if summary.TotalChecks > 0 {
		summary.ConsistencyRate = 1 - float64(summary.Inconsistent)/float64(summary.TotalChecks)
	}
	return summary, nil
}

// AggregateStats 返回最近 windowHours 小时内已落库校验的聚合指标。
func (c *ConsistencyChecker) AggregateStats(ctx context.Context, windowHours int) (po.ConsistencyStats, error) {
	if windowHours <= 0 {
		windowHours = c.cfg.WindowHours
	}
	return c.recorder.Aggregate(ctx, windowHours)
}

// Monitor 按配置周期对采样实体做批量校验，直到 ctx 取消。
// 单轮失败只记日志，不终止循环。
func (c *ConsistencyChecker) Monitor(ctx context.Context) error {
	interval := c.cfg.Interval.AsDuration()
	if interval <= 0 {
		interval = time.Minute
	}
	entityType := catalog.EntityType(c.cfg.EntityType)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.WithContext(ctx).Infow("msg", "consistency monitor started",
		"interval", interval.String(), "entities", len(c.cfg.SampleEntities), "entity_type", entityType)

	for {
		c.runOnce(ctx, entityType)
		select {
		case <-ctx.Done():
			c.log.WithContext(ctx).Info("consistency monitor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *ConsistencyChecker) runOnce(ctx context.Context, entityType catalog.EntityType) {
	summary, err := c.CheckEntities(ctx, entityType, c.cfg.SampleEntities)
	if err != nil {
		c.log.WithContext(ctx).Errorw("msg", "consistency round failed", "error", err)
		return
	}
	c.log.WithContext(ctx).Infow("msg", "consistency round complete",
		"total", summary.TotalChecks,
		"consistent", summary.Consistent,
		"inconsistent", summary.Inconsistent,
		"rate", fmt.Sprintf("%.4f", summary.ConsistencyRate))
}
