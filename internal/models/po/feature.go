// Package po 定义持久化对象（offline_features / consistency_checks 行）。
package po

import (
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
)

// OfflineFeatureRow 表示 offline_features 的一行；只追加，不覆盖。
type OfflineFeatureRow struct {
	EntityID    string
	EntityType  catalog.EntityType
	FeatureName string
	Value       string
	ComputedAt  time.Time
}

// ConsistencyCheckResult 表示一次在线/离线一致性校验的结论；仅由 checker
// 创建，只追加，不修改。
type ConsistencyCheckResult struct {
	EntityID    string
	EntityType  catalog.EntityType
	FeatureName string
	// OnlineValue / OfflineValue 为比较用字符串形态；缺失记为空指针。
	OnlineValue  *string
	OfflineValue *string
	IsConsistent bool
	Difference   *string
	CheckTime    time.Time
}

// ConsistencyStats 是滑动窗口内校验结果的聚合。
type ConsistencyStats struct {
	TotalChecks      int64
	ConsistentChecks int64
	ConsistencyRate  float64
}
