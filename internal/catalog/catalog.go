// Package catalog 维护进程级静态特征注册表。
//
// 注册表在启动时加载一次，之后只读；update cadence 仅描述预期新鲜度，
// 代码不做强制。
package catalog

import "fmt"

// Cadence 描述特征的更新节奏等级。
type Cadence string

const (
	// CadenceRealTime 持续从事件流更新。
	CadenceRealTime Cadence = "real_time"
	// CadenceNearRealTime 每隔数分钟更新。
	CadenceNearRealTime Cadence = "near_real_time"
	// CadenceBatch 每日批量更新。
	CadenceBatch Cadence = "batch"
	// CadenceStatic 几乎不变。
	CadenceStatic Cadence = "static"
)

// EntityType 是特征归属的实体类别。
type EntityType string

const (
	// EntityUser 用户实体。
	EntityUser EntityType = "user"
	// EntityPost 内容实体。
	EntityPost EntityType = "post"
)

// 用户特征名。
const (
	UserClicks1h        = "user_clicks_1h"
	UserViews1h         = "user_views_1h"
	UserEngagementScore = "user_engagement_score"
)

// 内容特征名。
const (
	PostViews10m    = "post_views_10m"
	PostVelocity    = "post_velocity"
	PostUpvoteRatio = "post_upvote_ratio"
)

// FeatureDefinition 描述单个特征：名称、更新节奏与在线表示的过期策略。
type FeatureDefinition struct {
	Name        string
	Cadence     Cadence
	Description string
	// TTLSeconds 仅作用于在线（缓存）表示；0 表示不过期。
	TTLSeconds int
	EntityType EntityType
}

// OnlineKey 生成该特征在在线存储中的键。
func (d FeatureDefinition) OnlineKey(entityID string) string {
	return fmt.Sprintf("feature:%s:%s", d.Name, entityID)
}

var registry = map[string]FeatureDefinition{
	UserClicks1h: {
		Name:        UserClicks1h,
		Cadence:     CadenceRealTime,
		Description: "Number of clicks by user in last 1 hour",
		TTLSeconds:  3600,
		EntityType:  EntityUser,
	},
	UserViews1h: {
		Name:        UserViews1h,
		Cadence:     CadenceRealTime,
		Description: "Number of post views by user in the last 1 hour",
		TTLSeconds:  3600,
		EntityType:  EntityUser,
	},
	UserEngagementScore: {
		Name:        UserEngagementScore,
		Cadence:     CadenceRealTime,
		Description: "Weighted engagement score (views, clicks, votes)",
		TTLSeconds:  3600,
		EntityType:  EntityUser,
	},
	PostViews10m: {
		Name:        PostViews10m,
		Cadence:     CadenceRealTime,
		Description: "Number of views for post in the last 10 minutes",
		TTLSeconds:  600,
		EntityType:  EntityPost,
	},
	PostVelocity: {
		Name:        PostVelocity,
		Cadence:     CadenceRealTime,
		Description: "Rate of engagement (views per minute)",
		TTLSeconds:  600,
		EntityType:  EntityPost,
	},
	PostUpvoteRatio: {
		Name:        PostUpvoteRatio,
		Cadence:     CadenceRealTime,
		Description: "Upvotes / (Upvotes + Downvotes)",
		TTLSeconds:  3600,
		EntityType:  EntityPost,
	},
}

// Lookup 按名称返回特征定义。
func Lookup(name string) (FeatureDefinition, bool) {
	def, ok := registry[name]
	return def, ok
}

// ForEntityType 返回指定实体类别的全部特征定义，顺序稳定。
func ForEntityType(et EntityType) []FeatureDefinition {
	var names []string
	switch et {
	case EntityUser:
		names = []string{UserClicks1h, UserViews1h, UserEngagementScore}
	case EntityPost:
		names = []string{PostViews10m, PostVelocity, PostUpvoteRatio}
	}
	defs := make([]FeatureDefinition, 0, len(names))
	for _, name := range names {
		defs = append(defs, registry[name])
	}
	return defs
}

// All 返回全部特征定义（测试与诊断用途）。
func All() []FeatureDefinition {
	defs := make([]FeatureDefinition, 0, len(registry))
	defs = append(defs, ForEntityType(EntityUser)...)
	defs = append(defs, ForEntityType(EntityPost)...)
	return defs
}
