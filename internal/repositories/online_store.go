package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// OnlineFeatureStore 维护在线（低延迟、可过期）特征缓存。
//
// 错误边界：任何传输/后端故障在此处吸收并降级为"缺失"，不向上传播——
// 缓存的陈旧可以容忍，管道的存活优先。触发故障的事件不会被重试，
// 由此产生的漂移交给一致性校验器观测。
// 注意 Increment 不幂等：调用方不得在失败后盲目重试，否则重复计数。
type OnlineFeatureStore struct {
	client *redis.Client
	log    *log.Helper
}

// NewOnlineFeatureStore 构造在线特征缓存。
func NewOnlineFeatureStore(client *redis.Client, logger log.Logger) *OnlineFeatureStore {
	return &OnlineFeatureStore{
		client: client,
		log:    log.NewHelper(logger),
	}
}

// Set 写入特征值；特征定义了 TTL 则一并设置。
func (s *OnlineFeatureStore) Set(ctx context.Context, def catalog.FeatureDefinition, entityID string, value any) {
	key := def.OnlineKey(entityID)
	encoded, err := encodeValue(value)
	if err != nil {
		s.log.WithContext(ctx).Errorw("msg", "encode online feature failed",
			"feature", def.Name, "entity_id", entityID, "error", err)
		return
	}
	ttl := time.Duration(def.TTLSeconds) * time.Second
	if err := s.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
		s.log.WithContext(ctx).Errorw("msg", "set online feature failed",
			"feature", def.Name, "entity_id", entityID, "error", err)
	}
}

// Get 读取特征值。键不存在或后端故障都返回 found=false。
func (s *OnlineFeatureStore) Get(ctx context.Context, def catalog.FeatureDefinition, entityID string) (string, bool) {
	key := def.OnlineKey(entityID)
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.WithContext(ctx).Errorw("msg", "get online feature failed",
				"feature", def.Name, "entity_id", entityID, "error", err)
		}
		return "", false
	}
	return value, true
}

// Increment 原子递增计数器并（重新）应用 TTL，返回新值。
// 故障时返回 (0, false)。
func (s *OnlineFeatureStore) Increment(ctx context.Context, def catalog.FeatureDefinition, entityID string, delta int64) (int64, bool) {
	key := def.OnlineKey(entityID)
	newValue, err := s.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		s.log.WithContext(ctx).Errorw("msg", "increment online feature failed",
			"feature", def.Name, "entity_id", entityID, "error", err)
		return 0, false
	}
	if def.TTLSeconds > 0 {
		if err := s.client.Expire(ctx, key, time.Duration(def.TTLSeconds)*time.Second).Err(); err != nil {
			s.log.WithContext(ctx).Warnw("msg", "refresh online feature ttl failed",
				"feature", def.Name, "entity_id", entityID, "error", err)
		}
	}
	return newValue, true
}

// MultiGet 通过 pipeline 一次往返读取同一实体的多个特征；缺失的键映射为 nil。
func (s *OnlineFeatureStore) MultiGet(ctx context.Context, defs []catalog.FeatureDefinition, entityID string) map[string]*string {
	features := make(map[string]*string, len(defs))
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(defs))
	for i, def := range defs {
		cmds[i] = pipe.Get(ctx, def.OnlineKey(entityID))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		s.log.WithContext(ctx).Errorw("msg", "multi-get online features failed",
			"entity_id", entityID, "error", err)
	}
	for i, def := range defs {
		value, err := cmds[i].Result()
		if err != nil {
			features[def.Name] = nil
			continue
		}
		v := value
		features[def.Name] = &v
	}
	return features
}

// encodeValue 将标量原样写入，复合值以 JSON 编码。
func encodeValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return fmt.Sprintf("%d", v), nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return fmt.Sprintf("%g", v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
