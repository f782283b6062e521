// Package rediscache 负责 Redis（在线特征缓存）客户端的初始化与生命周期管理。
package rediscache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewClient 创建 Redis 客户端并执行启动健康检查。
//
// 与离线存储一致，缓存在启动阶段不可达视为致命错误；运行期的瞬时故障
// 则由 OnlineFeatureStore 降级吸收。
func NewClient(ctx context.Context, cfg configloader.RedisConfig, logger log.Logger) (*redis.Client, func(), error) {
	helper := log.NewHelper(logger)

	if cfg.Addr == "" {
		return nil, nil, fmt.Errorf("redis addr is required (set REDIS_URL)")
	}

	opts := &redis.Options{
		Addr:     normalizeAddr(cfg.Addr),
		DB:       cfg.DB,
		Password: cfg.Password,
	}
	if d := cfg.DialTimeout.AsDuration(); d > 0 {
		opts.DialTimeout = d
	}
	if d := cfg.ReadTimeout.AsDuration(); d > 0 {
		opts.ReadTimeout = d
	}

	client := redis.NewClient(opts)

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(healthCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis health check failed: %w", err)
	}

	helper.Infof("redis client created: addr=%s db=%d", opts.Addr, cfg.DB)

	cleanup := func() {
		helper.Info("closing redis client")
		_ = client.Close()
	}
	return client, cleanup, nil
}

// normalizeAddr 允许 REDIS_URL 携带 redis:// 前缀。
func normalizeAddr(addr string) string {
	addr = strings.TrimPrefix(addr, "redis://")
	return strings.TrimSuffix(addr, "/")
}
