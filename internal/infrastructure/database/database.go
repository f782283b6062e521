// Package database 负责 PostgreSQL（离线特征库）连接池的初始化与生命周期管理。
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool 创建并配置 pgxpool.Pool。
//
// 流程：解析 DSN → 应用连接池参数 → 挂接日志 Tracer → 设置 search_path →
// 启动健康检查 → 返回 cleanup（Wire 自动调用）。
// 离线存储不可达视为致命错误：没有可用存储的处理器没有意义，构造直接失败。
func NewPgxPool(ctx context.Context, cfg configloader.DatabaseConfig, logger log.Logger) (*pgxpool.Pool, func(), error) {
	helper := log.NewHelper(logger)

	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("postgres DSN is required (set DATABASE_URL)")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MinOpenConns >= 0 {
		poolConfig.MinConns = cfg.MinOpenConns
	}
	if d := cfg.MaxConnLifetime.AsDuration(); d > 0 {
		poolConfig.MaxConnLifetime = d
	}
	if d := cfg.MaxConnIdleTime.AsDuration(); d > 0 {
		poolConfig.MaxConnIdleTime = d
	}
	if d := cfg.HealthCheckPeriod.AsDuration(); d > 0 {
		poolConfig.HealthCheckPeriod = d
	}

	poolConfig.ConnConfig.Tracer = &pgxLogger{helper: helper}

	if schema := cfg.Schema; schema != "" {
		// search_path 优先级：配置 schema > DSN 中的 search_path。
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema))
			if err != nil {
				return fmt.Errorf("failed to set search_path: %w", err)
			}
			return nil
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := healthCheck(ctx, pool, helper); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres health check failed: %w", err)
	}

	helper.Infof(
		"postgres pool created: dsn=%s max_conns=%d min_conns=%d schema=%s",
		sanitizeDSN(cfg.DSN),
		poolConfig.MaxConns,
		poolConfig.MinConns,
		cfg.Schema,
	)

	cleanup := func() {
		helper.Info("closing postgres pool")
		pool.Close()
	}

	return pool, cleanup, nil
}

// healthCheck 执行启动时数据库健康检查：Ping + 版本查询。
func healthCheck(ctx context.Context, pool *pgxpool.Pool, helper *log.Helper) error {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var version string
	if err := pool.QueryRow(healthCtx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("version query failed: %w", err)
	}

	helper.Infof("database health check passed: version=%s", truncateVersion(version))
	return nil
}

// sanitizeDSN 对 DSN 进行脱敏处理，隐藏密码。
func sanitizeDSN(dsn string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	if parsed.User != nil {
		username := parsed.User.Username()
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(username, "***")
		}
	}
	return parsed.String()
}

// truncateVersion 截断 PostgreSQL 版本字符串，避免日志过长。
func truncateVersion(version string) string {
	if idx := strings.Index(version, "("); idx != -1 {
		return strings.TrimSpace(version[:idx])
	}
	if len(version) > 100 {
		return version[:100] + "..."
	}
	return version
}

// pgxLogger 将 pgx 查询错误转发到 Kratos Logger，仅在失败时记录。
type pgxLogger struct {
	helper *log.Helper
}

func (l *pgxLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	return ctx
}

func (l *pgxLogger) TraceQueryEnd(_ context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		l.helper.Errorf(
			"postgres query failed: error=%v command_tag=%s",
			data.Err,
			data.CommandTag.String(),
		)
	}
}
