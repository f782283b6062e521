package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/catalog"
	"github.com/bionicotaku/lingo-services-features/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier 抽象 pool 与事务共用的查询接口。
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OfflineFeatureStore 维护 offline_features 追加日志：每次写入新增一行，
// 从不覆盖，支持时间点查询。
type OfflineFeatureStore struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewOfflineFeatureStore 构造离线特征仓储。
func NewOfflineFeatureStore(db *pgxpool.Pool, logger log.Logger) *OfflineFeatureStore {
	return &OfflineFeatureStore{
		db:  db,
		log: log.NewHelper(logger),
	}
}

const sqlInsertOfflineFeature = `
INSERT INTO offline_features (entity_id, entity_type, feature_name, feature_value, computed_at)
VALUES ($1, $2, $3, $4, $5)`

const sqlSelectLatestFeature = `
SELECT feature_value, computed_at
FROM offline_features
WHERE entity_id = $1 AND entity_type = $2 AND feature_name = $3
ORDER BY computed_at DESC
LIMIT 1`

const sqlSelectFeatureAsOf = `
SELECT feature_value, computed_at
FROM offline_features
WHERE entity_id = $1 AND entity_type = $2 AND feature_name = $3 AND computed_at <= $4
ORDER BY computed_at DESC
LIMIT 1`

// Append 追加一行特征值。computedAt 为零值时取当前时间。
// 离线写失败必须向上传播：静默丢失离线行会破坏校验器依赖的不变量。
func (s *OfflineFeatureStore) Append(ctx context.Context, sess txmanager.Session, row po.OfflineFeatureRow) error {
	computedAt := row.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}
	if _, err := s.q(sess).Exec(ctx, sqlInsertOfflineFeature,
		row.EntityID,
		string(row.EntityType),
		row.FeatureName,
		row.Value,
		computedAt.UTC(),
	); err != nil {
		return fmt.Errorf("append offline feature %s/%s: %w", row.FeatureName, row.EntityID, err)
	}
	return nil
}

// ReadLatest 返回 computed_at <= asOf 的最新一行；asOf 为 nil 时取全局最新。
// 不存在任何行是正常的冷启动状态，返回 found=false 而非错误。
func (s *OfflineFeatureStore) ReadLatest(ctx context.Context, entityID string, entityType catalog.EntityType, featureName string, asOf *time.Time) (string, bool, error) {
	var (
		value      string
		computedAt time.Time
		row        pgx.Row
	)
	if asOf != nil {
		row = s.db.QueryRow(ctx, sqlSelectFeatureAsOf, entityID, string(entityType), featureName, asOf.UTC())
	} else {
		row = s.db.QueryRow(ctx, sqlSelectLatestFeature, entityID, string(entityType), featureName)
	}
	if err := row.Scan(&value, &computedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read latest feature %s/%s: %w", featureName, entityID, err)
	}
	return value, true, nil
}

// EnsureSchema 建表与索引（幂等）。生产部署由迁移流程负责；该入口服务于
// 本地与测试环境的自举。
func (s *OfflineFeatureStore) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS offline_features (
			entity_id TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			feature_name TEXT NOT NULL,
			feature_value TEXT NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offline_features_lookup
			ON offline_features (entity_id, entity_type, feature_name, computed_at DESC)`,
		`CREATE TABLE IF NOT EXISTS consistency_checks (
			check_time TIMESTAMPTZ NOT NULL,
			entity_id TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			feature_name TEXT NOT NULL,
			online_value TEXT,
			offline_value TEXT,
			is_consistent BOOLEAN NOT NULL,
			difference TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_consistency_checks_time
			ON consistency_checks (check_time)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	s.log.Info("offline feature schema ensured")
	return nil
}

func (s *OfflineFeatureStore) q(sess txmanager.Session) querier {
	if sess != nil && sess.Tx() != nil {
		return sess.Tx()
	}
	return s.db
}
