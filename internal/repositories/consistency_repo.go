package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConsistencyRepository 维护 consistency_checks 追加日志及其窗口聚合。
type ConsistencyRepository struct {
	db  *pgxpool.Pool
	log *log.Helper
}

// NewConsistencyRepository 构造一致性结果仓储。
func NewConsistencyRepository(db *pgxpool.Pool, logger log.Logger) *ConsistencyRepository {
	return &ConsistencyRepository{
		db:  db,
		log: log.NewHelper(logger),
	}
}

const sqlInsertConsistencyCheck = `
INSERT INTO consistency_checks
	(check_time, entity_id, entity_type, feature_name, online_value, offline_value, is_consistent, difference)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const sqlAggregateConsistency = `
SELECT
	COUNT(*) AS total_checks,
	COALESCE(SUM(CASE WHEN is_consistent THEN 1 ELSE 0 END), 0) AS consistent_checks,
	COALESCE(AVG(CASE WHEN is_consistent THEN 1.0 ELSE 0.0 END), 0) AS consistency_rate
FROM consistency_checks
WHERE check_time > now() - make_interval(hours => $1)`

// Record 追加一条校验结论。一致的结果同样记录，用于比率计算。
func (r *ConsistencyRepository) Record(ctx context.Context, sess txmanager.Session, result po.ConsistencyCheckResult) error {
	checkTime := result.CheckTime
	if checkTime.IsZero() {
		checkTime = time.Now().UTC()
	}
	if _, err := r.q(sess).Exec(ctx, sqlInsertConsistencyCheck,
		checkTime.UTC(),
		result.EntityID,
		string(result.EntityType),
		result.FeatureName,
		textFromPtr(result.OnlineValue),
		textFromPtr(result.OfflineValue),
		result.IsConsistent,
		textFromPtr(result.Difference),
	); err != nil {
		return fmt.Errorf("record consistency check %s/%s: %w", result.FeatureName, result.EntityID, err)
	}
	return nil
}

// Aggregate 返回最近 windowHours 小时内的校验统计。
func (r *ConsistencyRepository) Aggregate(ctx context.Context, windowHours int) (po.ConsistencyStats, error) {
	var stats po.ConsistencyStats
	row := r.db.QueryRow(ctx, sqlAggregateConsistency, windowHours)
	if err := row.Scan(&stats.TotalChecks, &stats.ConsistentChecks, &stats.ConsistencyRate); err != nil {
		return po.ConsistencyStats{}, fmt.Errorf("aggregate consistency window=%dh: %w", windowHours, err)
	}
	return stats, nil
}

func (r *ConsistencyRepository) q(sess txmanager.Session) querier {
	if sess != nil && sess.Tx() != nil {
		return sess.Tx()
	}
	return r.db
}

func textFromPtr(value *string) pgtype.Text {
	if value == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *value, Valid: true}
}
