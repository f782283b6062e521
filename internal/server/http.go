package server

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewHTTPServer 暴露健康检查与一致性统计端点。
func NewHTTPServer(c configloader.ServerConfig, checker *services.ConsistencyChecker, pool *pgxpool.Pool, logger log.Logger) *http.Server {
	helper := log.NewHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.HTTP.Network != "" {
		opts = append(opts, http.Network(c.HTTP.Network))
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, http.Address(c.HTTP.Addr))
	}
	if c.HTTP.Timeout.AsDuration() > 0 {
		opts = append(opts, http.Timeout(c.HTTP.Timeout.AsDuration()))
	}

	srv := http.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))

	srv.Handle("/readyz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			w.WriteHeader(stdhttp.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(stdhttp.StatusOK)
	}))

	srv.Handle("/consistency/stats", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		windowHours := 0
		if raw := r.URL.Query().Get("window_hours"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				stdhttp.Error(w, "window_hours must be a positive integer", stdhttp.StatusBadRequest)
				return
			}
			windowHours = parsed
		}

		stats, err := checker.AggregateStats(r.Context(), windowHours)
		if err != nil {
			helper.WithContext(r.Context()).Errorw("msg", "aggregate consistency stats", "error", err)
			stdhttp.Error(w, "failed to aggregate consistency stats", stdhttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_checks":      stats.TotalChecks,
			"consistent_checks": stats.ConsistentChecks,
			"consistency_rate":  stats.ConsistencyRate,
		})
	}))

	return srv
}
