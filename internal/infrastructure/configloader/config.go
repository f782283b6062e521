// Package configloader 负责加载并规范化 features 服务的运行时配置。
package configloader

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Duration 支持 YAML 中 "1s" / "500ms" 字符串或秒数数字两种写法。
type Duration time.Duration

// UnmarshalJSON 实现 json.Unmarshaler（kratos config Scan 经由 JSON 编解码）。
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if v == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			// 允许纯数字字符串，按秒解释。
			secs, convErr := strconv.ParseFloat(v, 64)
			if convErr != nil {
				return fmt.Errorf("parse duration %q: %w", v, err)
			}
			parsed = time.Duration(secs * float64(time.Second))
		}
		*d = Duration(parsed)
		return nil
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
		return nil
	default:
		return fmt.Errorf("unsupported duration value %v", raw)
	}
}

// AsDuration 返回标准库 time.Duration。
func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

// RuntimeConfig 聚合服务的全部强类型配置片段。
type RuntimeConfig struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Messaging MessagingConfig `json:"messaging"`
	Pipeline  PipelineConfig  `json:"pipeline"`
	Checker   CheckerConfig   `json:"checker"`
}

// ServerConfig 描述 checker 进程的 HTTP 统计端口。
type ServerConfig struct {
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP 服务器监听配置。
type HTTPConfig struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// DatabaseConfig PostgreSQL（离线特征库）连接池配置。
type DatabaseConfig struct {
	DSN               string   `json:"dsn"`
	MaxOpenConns      int32    `json:"max_open_conns"`
	MinOpenConns      int32    `json:"min_open_conns"`
	MaxConnLifetime   Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime   Duration `json:"max_conn_idle_time"`
	HealthCheckPeriod Duration `json:"health_check_period"`
	Schema            string   `json:"schema"`
}

// RedisConfig Redis（在线特征缓存）连接配置。
type RedisConfig struct {
	Addr        string   `json:"addr"`
	DB          int      `json:"db"`
	Password    string   `json:"password"`
	DialTimeout Duration `json:"dial_timeout"`
	ReadTimeout Duration `json:"read_timeout"`
}

// MessagingConfig 事件流（Pub/Sub）配置。
type MessagingConfig struct {
	PubSub PubSubConfig `json:"pubsub"`
}

// PubSubConfig 订阅配置；Topic 属性区分逻辑主题。
type PubSubConfig struct {
	ProjectID        string        `json:"project_id"`
	SubscriptionID   string        `json:"subscription_id"`
	EmulatorEndpoint string        `json:"emulator_endpoint"`
	Receive          ReceiveConfig `json:"receive"`
}

// ReceiveConfig StreamingPull 流控参数。
type ReceiveConfig struct {
	NumGoroutines          int      `json:"num_goroutines"`
	MaxOutstandingMessages int      `json:"max_outstanding_messages"`
	MaxExtension           Duration `json:"max_extension"`
}

// PipelineConfig 流式处理管道参数。
type PipelineConfig struct {
	PollTimeout Duration `json:"poll_timeout"`
	// OfflineRetryAttempts 控制离线写失败时的即时补偿重试次数。
	// 0 表示不重试：漂移交由一致性校验观测（默认策略）。
	OfflineRetryAttempts int `json:"offline_retry_attempts"`
	LogEvery             int `json:"log_every"`
	SourceBuffer         int `json:"source_buffer"`
}

// CheckerConfig 一致性校验器参数。
type CheckerConfig struct {
	Interval       Duration `json:"interval"`
	WindowHours    int      `json:"window_hours"`
	Comparison     string   `json:"comparison"`
	SampleEntities []string `json:"sample_entities"`
	EntityType     string   `json:"entity_type"`
}

// Validate 校验启动所必需的字段。
func (rc RuntimeConfig) Validate() error {
	if rc.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required (set DATABASE_URL)")
	}
	if rc.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required (set REDIS_URL)")
	}
	switch rc.Checker.Comparison {
	case "", "normalized", "exact":
	default:
		return fmt.Errorf("checker.comparison must be %q or %q, got %q", "normalized", "exact", rc.Checker.Comparison)
	}
	return nil
}
