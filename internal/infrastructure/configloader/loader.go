package configloader

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

const (
	envConfPath       = "CONF_PATH"
	envServiceName    = "SERVICE_NAME"
	envServiceVersion = "SERVICE_VERSION"
	envAppEnv         = "APP_ENV"
	envDatabaseURL    = "DATABASE_URL"
	envRedisURL       = "REDIS_URL"
	envPort           = "PORT"
)

const defaultConfPath = "configs"

var envFileNames = []string{".env.local", ".env"}

// Params 包含构造配置 Bundle 所需的运行时输入参数。
type Params struct {
	ConfPath string // 配置文件路径（可为空，使用默认值）
}

// ServiceMetadata 保存服务标识信息，供日志和可观测性组件使用。
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// Bundle 聚合加载完成的配置与服务元信息，供下游 Wire 注入使用。
type Bundle struct {
	Runtime RuntimeConfig
	Service ServiceMetadata
}

// BuildError 捕获配置构建过程中的上下文错误信息。
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

// Error 实现 error 接口。
func (e BuildError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s at %q: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

// Unwrap 暴露底层错误，支持 errors.Is/As 链式查询。
func (e BuildError) Unwrap() error {
	return e.Err
}

// Load 从配置文件构建 Bundle。
//
// 流程：
// 1. 解析配置路径（显式参数 > CONF_PATH > 默认 configs/）
// 2. 加载 .env/.env.local（若存在）
// 3. 加载 YAML 并 Scan 到 RuntimeConfig
// 4. 应用默认值与环境变量覆盖，执行 Validate
func Load(params Params) (*Bundle, func(), error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadEnvFiles(confPath)

	rc, err := loadRuntime(confPath)
	if err != nil {
		return nil, nil, err
	}
	applyDefaults(&rc)
	applyEnvOverrides(&rc)
	if err := rc.Validate(); err != nil {
		return nil, nil, BuildError{Stage: "validate", Path: confPath, Err: err}
	}

	bundle := &Bundle{
		Runtime: rc,
		Service: buildServiceMetadata(),
	}
	return bundle, func() {}, nil
}

// ResolveConfPath 应用回退规则确定要加载的配置目录/文件路径。
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

func loadRuntime(confPath string) (RuntimeConfig, error) {
	var rc RuntimeConfig
	if _, err := os.Stat(confPath); err != nil {
		// 配置文件缺失不是致命错误：允许纯环境变量启动。
		if os.IsNotExist(err) {
			return rc, nil
		}
		return rc, BuildError{Stage: "stat", Path: confPath, Err: err}
	}

	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		return rc, BuildError{Stage: "load", Path: confPath, Err: err}
	}
	defer c.Close()

	if err := c.Scan(&rc); err != nil {
		return rc, BuildError{Stage: "scan", Path: confPath, Err: err}
	}
	return rc, nil
}

// loadEnvFiles 在配置目录及其上层目录中查找 .env 文件并加载。
// 已存在的环境变量优先，不会被覆盖。
func loadEnvFiles(confPath string) {
	dirs := []string{".", filepath.Dir(confPath)}
	for _, dir := range dirs {
		for _, name := range envFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			_ = godotenv.Load(path)
		}
	}
}

// applyEnvOverrides 应用环境变量覆盖（12-Factor：敏感信息不落配置文件）。
//
//   - DATABASE_URL 覆盖 database.dsn
//   - REDIS_URL    覆盖 redis.addr
//   - PORT         覆盖 server.http.addr 的端口部分（Cloud Run 动态端口）
func applyEnvOverrides(rc *RuntimeConfig) {
	if rc == nil {
		return
	}
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		rc.Database.DSN = dsn
	}
	if addr := os.Getenv(envRedisURL); addr != "" {
		rc.Redis.Addr = addr
	}
	if port := os.Getenv(envPort); port != "" {
		rc.Server.HTTP.Addr = replacePort(rc.Server.HTTP.Addr, port)
	}
}

func replacePort(addr, port string) string {
	if addr == "" {
		return net.JoinHostPort("0.0.0.0", port)
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, port)
	}
	return net.JoinHostPort(host, port)
}

// buildServiceMetadata 构建服务元信息（环境变量优先，缺省回退默认值）。
func buildServiceMetadata() ServiceMetadata {
	name := os.Getenv(envServiceName)
	if name == "" {
		name = "lingo-services-features"
	}
	version := os.Getenv(envServiceVersion)
	if version == "" {
		version = "dev"
	}
	env := os.Getenv(envAppEnv)
	if env == "" {
		env = "development"
	}
	host, _ := os.Hostname()
	return ServiceMetadata{
		Name:        name,
		Version:     version,
		Environment: env,
		InstanceID:  host,
	}
}
