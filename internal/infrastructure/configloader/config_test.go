package configloader

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{`"1s"`, time.Second},
		{`"500ms"`, 500 * time.Millisecond},
		{`"2"`, 2 * time.Second},
		{`1.5`, 1500 * time.Millisecond},
		{`""`, 0},
	}
	for _, tc := range cases {
		var d Duration
		if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if d.AsDuration() != tc.want {
			t.Fatalf("%s: got %s want %s", tc.raw, d.AsDuration(), tc.want)
		}
	}

	var d Duration
	if err := json.Unmarshal([]byte(`"abc"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	rc := RuntimeConfig{}
	if err := rc.Validate(); err == nil {
		t.Fatalf("expected error for missing dsn")
	}

	rc.Database.DSN = "postgres://localhost/features"
	if err := rc.Validate(); err == nil {
		t.Fatalf("expected error for missing redis addr")
	}

	rc.Redis.Addr = "localhost:6379"
	if err := rc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc.Checker.Comparison = "fuzzy"
	if err := rc.Validate(); err == nil {
		t.Fatalf("expected error for invalid comparison mode")
	}
	rc.Checker.Comparison = "exact"
	if err := rc.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	var rc RuntimeConfig
	applyDefaults(&rc)

	if rc.Server.HTTP.Addr == "" {
		t.Fatalf("expected default http addr")
	}
	if rc.Database.MaxOpenConns != 10 {
		t.Fatalf("unexpected max open conns: %d", rc.Database.MaxOpenConns)
	}
	if rc.Pipeline.PollTimeout.AsDuration() != time.Second {
		t.Fatalf("unexpected poll timeout: %s", rc.Pipeline.PollTimeout.AsDuration())
	}
	if rc.Checker.Comparison != "normalized" {
		t.Fatalf("unexpected comparison mode: %s", rc.Checker.Comparison)
	}
	if len(rc.Checker.SampleEntities) != 10 {
		t.Fatalf("expected 10 sample entities, got %d", len(rc.Checker.SampleEntities))
	}
	if rc.Checker.SampleEntities[7] != "user_7" {
		t.Fatalf("unexpected sample entity: %s", rc.Checker.SampleEntities[7])
	}
}

func TestReplacePort(t *testing.T) {
	if got := replacePort("0.0.0.0:8080", "9090"); got != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr: %s", got)
	}
	if got := replacePort("", "9090"); got != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr: %s", got)
	}
}

func TestResolveConfPath(t *testing.T) {
	if got := ResolveConfPath("custom/config.yaml"); got != "custom/config.yaml" {
		t.Fatalf("explicit path must win: %s", got)
	}
	t.Setenv("CONF_PATH", "from-env")
	if got := ResolveConfPath(""); got != "from-env" {
		t.Fatalf("env fallback broken: %s", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override/db")
	t.Setenv("REDIS_URL", "redis-override:6379")

	rc := RuntimeConfig{}
	rc.Server.HTTP.Addr = "0.0.0.0:8080"
	applyEnvOverrides(&rc)

	if rc.Database.DSN != "postgres://override/db" {
		t.Fatalf("DATABASE_URL override broken: %s", rc.Database.DSN)
	}
	if rc.Redis.Addr != "redis-override:6379" {
		t.Fatalf("REDIS_URL override broken: %s", rc.Redis.Addr)
	}
}
