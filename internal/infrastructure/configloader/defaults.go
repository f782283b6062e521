package configloader

import (
	"strconv"
	"time"
)

// applyDefaults 为未显式配置的字段填充默认值。
func applyDefaults(rc *RuntimeConfig) {
	if rc == nil {
		return
	}
	if rc.Server.HTTP.Addr == "" {
		rc.Server.HTTP.Addr = "0.0.0.0:8080"
	}
	if rc.Server.HTTP.Timeout == 0 {
		rc.Server.HTTP.Timeout = Duration(5 * time.Second)
	}
	if rc.Database.MaxOpenConns == 0 {
		rc.Database.MaxOpenConns = 10
	}
	if rc.Database.Schema == "" {
		rc.Database.Schema = "features"
	}
	if rc.Redis.DialTimeout == 0 {
		rc.Redis.DialTimeout = Duration(5 * time.Second)
	}
	if rc.Messaging.PubSub.Receive.NumGoroutines == 0 {
		rc.Messaging.PubSub.Receive.NumGoroutines = 1
	}
	if rc.Messaging.PubSub.Receive.MaxOutstandingMessages == 0 {
		rc.Messaging.PubSub.Receive.MaxOutstandingMessages = 64
	}
	if rc.Pipeline.PollTimeout == 0 {
		rc.Pipeline.PollTimeout = Duration(time.Second)
	}
	if rc.Pipeline.LogEvery == 0 {
		rc.Pipeline.LogEvery = 100
	}
	if rc.Pipeline.SourceBuffer == 0 {
		rc.Pipeline.SourceBuffer = 128
	}
	if rc.Checker.Interval == 0 {
		rc.Checker.Interval = Duration(60 * time.Second)
	}
	if rc.Checker.WindowHours == 0 {
		rc.Checker.WindowHours = 24
	}
	if rc.Checker.Comparison == "" {
		rc.Checker.Comparison = "normalized"
	}
	if rc.Checker.EntityType == "" {
		rc.Checker.EntityType = "user"
	}
	if len(rc.Checker.SampleEntities) == 0 {
		rc.Checker.SampleEntities = defaultSampleEntities()
	}
}

func defaultSampleEntities() []string {
	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, "user_"+strconv.Itoa(i))
	}
	return ids
}
