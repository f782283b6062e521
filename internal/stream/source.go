// Package stream 提供事件流源的 poll-for-next 抽象。
//
// 上游是一个有序、分区、至少一次投递的外部日志；本包只依赖其消费契约：
// 取下一条、超时返回空、按既定策略推进位点。
package stream

import (
	"context"
	"errors"
	"time"
)

// 逻辑主题名。
const (
	TopicUserEvents    = "user-events"
	TopicContentEvents = "content-events"
)

// 消息属性键：逻辑主题与分区键随消息属性传递。
const (
	AttrTopic = "topic"
	AttrKey   = "key"
)

// ErrBacklogEOF 表示源已永久耗尽：背景消费循环退出且缓冲读尽。
// 之后的 Poll 永远返回它，调用方应停止轮询并退出。
var ErrBacklogEOF = errors.New("stream: reached end of backlog")

// Record 是一条原始事件记录。所有权在投递时转移给调用方。
type Record struct {
	Topic   string
	Key     string
	Payload []byte
}

// Source 是事件流的消费端契约。
//
// Poll 在 timeout 内等待下一条记录；超时返回 (nil, nil)——既不是错误，
// 也不是流结束。Close 之后 Poll 返回 ErrBacklogEOF。
type Source interface {
	Poll(ctx context.Context, timeout time.Duration) (*Record, error)
	Close() error
}
