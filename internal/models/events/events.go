// Package events 定义事件流上的原始事件模型（tagged union）。
//
// 事件在生成端创建后不可变；kind 判别一次发生在解码时，下游按已解码的
// 具体类型处理，不再做形状推断。
package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind 是事件类型判别值，与载荷中的 event_type 字段一致。
type Kind string

// 用户行为事件类型。
const (
	KindUserView     Kind = "user_view"
	KindUserClick    Kind = "user_click"
	KindUserUpvote   Kind = "user_upvote"
	KindUserDownvote Kind = "user_downvote"
	KindUserComment  Kind = "user_comment"
)

// 内容生命周期事件类型。
const (
	KindPostCreated Kind = "post_created"
	KindPostEdited  Kind = "post_edited"
	KindPostDeleted Kind = "post_deleted"
)

// IsUserKind 判断是否属于用户事件族。
func (k Kind) IsUserKind() bool {
	switch k {
	case KindUserView, KindUserClick, KindUserUpvote, KindUserDownvote, KindUserComment:
		return true
	}
	return false
}

// IsContentKind 判断是否属于内容事件族。
func (k Kind) IsContentKind() bool {
	switch k {
	case KindPostCreated, KindPostEdited, KindPostDeleted:
		return true
	}
	return false
}

// Envelope 是所有事件的公共字段。
type Envelope struct {
	EventID   string    `json:"event_id"`
	Type      Kind      `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// UserEvent 描述一次用户与内容的交互。
type UserEvent struct {
	Envelope
	UserID          string   `json:"user_id"`
	PostID          string   `json:"post_id"`
	Subreddit       string   `json:"subreddit"`
	SessionID       string   `json:"session_id"`
	DeviceType      string   `json:"device_type"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

// ContentEvent 描述一次内容生命周期变更。
type ContentEvent struct {
	Envelope
	PostID      string `json:"post_id"`
	AuthorID    string `json:"author_id"`
	Subreddit   string `json:"subreddit"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	WordCount   *int   `json:"word_count,omitempty"`
}

// NewEnvelope 构造带有生成 ID 与 UTC 时间戳的公共字段。
func NewEnvelope(kind Kind) Envelope {
	return Envelope{
		EventID:   uuid.NewString(),
		Type:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// normalize 补足缺省字段：空 ID 生成 UUID，零时间填当前时刻，时间戳归一 UTC。
func (e *Envelope) normalize() {
	e.EventID = strings.TrimSpace(e.EventID)
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	} else {
		e.Timestamp = e.Timestamp.UTC()
	}
}
