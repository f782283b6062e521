package events

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeUserEvent 将 JSON 载荷解码为 UserEvent 并补足缺省字段。
// user_id 为空不是解码错误：该丢弃语义由处理器决定。
func DecodeUserEvent(data []byte) (*UserEvent, error) {
	var evt UserEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("events: decode user event: %w", err)
	}
	evt.normalize()
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.PostID = strings.TrimSpace(evt.PostID)
	return &evt, nil
}

// DecodeContentEvent 将 JSON 载荷解码为 ContentEvent 并补足缺省字段。
func DecodeContentEvent(data []byte) (*ContentEvent, error) {
	var evt ContentEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("events: decode content event: %w", err)
	}
	evt.normalize()
	evt.PostID = strings.TrimSpace(evt.PostID)
	evt.AuthorID = strings.TrimSpace(evt.AuthorID)
	return &evt, nil
}
