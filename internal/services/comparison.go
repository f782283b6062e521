package services

import (
	"fmt"
	"strconv"
	"strings"
)

// missingValue 表示某一侧不存在该特征值时的可读占位。
const missingValue = "None"

// Comparator 判定在线值与离线值是否一致；nil 指针表示该侧缺失。
type Comparator interface {
	Compare(online, offline *string) (consistent bool, difference string)
}

// NewComparator 按配置名返回比较器；空串等价于 normalized。
func NewComparator(name string) (Comparator, error) {
	switch name {
	case "", "normalized":
		return NormalizedComparator{}, nil
	case "exact":
		return ExactComparator{}, nil
	default:
		return nil, fmt.Errorf("unknown comparison mode %q", name)
	}
}

// NormalizedComparator 先把两侧归一化成字符串再比较：数值按十进制
// 规范形态（"5" 与 "5.0" 一致），其余按去空白后的原文。双侧缺失视为一致。
type NormalizedComparator struct{}

func (NormalizedComparator) Compare(online, offline *string) (bool, string) {
	left := normalize(online)
	right := normalize(offline)
	if left == right {
		return true, ""
	}
	return false, fmt.Sprintf("online=%s offline=%s", left, right)
}

// ExactComparator 逐字节比较原始字符串；缺失只与缺失一致。
type ExactComparator struct{}

func (ExactComparator) Compare(online, offline *string) (bool, string) {
	left := render(online)
	right := render(offline)
	if online == nil && offline == nil {
		return true, ""
	}
	if online != nil && offline != nil && *online == *offline {
		return true, ""
	}
	return false, fmt.Sprintf("online=%s offline=%s", left, right)
}

func normalize(v *string) string {
	if v == nil {
		return missingValue
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return missingValue
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func render(v *string) string {
	if v == nil {
		return missingValue
	}
	return *v
}
