// Package textnorm 提供类型标签的模糊比较：只保留 ASCII 字母并转小写。
package textnorm

import "strings"

// Normalize 去掉所有非 ASCII 字母字符并转为小写。
// 空串返回空串，不会失败。
//
//	Normalize("Sci-Fi!") == "scifi"
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// SplitNormalized 按逗号拆分标签并逐个 Normalize，丢弃归一化后为空的项。
func SplitNormalized(labels string) []string {
	if labels == "" {
		return nil
	}
	parts := strings.Split(labels, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}
