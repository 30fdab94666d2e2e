package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// APIError 非 2xx 响应对应的错误，Message 已抽取为可直接展示的文本。
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// ExtractMessage 从错误响应体提取可读消息。
// 功能：依次尝试 message 字段、detail 字段；都没有时把字段级错误对象
// 展平为 "field: msg; ..." 文本；完全不可解析时退回原始文本。
func ExtractMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "request failed"
	}
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return raw
	}
	if s, ok := m["message"].(string); ok && s != "" {
		return s
	}
	if s, ok := m["detail"].(string); ok && s != "" {
		return s
	}
	return flattenFieldErrors(m, raw)
}

// flattenFieldErrors 将 {"field": ["err1","err2"], ...} 形态展平为一行文本。
func flattenFieldErrors(m map[string]any, fallback string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			parts = append(parts, k+": "+v)
		case []any:
			msgs := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					msgs = append(msgs, s)
				}
			}
			if len(msgs) > 0 {
				parts = append(parts, k+": "+strings.Join(msgs, ", "))
			}
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "; ")
}
