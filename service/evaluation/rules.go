/*
 * @module service/evaluation/rules
 * @description 规则检查公共辅助函数，提供字段读取与类型收敛能力
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 字段读取 -> 类型收敛 -> 规则判定
 * @rules 辅助函数只读取记录，不做任何修改
 * @dependencies github.com/spf13/cast, net/url, strings
 * @refs rules_identification.go, rules_description.go, rules_legal.go, rules_provenance.go
 */

package evaluation

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// stringField 读取字符串字段，缺失或为空返回false
// 数值等标量通过cast收敛为字符串，兼容version等字段的数值写法
func stringField(record Metadata, key string) (string, bool) {
	value, exists := record[key]
	if !exists || value == nil {
		return "", false
	}
	if _, isMap := value.(map[string]interface{}); isMap {
		return "", false
	}
	s := strings.TrimSpace(cast.ToString(value))
	if s == "" {
		return "", false
	}
	return s, true
}

// firstString 按顺序读取多个候选字段，返回第一个存在的字符串值
func firstString(record Metadata, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := stringField(record, key); ok {
			return s, true
		}
	}
	return "", false
}

// stringsField 读取字符串数组字段，缺失或为空返回false
func stringsField(record Metadata, key string) ([]string, bool) {
	value, exists := record[key]
	if !exists || value == nil {
		return nil, false
	}
	items := cast.ToStringSlice(value)
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		return nil, false
	}
	return cleaned, true
}

// hasField 字段是否存在（规范化后缺失与空已折叠为同一状态）
func hasField(record Metadata, keys ...string) bool {
	for _, key := range keys {
		if _, exists := record[key]; exists {
			return true
		}
	}
	return false
}

// validHTTPURL 是否为合法的http/https地址
func validHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// wordCount 按空白切分的词数
func wordCount(s string) int {
	return len(strings.Fields(s))
}
