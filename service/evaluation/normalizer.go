/*
 * @module service/evaluation/normalizer
 * @description 元数据规范化器，在规则评估前将任意形态的输入清洗为规范记录
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 任意输入 -> 类型判定 -> 字段清洗 -> 日期规范化 -> 规范记录
 * @rules 纯函数且幂等；输入永不修改；空字符串/空数组与字段缺失折叠为同一状态
 * @dependencies golang.org/x/text/width, time, strings
 * @refs rules.go, engine.go
 */

package evaluation

import (
	"strings"
	"time"

	"golang.org/x/text/width"
)

// dateField 需要做日期规范化的字段名
const dateField = "publication_date"

// dateLayouts 日期解析尝试的格式，按常见程度排列
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2006-1-2",
	"20060102",
	"2006年01月02日",
	"2006年1月2日",
	"January 2, 2006",
	"2 January 2006",
}

// Normalize 将任意输入规范化为可供规则评估的元数据记录
// 非对象输入（nil、标量、数组等）一律返回空记录，绝不抛出
func Normalize(raw interface{}) Metadata {
	var source map[string]interface{}
	switch v := raw.(type) {
	case Metadata:
		source = v
	case map[string]interface{}:
		source = v
	default:
		return Metadata{}
	}

	record := make(Metadata, len(source))
	for key, value := range source {
		normalized, keep := normalizeValue(value)
		if !keep {
			continue
		}
		if key == dateField {
			if s, ok := normalized.(string); ok {
				normalized = canonicalizeDate(s)
			}
		}
		record[key] = normalized
	}
	return record
}

// normalizeValue 清洗单个字段值，返回keep=false表示字段应当缺失
func normalizeValue(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		s := normalizeString(v)
		if s == "" {
			return nil, false
		}
		return s, true
	case []interface{}:
		return normalizeSlice(v)
	case []string:
		elems := make([]interface{}, len(v))
		for i, s := range v {
			elems[i] = s
		}
		return normalizeSlice(elems)
	case map[string]interface{}:
		nested := Normalize(v)
		if len(nested) == 0 {
			return nil, false
		}
		return map[string]interface{}(nested), true
	case Metadata:
		nested := Normalize(v)
		if len(nested) == 0 {
			return nil, false
		}
		return map[string]interface{}(nested), true
	default:
		// 数值、布尔等标量保持原样
		return value, true
	}
}

// normalizeSlice 清洗数组字段：字符串元素修剪，空元素丢弃，结果为空则字段缺失
func normalizeSlice(elems []interface{}) (interface{}, bool) {
	cleaned := make([]interface{}, 0, len(elems))
	for _, elem := range elems {
		switch e := elem.(type) {
		case nil:
			continue
		case string:
			s := normalizeString(e)
			if s == "" {
				continue
			}
			cleaned = append(cleaned, s)
		default:
			cleaned = append(cleaned, elem)
		}
	}
	if len(cleaned) == 0 {
		return nil, false
	}
	return cleaned, true
}

// normalizeString 修剪首尾空白并将全角字符折叠为半角
func normalizeString(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// canonicalizeDate 尽力解析日期并改写为YYYY-MM-DD规范形式
// 无法解析时原样保留，由下游日期有效性规则负责标记
func canonicalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// ParseCanonicalDate 按规范形式解析日期，供日期相关规则使用
func ParseCanonicalDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
