/*
 * @module service/evaluation/rules_extended
 * @description 历史扩展规则组：可访问性、互操作性、引用与可复用性检查
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 历史分类标签 -> 目录装载时归一 -> 与主规则组按签名去重
 * @rules 扩展规则沿用历史分类标签, 由目录统一归一到四个标准分类；
 *        与主规则组同名的规则在目录构建时按权重去重
 * @dependencies fmt, strings
 * @refs catalogue.go, types.go
 */

package evaluation

import (
	"fmt"
	"strings"
	"time"
)

// openProtocols 开放访问协议
var openProtocols = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"api":   true,
	"oai":   true,
}

// extendedRules 历史扩展规则组
// 分类标签为历史取值(accessibility/interoperability/citation/reusability),
// NewCatalogue装载时通过NormalizeCategory归一
func extendedRules() []RuleDefinition {
	return []RuleDefinition{
		{
			// 与溯源组的同名规则在目录构建时去重, 权重高者保留
			ID:       "accessibility-access-url",
			Name:     "访问地址存在性",
			Description: "数据集应提供可访问的数据地址",
			Category: Category("accessibility"),
			Weight:   6,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				accessURL, ok := firstString(record, "access_url", "url")
				if !ok {
					return Fail(nil, "缺少访问地址")
				}
				return Pass(accessURL, "访问地址已提供")
			}),
			Recommendation: "补充数据集的访问或下载地址",
		},
		{
			ID:       "access-protocol-open",
			Name:     "访问协议开放性",
			Description: "数据访问应使用开放协议",
			Category: Category("accessibility"),
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				if protocol, ok := stringField(record, "access_protocol"); ok {
					if openProtocols[strings.ToLower(protocol)] {
						return Pass(protocol, "访问协议开放")
					}
					return Fail(protocol, fmt.Sprintf("访问协议不开放: %s", protocol))
				}
				if accessURL, ok := firstString(record, "access_url", "url"); ok && validHTTPURL(accessURL) {
					return Pass(accessURL, "通过http/https开放访问")
				}
				return Fail(nil, "缺少访问协议信息")
			}),
			Recommendation: "通过http/https或开放API提供数据访问",
		},
		{
			ID:       "data-format-documented",
			Name:     "数据格式文档",
			Description: "数据集应记录其数据格式",
			Category: Category("interoperability"),
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				formats, ok := stringsField(record, "data_formats")
				if !ok {
					if single, hasSingle := stringField(record, "format"); hasSingle {
						return Pass(single, "数据格式已记录")
					}
					return Fail(nil, "缺少数据格式信息")
				}
				return Pass(formats, fmt.Sprintf("已记录%d种数据格式", len(formats)))
			}),
			Recommendation: "列出数据文件格式, 优先采用CSV、JSON等开放格式",
		},
		{
			ID:       "schema-documented",
			Name:     "结构文档",
			Description: "数据集应提供数据结构或模式说明",
			Category: Category("interoperability"),
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				schema, ok := firstString(record, "schema", "schema_url")
				if !ok {
					return Fail(nil, "缺少数据结构说明")
				}
				return Pass(schema, "数据结构说明已提供")
			}),
			Recommendation: "补充数据表结构或模式定义文档",
		},
		{
			ID:       "citation-guidance",
			Name:     "引用指引",
			Description: "数据集应提供引用方式或相关文献",
			Category: Category("citation"),
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				if citations, ok := stringsField(record, "citations"); ok {
					return Pass(len(citations), fmt.Sprintf("已记录%d条引用信息", len(citations)))
				}
				if citation, ok := stringField(record, "citation"); ok {
					return Pass(citation, "引用方式已提供")
				}
				return Fail(nil, "缺少引用指引")
			}),
			Recommendation: "提供推荐的引用格式或关联的发表文献",
		},
		{
			ID:       "usage-notes-presence",
			Name:     "使用说明",
			Description: "数据集应提供使用说明帮助复用",
			Category: Category("reusability"),
			Weight:   2,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				notes, ok := firstString(record, "usage_notes", "usage_note")
				if !ok {
					return Fail(nil, "缺少使用说明")
				}
				return Pass(notes, "使用说明已提供")
			}),
			Recommendation: "补充数据使用说明, 降低复用门槛",
		},
	}
}
