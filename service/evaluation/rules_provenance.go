/*
 * @module service/evaluation/rules_provenance
 * @description 溯源维度内置规则：发布日期、访问地址、时空覆盖、资助与来源
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 字段检查 -> 通过/未通过结果
 * @rules 检查函数为纯函数；涉及"不晚于当前时间"的判断使用注入的评估时钟, 不读取环境时钟
 * @dependencies fmt, time
 * @refs catalogue.go, rules.go, normalizer.go
 */

package evaluation

import (
	"fmt"
	"time"
)

// provenanceRules 溯源维度规则组
func provenanceRules() []RuleDefinition {
	return []RuleDefinition{
		{
			ID:       "publication-date-presence",
			Name:     "发布日期存在性",
			Description: "数据集应记录发布日期",
			Category: CategoryProvenance,
			Weight:   6,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				date, ok := stringField(record, "publication_date")
				if !ok {
					return Fail(nil, "缺少发布日期")
				}
				return Pass(date, "发布日期已提供")
			}),
			Recommendation: "补充数据集的发布日期",
		},
		{
			ID:       "publication-date-valid",
			Name:     "发布日期有效性",
			Description: "发布日期应为可解析的有效日期",
			Category: CategoryProvenance,
			Weight:   5,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				date, ok := stringField(record, "publication_date")
				if !ok {
					return Fail(nil, "缺少发布日期, 无法校验有效性")
				}
				if _, valid := ParseCanonicalDate(date); !valid {
					// 原始值保留在结果中便于诊断
					return Fail(date, fmt.Sprintf("发布日期无法解析: %s", date))
				}
				return Pass(date, "发布日期有效")
			}),
			Recommendation: "使用YYYY-MM-DD格式记录发布日期",
		},
		{
			ID:       "publication-date-not-future",
			Name:     "发布日期非未来",
			Description: "发布日期不应晚于当前日期",
			Category: CategoryProvenance,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, now time.Time) Outcome {
				date, ok := stringField(record, "publication_date")
				if !ok {
					return Fail(nil, "缺少发布日期, 无法校验时间范围")
				}
				parsed, valid := ParseCanonicalDate(date)
				if !valid {
					return Fail(date, fmt.Sprintf("发布日期无法解析: %s", date))
				}
				if parsed.After(now) {
					return Fail(date, fmt.Sprintf("发布日期晚于当前日期: %s", date))
				}
				return Pass(date, "发布日期在合理范围内")
			}),
			Recommendation: "核实发布日期, 不应填写未来日期",
		},
		{
			ID:       "access-url-presence",
			Name:     "访问地址存在性",
			Description: "数据集应提供可访问的数据地址",
			Category: CategoryProvenance,
			Weight:   7,
			Severity: SeverityCritical,
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
			ID:       "access-url-valid",
			Name:     "访问地址有效性",
			Description: "访问地址应为合法的http/https地址",
			Category: CategoryProvenance,
			Weight:   4,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				accessURL, ok := firstString(record, "access_url", "url")
				if !ok {
					return Fail(nil, "缺少访问地址, 无法校验格式")
				}
				if !validHTTPURL(accessURL) {
					return Fail(accessURL, "访问地址不是合法的http/https地址")
				}
				return Pass(accessURL, "访问地址格式有效")
			}),
			Recommendation: "使用完整的http/https地址, 包含协议与主机名",
		},
		{
			ID:       "temporal-coverage",
			Name:     "时间覆盖范围",
			Description: "数据集应记录时间覆盖范围",
			Category: CategoryProvenance,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				if !hasField(record, "temporal_coverage") {
					return Fail(nil, "缺少时间覆盖范围")
				}
				return Pass(record["temporal_coverage"], "时间覆盖范围已记录")
			}),
			Recommendation: "记录数据覆盖的起止时间",
		},
		{
			ID:       "spatial-coverage",
			Name:     "空间覆盖范围",
			Description: "数据集应记录空间覆盖范围",
			Category: CategoryProvenance,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				if !hasField(record, "spatial_coverage") {
					return Fail(nil, "缺少空间覆盖范围")
				}
				return Pass(record["spatial_coverage"], "空间覆盖范围已记录")
			}),
			Recommendation: "记录数据覆盖的地理区域或坐标范围",
		},
		{
			ID:       "funding-presence",
			Name:     "资助信息",
			Description: "数据集应记录资助来源",
			Category: CategoryProvenance,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				funding, ok := firstString(record, "funding", "funder")
				if !ok {
					return Fail(nil, "缺少资助信息")
				}
				return Pass(funding, "资助信息已记录")
			}),
			Recommendation: "补充资助机构与项目编号",
		},
		{
			ID:       "source-documented",
			Name:     "数据来源文档",
			Description: "数据集应说明其数据来源",
			Category: CategoryProvenance,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				source, ok := stringField(record, "source")
				if ok {
					return Pass(source, "数据来源已说明")
				}
				if related, hasRelated := stringsField(record, "related_datasets"); hasRelated {
					return Pass(len(related), fmt.Sprintf("已关联%d个相关数据集", len(related)))
				}
				return Fail(nil, "缺少数据来源说明")
			}),
			Recommendation: "说明数据来源或关联上游数据集",
		},
	}
}
