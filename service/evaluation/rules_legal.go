/*
 * @module service/evaluation/rules_legal
 * @description 合规维度内置规则：许可协议存在性、SPDX有效性、开放性与限制性
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 许可字段检查 -> 通过/未通过结果
 * @rules 检查函数为纯函数，相同记录必须产生相同结果，不做任何I/O
 * @dependencies strings
 * @refs catalogue.go, rules.go
 */

package evaluation

import (
	"strings"
	"time"
)

// spdxLicenses 常见SPDX许可标识符
var spdxLicenses = map[string]bool{
	"CC0-1.0":          true,
	"CC-BY-4.0":        true,
	"CC-BY-SA-4.0":     true,
	"CC-BY-NC-4.0":     true,
	"CC-BY-NC-SA-4.0":  true,
	"CC-BY-ND-4.0":     true,
	"CC-BY-NC-ND-4.0":  true,
	"MIT":              true,
	"Apache-2.0":       true,
	"BSD-2-Clause":     true,
	"BSD-3-Clause":     true,
	"GPL-2.0-only":     true,
	"GPL-3.0-only":     true,
	"GPL-3.0-or-later": true,
	"LGPL-3.0-only":    true,
	"MPL-2.0":          true,
	"EPL-2.0":          true,
	"ODbL-1.0":         true,
	"ODC-By-1.0":       true,
	"PDDL-1.0":         true,
	"EUPL-1.2":         true,
	"Unlicense":        true,
}

// openLicenses 开放数据许可
var openLicenses = map[string]bool{
	"CC0-1.0":      true,
	"CC-BY-4.0":    true,
	"CC-BY-SA-4.0": true,
	"MIT":          true,
	"Apache-2.0":   true,
	"BSD-2-Clause": true,
	"BSD-3-Clause": true,
	"ODbL-1.0":     true,
	"ODC-By-1.0":   true,
	"PDDL-1.0":     true,
	"Unlicense":    true,
}

// restrictiveLicenses 限制复用的许可
var restrictiveLicenses = map[string]bool{
	"CC-BY-NC-4.0":    true,
	"CC-BY-NC-SA-4.0": true,
	"CC-BY-ND-4.0":    true,
	"CC-BY-NC-ND-4.0": true,
}

// legalRules 合规维度规则组
func legalRules() []RuleDefinition {
	return []RuleDefinition{
		{
			ID:       "license-presence",
			Name:     "许可协议存在性",
			Description: "数据集必须声明许可协议",
			Category: CategoryLegal,
			Weight:   9,
			Severity: SeverityCritical,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				license, ok := stringField(record, "license")
				if !ok {
					return Fail(nil, "缺少许可协议")
				}
				return Pass(license, "许可协议已声明")
			}),
			Recommendation: "为数据集声明许可协议, 明确使用者的权利和义务",
		},
		{
			ID:       "license-spdx",
			Name:     "SPDX许可有效性",
			Description: "许可协议应使用SPDX标准标识符",
			Category: CategoryLegal,
			Weight:   5,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				license, ok := stringField(record, "license")
				if !ok {
					return Fail(nil, "缺少许可协议, 无法校验SPDX标识")
				}
				if !spdxLicenses[license] {
					return Fail(license, "许可协议不是已知的SPDX标识符")
				}
				return Pass(license, "SPDX许可标识有效")
			}),
			Recommendation: "使用SPDX标准标识符声明许可, 例如 CC-BY-4.0",
		},
		{
			ID:       "license-open",
			Name:     "许可开放性",
			Description: "建议使用开放数据许可",
			Category: CategoryLegal,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				license, ok := stringField(record, "license")
				if !ok {
					return Fail(nil, "缺少许可协议, 无法判定开放性")
				}
				if !openLicenses[license] {
					return Fail(license, "许可协议不属于开放数据许可")
				}
				return Pass(license, "使用了开放数据许可")
			}),
			Recommendation: "优先选择CC0-1.0、CC-BY-4.0等开放许可提升数据复用价值",
		},
		{
			ID:       "license-not-restrictive",
			Name:     "许可限制性",
			Description: "避免使用禁止演绎或商用的限制性许可",
			Category: CategoryLegal,
			Weight:   2,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				license, ok := stringField(record, "license")
				if !ok {
					return Fail(nil, "缺少许可协议, 无法判定限制性")
				}
				if restrictiveLicenses[license] || strings.Contains(strings.ToUpper(license), "-NC") {
					return Fail(license, "许可协议对复用存在较强限制")
				}
				return Pass(license, "许可协议未施加强限制")
			}),
			Recommendation: "如业务允许, 避免NC/ND类许可对数据复用的限制",
		},
		{
			ID:       "usage-terms-documented",
			Name:     "使用条款文档",
			Description: "应记录数据使用条款或权利声明",
			Category: CategoryLegal,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				terms, ok := firstString(record, "usage_terms", "rights")
				if !ok {
					return Fail(nil, "缺少使用条款或权利声明")
				}
				return Pass(terms, "使用条款已记录")
			}),
			Recommendation: "补充数据使用条款或权利声明, 说明引用要求与责任边界",
		},
	}
}
