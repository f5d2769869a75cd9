/*
 * @module service/evaluation/rules_description
 * @description 描述维度内置规则：描述完整性、关键词质量、方法学与变量文档
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 字段检查 -> 通过/未通过结果
 * @rules 检查函数为纯函数，相同记录必须产生相同结果，不做任何I/O
 * @dependencies fmt, strings
 * @refs catalogue.go, rules.go
 */

package evaluation

import (
	"fmt"
	"strings"
	"time"
)

// genericKeywords 无区分度的通用关键词
var genericKeywords = map[string]bool{
	"data":        true,
	"dataset":     true,
	"research":    true,
	"science":     true,
	"information": true,
	"misc":        true,
	"other":       true,
	"数据":          true,
	"数据集":         true,
	"研究":          true,
	"其他":          true,
}

// descriptionRules 描述维度规则组
func descriptionRules() []RuleDefinition {
	return []RuleDefinition{
		{
			ID:       "description-presence",
			Name:     "描述存在性",
			Description: "数据集必须有内容描述",
			Category: CategoryDescription,
			Weight:   8,
			Severity: SeverityCritical,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				desc, ok := stringField(record, "description")
				if !ok {
					return Fail(nil, "缺少描述字段")
				}
				return Pass(len([]rune(desc)), "描述已提供")
			}),
			Recommendation: "为数据集撰写内容描述, 说明数据的来源、内容和用途",
		},
		{
			ID:       "description-length",
			Name:     "描述长度",
			Description: "描述长度应不少于50个字符",
			Category: CategoryDescription,
			Weight:   6,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				desc, ok := stringField(record, "description")
				if !ok {
					return Fail(nil, "缺少描述字段")
				}
				length := len([]rune(desc))
				if length < 50 {
					return Fail(length, fmt.Sprintf("描述过短, 当前%d个字符, 建议不少于50个", length))
				}
				return Pass(length, "描述长度合适")
			}),
			Recommendation: "扩充描述内容, 至少覆盖数据范围、采集方式和适用场景",
		},
		{
			ID:       "description-comprehensive",
			Name:     "描述完备性",
			Description: "完备的描述应不少于250个字符",
			Category: CategoryDescription,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				desc, ok := stringField(record, "description")
				if !ok {
					return Fail(nil, "缺少描述字段")
				}
				length := len([]rune(desc))
				if length < 250 {
					return Fail(length, fmt.Sprintf("描述不够完备, 当前%d个字符, 建议不少于250个", length))
				}
				return Pass(length, "描述内容完备")
			}),
			Recommendation: "进一步完善描述, 补充数据结构、局限性和引用方式等信息",
		},
		{
			ID:       "keywords-presence",
			Name:     "关键词存在性",
			Description: "数据集应提供关键词便于检索",
			Category: CategoryDescription,
			Weight:   6,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				keywords, ok := stringsField(record, "keywords")
				if !ok {
					return Fail(nil, "缺少关键词")
				}
				return Pass(len(keywords), fmt.Sprintf("已提供%d个关键词", len(keywords)))
			}),
			Recommendation: "为数据集添加3至10个能准确刻画主题的关键词",
		},
		{
			ID:       "keywords-count",
			Name:     "关键词数量",
			Description: "关键词数量应在3到15个之间",
			Category: CategoryDescription,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				keywords, ok := stringsField(record, "keywords")
				if !ok {
					return Fail(nil, "缺少关键词")
				}
				count := len(keywords)
				if count < 3 {
					return Fail(count, fmt.Sprintf("关键词过少, 当前%d个, 建议至少3个", count))
				}
				if count > 15 {
					return Fail(count, fmt.Sprintf("关键词过多, 当前%d个, 建议不超过15个", count))
				}
				return Pass(count, "关键词数量合适")
			}),
			Recommendation: "调整关键词数量到3至15个之间",
		},
		{
			ID:       "keywords-unique",
			Name:     "关键词唯一性",
			Description: "关键词不应重复",
			Category: CategoryDescription,
			Weight:   3,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				keywords, ok := stringsField(record, "keywords")
				if !ok {
					return Fail(nil, "缺少关键词")
				}
				seen := make(map[string]bool, len(keywords))
				for _, kw := range keywords {
					folded := strings.ToLower(kw)
					if seen[folded] {
						return Fail(kw, fmt.Sprintf("存在重复关键词: %s", kw))
					}
					seen[folded] = true
				}
				return Pass(len(keywords), "关键词无重复")
			}),
			Recommendation: "去除重复的关键词",
		},
		{
			ID:       "keywords-specific",
			Name:     "关键词针对性",
			Description: "关键词应具体, 避免过半为通用词汇",
			Category: CategoryDescription,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				keywords, ok := stringsField(record, "keywords")
				if !ok {
					return Fail(nil, "缺少关键词")
				}
				generic := 0
				for _, kw := range keywords {
					if genericKeywords[strings.ToLower(kw)] {
						generic++
					}
				}
				if generic*2 >= len(keywords) {
					return Fail(generic, fmt.Sprintf("通用关键词占比过高: %d/%d", generic, len(keywords)))
				}
				return Pass(len(keywords), "关键词具有针对性")
			}),
			Recommendation: "用领域术语替换\"data\"、\"research\"等通用关键词",
		},
		{
			ID:       "methodology-presence",
			Name:     "方法学文档",
			Description: "数据集应说明数据采集与处理方法",
			Category: CategoryDescription,
			Weight:   5,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				methodology, ok := stringField(record, "methodology")
				if !ok {
					return Fail(nil, "缺少方法学说明")
				}
				return Pass(len([]rune(methodology)), "方法学说明已提供")
			}),
			Recommendation: "补充数据采集、清洗与处理方法的说明",
		},
		{
			ID:       "methodology-detail",
			Name:     "方法学详细程度",
			Description: "方法学说明应不少于50个字符",
			Category: CategoryDescription,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				methodology, ok := stringField(record, "methodology")
				if !ok {
					return Fail(nil, "缺少方法学说明")
				}
				length := len([]rune(methodology))
				if length < 50 {
					return Fail(length, fmt.Sprintf("方法学说明过于简略, 当前%d个字符", length))
				}
				return Pass(length, "方法学说明足够详细")
			}),
			Recommendation: "细化方法学说明, 包含仪器、参数与处理流程",
		},
		{
			ID:       "variables-documented",
			Name:     "变量与单位文档",
			Description: "数据集应记录变量及其单位",
			Category: CategoryDescription,
			Weight:   3,
			Severity: SeveritySuggestion,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				if variables, ok := stringsField(record, "variables"); ok {
					return Pass(len(variables), fmt.Sprintf("已记录%d个变量", len(variables)))
				}
				if value, exists := record["variables"]; exists {
					if items, isSlice := value.([]interface{}); isSlice && len(items) > 0 {
						return Pass(len(items), fmt.Sprintf("已记录%d个变量", len(items)))
					}
				}
				return Fail(nil, "缺少变量文档")
			}),
			Recommendation: "列出数据集包含的变量名称、含义和计量单位",
		},
	}
}
