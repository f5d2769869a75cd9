/*
 * @module service/evaluation/rules_identification
 * @description 标识维度内置规则：标题、作者、发布机构、版本与持久标识符
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 字段检查 -> 通过/未通过结果
 * @rules 检查函数为纯函数，相同记录必须产生相同结果，不做任何I/O
 * @dependencies fmt, regexp, strings
 * @refs catalogue.go, rules.go
 */

package evaluation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// doiPattern DOI标识符格式
var doiPattern = regexp.MustCompile(`^(doi:|https?://(dx\.)?doi\.org/)?10\.\d{4,9}/\S+$`)

// genericTitles 无信息量的通用标题
var genericTitles = map[string]bool{
	"data":     true,
	"dataset":  true,
	"test":     true,
	"untitled": true,
	"数据":       true,
	"数据集":      true,
	"未命名":      true,
}

// identificationRules 标识维度规则组
func identificationRules() []RuleDefinition {
	return []RuleDefinition{
		{
			ID:       "title-presence",
			Name:     "标题存在性",
			Description: "数据集必须有标题",
			Category: CategoryIdentification,
			Weight:   8,
			Severity: SeverityCritical,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				title, ok := stringField(record, "title")
				if !ok {
					return Fail(nil, "缺少标题字段")
				}
				return Pass(title, "标题已提供")
			}),
			Recommendation: "为数据集补充一个能准确概括内容的标题",
		},
		{
			ID:       "title-length",
			Name:     "标题长度",
			Description: "标题长度应不少于10个字符",
			Category: CategoryIdentification,
			Weight:   5,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				title, ok := stringField(record, "title")
				if !ok {
					return Fail(nil, "缺少标题字段")
				}
				length := len([]rune(title))
				if length < 10 {
					return Fail(length, fmt.Sprintf("标题过短, 当前%d个字符, 建议不少于10个", length))
				}
				return Pass(length, "标题长度合适")
			}),
			Recommendation: "扩充标题, 使其包含主题、范围或时间等关键信息",
		},
		{
			ID:       "title-descriptive",
			Name:     "标题描述性",
			Description: "标题应具有描述性, 避免使用通用词汇",
			Category: CategoryIdentification,
			Weight:   3,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				title, ok := stringField(record, "title")
				if !ok {
					return Fail(nil, "缺少标题字段")
				}
				if genericTitles[strings.ToLower(title)] {
					return Fail(title, "标题为通用词汇, 缺乏描述性")
				}
				if wordCount(title) < 2 && len([]rune(title)) < 6 {
					return Fail(title, "标题信息量不足")
				}
				return Pass(title, "标题具有描述性")
			}),
			Recommendation: "避免使用\"data\"、\"数据集\"等通用标题, 在标题中体现数据主题",
		},
		{
			ID:       "authors-presence",
			Name:     "作者信息",
			Description: "数据集应记录至少一位作者或创建者",
			Category: CategoryIdentification,
			Weight:   7,
			Severity: SeverityCritical,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				authors, ok := stringsField(record, "authors")
				if !ok {
					if s, single := stringField(record, "author"); single {
						return Pass(s, "作者信息已提供")
					}
					return Fail(nil, "缺少作者信息")
				}
				return Pass(len(authors), fmt.Sprintf("已记录%d位作者", len(authors)))
			}),
			Recommendation: "补充数据集的作者或创建者信息",
		},
		{
			ID:       "publisher-presence",
			Name:     "发布机构",
			Description: "数据集应记录发布机构",
			Category: CategoryIdentification,
			Weight:   5,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				publisher, ok := stringField(record, "publisher")
				if !ok {
					return Fail(nil, "缺少发布机构")
				}
				return Pass(publisher, "发布机构已提供")
			}),
			Recommendation: "补充负责发布和维护数据集的机构名称",
		},
		{
			ID:       "version-presence",
			Name:     "版本信息",
			Description: "数据集应标明版本",
			Category: CategoryIdentification,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				version, ok := stringField(record, "version")
				if !ok {
					return Fail(nil, "缺少版本信息")
				}
				return Pass(version, "版本信息已提供")
			}),
			Recommendation: "为数据集标注版本号, 便于使用者区分不同发布",
		},
		{
			ID:       "identifier-presence",
			Name:     "持久标识符",
			Description: "数据集应具有DOI等持久标识符",
			Category: CategoryIdentification,
			Weight:   6,
			Severity: SeverityImportant,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				identifier, ok := firstString(record, "identifier", "doi")
				if !ok {
					return Fail(nil, "缺少持久标识符")
				}
				return Pass(identifier, "持久标识符已提供")
			}),
			Recommendation: "通过DataCite等机构为数据集注册DOI持久标识符",
		},
		{
			ID:       "identifier-doi-format",
			Name:     "DOI格式有效性",
			Description: "持久标识符应符合DOI格式规范",
			Category: CategoryIdentification,
			Weight:   4,
			Severity: SeverityWarning,
			Check: CheckFunc(func(record Metadata, _ time.Time) Outcome {
				identifier, ok := firstString(record, "identifier", "doi")
				if !ok {
					return Fail(nil, "缺少持久标识符, 无法校验格式")
				}
				if !doiPattern.MatchString(identifier) {
					return Fail(identifier, "标识符不符合DOI格式")
				}
				return Pass(identifier, "DOI格式有效")
			}),
			Recommendation: "使用规范的DOI格式, 例如 10.1234/abcd.5678",
		},
	}
}
