/*
 * @module service/evaluation/catalogue
 * @description 质量规则目录，持有全部静态规则定义并提供分类、权重、严重程度查询
 * @architecture 分层架构 - 领域模型层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规则装载 -> 完整性校验 -> 签名去重 -> 索引与权重缓存
 * @rules 目录构建后不可变；完整性校验失败必须快速失败，不允许提供不一致的规则集
 * @dependencies fmt, strings, unicode
 * @refs rules_identification.go, rules_description.go, rules_legal.go, rules_provenance.go, rules_extended.go
 */

package evaluation

import (
	"fmt"
	"strings"
	"unicode"
)

// Catalogue 规则目录，进程启动时构建一次，之后只读
type Catalogue struct {
	rules           []RuleDefinition
	byID            map[string]*RuleDefinition
	totalWeight     int
	categoryWeights map[Category]int
}

// NewCatalogue 构建规则目录
// 校验规则完整性（ID唯一、权重为正、分类可归一、严重程度合法），
// 并按(标准分类, 归一化名称)签名去重，权重高者保留。
// 任何完整性违规视为启动期配置错误，返回error由调用方快速失败。
func NewCatalogue(defs []RuleDefinition) (*Catalogue, error) {
	seenIDs := make(map[string]bool)
	for i := range defs {
		def := &defs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("规则目录校验失败: 第%d条规则缺少ID", i)
		}
		if seenIDs[def.ID] {
			return nil, fmt.Errorf("规则目录校验失败: 规则ID重复 %s", def.ID)
		}
		seenIDs[def.ID] = true

		if def.Weight <= 0 {
			return nil, fmt.Errorf("规则目录校验失败: 规则 %s 权重必须为正数, 实际为 %d", def.ID, def.Weight)
		}
		if !def.Severity.Valid() {
			return nil, fmt.Errorf("规则目录校验失败: 规则 %s 严重程度非法 %s", def.ID, def.Severity)
		}
		if def.Check == nil {
			return nil, fmt.Errorf("规则目录校验失败: 规则 %s 缺少检查函数", def.ID)
		}

		// 分类在装载时归一，历史分类不允许静默落出评分范围
		canonical, ok := NormalizeCategory(string(def.Category))
		if !ok {
			return nil, fmt.Errorf("规则目录校验失败: 规则 %s 分类未知 %s", def.ID, def.Category)
		}
		def.Category = canonical
	}

	// 签名去重：同一分类下归一化名称相同的规则只保留权重高者
	// 防止不同规则组对同一关注点的重复定义造成重复计分
	deduped := make([]RuleDefinition, 0, len(defs))
	bySignature := make(map[string]int)
	for _, def := range defs {
		sig := string(def.Category) + "|" + normalizeRuleName(def.Name)
		if idx, exists := bySignature[sig]; exists {
			if def.Weight > deduped[idx].Weight {
				deduped[idx] = def
			}
			continue
		}
		bySignature[sig] = len(deduped)
		deduped = append(deduped, def)
	}

	cat := &Catalogue{
		rules:           deduped,
		byID:            make(map[string]*RuleDefinition, len(deduped)),
		categoryWeights: make(map[Category]int),
	}
	for i := range cat.rules {
		rule := &cat.rules[i]
		cat.byID[rule.ID] = rule
		cat.totalWeight += rule.Weight
		cat.categoryWeights[rule.Category] += rule.Weight
	}

	return cat, nil
}

// normalizeRuleName 规则名称归一化：小写并去除全部非字母数字字符
func normalizeRuleName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AllRules 返回目录中全部规则，按装载顺序
func (c *Catalogue) AllRules() []RuleDefinition {
	return c.rules
}

// RuleByID 按ID查询规则定义，目录构建时已建立索引
func (c *Catalogue) RuleByID(id string) (*RuleDefinition, bool) {
	rule, ok := c.byID[id]
	return rule, ok
}

// TotalWeight 全部规则权重之和
func (c *Catalogue) TotalWeight() int {
	return c.totalWeight
}

// CategoryWeights 各分类权重之和
func (c *Catalogue) CategoryWeights() map[Category]int {
	return c.categoryWeights
}

// RuleCount 目录规则总数
func (c *Catalogue) RuleCount() int {
	return len(c.rules)
}

// Summaries 规则目录对外展示列表
func (c *Catalogue) Summaries() []RuleSummary {
	summaries := make([]RuleSummary, 0, len(c.rules))
	for _, rule := range c.rules {
		summaries = append(summaries, RuleSummary{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Category:    rule.Category,
			Weight:      rule.Weight,
			Severity:    rule.Severity,
		})
	}
	return summaries
}

// NewDefaultCatalogue 构建内置规则目录
// 覆盖标识、描述、合规、溯源四个维度以及历史扩展规则组
func NewDefaultCatalogue() (*Catalogue, error) {
	defs := make([]RuleDefinition, 0, 40)
	defs = append(defs, identificationRules()...)
	defs = append(defs, descriptionRules()...)
	defs = append(defs, legalRules()...)
	defs = append(defs, provenanceRules()...)
	defs = append(defs, extendedRules()...)
	return NewCatalogue(defs)
}
