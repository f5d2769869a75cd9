/*
 * @module service/evaluation/recommender
 * @description 建议生成器，将未通过规则转换为按优先级排序的整改指引
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 未通过规则 -> 优先级计算 -> 平铺/分组视图 -> 汇总语句
 * @rules 优先级 = 权重 × 严重程度乘数, 为平铺与分组内排序的唯一主键;
 *        平级先按权重降序再按目录顺序(稳定排序); 零失败时给出明确的"无需整改"表述
 * @dependencies fmt, sort, strings
 * @refs catalogue.go, scorer.go
 */

package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// defaultRecommendationLimit 平铺建议列表默认条数
const defaultRecommendationLimit = 10

// noIssueSummary 零失败时的固定汇总语句
const noIssueSummary = "未发现质量问题, 元数据质量良好"

// RecommendationGenerator 建议生成器，持有注入的规则目录
type RecommendationGenerator struct {
	catalogue *Catalogue
	limit     int
}

// NewRecommendationGenerator 创建建议生成器, limit为平铺列表条数上限, 非正数取默认值
func NewRecommendationGenerator(catalogue *Catalogue, limit int) *RecommendationGenerator {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	return &RecommendationGenerator{catalogue: catalogue, limit: limit}
}

// rankFailedResults 未通过规则按优先级排序
// 主键: 优先级降序; 次键: 权重降序; 末键: 目录顺序(稳定排序保证)
func rankFailedResults(catalogue *Catalogue, results []RuleResult) []Recommendation {
	recommendations := make([]Recommendation, 0)
	for _, result := range results {
		if result.Passed {
			continue
		}
		rule, ok := catalogue.RuleByID(result.RuleID)
		if !ok {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			RuleID:        rule.ID,
			RuleName:      rule.Name,
			Category:      rule.Category,
			Severity:      rule.Severity,
			Priority:      rule.Weight * rule.Severity.Multiplier(),
			Message:       result.Message,
			Action:        rule.Recommendation,
			PotentialGain: rule.Weight,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Priority != recommendations[j].Priority {
			return recommendations[i].Priority > recommendations[j].Priority
		}
		return recommendations[i].PotentialGain > recommendations[j].PotentialGain
	})
	return recommendations
}

// GenerateFlat 平铺建议列表: 按优先级排序的前N条未通过规则
func (g *RecommendationGenerator) GenerateFlat(results []RuleResult) []Recommendation {
	ranked := rankFailedResults(g.catalogue, results)
	if len(ranked) > g.limit {
		ranked = ranked[:g.limit]
	}
	return ranked
}

// GenerateGrouped 分组建议视图: 按分类分桶, 桶内按优先级排序,
// 桶间按紧迫度(严重数×4 + 重要数×2)降序, 并附带全局优先行动列表
func (g *RecommendationGenerator) GenerateGrouped(results []RuleResult) GroupedRecommendations {
	ranked := rankFailedResults(g.catalogue, results)

	grouped := GroupedRecommendations{
		Summary:         g.Summarize(results),
		Groups:          make([]CategoryGroup, 0, len(Categories)),
		PriorityActions: ranked,
	}
	if len(grouped.PriorityActions) > g.limit {
		grouped.PriorityActions = grouped.PriorityActions[:g.limit]
	}

	buckets := make(map[Category][]Recommendation)
	for _, rec := range ranked {
		buckets[rec.Category] = append(buckets[rec.Category], rec)
	}

	for _, category := range Categories {
		items := buckets[category]
		if len(items) == 0 {
			continue
		}
		group := CategoryGroup{
			Category:   category,
			IssueCount: len(items),
			Items:      items,
		}
		for _, item := range items {
			switch item.Severity {
			case SeverityCritical:
				group.CriticalCount++
			case SeverityImportant:
				group.ImportantCount++
			}
		}
		group.UrgencyScore = group.CriticalCount*4 + group.ImportantCount*2
		grouped.Groups = append(grouped.Groups, group)
	}

	// 桶间按紧迫度降序, 平级保持分类声明顺序
	sort.SliceStable(grouped.Groups, func(i, j int) bool {
		return grouped.Groups[i].UrgencyScore > grouped.Groups[j].UrgencyScore
	})

	return grouped
}

// GenerateSimpleRecommendations 简单字符串形式: 仅返回前N条建议语句
func (g *RecommendationGenerator) GenerateSimpleRecommendations(results []RuleResult) []string {
	ranked := g.GenerateFlat(results)
	if len(ranked) == 0 {
		return []string{noIssueSummary}
	}
	sentences := make([]string, 0, len(ranked))
	for _, rec := range ranked {
		sentences = append(sentences, rec.Action)
	}
	return sentences
}

// Summarize 按严重程度统计未通过规则并生成单句汇总
func (g *RecommendationGenerator) Summarize(results []RuleResult) string {
	counts := make(map[Severity]int)
	total := 0
	for _, result := range results {
		if result.Passed {
			continue
		}
		rule, ok := g.catalogue.RuleByID(result.RuleID)
		if !ok {
			continue
		}
		counts[rule.Severity]++
		total++
	}

	if total == 0 {
		return noIssueSummary
	}

	parts := make([]string, 0, 4)
	severityLabels := []struct {
		severity Severity
		label    string
	}{
		{SeverityCritical, "严重"},
		{SeverityImportant, "重要"},
		{SeverityWarning, "警告"},
		{SeveritySuggestion, "建议"},
	}
	for _, entry := range severityLabels {
		if counts[entry.severity] > 0 {
			parts = append(parts, fmt.Sprintf("%d个%s", counts[entry.severity], entry.label))
		}
	}

	return fmt.Sprintf("发现%d个质量问题: %s", total, strings.Join(parts, ", "))
}
