/*
 * @module service/evaluation/scorer
 * @description 评分计算器，将规则结果聚合为总分、分类分数与等级
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规则结果 -> 权重聚合 -> 四舍五入 -> 等级映射 -> 分类优先级
 * @rules 仅在产出最终百分比时做一次四舍五入, 中间权重和不舍入;
 *        空目录总分定义为0; 无规则的分类分数定义为100
 * @dependencies math, sort
 * @refs catalogue.go, recommender.go
 */

package evaluation

import (
	"math"
	"sort"
)

// topImprovementCount 快速改进列表的固定条数
const topImprovementCount = 5

// gradeTable 等级阈值表, 下界包含, 自高向低匹配
var gradeTable = []struct {
	floor int
	grade Grade
}{
	{90, Grade{Letter: "A", Label: "优秀", Description: "元数据质量优秀, 满足发布与共享要求"}},
	{80, Grade{Letter: "B", Label: "良好", Description: "元数据质量良好, 少量字段有待完善"}},
	{70, Grade{Letter: "C", Label: "合格", Description: "元数据质量合格, 建议补充关键字段"}},
	{60, Grade{Letter: "D", Label: "待改进", Description: "元数据质量待改进, 多项关键信息缺失"}},
	{0, Grade{Letter: "F", Label: "较差", Description: "元数据质量较差, 需要全面补充与修正"}},
}

// GradeThreshold 等级阈值对外展示条目
type GradeThreshold struct {
	MinScore int   `json:"min_score"`
	Grade    Grade `json:"grade"`
}

// GradeThresholds 返回完整的等级阈值表, 自高向低排列
func GradeThresholds() []GradeThreshold {
	thresholds := make([]GradeThreshold, 0, len(gradeTable))
	for _, entry := range gradeTable {
		thresholds = append(thresholds, GradeThreshold{MinScore: entry.floor, Grade: entry.grade})
	}
	return thresholds
}

// ScoreCalculator 评分计算器，持有注入的规则目录以读取权重
type ScoreCalculator struct {
	catalogue *Catalogue
}

// NewScoreCalculator 创建评分计算器
func NewScoreCalculator(catalogue *Catalogue) *ScoreCalculator {
	return &ScoreCalculator{catalogue: catalogue}
}

// Calculate 由规则结果计算评分汇总
// 总权重取自目录全部规则而非仅被评估的规则, 故障规则计为未得分
func (s *ScoreCalculator) Calculate(results []RuleResult) ScoreSummary {
	totalWeight := s.catalogue.TotalWeight()
	categoryWeights := s.catalogue.CategoryWeights()

	earned := 0
	categoryEarned := make(map[Category]int)
	for _, result := range results {
		if !result.Passed {
			continue
		}
		rule, ok := s.catalogue.RuleByID(result.RuleID)
		if !ok {
			continue
		}
		earned += rule.Weight
		categoryEarned[rule.Category] += rule.Weight
	}

	summary := ScoreSummary{
		OverallScore:   roundPercent(earned, totalWeight, 0),
		CategoryScores: make(map[Category]int, len(Categories)),
		TotalWeight:    totalWeight,
		EarnedWeight:   earned,
		CategoryDetail: make(map[Category]CategoryWeightDetail, len(Categories)),
	}

	for _, category := range Categories {
		total := categoryWeights[category]
		// 无适用规则的分类视为天然满足, 不做惩罚
		summary.CategoryScores[category] = roundPercent(categoryEarned[category], total, 100)
		summary.CategoryDetail[category] = CategoryWeightDetail{
			TotalWeight:  total,
			EarnedWeight: categoryEarned[category],
		}
	}

	return summary
}

// roundPercent 按四舍五入计算百分比, 分母为零时返回给定默认值
func roundPercent(earned, total, whenEmpty int) int {
	if total == 0 {
		return whenEmpty
	}
	return int(math.Round(100 * float64(earned) / float64(total)))
}

// GradeForScore 按固定阈值表将总分离散化为等级
func GradeForScore(score int) Grade {
	for _, entry := range gradeTable {
		if score >= entry.floor {
			return entry.grade
		}
	}
	return gradeTable[len(gradeTable)-1].grade
}

// CategoryPriorities 分类整改优先级: 分数升序, 平级按分类声明顺序
func (s *ScoreCalculator) CategoryPriorities(summary ScoreSummary) []CategoryPriority {
	priorities := make([]CategoryPriority, 0, len(Categories))
	for _, category := range Categories {
		priorities = append(priorities, CategoryPriority{
			Category: category,
			Score:    summary.CategoryScores[category],
		})
	}
	sort.SliceStable(priorities, func(i, j int) bool {
		return priorities[i].Score < priorities[j].Score
	})
	for i := range priorities {
		priorities[i].Rank = i + 1
	}
	return priorities
}

// TopImprovements 快速改进列表: 未通过规则按优先级排序后截取固定条数
func (s *ScoreCalculator) TopImprovements(results []RuleResult) []Recommendation {
	ranked := rankFailedResults(s.catalogue, results)
	if len(ranked) > topImprovementCount {
		ranked = ranked[:topImprovementCount]
	}
	return ranked
}
