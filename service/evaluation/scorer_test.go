/*
 * @module service/evaluation/scorer_test
 * @description 评分计算器测试：加权聚合、边界取整、等级阈值与分类优先级
 * @architecture 测试层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 构造规则结果 -> 评分计算 -> 分数/等级断言
 * @rules 等级边界值必须与阈值表逐一吻合; 空目录与空分类的定义值必须固定
 * @dependencies testing, github.com/stretchr/testify
 * @refs scorer.go
 */

package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultsFor 按通过的规则ID集合构造规则结果列表
func resultsFor(catalogue *Catalogue, passedIDs ...string) []RuleResult {
	passed := make(map[string]bool, len(passedIDs))
	for _, id := range passedIDs {
		passed[id] = true
	}
	results := make([]RuleResult, 0, catalogue.RuleCount())
	for _, rule := range catalogue.AllRules() {
		results = append(results, RuleResult{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Category: rule.Category,
			Passed:   passed[rule.ID],
		})
	}
	return results
}

func TestScoreCalculatorWeightedAggregation(t *testing.T) {
	defs := []RuleDefinition{
		testRule("id-1", "标识检查一", CategoryIdentification, 6, SeverityCritical),
		testRule("id-2", "标识检查二", CategoryIdentification, 2, SeverityWarning),
		testRule("legal-1", "合规检查", CategoryLegal, 4, SeverityImportant),
	}
	catalogue, err := NewCatalogue(defs)
	require.NoError(t, err)
	calculator := NewScoreCalculator(catalogue)

	summary := calculator.Calculate(resultsFor(catalogue, "id-1", "legal-1"))

	// earned 10 / total 12 = 83.33 -> 83
	assert.Equal(t, 83, summary.OverallScore)
	assert.Equal(t, 12, summary.TotalWeight)
	assert.Equal(t, 10, summary.EarnedWeight)
	// 6/8 = 75
	assert.Equal(t, 75, summary.CategoryScores[CategoryIdentification])
	assert.Equal(t, 100, summary.CategoryScores[CategoryLegal])
	// 无规则的分类视为天然满足
	assert.Equal(t, 100, summary.CategoryScores[CategoryDescription])
	assert.Equal(t, 100, summary.CategoryScores[CategoryProvenance])
}

func TestScoreCalculatorRoundHalfUp(t *testing.T) {
	defs := []RuleDefinition{
		testRule("r-1", "检查一", CategoryLegal, 1, SeverityWarning),
		testRule("r-2", "检查二", CategoryLegal, 7, SeverityWarning),
	}
	catalogue, err := NewCatalogue(defs)
	require.NoError(t, err)
	calculator := NewScoreCalculator(catalogue)

	// 1/8 = 12.5 -> 四舍五入取13
	summary := calculator.Calculate(resultsFor(catalogue, "r-1"))
	assert.Equal(t, 13, summary.OverallScore)
}

func TestScoreCalculatorEmptyCatalogue(t *testing.T) {
	catalogue, err := NewCatalogue(nil)
	require.NoError(t, err)
	calculator := NewScoreCalculator(catalogue)

	summary := calculator.Calculate(nil)

	// 空目录总分定义为0, 各分类无规则定义为100
	assert.Equal(t, 0, summary.OverallScore)
	for _, category := range Categories {
		assert.Equal(t, 100, summary.CategoryScores[category])
	}
}

func TestGradeThresholdBoundaries(t *testing.T) {
	cases := []struct {
		score  int
		letter string
	}{
		{100, "A"},
		{90, "A"},
		{89, "B"},
		{80, "B"},
		{79, "C"},
		{70, "C"},
		{69, "D"},
		{60, "D"},
		{59, "F"},
		{1, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		grade := GradeForScore(tc.score)
		assert.Equal(t, tc.letter, grade.Letter, "score=%d", tc.score)
		assert.NotEmpty(t, grade.Label)
		assert.NotEmpty(t, grade.Description)
	}
}

func TestCategoryPriorityOrdering(t *testing.T) {
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)
	calculator := NewScoreCalculator(catalogue)

	summary := ScoreSummary{
		CategoryScores: map[Category]int{
			CategoryIdentification: 80,
			CategoryDescription:    40,
			CategoryLegal:          40,
			CategoryProvenance:     95,
		},
	}

	priorities := calculator.CategoryPriorities(summary)
	require.Len(t, priorities, 4)

	// 分数升序; description与legal平分, 按分类声明顺序description在前
	assert.Equal(t, CategoryDescription, priorities[0].Category)
	assert.Equal(t, CategoryLegal, priorities[1].Category)
	assert.Equal(t, CategoryIdentification, priorities[2].Category)
	assert.Equal(t, CategoryProvenance, priorities[3].Category)
	for i, priority := range priorities {
		assert.Equal(t, i+1, priority.Rank)
	}
}

func TestTopImprovementsTruncation(t *testing.T) {
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)
	calculator := NewScoreCalculator(catalogue)

	// 全部未通过
	improvements := calculator.TopImprovements(resultsFor(catalogue))
	assert.Len(t, improvements, topImprovementCount)

	// 按优先级降序
	for i := 1; i < len(improvements); i++ {
		assert.GreaterOrEqual(t, improvements[i-1].Priority, improvements[i].Priority)
	}
}
