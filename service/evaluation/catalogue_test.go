/*
 * @module service/evaluation/catalogue_test
 * @description 规则目录测试：完整性校验、签名去重、分类归一与权重缓存
 * @architecture 测试层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 构造规则定义 -> 目录构建 -> 校验/去重/索引断言
 * @rules 目录完整性违规必须在构建期失败, 不允许产生不一致的规则集
 * @dependencies testing, github.com/stretchr/testify
 * @refs catalogue.go
 */

package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passingCheck() RuleCheck {
	return CheckFunc(func(_ Metadata, _ time.Time) Outcome {
		return Pass(nil, "ok")
	})
}

func testRule(id, name string, category Category, weight int, severity Severity) RuleDefinition {
	return RuleDefinition{
		ID:             id,
		Name:           name,
		Category:       category,
		Weight:         weight,
		Severity:       severity,
		Check:          passingCheck(),
		Recommendation: "fix " + id,
	}
}

func TestNewDefaultCatalogue(t *testing.T) {
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)

	rules := catalogue.AllRules()
	assert.NotEmpty(t, rules)

	// 全部规则ID唯一, 分类均已归一到四个标准取值
	seen := make(map[string]bool)
	for _, rule := range rules {
		assert.False(t, seen[rule.ID], "规则ID重复: %s", rule.ID)
		seen[rule.ID] = true
		assert.Contains(t, Categories, rule.Category, "规则 %s 分类未归一: %s", rule.ID, rule.Category)
		assert.Greater(t, rule.Weight, 0)
		assert.True(t, rule.Severity.Valid())
	}

	// 权重缓存与逐条求和一致
	total := 0
	categoryTotals := make(map[Category]int)
	for _, rule := range rules {
		total += rule.Weight
		categoryTotals[rule.Category] += rule.Weight
	}
	assert.Equal(t, total, catalogue.TotalWeight())
	assert.Equal(t, categoryTotals, catalogue.CategoryWeights())
}

func TestDefaultCatalogueDeduplication(t *testing.T) {
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)

	// 溯源组与可访问性组都定义了"访问地址存在性", 去重后权重高者保留
	rule, ok := catalogue.RuleByID("access-url-presence")
	require.True(t, ok)
	assert.Equal(t, 7, rule.Weight)
	assert.Equal(t, CategoryProvenance, rule.Category)

	_, dupExists := catalogue.RuleByID("accessibility-access-url")
	assert.False(t, dupExists, "权重较低的重复规则应在目录构建时被去除")
}

func TestCatalogueDedupKeepsHigherWeight(t *testing.T) {
	defs := []RuleDefinition{
		testRule("rule-a", "同名检查", CategoryLegal, 3, SeverityWarning),
		testRule("rule-b", "同名 检查", CategoryLegal, 8, SeverityImportant),
		testRule("rule-c", "另一项检查", CategoryLegal, 2, SeveritySuggestion),
	}

	catalogue, err := NewCatalogue(defs)
	require.NoError(t, err)

	assert.Equal(t, 2, catalogue.RuleCount())
	_, aExists := catalogue.RuleByID("rule-a")
	assert.False(t, aExists)
	winner, bExists := catalogue.RuleByID("rule-b")
	require.True(t, bExists)
	assert.Equal(t, 8, winner.Weight)
	assert.Equal(t, 10, catalogue.TotalWeight())
}

func TestCatalogueLegacyCategoryNormalization(t *testing.T) {
	defs := []RuleDefinition{
		testRule("ext-1", "可访问性检查", Category("accessibility"), 2, SeveritySuggestion),
		testRule("ext-2", "互操作性检查", Category("interoperability"), 2, SeveritySuggestion),
		testRule("ext-3", "引用检查", Category("citation"), 2, SeveritySuggestion),
		testRule("ext-4", "可复用性检查", Category("reusability"), 2, SeveritySuggestion),
	}

	catalogue, err := NewCatalogue(defs)
	require.NoError(t, err)

	expected := map[string]Category{
		"ext-1": CategoryProvenance,
		"ext-2": CategoryDescription,
		"ext-3": CategoryIdentification,
		"ext-4": CategoryDescription,
	}
	for id, category := range expected {
		rule, ok := catalogue.RuleByID(id)
		require.True(t, ok)
		assert.Equal(t, category, rule.Category)
	}
}

func TestCatalogueIntegrityViolations(t *testing.T) {
	cases := []struct {
		name string
		defs []RuleDefinition
	}{
		{
			"规则ID重复",
			[]RuleDefinition{
				testRule("dup", "检查一", CategoryLegal, 1, SeverityWarning),
				testRule("dup", "检查二", CategoryLegal, 1, SeverityWarning),
			},
		},
		{
			"权重非正",
			[]RuleDefinition{
				testRule("bad-weight", "检查", CategoryLegal, 0, SeverityWarning),
			},
		},
		{
			"分类未知",
			[]RuleDefinition{
				testRule("bad-category", "检查", Category("mystery"), 1, SeverityWarning),
			},
		},
		{
			"严重程度非法",
			[]RuleDefinition{
				testRule("bad-severity", "检查", CategoryLegal, 1, Severity("fatal")),
			},
		},
		{
			"缺少检查函数",
			[]RuleDefinition{
				{ID: "no-check", Name: "检查", Category: CategoryLegal, Weight: 1, Severity: SeverityWarning},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalogue(tc.defs)
			assert.Error(t, err)
		})
	}
}

func TestCatalogueSummaries(t *testing.T) {
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)

	summaries := catalogue.Summaries()
	assert.Len(t, summaries, catalogue.RuleCount())
	for i, summary := range summaries {
		rule := catalogue.AllRules()[i]
		assert.Equal(t, rule.ID, summary.ID)
		assert.Equal(t, rule.Category, summary.Category)
		assert.Equal(t, rule.Weight, summary.Weight)
	}
}
