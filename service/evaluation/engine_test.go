/*
 * @module service/evaluation/engine_test
 * @description 评估流水线端到端测试：确定性、分数边界、单调性、分类独立性与批量隔离
 * @architecture 测试层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 固定时钟 -> 评估 -> 结果断言
 * @rules 相同输入与时钟必须产生逐字段相同的结果(耗时字段除外)
 * @dependencies testing, time, github.com/stretchr/testify
 * @refs engine.go, evaluator.go
 */

package evaluation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock 测试用固定评估时钟
func fixedClock() time.Time {
	return time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	catalogue, err := NewDefaultCatalogue()
	require.NoError(t, err)
	return NewEngine(catalogue, WithClock(fixedClock))
}

// richRecord 通过全部内置规则的完整元数据记录
func richRecord() map[string]interface{} {
	return map[string]interface{}{
		"title":     "全国空气质量监测站点小时观测数据集",
		"authors":   []interface{}{"张伟", "李娜"},
		"publisher": "国家环境监测中心",
		"version":   "1.2.0",
		"identifier": "10.1234/airquality.2023",
		"description": strings.Repeat("本数据集汇集全国国控空气质量监测站点的小时级观测数据, 覆盖PM2.5、PM10、二氧化硫、二氧化氮、臭氧与一氧化碳六项常规指标。", 5),
		"keywords":    []interface{}{"空气质量", "PM2.5", "环境监测", "小时观测"},
		"methodology": "观测数据由各监测站点的自动采集仪器按小时上报至数据中心, 入库前经过异常值剔除、缺测时段插补与跨站点一致性校验三道质控流程。",
		"variables":   []interface{}{"PM2.5浓度", "PM10浓度", "AQI指数"},
		"license":     "CC-BY-4.0",
		"usage_terms": "引用本数据集时请注明数据来源与版本号",
		"publication_date": "2023-06-01",
		"access_url":       "https://data.example.org/air-quality",
		"temporal_coverage": map[string]interface{}{"start": "2020-01-01", "end": "2023-05-31"},
		"spatial_coverage":  "中国大陆31个省级行政区",
		"funding":           "国家重点研发计划 2020YFC0123456",
		"source":            "中国环境监测总站实时发布平台",
		"data_formats":      []interface{}{"CSV", "Parquet"},
		"schema":            "https://data.example.org/air-quality/schema.json",
		"citations":         []interface{}{"张伟等. 全国空气质量小时观测数据集. 2023."},
		"usage_notes":       "建议结合站点经纬度信息做空间插值后使用",
	}
}

func minimalRecord() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Test Dataset",
		"description": "A dataset for testing.",
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.EvaluateDetailed(richRecord())
	second := engine.EvaluateDetailed(richRecord())

	// 耗时为测量值, 逐字段比较前清零
	first.EvaluationTimeMs = 0
	second.EvaluationTimeMs = 0
	assert.Equal(t, first, second)
}

func TestEvaluateScoreBounds(t *testing.T) {
	engine := newTestEngine(t)

	records := []interface{}{
		richRecord(),
		minimalRecord(),
		map[string]interface{}{},
		nil,
		"not an object",
	}
	for _, record := range records {
		result := engine.Evaluate(record)
		assert.GreaterOrEqual(t, result.OverallScore, 0)
		assert.LessOrEqual(t, result.OverallScore, 100)
		for category, score := range result.Categories {
			assert.GreaterOrEqual(t, score, 0, "分类%s得分越界", category)
			assert.LessOrEqual(t, score, 100, "分类%s得分越界", category)
		}
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.EvaluateDetailed(map[string]interface{}{})

	assert.Equal(t, 0, result.OverallScore)
	assert.Equal(t, "F", result.Grade.Letter)
	assert.Equal(t, 0, result.Summary.Passed)
	assert.Equal(t, result.Summary.TotalRules, result.Summary.Failed)
	assert.Zero(t, result.Summary.PassRate)
	for _, category := range Categories {
		assert.Equal(t, 0, result.Categories[category])
	}
	assert.NotEmpty(t, result.Recommendations)
}

func TestEvaluateMinimalRecord(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.EvaluateDetailed(minimalRecord())

	// 通过: title-presence(8) + title-length(5) + title-descriptive(3) + description-presence(8)
	assert.Equal(t, 4, result.Summary.Passed)
	assert.Equal(t, 15, result.OverallScore)
	assert.Equal(t, "F", result.Grade.Letter)
	assert.NotEmpty(t, result.Recommendations)
}

func TestEvaluateRichRecord(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.EvaluateDetailed(richRecord())

	assert.Equal(t, result.Summary.TotalRules, result.Summary.Passed)
	assert.Equal(t, 0, result.Summary.Failed)
	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, "A", result.Grade.Letter)
	assert.Equal(t, "优秀", result.Grade.Label)
	for _, category := range Categories {
		assert.Equal(t, 100, result.Categories[category])
	}
	assert.Empty(t, result.TopImprovements)
	assert.Equal(t, []string{noIssueSummary}, result.Recommendations)
}

func TestEvaluateFuturePublicationDate(t *testing.T) {
	engine := newTestEngine(t)

	record := richRecord()
	record["publication_date"] = "2030-01-01"

	result := engine.EvaluateDetailed(record)

	// 仅publication-date-not-future(4)未通过: 159/163 -> 98
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, 98, result.OverallScore)
	require.Len(t, result.TopImprovements, 1)
	assert.Equal(t, "publication-date-not-future", result.TopImprovements[0].RuleID)
	assert.Equal(t, 100, result.Categories[CategoryIdentification])
	assert.Less(t, result.Categories[CategoryProvenance], 100)
}

func TestEvaluateMonotonicity(t *testing.T) {
	engine := newTestEngine(t)

	base := engine.Evaluate(minimalRecord())

	improved := minimalRecord()
	improved["license"] = "CC-BY-4.0"
	after := engine.Evaluate(improved)

	assert.Greater(t, after.OverallScore, base.OverallScore)
}

func TestEvaluateCategoryIndependence(t *testing.T) {
	engine := newTestEngine(t)

	base := engine.Evaluate(minimalRecord())

	// 仅补充合规字段, 其余分类得分必须保持不变
	improved := minimalRecord()
	improved["license"] = "CC-BY-4.0"
	after := engine.Evaluate(improved)

	assert.Greater(t, after.Categories[CategoryLegal], base.Categories[CategoryLegal])
	assert.Equal(t, base.Categories[CategoryIdentification], after.Categories[CategoryIdentification])
	assert.Equal(t, base.Categories[CategoryDescription], after.Categories[CategoryDescription])
	assert.Equal(t, base.Categories[CategoryProvenance], after.Categories[CategoryProvenance])
}

func TestBatchEvaluate(t *testing.T) {
	engine := newTestEngine(t)

	results := engine.BatchEvaluate([]interface{}{richRecord(), nil, minimalRecord()})

	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].Index)
	assert.Equal(t, 1, results[1].Index)
	assert.Equal(t, 2, results[2].Index)

	assert.Equal(t, 100, results[0].OverallScore)
	// 空记录不中断批量评估, 按零分参与结果
	assert.Equal(t, 0, results[1].OverallScore)
	assert.Equal(t, "F", results[1].Grade.Letter)
	assert.Equal(t, 15, results[2].OverallScore)
}

func TestEvaluatorFaultContainment(t *testing.T) {
	panicking := RuleDefinition{
		ID:       "panicking-check",
		Name:     "异常检查",
		Description: "执行时抛出异常的检查",
		Category: CategoryLegal,
		Weight:   5,
		Severity: SeverityCritical,
		Check: CheckFunc(func(Metadata, time.Time) Outcome {
			panic("boom")
		}),
		Recommendation: "修复检查实现",
	}
	defs := append([]RuleDefinition{panicking}, testRule("healthy", "正常检查", CategoryLegal, 5, SeverityImportant))
	catalogue, err := NewCatalogue(defs)
	require.NoError(t, err)
	engine := NewEngine(catalogue, WithClock(fixedClock))

	result := engine.EvaluateDetailed(map[string]interface{}{})

	// 故障规则按未通过计, 其余规则不受影响
	require.Len(t, result.RuleResults, 2)
	faulted := result.RuleResults[0]
	assert.Equal(t, "panicking-check", faulted.RuleID)
	assert.False(t, faulted.Passed)
	assert.Contains(t, faulted.Message, "规则执行内部错误")
	assert.Contains(t, faulted.Message, "boom")

	healthy := result.RuleResults[1]
	assert.Equal(t, "healthy", healthy.RuleID)
	assert.True(t, healthy.Passed)
	assert.Equal(t, 50, result.OverallScore)
}

func TestEngineListRules(t *testing.T) {
	engine := newTestEngine(t)

	rules := engine.ListRules()
	require.NotEmpty(t, rules)
	assert.Equal(t, engine.Catalogue().RuleCount(), len(rules))
	for _, rule := range rules {
		assert.NotEmpty(t, rule.ID)
		assert.NotEmpty(t, rule.Name)
		_, canonical := NormalizeCategory(string(rule.Category))
		assert.True(t, canonical, "规则%s的分类未归一: %s", rule.ID, rule.Category)
	}
}
