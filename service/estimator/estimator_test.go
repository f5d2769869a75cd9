/*
 * @module service/estimator/estimator_test
 * @description 启发式质量预估器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/estimator_design.md
 */

package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEstimateNonObject 测试非对象输入返回零分预估
func TestEstimateNonObject(t *testing.T) {
	est := NewEstimator()

	for _, input := range []interface{}{nil, "not an object", 42, []interface{}{"a"}} {
		result := est.Estimate(input)
		require.NotNil(t, result)
		assert.Equal(t, 0, result.PredictedScore)
		assert.Equal(t, 1.0, result.Confidence)
	}
}

// TestEstimateScoreBounds 测试预估分数始终在0-100范围内
func TestEstimateScoreBounds(t *testing.T) {
	est := NewEstimator()

	inputs := []interface{}{
		map[string]interface{}{"title": "x"},
		map[string]interface{}{"title": "数据集", "description": "描述"},
		richEstimateRecord(),
	}

	for _, input := range inputs {
		result := est.Estimate(input)
		assert.GreaterOrEqual(t, result.PredictedScore, 0)
		assert.LessOrEqual(t, result.PredictedScore, 100)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

// TestEstimateMonotonicCoverage 测试字段覆盖越多预估越高
func TestEstimateMonotonicCoverage(t *testing.T) {
	est := NewEstimator()

	sparse := map[string]interface{}{
		"title": "全国空气质量监测数据集",
	}
	rich := richEstimateRecord()

	sparseResult := est.Estimate(sparse)
	richResult := est.Estimate(rich)

	assert.Greater(t, richResult.PredictedScore, sparseResult.PredictedScore,
		"覆盖更全的记录预估分数应该更高")
	assert.Greater(t, richResult.Confidence, sparseResult.Confidence,
		"覆盖更全的记录置信度应该更高")
	assert.Greater(t, richResult.Features.FieldCoverage, sparseResult.Features.FieldCoverage)
}

// TestEstimateFeatures 测试特征提取
func TestEstimateFeatures(t *testing.T) {
	est := NewEstimator()

	result := est.Estimate(map[string]interface{}{
		"title":       "测试数据集",
		"description": "这是一段用于验证特征提取的描述文本",
		"keywords":    []interface{}{"空气质量", "监测"},
	})

	assert.Equal(t, 17, result.Features.DescriptionSize, "描述字符数应该按rune统计")
	assert.Greater(t, result.Features.StructureDepth, 0.0, "数组字段应该计入结构化占比")
	assert.Greater(t, result.Features.TermVariety, 0.0)
}

// TestTokenize 测试词项切分
func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"air", "quality", "2023"}, tokenize("air quality, 2023"))
	assert.Equal(t, []string{"空", "气", "质", "量"}, tokenize("空气质量"))
	assert.Equal(t, []string{"空", "气", "PM25"}, tokenize("空气PM25"))
	assert.Empty(t, tokenize("!!!"))
}

// TestTermVariety 测试词汇多样性计算
func TestTermVariety(t *testing.T) {
	// 全部重复词项
	assert.InDelta(t, 0.25, termVariety([]string{"data data data data"}), 0.001)
	// 全部不同词项
	assert.InDelta(t, 1.0, termVariety([]string{"alpha beta gamma"}), 0.001)
	// 无词项
	assert.Equal(t, 0.0, termVariety(nil))
}

func richEstimateRecord() map[string]interface{} {
	return map[string]interface{}{
		"title":            "全国空气质量监测站点小时观测数据集",
		"description":      "本数据集收录全国各监测站点的小时级空气质量观测数据, 覆盖颗粒物、臭氧、二氧化氮等主要污染物浓度, 并附带站点位置与仪器型号信息, 可用于大气污染时空分布研究。",
		"authors":          []interface{}{"张伟", "李娜"},
		"publisher":        "国家环境监测总站",
		"identifier":       "10.1234/airquality.2023",
		"version":          "1.2.0",
		"keywords":         []interface{}{"空气质量", "颗粒物", "臭氧", "监测站点"},
		"license":          "CC-BY-4.0",
		"publication_date": "2023-06-01",
		"access_url":       "https://data.example.org/air-quality",
		"methodology":      "观测数据由自动采集仪器按小时上报, 入库前经过异常值剔除与一致性校验。",
		"source":           "全国环境空气质量监测网",
		"temporal_coverage": map[string]interface{}{
			"start": "2020-01-01",
			"end":   "2023-05-31",
		},
		"spatial_coverage": "中国大陆全部地级市",
	}
}
