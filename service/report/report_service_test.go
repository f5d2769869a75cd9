/*
 * @module service/report/report_service_test
 * @description 质量报告服务单元测试
 * @architecture 测试层
 * @documentReference ai_docs/requirements.md
 */

package report

import (
	"strings"
	"testing"
	"time"

	"metadata-quality-service/service/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportResult(t *testing.T) *evaluation.DetailedEvaluationResult {
	catalogue, err := evaluation.NewDefaultCatalogue()
	require.NoError(t, err)
	engine := evaluation.NewEngine(catalogue)
	return engine.EvaluateDetailed(map[string]interface{}{
		"title":       "空气质量监测数据集",
		"description": "覆盖全国重点城市的空气质量小时级监测数据, 含PM2.5与臭氧浓度。",
		"license":     "CC-BY-4.0",
	})
}

// TestRenderText 测试文本报告包含得分、等级与分类区块
func TestRenderText(t *testing.T) {
	service := NewReportService()
	result := newReportResult(t)
	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.Local)

	text, err := service.RenderText("空气质量监测数据集", result, now)
	require.NoError(t, err)

	assert.Contains(t, text, "元数据质量评估报告")
	assert.Contains(t, text, "生成时间: 2025-03-01 10:30:00")
	assert.Contains(t, text, "数据集: 空气质量监测数据集")
	assert.Contains(t, text, "总分: ")
	assert.Contains(t, text, result.Grade.Letter)
	assert.Contains(t, text, "分类得分:")
	for _, label := range []string{"标识", "描述", "合规", "溯源"} {
		assert.Contains(t, text, label+": ")
	}
	assert.True(t, strings.HasSuffix(text, "\n"))
}

// TestRenderTextWithoutDatasetName 测试匿名评估不输出数据集行
func TestRenderTextWithoutDatasetName(t *testing.T) {
	service := NewReportService()
	result := newReportResult(t)

	text, err := service.RenderText("", result, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, text, "数据集:")
}

// TestRenderTextImprovements 测试未通过规则时输出优先改进项
func TestRenderTextImprovements(t *testing.T) {
	service := NewReportService()
	result := newReportResult(t)
	require.NotEmpty(t, result.TopImprovements)

	text, err := service.RenderText("test", result, time.Now())
	require.NoError(t, err)

	assert.Contains(t, text, "优先改进项:")
	assert.Contains(t, text, result.TopImprovements[0].RuleName)
	assert.NotContains(t, text, "未发现质量问题")
}

// TestRenderHTML 测试HTML报告结构与内容转义
func TestRenderHTML(t *testing.T) {
	service := NewReportService()
	result := newReportResult(t)

	html, err := service.RenderHTML("空气质量监测数据集", result, time.Now())
	require.NoError(t, err)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<h1>元数据质量评估报告</h1>")
	assert.Contains(t, html, "空气质量监测数据集")
	assert.Contains(t, html, "规则明细")
	assert.Contains(t, html, "通过")
	// 每条规则都有一行明细
	assert.Equal(t, len(result.RuleResults), strings.Count(html, `<td class="`))
}

// TestRenderHTMLEscaping 测试数据集名称在HTML中被转义
func TestRenderHTMLEscaping(t *testing.T) {
	service := NewReportService()
	result := newReportResult(t)

	html, err := service.RenderHTML("<script>alert(1)</script>", result, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
