/*
 * @module service/report/report_service
 * @description 质量报告服务，将评估结果渲染为文本或HTML报告
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/requirements.md
 * @stateFlow 评估结果 -> 模板渲染 -> 报告输出
 * @rules 报告只读取评估结果, 不重新计算任何分数
 * @dependencies html/template, text/template, metadata-quality-service/service/evaluation
 * @refs service/evaluation/engine.go
 */

package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"metadata-quality-service/service/evaluation"
)

// categoryLabels 分类的展示名称
var categoryLabels = map[evaluation.Category]string{
	evaluation.CategoryIdentification: "标识",
	evaluation.CategoryDescription:    "描述",
	evaluation.CategoryLegal:          "合规",
	evaluation.CategoryProvenance:     "溯源",
}

const textReportTemplate = `元数据质量评估报告
生成时间: {{.GeneratedAt}}
{{if .DatasetName}}数据集: {{.DatasetName}}
{{end}}
总分: {{.Result.OverallScore}} / 100  等级: {{.Result.Grade.Letter}} ({{.Result.Grade.Label}})
规则: 共{{.Result.Summary.TotalRules}}条, 通过{{.Result.Summary.Passed}}条, 未通过{{.Result.Summary.Failed}}条

分类得分:
{{range .Categories}}  {{.Label}}: {{.Score}}
{{end}}
{{- if .Improvements}}
优先改进项:
{{range .Improvements}}  [{{.Priority}}] {{.RuleName}}: {{.Action}}
{{end}}
{{- else}}
未发现质量问题。
{{- end}}`

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="zh">
<head>
<meta charset="utf-8">
<title>元数据质量评估报告</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #ccc; padding: 6px 12px; }
.grade { font-size: 2em; font-weight: bold; }
.failed { color: #b00020; }
.passed { color: #1b5e20; }
</style>
</head>
<body>
<h1>元数据质量评估报告</h1>
<p>生成时间: {{.GeneratedAt}}</p>
{{if .DatasetName}}<p>数据集: {{.DatasetName}}</p>{{end}}
<p class="grade">{{.Result.OverallScore}} / 100 ({{.Result.Grade.Letter}} {{.Result.Grade.Label}})</p>
<h2>分类得分</h2>
<table>
<tr><th>分类</th><th>得分</th></tr>
{{range .Categories}}<tr><td>{{.Label}}</td><td>{{.Score}}</td></tr>
{{end}}</table>
<h2>规则明细</h2>
<table>
<tr><th>规则</th><th>分类</th><th>结果</th><th>说明</th></tr>
{{range .Result.RuleResults}}<tr>
<td>{{.RuleName}}</td><td>{{.Category}}</td>
<td class="{{if .Passed}}passed{{else}}failed{{end}}">{{if .Passed}}通过{{else}}未通过{{end}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}</table>
{{if .Improvements}}
<h2>优先改进项</h2>
<ol>
{{range .Improvements}}<li>{{.RuleName}} — {{.Action}}</li>
{{end}}</ol>
{{else}}<p>未发现质量问题。</p>{{end}}
</body>
</html>`

// categoryRow 报告中的分类得分行
type categoryRow struct {
	Label string
	Score int
}

// reportData 模板渲染上下文
type reportData struct {
	GeneratedAt  string
	DatasetName  string
	Result       *evaluation.DetailedEvaluationResult
	Categories   []categoryRow
	Improvements []evaluation.Recommendation
}

// ReportService 质量报告服务
type ReportService struct {
	textTmpl *texttemplate.Template
	htmlTmpl *htmltemplate.Template
}

// NewReportService 创建质量报告服务实例, 模板解析失败直接panic(模板为内置常量)
func NewReportService() *ReportService {
	return &ReportService{
		textTmpl: texttemplate.Must(texttemplate.New("text").Parse(textReportTemplate)),
		htmlTmpl: htmltemplate.Must(htmltemplate.New("html").Parse(htmlReportTemplate)),
	}
}

// buildData 组装模板上下文, 分类按固定声明顺序输出
func (s *ReportService) buildData(datasetName string, result *evaluation.DetailedEvaluationResult, now time.Time) reportData {
	categories := make([]categoryRow, 0, len(evaluation.Categories))
	for _, category := range evaluation.Categories {
		label, ok := categoryLabels[category]
		if !ok {
			label = string(category)
		}
		categories = append(categories, categoryRow{
			Label: label,
			Score: result.Categories[category],
		})
	}

	return reportData{
		GeneratedAt:  now.Format("2006-01-02 15:04:05"),
		DatasetName:  datasetName,
		Result:       result,
		Categories:   categories,
		Improvements: result.TopImprovements,
	}
}

// RenderText 渲染纯文本报告
func (s *ReportService) RenderText(datasetName string, result *evaluation.DetailedEvaluationResult, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := s.textTmpl.Execute(&buf, s.buildData(datasetName, result, now)); err != nil {
		return "", fmt.Errorf("渲染文本报告失败: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// RenderHTML 渲染HTML报告
func (s *ReportService) RenderHTML(datasetName string, result *evaluation.DetailedEvaluationResult, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := s.htmlTmpl.Execute(&buf, s.buildData(datasetName, result, now)); err != nil {
		return "", fmt.Errorf("渲染HTML报告失败: %w", err)
	}
	return buf.String(), nil
}
