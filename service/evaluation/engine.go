/*
 * @module service/evaluation/engine
 * @description 评估流水线，将规范化、规则评估、评分与建议生成编排为一次确定性调用
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 原始记录 -> 规范化 -> 规则评估 -> 评分计算 -> 建议生成 -> 结果组装
 * @rules 步骤顺序固定不可跳过; 汇总与明细两种形式由完全相同的步骤计算;
 *        批量评估逐条独立, 单条故障不中断整批
 * @dependencies time
 * @refs normalizer.go, evaluator.go, scorer.go, recommender.go
 */

package evaluation

import "time"

// Engine 评估流水线，依赖注入规则目录与评估时钟
type Engine struct {
	catalogue   *Catalogue
	evaluator   *Evaluator
	scorer      *ScoreCalculator
	recommender *RecommendationGenerator
	clock       func() time.Time
}

// Option 流水线可选配置
type Option func(*engineOptions)

type engineOptions struct {
	clock               func() time.Time
	recommendationLimit int
}

// WithClock 注入评估时钟, 日期类规则据此判断"非未来", 便于测试
func WithClock(clock func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// WithRecommendationLimit 设置平铺建议列表条数上限
func WithRecommendationLimit(limit int) Option {
	return func(o *engineOptions) {
		o.recommendationLimit = limit
	}
}

// NewEngine 创建评估流水线
func NewEngine(catalogue *Catalogue, opts ...Option) *Engine {
	options := engineOptions{
		clock:               time.Now,
		recommendationLimit: defaultRecommendationLimit,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Engine{
		catalogue:   catalogue,
		evaluator:   NewEvaluator(catalogue),
		scorer:      NewScoreCalculator(catalogue),
		recommender: NewRecommendationGenerator(catalogue, options.recommendationLimit),
		clock:       options.clock,
	}
}

// Catalogue 返回流水线使用的规则目录
func (e *Engine) Catalogue() *Catalogue {
	return e.catalogue
}

// ListRules 规则目录对外展示列表
func (e *Engine) ListRules() []RuleSummary {
	return e.catalogue.Summaries()
}

// pipelineArtifacts 一次流水线执行产生的全部中间产物
type pipelineArtifacts struct {
	normalized Metadata
	results    []RuleResult
	summary    ScoreSummary
	durationMs float64
}

// run 执行固定顺序的流水线步骤, 汇总与明细结果共用该实现
func (e *Engine) run(raw interface{}) pipelineArtifacts {
	started := time.Now()

	normalized := Normalize(raw)
	results := e.evaluator.Run(normalized, e.clock())
	summary := e.scorer.Calculate(results)

	return pipelineArtifacts{
		normalized: normalized,
		results:    results,
		summary:    summary,
		durationMs: float64(time.Since(started).Microseconds()) / 1000.0,
	}
}

// assemble 由中间产物组装汇总结果
func (e *Engine) assemble(artifacts pipelineArtifacts) EvaluationResult {
	passed := 0
	for _, result := range artifacts.results {
		if result.Passed {
			passed++
		}
	}
	total := len(artifacts.results)
	failed := total - passed

	passRate := 0.0
	if total > 0 {
		passRate = float64(passed) / float64(total)
	}

	return EvaluationResult{
		OverallScore: artifacts.summary.OverallScore,
		Grade:        GradeForScore(artifacts.summary.OverallScore),
		Categories:   artifacts.summary.CategoryScores,
		Summary: EvaluationSummary{
			TotalRules: total,
			Passed:     passed,
			Failed:     failed,
			PassRate:   passRate,
		},
		Recommendations:  e.recommender.GenerateSimpleRecommendations(artifacts.results),
		EvaluationTimeMs: artifacts.durationMs,
	}
}

// Evaluate 汇总形式评估: 原始记录入, 结构化结果出
func (e *Engine) Evaluate(raw interface{}) *EvaluationResult {
	artifacts := e.run(raw)
	result := e.assemble(artifacts)
	return &result
}

// EvaluateDetailed 明细形式评估, 额外保留规则明细、分类优先级与规范记录
func (e *Engine) EvaluateDetailed(raw interface{}) *DetailedEvaluationResult {
	artifacts := e.run(raw)
	return &DetailedEvaluationResult{
		EvaluationResult:   e.assemble(artifacts),
		RuleResults:        artifacts.results,
		CategoryPriority:   e.scorer.CategoryPriorities(artifacts.summary),
		TopImprovements:    e.scorer.TopImprovements(artifacts.results),
		NormalizedMetadata: artifacts.normalized,
	}
}

// BatchEvaluate 批量评估: 按输入顺序逐条独立评估并标记原始下标
// 单条记录形态异常由规范化器吸收为空记录, 不影响其余记录
func (e *Engine) BatchEvaluate(raws []interface{}) []*EvaluationResult {
	results := make([]*EvaluationResult, 0, len(raws))
	for index, raw := range raws {
		result := e.Evaluate(raw)
		result.Index = index
		results = append(results, result)
	}
	return results
}

// GenerateGroupedRecommendations 分组建议视图, 供报告层使用
func (e *Engine) GenerateGroupedRecommendations(raw interface{}) GroupedRecommendations {
	artifacts := e.run(raw)
	return e.recommender.GenerateGrouped(artifacts.results)
}
