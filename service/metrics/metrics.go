/*
 * @module service/metrics
 * @description Prometheus业务指标，统计评估次数、评估耗时与限流拒绝次数
 * @architecture 工具层 - 指标埋点
 * @documentReference ai_docs/requirements.md
 * @stateFlow 业务代码埋点 -> 默认Registry -> /metrics端点暴露
 * @rules 指标在包加载时注册一次; 埋点失败不影响业务流程
 * @dependencies github.com/prometheus/client_golang
 * @refs main.go, api/controllers/evaluation_controller.go
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EvaluationsTotal 按触发方式与等级统计的评估总次数
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_evaluations_total",
			Help: "元数据质量评估总次数",
		},
		[]string{"triggered_by", "grade"},
	)

	// EvaluationDuration 单次评估耗时分布
	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mq_evaluation_duration_seconds",
			Help:    "单次元数据质量评估耗时",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	// RateLimitDeniedTotal 按限流类型统计的拒绝次数
	RateLimitDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mq_rate_limit_denied_total",
			Help: "被限流拒绝的请求次数",
		},
		[]string{"limit_type"},
	)
)

func init() {
	prometheus.MustRegister(EvaluationsTotal, EvaluationDuration, RateLimitDeniedTotal)
}

// ObserveEvaluation 记录一次评估的等级与耗时
func ObserveEvaluation(triggeredBy, grade string, elapsedMs float64) {
	EvaluationsTotal.WithLabelValues(triggeredBy, grade).Inc()
	EvaluationDuration.Observe(elapsedMs / 1000.0)
}
