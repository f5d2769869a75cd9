/*
 * @module service/evaluation/evaluator
 * @description 规则评估器，对规范记录运行目录中全部规则并收集结果
 * @architecture 分层架构 - 领域服务层
 * @documentReference ai_docs/metadata_quality_req.md
 * @stateFlow 规范记录 -> 逐规则执行 -> 故障隔离 -> 按目录顺序汇总结果
 * @rules 单条规则的运行期故障在规则边界转换为未通过结果, 绝不中断其余规则的评估
 * @dependencies fmt, time
 * @refs catalogue.go, types.go
 */

package evaluation

import (
	"fmt"
	"time"
)

// Evaluator 规则评估器，持有注入的规则目录
type Evaluator struct {
	catalogue *Catalogue
}

// NewEvaluator 创建规则评估器
func NewEvaluator(catalogue *Catalogue) *Evaluator {
	return &Evaluator{catalogue: catalogue}
}

// checkResult 单条规则执行的显式结果：正常结果或故障二选一
type checkResult struct {
	outcome Outcome
	fault   error
}

// Run 对规范记录运行目录中全部规则，按目录顺序返回结果
// now为注入的评估时钟，仅供日期类规则使用
func (e *Evaluator) Run(record Metadata, now time.Time) []RuleResult {
	rules := e.catalogue.AllRules()
	results := make([]RuleResult, 0, len(rules))

	for _, rule := range rules {
		res := runCheck(rule.Check, record, now)

		result := RuleResult{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Category: rule.Category,
		}
		if res.fault != nil {
			// 故障转换为未通过结果, 保留诊断信息
			result.Passed = false
			result.Message = fmt.Sprintf("规则执行内部错误: %v", res.fault)
		} else {
			result.Passed = res.outcome.Passed
			result.Value = res.outcome.Value
			result.Message = res.outcome.Message
		}
		results = append(results, result)
	}

	return results
}

// runCheck 在规则边界执行单条检查, panic被捕获为显式故障
func runCheck(check RuleCheck, record Metadata, now time.Time) (res checkResult) {
	defer func() {
		if r := recover(); r != nil {
			res = checkResult{fault: fmt.Errorf("%v", r)}
		}
	}()
	return checkResult{outcome: check.Evaluate(record, now)}
}
