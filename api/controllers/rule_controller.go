/*
 * @module api/controllers/rule_controller
 * @description 规则目录控制器，提供规则清单与等级阈值查询API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 规则目录进程启动时固定, 查询接口只读
 * @dependencies metadata-quality-service/service, github.com/go-chi/render
 * @refs service/evaluation/catalogue.go
 */

package controllers

import (
	"net/http"

	"metadata-quality-service/service"
	"metadata-quality-service/service/evaluation"

	"github.com/go-chi/render"
)

// RuleController 规则目录控制器
type RuleController struct{}

// NewRuleController 创建规则目录控制器实例
func NewRuleController() *RuleController {
	return &RuleController{}
}

// ListRules 获取规则清单
// @Summary 获取规则清单
// @Description 返回当前规则目录中全部评估规则的ID、名称、分类、权重与严重程度
// @Tags 规则目录
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Router /rules [get]
func (c *RuleController) ListRules(w http.ResponseWriter, r *http.Request) {
	rules := service.GlobalEngine.ListRules()

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取规则清单成功",
		Data: map[string]interface{}{
			"rules":        rules,
			"total":        len(rules),
			"total_weight": service.GlobalEngine.Catalogue().TotalWeight(),
		},
	})
}

// GetGradeThresholds 获取等级阈值表
// @Summary 获取等级阈值表
// @Description 返回分数到等级的完整映射表，自高向低排列
// @Tags 规则目录
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Router /rules/grades [get]
func (c *RuleController) GetGradeThresholds(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取等级阈值成功",
		Data:   evaluation.GradeThresholds(),
	})
}
