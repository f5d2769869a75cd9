/*
 * @module api/controllers/evaluation_controller
 * @description 质量评估控制器，提供元数据评估、批量评估、建议生成与快速预估API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式; 临时评估不落库, 数据集评估通过dataset接口触发
 * @dependencies metadata-quality-service/service, github.com/go-chi/render
 * @refs ai_docs/model.md
 */

package controllers

import (
	"net/http"

	"metadata-quality-service/service"
	"metadata-quality-service/service/metrics"

	"github.com/go-chi/render"
)

// EvaluationController 质量评估控制器
type EvaluationController struct{}

// NewEvaluationController 创建质量评估控制器实例
func NewEvaluationController() *EvaluationController {
	return &EvaluationController{}
}

// EvaluateRequest 单条评估请求
type EvaluateRequest struct {
	Metadata map[string]interface{} `json:"metadata"`
}

// BatchEvaluateRequest 批量评估请求
type BatchEvaluateRequest struct {
	Records []map[string]interface{} `json:"records"`
}

// Evaluate 评估单条元数据
// @Summary 评估单条元数据
// @Description 对一条数据集元数据执行质量评估，返回总分、等级、分类得分与改进建议
// @Tags 质量评估
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "待评估的元数据记录"
// @Success 200 {object} APIResponse "评估成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /evaluations [post]
func (c *EvaluationController) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	result := service.GlobalEngine.Evaluate(req.Metadata)
	metrics.ObserveEvaluation("api", result.Grade.Letter, result.EvaluationTimeMs)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "评估成功",
		Data:   result,
	})
}

// EvaluateDetailed 评估单条元数据并返回明细
// @Summary 评估单条元数据（明细）
// @Description 对一条数据集元数据执行质量评估，返回逐条规则结果、分类优先级与规范化记录
// @Tags 质量评估
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "待评估的元数据记录"
// @Success 200 {object} APIResponse "评估成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /evaluations/detailed [post]
func (c *EvaluationController) EvaluateDetailed(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	result := service.GlobalEngine.EvaluateDetailed(req.Metadata)
	metrics.ObserveEvaluation("api", result.Grade.Letter, result.EvaluationTimeMs)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "评估成功",
		Data:   result,
	})
}

// BatchEvaluate 批量评估元数据
// @Summary 批量评估元数据
// @Description 对多条数据集元数据逐条评估，结果按输入顺序返回，单条失败不影响其他记录
// @Tags 质量评估
// @Accept json
// @Produce json
// @Param request body BatchEvaluateRequest true "待评估的元数据记录列表"
// @Success 200 {object} APIResponse "评估成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /evaluations/batch [post]
func (c *EvaluationController) BatchEvaluate(w http.ResponseWriter, r *http.Request) {
	var req BatchEvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	raws := make([]interface{}, len(req.Records))
	for i, record := range req.Records {
		raws[i] = record
	}

	results := service.GlobalEngine.BatchEvaluate(raws)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "批量评估成功",
		Data:   results,
	})
}

// GroupedRecommendations 生成分组整改建议
// @Summary 生成分组整改建议
// @Description 评估元数据并按质量维度分组返回整改建议，组内按优先级排序
// @Tags 质量评估
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "待评估的元数据记录"
// @Success 200 {object} APIResponse "生成成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /evaluations/recommendations [post]
func (c *EvaluationController) GroupedRecommendations(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	grouped := service.GlobalEngine.GenerateGroupedRecommendations(req.Metadata)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "生成整改建议成功",
		Data:   grouped,
	})
}

// Estimate 快速质量预估
// @Summary 快速质量预估
// @Description 基于文本统计特征的启发式质量预估，不执行规则评估，仅供参考
// @Tags 质量评估
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "待预估的元数据记录"
// @Success 200 {object} APIResponse "预估成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /evaluations/estimate [post]
func (c *EvaluationController) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	estimate := service.GlobalEstimator.Estimate(req.Metadata)

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "预估成功",
		Data:   estimate,
	})
}
