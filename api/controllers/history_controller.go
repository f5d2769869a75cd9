/*
 * @module api/controllers/history_controller
 * @description 评估历史控制器，提供历史记录查询、对比与趋势分析API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 历史记录只读, 不提供修改与删除接口
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/history/history_service.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"metadata-quality-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HistoryController 评估历史控制器
type HistoryController struct{}

// NewHistoryController 创建评估历史控制器实例
func NewHistoryController() *HistoryController {
	return &HistoryController{}
}

// GetEvaluations 获取评估记录列表
// @Summary 获取评估记录列表
// @Description 分页获取评估历史记录，可按数据集过滤
// @Tags 评估历史
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param dataset_id query string false "数据集ID"
// @Success 200 {object} PaginatedResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /history/evaluations [get]
func (c *HistoryController) GetEvaluations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	records, total, err := service.GlobalHistoryService.GetEvaluations(page, size, r.URL.Query().Get("dataset_id"))
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取评估记录列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取评估记录列表成功",
		Data:   records,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetEvaluationByID 获取评估记录详情
// @Summary 获取评估记录详情
// @Description 根据ID获取单次评估的完整结果
// @Tags 评估历史
// @Produce json
// @Param id path string true "评估记录ID"
// @Success 200 {object} APIResponse "获取成功"
// @Failure 404 {object} APIResponse "评估记录不存在"
// @Router /history/evaluations/{id} [get]
func (c *HistoryController) GetEvaluationByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := service.GlobalHistoryService.GetEvaluationByID(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "评估记录不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取评估记录成功",
		Data:   record,
	})
}

// CompareEvaluations 对比两次评估
// @Summary 对比两次评估
// @Description 对比两次评估记录，返回总分变化、分类分变化与规则通过状态变化
// @Tags 评估历史
// @Produce json
// @Param base query string true "基准评估记录ID"
// @Param target query string true "目标评估记录ID"
// @Success 200 {object} APIResponse "对比成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "评估记录不存在"
// @Router /history/compare [get]
func (c *HistoryController) CompareEvaluations(w http.ResponseWriter, r *http.Request) {
	baseID := r.URL.Query().Get("base")
	targetID := r.URL.Query().Get("target")
	if baseID == "" || targetID == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "base与target参数不能为空",
		})
		return
	}

	comparison, err := service.GlobalHistoryService.CompareEvaluations(baseID, targetID)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "对比评估记录失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "对比评估记录成功",
		Data:   comparison,
	})
}

// GetScoreTrend 获取得分趋势
// @Summary 获取得分趋势
// @Description 获取数据集最近若干次评估的得分趋势，按时间升序返回
// @Tags 评估历史
// @Produce json
// @Param dataset_id path string true "数据集ID"
// @Param limit query int false "最大数据点数" default(10)
// @Success 200 {object} APIResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /history/trend/{dataset_id} [get]
func (c *HistoryController) GetScoreTrend(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "dataset_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	trend, err := service.GlobalHistoryService.GetScoreTrend(datasetID, limit)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取得分趋势失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取得分趋势成功",
		Data:   trend,
	})
}
