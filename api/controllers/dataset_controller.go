/*
 * @module api/controllers/dataset_controller
 * @description 数据集元数据控制器，提供元数据登记、查询、更新、删除与重评API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 登记与更新会触发评估并写入历史; 评估完成后发布事件
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/dataset/dataset_service.go
 */

package controllers

import (
	"net/http"
	"strconv"

	"metadata-quality-service/service"
	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/event"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// DatasetController 数据集元数据控制器
type DatasetController struct{}

// NewDatasetController 创建数据集控制器实例
func NewDatasetController() *DatasetController {
	return &DatasetController{}
}

// DatasetRequest 数据集登记/更新请求
type DatasetRequest struct {
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CreateDataset 登记数据集元数据
// @Summary 登记数据集元数据
// @Description 登记一条数据集元数据并立即执行质量评估
// @Tags 数据集管理
// @Accept json
// @Produce json
// @Param request body DatasetRequest true "数据集信息"
// @Success 201 {object} APIResponse "登记成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets [post]
func (c *DatasetController) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req DatasetRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	dataset, result, err := service.GlobalDatasetService.RegisterDataset(req.Name, req.Metadata)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "登记数据集失败: " + err.Error(),
		})
		return
	}

	c.publishEvaluation(r, dataset.ID, result, "manual")

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "登记数据集成功",
		Data: map[string]interface{}{
			"dataset":    dataset,
			"evaluation": result,
		},
	})
}

// GetDatasets 获取数据集列表
// @Summary 获取数据集列表
// @Description 分页获取数据集元数据列表，可按名称模糊过滤
// @Tags 数据集管理
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param name query string false "名称过滤"
// @Success 200 {object} PaginatedResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /datasets [get]
func (c *DatasetController) GetDatasets(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	datasets, total, err := service.GlobalDatasetService.GetDatasets(page, size, r.URL.Query().Get("name"))
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取数据集列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取数据集列表成功",
		Data:   datasets,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// GetDatasetByID 获取数据集详情
// @Summary 获取数据集详情
// @Description 根据ID获取数据集元数据及其最新得分
// @Tags 数据集管理
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse "获取成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /datasets/{id} [get]
func (c *DatasetController) GetDatasetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dataset, err := service.GlobalDatasetService.GetDatasetByID(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "数据集不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取数据集成功",
		Data:   dataset,
	})
}

// UpdateDataset 更新数据集元数据
// @Summary 更新数据集元数据
// @Description 更新数据集元数据并重新评估
// @Tags 数据集管理
// @Accept json
// @Produce json
// @Param id path string true "数据集ID"
// @Param request body DatasetRequest true "更新内容"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /datasets/{id} [put]
func (c *DatasetController) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DatasetRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	dataset, result, err := service.GlobalDatasetService.UpdateDataset(id, req.Name, req.Metadata)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "更新数据集失败: " + err.Error(),
		})
		return
	}

	c.publishEvaluation(r, dataset.ID, result, "manual")

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "更新数据集成功",
		Data: map[string]interface{}{
			"dataset":    dataset,
			"evaluation": result,
		},
	})
}

// DeleteDataset 删除数据集
// @Summary 删除数据集
// @Description 删除数据集元数据，评估历史记录保留
// @Tags 数据集管理
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /datasets/{id} [delete]
func (c *DatasetController) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := service.GlobalDatasetService.DeleteDataset(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "删除数据集失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "删除数据集成功",
	})
}

// ReevaluateDataset 触发数据集重评
// @Summary 触发数据集重评
// @Description 对已登记的数据集手动触发一次质量重评
// @Tags 数据集管理
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} APIResponse "重评成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /datasets/{id}/reevaluate [post]
func (c *DatasetController) ReevaluateDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := service.GlobalDatasetService.ReevaluateDataset(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "重评数据集失败: " + err.Error(),
		})
		return
	}

	c.publishEvaluation(r, id, result, "manual")

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "重评数据集成功",
		Data:   result,
	})
}

// publishEvaluation 评估完成后发布事件
func (c *DatasetController) publishEvaluation(r *http.Request, datasetID string, result *evaluation.DetailedEvaluationResult, triggeredBy string) {
	if service.GlobalEventService == nil || result == nil {
		return
	}
	service.GlobalEventService.PublishEvaluation(r.Context(), &event.EvaluationEvent{
		DatasetID:    datasetID,
		OverallScore: result.OverallScore,
		Grade:        result.Grade.Letter,
		FailedCount:  result.Summary.Failed,
		TriggeredBy:  triggeredBy,
	})
}
