/*
 * @module api/controllers/import_controller
 * @description 批量导入控制器，提供导入任务的创建、执行与查询API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow 创建任务 -> 异步执行 -> 状态查询
 * @rules 导入任务异步执行, 单条记录失败不中断整个任务
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/importer/import_service.go
 */

package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"metadata-quality-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ImportController 批量导入控制器
type ImportController struct{}

// NewImportController 创建批量导入控制器实例
func NewImportController() *ImportController {
	return &ImportController{}
}

// ImportTaskRequest 导入任务创建请求
type ImportTaskRequest struct {
	SourceURL     string `json:"source_url"`
	MappingScript string `json:"mapping_script"`
}

// CreateImportTask 创建导入任务
// @Summary 创建导入任务
// @Description 创建一个从URL批量导入元数据的任务，可附带字段映射脚本
// @Tags 批量导入
// @Accept json
// @Produce json
// @Param request body ImportTaskRequest true "导入任务信息"
// @Success 201 {object} APIResponse "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /import/tasks [post]
func (c *ImportController) CreateImportTask(w http.ResponseWriter, r *http.Request) {
	var req ImportTaskRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	task, err := service.GlobalImportService.CreateTask(req.SourceURL, req.MappingScript)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "创建导入任务失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "创建导入任务成功",
		Data:   task,
	})
}

// RunImportTask 执行导入任务
// @Summary 执行导入任务
// @Description 异步执行指定的导入任务，立即返回，进度通过任务查询接口获取
// @Tags 批量导入
// @Produce json
// @Param id path string true "任务ID"
// @Success 202 {object} APIResponse "已开始执行"
// @Failure 404 {object} APIResponse "任务不存在"
// @Router /import/tasks/{id}/run [post]
func (c *ImportController) RunImportTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := service.GlobalImportService.GetTask(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "导入任务不存在",
		})
		return
	}

	// 异步执行, 不阻塞请求
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := service.GlobalImportService.RunTask(ctx, id); err != nil {
			slog.Error("导入任务执行失败", "task_id", id, "error", err)
		}
	}()

	render.JSON(w, r, APIResponse{
		Status: http.StatusAccepted,
		Msg:    "导入任务已开始执行",
	})
}

// GetImportTask 获取导入任务详情
// @Summary 获取导入任务详情
// @Description 根据ID获取导入任务的状态与统计信息
// @Tags 批量导入
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} APIResponse "获取成功"
// @Failure 404 {object} APIResponse "任务不存在"
// @Router /import/tasks/{id} [get]
func (c *ImportController) GetImportTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := service.GlobalImportService.GetTask(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "导入任务不存在",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取导入任务成功",
		Data:   task,
	})
}

// GetImportTasks 获取导入任务列表
// @Summary 获取导入任务列表
// @Description 分页获取导入任务列表
// @Tags 批量导入
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} PaginatedResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /import/tasks [get]
func (c *ImportController) GetImportTasks(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}

	tasks, total, err := service.GlobalImportService.GetTasks(page, size)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取导入任务列表失败",
		})
		return
	}

	render.JSON(w, r, PaginatedResponse{
		Status: http.StatusOK,
		Msg:    "获取导入任务列表成功",
		Data:   tasks,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}
