/*
 * @module api/controllers/schedule_controller
 * @description 定时重评控制器，提供定时任务的创建、查询、启停与手动触发API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 任务变更同时作用于数据库与运行中的调度器
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/scheduler/scheduler_service.go
 */

package controllers

import (
	"net/http"

	"metadata-quality-service/service"
	"metadata-quality-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ScheduleController 定时重评控制器
type ScheduleController struct{}

// NewScheduleController 创建定时重评控制器实例
func NewScheduleController() *ScheduleController {
	return &ScheduleController{}
}

// CreateScheduledTask 创建定时重评任务
// @Summary 创建定时重评任务
// @Description 创建一个按cron表达式周期性重评数据集的任务
// @Tags 定时重评
// @Accept json
// @Produce json
// @Param task body models.ScheduledEvaluation true "定时任务信息"
// @Success 201 {object} APIResponse "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /schedules [post]
func (c *ScheduleController) CreateScheduledTask(w http.ResponseWriter, r *http.Request) {
	var task models.ScheduledEvaluation
	if err := render.DecodeJSON(r.Body, &task); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	if task.Name == "" || task.CronExpression == "" {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "任务名称与cron表达式不能为空",
		})
		return
	}

	if err := service.DB.Create(&task).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "创建定时任务失败",
		})
		return
	}

	if task.IsEnabled {
		if err := service.GlobalSchedulerService.AddTask(&task); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "注册定时任务失败: " + err.Error(),
			})
			return
		}
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "创建定时任务成功",
		Data:   task,
	})
}

// GetScheduledTasks 获取定时任务列表
// @Summary 获取定时任务列表
// @Description 获取全部定时重评任务及其最近运行状态
// @Tags 定时重评
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules [get]
func (c *ScheduleController) GetScheduledTasks(w http.ResponseWriter, r *http.Request) {
	var tasks []models.ScheduledEvaluation
	if err := service.DB.Order("created_at DESC").Find(&tasks).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取定时任务列表失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取定时任务列表成功",
		Data:   tasks,
	})
}

// ToggleScheduledTask 启用或禁用定时任务
// @Summary 启用或禁用定时任务
// @Description 切换定时任务的启用状态并同步调度器
// @Tags 定时重评
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} APIResponse "切换成功"
// @Failure 404 {object} APIResponse "任务不存在"
// @Router /schedules/{id}/toggle [post]
func (c *ScheduleController) ToggleScheduledTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var task models.ScheduledEvaluation
	if err := service.DB.First(&task, "id = ?", id).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "定时任务不存在",
		})
		return
	}

	task.IsEnabled = !task.IsEnabled
	if err := service.DB.Model(&task).Update("is_enabled", task.IsEnabled).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "更新定时任务状态失败",
		})
		return
	}

	if task.IsEnabled {
		if err := service.GlobalSchedulerService.AddTask(&task); err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusBadRequest,
				Msg:    "注册定时任务失败: " + err.Error(),
			})
			return
		}
	} else {
		service.GlobalSchedulerService.RemoveTask(task.ID)
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "切换定时任务状态成功",
		Data:   task,
	})
}

// DeleteScheduledTask 删除定时任务
// @Summary 删除定时任务
// @Description 删除定时任务并从调度器中移除
// @Tags 定时重评
// @Produce json
// @Param id path string true "任务ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules/{id} [delete]
func (c *ScheduleController) DeleteScheduledTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	service.GlobalSchedulerService.RemoveTask(id)
	if err := service.DB.Delete(&models.ScheduledEvaluation{}, "id = ?", id).Error; err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "删除定时任务失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "删除定时任务成功",
	})
}

// RunReevaluation 手动触发全量重评
// @Summary 手动触发全量重评
// @Description 立即对全部已登记数据集执行一次质量重评
// @Tags 定时重评
// @Produce json
// @Success 200 {object} APIResponse "重评完成"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /schedules/run-now [post]
func (c *ScheduleController) RunReevaluation(w http.ResponseWriter, r *http.Request) {
	evaluated, failed, err := service.GlobalSchedulerService.ReevaluateDatasets(nil)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "全量重评失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "全量重评完成",
		Data: map[string]interface{}{
			"evaluated": evaluated,
			"failed":    failed,
		},
	})
}
