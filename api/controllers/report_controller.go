/*
 * @module api/controllers/report_controller
 * @description 评估报告控制器，提供文本与HTML格式的质量报告生成API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 报告只做呈现, 不改变评估数值; JSON格式直接返回明细结果
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/report/report_service.go
 */

package controllers

import (
	"net/http"
	"time"

	"metadata-quality-service/service"
	"metadata-quality-service/service/evaluation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ReportController 评估报告控制器
type ReportController struct{}

// NewReportController 创建评估报告控制器实例
func NewReportController() *ReportController {
	return &ReportController{}
}

// ReportRequest 临时评估报告请求
type ReportRequest struct {
	Name     string                 `json:"name"`
	Metadata map[string]interface{} `json:"metadata"`
}

// GenerateReport 生成临时评估报告
// @Summary 生成临时评估报告
// @Description 评估元数据并生成指定格式的质量报告，format支持text/html/json
// @Tags 评估报告
// @Accept json
// @Produce json
// @Param format query string false "报告格式" default(text)
// @Param request body ReportRequest true "待评估的元数据"
// @Success 200 {object} APIResponse "生成成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /reports [post]
func (c *ReportController) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	name := req.Name
	if name == "" {
		name = "未命名数据集"
	}

	result := service.GlobalEngine.EvaluateDetailed(req.Metadata)
	c.renderReport(w, r, name, result, r.URL.Query().Get("format"))
}

// GenerateDatasetReport 生成数据集评估报告
// @Summary 生成数据集评估报告
// @Description 对已登记的数据集评估并生成质量报告，format支持text/html/json
// @Tags 评估报告
// @Produce json
// @Param id path string true "数据集ID"
// @Param format query string false "报告格式" default(text)
// @Success 200 {object} APIResponse "生成成功"
// @Failure 404 {object} APIResponse "数据集不存在"
// @Router /reports/datasets/{id} [get]
func (c *ReportController) GenerateDatasetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dataset, err := service.GlobalDatasetService.GetDatasetByID(id)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusNotFound,
			Msg:    "数据集不存在",
		})
		return
	}

	result := service.GlobalEngine.EvaluateDetailed(map[string]interface{}(dataset.Raw))
	c.renderReport(w, r, dataset.Name, result, r.URL.Query().Get("format"))
}

// renderReport 按格式渲染报告, text与html直接输出正文, json返回明细结果
func (c *ReportController) renderReport(w http.ResponseWriter, r *http.Request, name string, result *evaluation.DetailedEvaluationResult, format string) {
	switch format {
	case "json":
		render.JSON(w, r, APIResponse{
			Status: http.StatusOK,
			Msg:    "生成评估报告成功",
			Data:   result,
		})
	case "html":
		html, err := service.GlobalReportService.RenderHTML(name, result, time.Now())
		if err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusInternalServerError,
				Msg:    "渲染HTML报告失败",
			})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	default:
		text, err := service.GlobalReportService.RenderText(name, result, time.Now())
		if err != nil {
			render.JSON(w, r, APIResponse{
				Status: http.StatusInternalServerError,
				Msg:    "渲染文本报告失败",
			})
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(text))
	}
}
