/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs ai_docs/model.md
 */

package api

import (
	"os"

	"metadata-quality-service/api/controllers"
	authmw "metadata-quality-service/api/middleware"
	"metadata-quality-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API密钥鉴权, API_AUTH_ENABLED=true时启用
	if os.Getenv("API_AUTH_ENABLED") == "true" {
		auth := authmw.NewApiKeyAuthMiddleware(service.GlobalAccessService)
		r.Use(auth.Middleware)
	}

	// 限流, Redis限流器就绪时启用
	if service.GlobalRateLimiter != nil {
		rateLimit := authmw.NewRateLimitMiddleware(service.GlobalRateLimiter)
		r.Use(rateLimit.Middleware)
	}

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 质量评估
	r.Route("/evaluations", func(r chi.Router) {
		evaluationController := controllers.NewEvaluationController()
		r.Post("/", evaluationController.Evaluate)
		r.Post("/detailed", evaluationController.EvaluateDetailed)
		r.Post("/batch", evaluationController.BatchEvaluate)
		r.Post("/recommendations", evaluationController.GroupedRecommendations)
		r.Post("/estimate", evaluationController.Estimate)
	})

	// 规则目录
	r.Route("/rules", func(r chi.Router) {
		ruleController := controllers.NewRuleController()
		r.Get("/", ruleController.ListRules)
		r.Get("/grades", ruleController.GetGradeThresholds)
	})

	// 数据集管理
	r.Route("/datasets", func(r chi.Router) {
		datasetController := controllers.NewDatasetController()
		r.Post("/", datasetController.CreateDataset)
		r.Get("/", datasetController.GetDatasets)
		r.Get("/{id}", datasetController.GetDatasetByID)
		r.Put("/{id}", datasetController.UpdateDataset)
		r.Delete("/{id}", datasetController.DeleteDataset)
		r.Post("/{id}/reevaluate", datasetController.ReevaluateDataset)
	})

	// 评估历史
	r.Route("/history", func(r chi.Router) {
		historyController := controllers.NewHistoryController()
		r.Get("/evaluations", historyController.GetEvaluations)
		r.Get("/evaluations/{id}", historyController.GetEvaluationByID)
		r.Get("/compare", historyController.CompareEvaluations)
		r.Get("/trend/{dataset_id}", historyController.GetScoreTrend)
	})

	// 评估报告
	r.Route("/reports", func(r chi.Router) {
		reportController := controllers.NewReportController()
		r.Post("/", reportController.GenerateReport)
		r.Get("/datasets/{id}", reportController.GenerateDatasetReport)
	})

	// 批量导入
	r.Route("/import", func(r chi.Router) {
		importController := controllers.NewImportController()
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", importController.CreateImportTask)
			r.Get("/", importController.GetImportTasks)
			r.Get("/{id}", importController.GetImportTask)
			r.Post("/{id}/run", importController.RunImportTask)
		})
	})

	// 定时重评
	r.Route("/schedules", func(r chi.Router) {
		scheduleController := controllers.NewScheduleController()
		r.Post("/", scheduleController.CreateScheduledTask)
		r.Get("/", scheduleController.GetScheduledTasks)
		r.Post("/{id}/toggle", scheduleController.ToggleScheduledTask)
		r.Delete("/{id}", scheduleController.DeleteScheduledTask)
		r.Post("/run-now", scheduleController.RunReevaluation)
	})

	// 访问控制
	r.Route("/access-keys", func(r chi.Router) {
		accessController := controllers.NewAccessController()
		r.Post("/", accessController.CreateApiKey)
		r.Get("/", accessController.GetApiKeys)
		r.Put("/{id}/status", accessController.UpdateApiKeyStatus)
		r.Delete("/{id}", accessController.DeleteApiKey)
	})
}
