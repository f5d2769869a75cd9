/*
 * @module service/importer/import_service
 * @description 元数据批量导入服务，从外部HTTP源拉取元数据记录，执行可选的字段映射脚本后登记并评估
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/import_mapping.md
 * @stateFlow 创建导入任务 -> 拉取数据 -> 字段映射 -> 登记评估 -> 任务状态更新
 * @rules 单条记录失败不中断整个导入; 任务状态与计数落库
 * @dependencies net/http, gorm.io/gorm, metadata-quality-service/service/evaluation
 * @refs script_executor.go, service/history/history_service.go
 */

package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/models"

	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// ImportService 元数据批量导入服务
type ImportService struct {
	db         *gorm.DB
	engine     *evaluation.Engine
	history    *history.HistoryService
	executor   *ScriptExecutor
	httpClient *http.Client
}

// NewImportService 创建导入服务实例
func NewImportService(db *gorm.DB, engine *evaluation.Engine, historyService *history.HistoryService) *ImportService {
	return &ImportService{
		db:       db,
		engine:   engine,
		history:  historyService,
		executor: NewScriptExecutor(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateTask 创建导入任务
func (s *ImportService) CreateTask(sourceURL, mappingScript string) (*models.ImportTask, error) {
	if sourceURL == "" {
		return nil, errors.New("导入源地址不能为空")
	}
	if mappingScript != "" {
		if err := s.executor.Validate(mappingScript); err != nil {
			return nil, fmt.Errorf("映射脚本校验失败: %w", err)
		}
	}

	task := &models.ImportTask{
		SourceURL:     sourceURL,
		MappingScript: mappingScript,
		Status:        "pending",
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, fmt.Errorf("创建导入任务失败: %w", err)
	}
	return task, nil
}

// GetTask 根据ID获取导入任务
func (s *ImportService) GetTask(id string) (*models.ImportTask, error) {
	var task models.ImportTask
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasks 分页获取导入任务列表
func (s *ImportService) GetTasks(page, size int) ([]models.ImportTask, int64, error) {
	var tasks []models.ImportTask
	var total int64

	if err := s.db.Model(&models.ImportTask{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * size
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(size).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// RunTask 执行导入任务
func (s *ImportService) RunTask(ctx context.Context, taskID string) (*models.ImportTask, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("导入任务不存在: %w", err)
	}

	now := time.Now()
	task.Status = "running"
	task.StartedAt = &now
	if err := s.db.Save(task).Error; err != nil {
		return nil, err
	}

	records, err := s.fetchRecords(ctx, task.SourceURL)
	if err != nil {
		s.finishTask(task, "failed", err.Error())
		return task, err
	}

	task.TotalCount = len(records)
	for _, raw := range records {
		if err := s.importRecord(task, raw); err != nil {
			task.FailedCount++
			slog.Warn("导入单条元数据失败",
				"task_id", task.ID,
				"error", err)
			continue
		}
		task.SuccessCount++
	}

	status := "success"
	if task.FailedCount > 0 && task.SuccessCount == 0 {
		status = "failed"
	}
	s.finishTask(task, status, "")

	slog.Info("导入任务完成",
		"task_id", task.ID,
		"total", task.TotalCount,
		"success", task.SuccessCount,
		"failed", task.FailedCount)
	return task, nil
}

// fetchRecords 从源地址拉取元数据记录数组
func (s *ImportService) fetchRecords(ctx context.Context, sourceURL string) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建导入请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("拉取元数据失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("导入源返回异常状态码: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取导入响应失败: %w", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		// 单对象形式也接受
		var single map[string]interface{}
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, fmt.Errorf("解析导入数据失败: %w", err)
		}
		records = []map[string]interface{}{single}
	}
	return records, nil
}

// importRecord 导入单条记录: 映射 -> 登记 -> 评估 -> 留存
func (s *ImportService) importRecord(task *models.ImportTask, raw map[string]interface{}) error {
	mapped := raw
	if task.MappingScript != "" {
		var err error
		mapped, err = s.executor.Execute(task.MappingScript, raw)
		if err != nil {
			return fmt.Errorf("执行映射脚本失败: %w", err)
		}
	}

	result := s.engine.EvaluateDetailed(mapped)

	name := cast.ToString(mapped["title"])
	if name == "" {
		name = "未命名数据集"
	}

	dataset := &models.DatasetMetadata{
		Name:     name,
		Source:   "import",
		Raw:      models.JSONB(mapped),
		Keywords: cast.ToStringSlice(mapped["keywords"]),
	}
	if err := s.db.Create(dataset).Error; err != nil {
		return fmt.Errorf("登记数据集失败: %w", err)
	}

	if _, err := s.history.SaveEvaluation(dataset.ID, result, "import"); err != nil {
		return err
	}
	return nil
}

// finishTask 结束任务并落库状态
func (s *ImportService) finishTask(task *models.ImportTask, status, errorMessage string) {
	now := time.Now()
	task.Status = status
	task.ErrorMessage = errorMessage
	task.FinishedAt = &now
	if err := s.db.Save(task).Error; err != nil {
		slog.Error("更新导入任务状态失败", "task_id", task.ID, "error", err)
	}
}
