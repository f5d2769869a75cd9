/*
 * @module service/dataset
 * @description 数据集元数据管理服务，负责元数据的登记、查询、更新、删除与重评
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/requirements.md
 * @stateFlow 元数据登记 -> 立即评估 -> 历史留存 -> 更新时重评
 * @rules 登记与更新都会触发一次评估并写入历史; 删除数据集保留其历史记录
 * @dependencies gorm.io/gorm, github.com/spf13/cast
 * @refs service/evaluation/engine.go, service/history/history_service.go
 */

package dataset

import (
	"errors"
	"fmt"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/models"

	"github.com/lib/pq"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// DatasetService 数据集元数据管理服务
type DatasetService struct {
	db             *gorm.DB
	engine         *evaluation.Engine
	historyService *history.HistoryService
}

// NewDatasetService 创建数据集管理服务实例
func NewDatasetService(db *gorm.DB, engine *evaluation.Engine, historyService *history.HistoryService) *DatasetService {
	return &DatasetService{
		db:             db,
		engine:         engine,
		historyService: historyService,
	}
}

// RegisterDataset 登记一条数据集元数据并立即评估
func (s *DatasetService) RegisterDataset(name string, raw map[string]interface{}) (*models.DatasetMetadata, *evaluation.DetailedEvaluationResult, error) {
	if len(raw) == 0 {
		return nil, nil, errors.New("元数据记录不能为空")
	}
	if name == "" {
		name = cast.ToString(raw["title"])
	}
	if name == "" {
		name = "未命名数据集"
	}

	dataset := &models.DatasetMetadata{
		Name:     name,
		Source:   "manual",
		Raw:      models.JSONB(raw),
		Keywords: cast.ToStringSlice(raw["keywords"]),
	}

	if err := s.db.Create(dataset).Error; err != nil {
		return nil, nil, fmt.Errorf("登记数据集失败: %w", err)
	}

	result := s.engine.EvaluateDetailed(raw)
	if _, err := s.historyService.SaveEvaluation(dataset.ID, result, "manual"); err != nil {
		return nil, nil, err
	}

	return dataset, result, nil
}

// GetDatasets 分页获取数据集列表, 可按名称模糊过滤
func (s *DatasetService) GetDatasets(page, size int, name string) ([]models.DatasetMetadata, int64, error) {
	var datasets []models.DatasetMetadata
	var total int64

	query := s.db.Model(&models.DatasetMetadata{})
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	if err := query.Order("created_at DESC").Offset(offset).Limit(size).Find(&datasets).Error; err != nil {
		return nil, 0, err
	}

	return datasets, total, nil
}

// GetDatasetByID 根据ID获取数据集
func (s *DatasetService) GetDatasetByID(id string) (*models.DatasetMetadata, error) {
	var dataset models.DatasetMetadata
	if err := s.db.First(&dataset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dataset, nil
}

// UpdateDataset 更新数据集元数据并重新评估
func (s *DatasetService) UpdateDataset(id string, name string, raw map[string]interface{}) (*models.DatasetMetadata, *evaluation.DetailedEvaluationResult, error) {
	dataset, err := s.GetDatasetByID(id)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if len(raw) > 0 {
		updates["raw"] = models.JSONB(raw)
		updates["keywords"] = pq.StringArray(cast.ToStringSlice(raw["keywords"]))
	}

	if len(updates) > 0 {
		if err := s.db.Model(dataset).Updates(updates).Error; err != nil {
			return nil, nil, fmt.Errorf("更新数据集失败: %w", err)
		}
	}

	// 元数据变更后重新评估
	evalInput := raw
	if len(evalInput) == 0 {
		evalInput = map[string]interface{}(dataset.Raw)
	}
	result := s.engine.EvaluateDetailed(evalInput)
	if _, err := s.historyService.SaveEvaluation(dataset.ID, result, "manual"); err != nil {
		return nil, nil, err
	}

	updated, err := s.GetDatasetByID(id)
	if err != nil {
		return nil, nil, err
	}
	return updated, result, nil
}

// DeleteDataset 删除数据集, 其评估历史记录保留
func (s *DatasetService) DeleteDataset(id string) error {
	result := s.db.Delete(&models.DatasetMetadata{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("数据集不存在")
	}
	return nil
}

// ReevaluateDataset 手动触发一次重评
func (s *DatasetService) ReevaluateDataset(id string) (*evaluation.DetailedEvaluationResult, error) {
	dataset, err := s.GetDatasetByID(id)
	if err != nil {
		return nil, err
	}

	result := s.engine.EvaluateDetailed(map[string]interface{}(dataset.Raw))
	if _, err := s.historyService.SaveEvaluation(dataset.ID, result, "manual"); err != nil {
		return nil, err
	}
	return result, nil
}
