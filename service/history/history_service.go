/*
 * @module service/history/history_service
 * @description 评估历史服务，负责评估记录的留存、查询、对比与趋势分析
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/requirements.md
 * @stateFlow 评估完成 -> 记录入库 -> 查询/对比/趋势分析
 * @rules 评估记录只追加不修改; 对比与趋势只读取已入库的记录
 * @dependencies metadata-quality-service/service/models, metadata-quality-service/service/evaluation, gorm.io/gorm
 * @refs service/evaluation/engine.go, service/models/evaluation.go
 */

package history

import (
	"errors"
	"fmt"
	"time"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/metrics"
	"metadata-quality-service/service/models"

	"gorm.io/gorm"
)

// HistoryService 评估历史服务
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService 创建评估历史服务实例
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// SaveEvaluation 保存一次评估结果, datasetID为空时仅留存临时评估记录
func (s *HistoryService) SaveEvaluation(datasetID string, result *evaluation.DetailedEvaluationResult, triggeredBy string) (*models.EvaluationRecord, error) {
	if result == nil {
		return nil, errors.New("评估结果为空")
	}

	record := &models.EvaluationRecord{
		OverallScore:     result.OverallScore,
		GradeLetter:      result.Grade.Letter,
		GradeLabel:       result.Grade.Label,
		CategoryScores:   categoryScoresJSON(result.Categories),
		RuleResults:      ruleResultsJSON(result.RuleResults),
		Recommendations:  recommendationsJSON(result.TopImprovements),
		FailedRules:      failedRuleIDs(result.RuleResults),
		PassedCount:      result.Summary.Passed,
		FailedCount:      result.Summary.Failed,
		EvaluationTimeMs: result.EvaluationTimeMs,
		TriggeredBy:      triggeredBy,
	}
	if datasetID != "" {
		record.DatasetID = &datasetID
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("保存评估记录失败: %w", err)
	}
	metrics.ObserveEvaluation(triggeredBy, result.Grade.Letter, result.EvaluationTimeMs)

	// 回写数据集的最新得分
	if datasetID != "" {
		now := time.Now()
		updates := map[string]interface{}{
			"latest_score": result.OverallScore,
			"latest_grade": result.Grade.Letter,
			"evaluated_at": now,
			"normalized":   models.JSONB(result.NormalizedMetadata),
		}
		if err := s.db.Model(&models.DatasetMetadata{}).
			Where("id = ?", datasetID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("更新数据集最新得分失败: %w", err)
		}
	}

	return record, nil
}

// GetEvaluations 分页获取评估记录, 可按数据集过滤
func (s *HistoryService) GetEvaluations(page, size int, datasetID string) ([]models.EvaluationRecord, int64, error) {
	var records []models.EvaluationRecord
	var total int64

	query := s.db.Model(&models.EvaluationRecord{})
	if datasetID != "" {
		query = query.Where("dataset_id = ?", datasetID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	if err := query.Order("created_at DESC").Offset(offset).Limit(size).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// GetEvaluationByID 根据ID获取评估记录
func (s *HistoryService) GetEvaluationByID(id string) (*models.EvaluationRecord, error) {
	var record models.EvaluationRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// EvaluationComparison 两次评估的对比结果
type EvaluationComparison struct {
	BaseID         string         `json:"base_id"`
	TargetID       string         `json:"target_id"`
	ScoreDelta     int            `json:"score_delta"`
	CategoryDeltas map[string]int `json:"category_deltas"`
	NewlyPassed    []string       `json:"newly_passed"`
	NewlyFailed    []string       `json:"newly_failed"`
}

// CompareEvaluations 对比两次评估记录, 给出总分、分类分与规则通过状态的变化
func (s *HistoryService) CompareEvaluations(baseID, targetID string) (*EvaluationComparison, error) {
	base, err := s.GetEvaluationByID(baseID)
	if err != nil {
		return nil, fmt.Errorf("基准评估记录不存在: %w", err)
	}
	target, err := s.GetEvaluationByID(targetID)
	if err != nil {
		return nil, fmt.Errorf("目标评估记录不存在: %w", err)
	}

	comparison := &EvaluationComparison{
		BaseID:         base.ID,
		TargetID:       target.ID,
		ScoreDelta:     target.OverallScore - base.OverallScore,
		CategoryDeltas: make(map[string]int),
		NewlyPassed:    make([]string, 0),
		NewlyFailed:    make([]string, 0),
	}

	for category, targetScore := range target.CategoryScores {
		baseScore := scoreValue(base.CategoryScores[category])
		comparison.CategoryDeltas[category] = scoreValue(targetScore) - baseScore
	}

	baseFailed := make(map[string]bool, len(base.FailedRules))
	for _, id := range base.FailedRules {
		baseFailed[id] = true
	}
	targetFailed := make(map[string]bool, len(target.FailedRules))
	for _, id := range target.FailedRules {
		targetFailed[id] = true
	}

	for id := range baseFailed {
		if !targetFailed[id] {
			comparison.NewlyPassed = append(comparison.NewlyPassed, id)
		}
	}
	for id := range targetFailed {
		if !baseFailed[id] {
			comparison.NewlyFailed = append(comparison.NewlyFailed, id)
		}
	}

	return comparison, nil
}

// TrendPoint 趋势分析中的单个数据点
type TrendPoint struct {
	RecordID  string    `json:"record_id"`
	Score     int       `json:"score"`
	Grade     string    `json:"grade"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreTrend 数据集的得分趋势
type ScoreTrend struct {
	DatasetID string       `json:"dataset_id"`
	Points    []TrendPoint `json:"points"`
	Direction string       `json:"direction"` // improving/declining/stable
}

// GetScoreTrend 获取数据集最近若干次评估的得分趋势, 按时间升序返回
func (s *HistoryService) GetScoreTrend(datasetID string, limit int) (*ScoreTrend, error) {
	if limit <= 0 {
		limit = 10
	}

	var records []models.EvaluationRecord
	if err := s.db.Where("dataset_id = ?", datasetID).
		Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}

	trend := &ScoreTrend{
		DatasetID: datasetID,
		Points:    make([]TrendPoint, 0, len(records)),
		Direction: "stable",
	}

	// 反转为时间升序
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		trend.Points = append(trend.Points, TrendPoint{
			RecordID:  record.ID,
			Score:     record.OverallScore,
			Grade:     record.GradeLetter,
			CreatedAt: record.CreatedAt,
		})
	}

	if len(trend.Points) >= 2 {
		first := trend.Points[0].Score
		last := trend.Points[len(trend.Points)-1].Score
		switch {
		case last > first:
			trend.Direction = "improving"
		case last < first:
			trend.Direction = "declining"
		}
	}

	return trend, nil
}

// categoryScoresJSON 分类得分转换为JSONB
func categoryScoresJSON(categories map[evaluation.Category]int) models.JSONB {
	scores := make(models.JSONB, len(categories))
	for category, score := range categories {
		scores[string(category)] = score
	}
	return scores
}

// ruleResultsJSON 规则结果转换为JSONB数组
func ruleResultsJSON(results []evaluation.RuleResult) models.JSONBArray {
	items := make(models.JSONBArray, 0, len(results))
	for _, result := range results {
		items = append(items, models.JSONB{
			"rule_id":   result.RuleID,
			"rule_name": result.RuleName,
			"category":  string(result.Category),
			"passed":    result.Passed,
			"message":   result.Message,
		})
	}
	return items
}

// recommendationsJSON 建议列表转换为JSONB数组
func recommendationsJSON(recommendations []evaluation.Recommendation) models.JSONBArray {
	items := make(models.JSONBArray, 0, len(recommendations))
	for _, rec := range recommendations {
		items = append(items, models.JSONB{
			"rule_id":  rec.RuleID,
			"category": string(rec.Category),
			"priority": rec.Priority,
			"action":   rec.Action,
		})
	}
	return items
}

// failedRuleIDs 未通过的规则ID列表
func failedRuleIDs(results []evaluation.RuleResult) []string {
	ids := make([]string, 0)
	for _, result := range results {
		if !result.Passed {
			ids = append(ids, result.RuleID)
		}
	}
	return ids
}

// scoreValue JSONB中的数值可能被解码为float64
func scoreValue(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
