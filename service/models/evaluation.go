/*
 * @module service/models/evaluation
 * @description 元数据质量评估相关模型定义，包括数据集元数据、评估记录与定时评估任务
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/model.md
 * @stateFlow 元数据登记 -> 质量评估 -> 评估记录留存 -> 定时重评
 * @rules 元数据原始记录与规范化结果均以JSONB存储, 评估记录不可变更仅追加
 * @dependencies gorm.io/gorm, github.com/google/uuid, github.com/lib/pq
 * @refs service/evaluation/, ai_docs/requirements.md
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DatasetMetadata 数据集元数据登记模型
type DatasetMetadata struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Source      string         `gorm:"size:200" json:"source"` // manual/import/api
	Raw         JSONB          `gorm:"type:jsonb;not null" json:"raw"`
	Normalized  JSONB          `gorm:"type:jsonb" json:"normalized"`
	Keywords    pq.StringArray `gorm:"type:text[]" json:"keywords"`
	LatestScore *int           `json:"latest_score"`
	LatestGrade string         `gorm:"size:4" json:"latest_grade"`
	EvaluatedAt *time.Time     `json:"evaluated_at"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   string         `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy   string         `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// TableName 指定表名
func (DatasetMetadata) TableName() string {
	return "dataset_metadata"
}

// BeforeCreate 创建前钩子
func (d *DatasetMetadata) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedBy == "" {
		d.CreatedBy = "system"
	}
	if d.UpdatedBy == "" {
		d.UpdatedBy = "system"
	}
	return nil
}

// EvaluationRecord 质量评估记录模型, 保存单次评估的完整结果
type EvaluationRecord struct {
	ID               string         `gorm:"type:uuid;primary_key" json:"id"`
	DatasetID        *string        `gorm:"type:uuid;index" json:"dataset_id"`
	OverallScore     int            `gorm:"not null" json:"overall_score"`
	GradeLetter      string         `gorm:"not null;size:4" json:"grade_letter"`
	GradeLabel       string         `gorm:"size:50" json:"grade_label"`
	CategoryScores   JSONB          `gorm:"type:jsonb;not null" json:"category_scores"`
	RuleResults      JSONBArray     `gorm:"type:jsonb" json:"rule_results"`
	Recommendations  JSONBArray     `gorm:"type:jsonb" json:"recommendations"`
	FailedRules      pq.StringArray `gorm:"type:text[]" json:"failed_rules"`
	PassedCount      int            `gorm:"not null" json:"passed_count"`
	FailedCount      int            `gorm:"not null" json:"failed_count"`
	EvaluationTimeMs float64        `json:"evaluation_time_ms"`
	TriggeredBy      string         `gorm:"not null;default:'manual';size:50" json:"triggered_by"` // manual/scheduled/import
	CreatedAt        time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate 创建前钩子
func (e *EvaluationRecord) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.TriggeredBy == "" {
		e.TriggeredBy = "manual"
	}
	return nil
}

// ScheduledEvaluation 定时重评任务模型
type ScheduledEvaluation struct {
	ID             string     `gorm:"type:uuid;primary_key" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	CronExpression string     `gorm:"not null" json:"cron_expression"`
	DatasetID      *string    `gorm:"type:uuid" json:"dataset_id"` // 为空时重评全部数据集
	IsEnabled      bool       `gorm:"not null;default:true" json:"is_enabled"`
	LastRunAt      *time.Time `json:"last_run_at"`
	LastRunStatus  string     `gorm:"size:50" json:"last_run_status"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate 创建前钩子
func (s *ScheduledEvaluation) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// ApiKey API访问密钥模型, 仅存储密钥哈希
type ApiKey struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	KeyPrefix    string     `gorm:"not null;size:8;index" json:"key_prefix"`
	KeyValueHash string     `gorm:"not null" json:"-"`
	Description  string     `json:"description"`
	Status       string     `gorm:"not null;default:'active';size:20" json:"status"` // active/disabled
	ExpiresAt    *time.Time `json:"expires_at"`
	LastUsedAt   *time.Time `json:"last_used_at"`
	UsageCount   int64      `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeCreate 创建前钩子
func (a *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = "active"
	}
	return nil
}

// ImportTask 元数据批量导入任务模型
type ImportTask struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	SourceURL     string     `gorm:"not null" json:"source_url"`
	MappingScript string     `gorm:"type:text" json:"mapping_script"`
	Status        string     `gorm:"not null;default:'pending';size:20" json:"status"` // pending/running/success/failed
	TotalCount    int        `json:"total_count"`
	SuccessCount  int        `json:"success_count"`
	FailedCount   int        `json:"failed_count"`
	ErrorMessage  string     `gorm:"type:text" json:"error_message"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// BeforeCreate 创建前钩子
func (i *ImportTask) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = "pending"
	}
	return nil
}
