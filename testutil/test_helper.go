/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference ai_docs/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"metadata-quality-service/service/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.DatasetMetadata{},
		&models.EvaluationRecord{},
		&models.ScheduledEvaluation{},
		&models.ApiKey{},
		&models.ImportTask{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"dataset_metadata",
		"evaluation_records",
		"scheduled_evaluations",
		"api_keys",
		"import_tasks",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// TestDataFactory 测试数据工厂
type TestDataFactory struct {
	DB *gorm.DB
}

// NewTestDataFactory 创建测试数据工厂
func NewTestDataFactory(db *gorm.DB) *TestDataFactory {
	return &TestDataFactory{DB: db}
}

// DatasetMetadataOption 数据集元数据选项函数类型
type DatasetMetadataOption func(*models.DatasetMetadata)

// CreateDatasetMetadata 创建测试数据集元数据
func (f *TestDataFactory) CreateDatasetMetadata(opts ...DatasetMetadataOption) *models.DatasetMetadata {
	dataset := &models.DatasetMetadata{
		ID:     generateID("ds"),
		Name:   "测试数据集_" + generateSuffix(),
		Source: "manual",
		Raw: models.JSONB{
			"title":       "测试数据集",
			"description": "这是一个用于测试的数据集记录",
		},
		Keywords:  []string{"测试", "示例"},
		CreatedBy: "test",
		UpdatedBy: "test",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(dataset)
	}

	err := f.DB.Create(dataset).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test dataset metadata: %v", err))
	}

	return dataset
}

// EvaluationRecordOption 评估记录选项函数类型
type EvaluationRecordOption func(*models.EvaluationRecord)

// CreateEvaluationRecord 创建测试评估记录
func (f *TestDataFactory) CreateEvaluationRecord(datasetID string, opts ...EvaluationRecordOption) *models.EvaluationRecord {
	record := &models.EvaluationRecord{
		ID:           generateID("er"),
		DatasetID:    &datasetID,
		OverallScore: 60,
		GradeLetter:  "C",
		GradeLabel:   "合格",
		CategoryScores: models.JSONB{
			"identification": 80.0,
			"description":    50.0,
			"legal":          40.0,
			"provenance":     70.0,
		},
		FailedRules: []string{"license-presence"},
		PassedCount: 20,
		FailedCount: 17,
		TriggeredBy: "manual",
		CreatedAt:   time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(record)
	}

	err := f.DB.Create(record).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test evaluation record: %v", err))
	}

	return record
}

// ApiKeyOption API密钥选项函数类型
type ApiKeyOption func(*models.ApiKey)

// CreateApiKey 创建测试API密钥
func (f *TestDataFactory) CreateApiKey(opts ...ApiKeyOption) *models.ApiKey {
	apiKey := &models.ApiKey{
		ID:           generateID("ak"),
		Name:         "测试API密钥",
		KeyPrefix:    "testpref",
		KeyValueHash: "test_key_hash_" + generateSuffix(),
		Description:  "这是一个测试API密钥",
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(apiKey)
	}

	err := f.DB.Create(apiKey).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test api key: %v", err))
	}

	return apiKey
}

// ImportTaskOption 导入任务选项函数类型
type ImportTaskOption func(*models.ImportTask)

// CreateImportTask 创建测试导入任务
func (f *TestDataFactory) CreateImportTask(opts ...ImportTaskOption) *models.ImportTask {
	task := &models.ImportTask{
		ID:            generateID("it"),
		SourceURL:     "http://example.com/datasets.json",
		MappingScript: "return record, nil",
		Status:        "pending",
		CreatedAt:     time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(task)
	}

	err := f.DB.Create(task).Error
	if err != nil {
		panic(fmt.Sprintf("failed to create test import task: %v", err))
	}

	return task
}

// 辅助函数
func generateID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), generateSuffix())
}

func generateSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano()%100000)
}

// HTTPTestHelper HTTP测试辅助工具
type HTTPTestHelper struct{}

// NewHTTPTestHelper 创建HTTP测试辅助工具
func NewHTTPTestHelper() *HTTPTestHelper {
	return &HTTPTestHelper{}
}

// CreateJSONRequest 创建JSON请求
func (h *HTTPTestHelper) CreateJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reqBody io.Reader

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// AssertJSONResponse 断言JSON响应
func (h *HTTPTestHelper) AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedBody interface{}) {
	assert.Equal(t, expectedStatus, w.Code)

	if expectedBody != nil {
		var actualBody interface{}
		err := json.Unmarshal(w.Body.Bytes(), &actualBody)
		assert.NoError(t, err)

		expectedJSON, _ := json.Marshal(expectedBody)
		actualJSON, _ := json.Marshal(actualBody)

		assert.JSONEq(t, string(expectedJSON), string(actualJSON))
	}
}
