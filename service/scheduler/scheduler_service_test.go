/*
 * @module service/scheduler/scheduler_service_test
 * @description 定时重评调度器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/scheduled_evaluation.md
 */

package scheduler

import (
	"testing"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/models"
	"metadata-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScheduler(t *testing.T) (*SchedulerService, *testutil.TestDataFactory) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	catalogue, err := evaluation.NewDefaultCatalogue()
	require.NoError(t, err)
	engine := evaluation.NewEngine(catalogue)

	service := NewSchedulerService(tdb.DB, engine, history.NewHistoryService(tdb.DB))
	t.Cleanup(service.Stop)

	return service, testutil.NewTestDataFactory(tdb.DB)
}

// TestReevaluateAllDatasets 测试全量重评遍历全部数据集
func TestReevaluateAllDatasets(t *testing.T) {
	service, factory := setupScheduler(t)

	factory.CreateDatasetMetadata()
	factory.CreateDatasetMetadata()

	evaluated, failed, err := service.ReevaluateDatasets(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, evaluated)
	assert.Equal(t, 0, failed)

	var count int64
	require.NoError(t, service.db.Model(&models.EvaluationRecord{}).
		Where("triggered_by = ?", "scheduled").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

// TestReevaluateSingleDataset 测试指定数据集的定向重评
func TestReevaluateSingleDataset(t *testing.T) {
	service, factory := setupScheduler(t)

	target := factory.CreateDatasetMetadata()
	factory.CreateDatasetMetadata()

	evaluated, failed, err := service.ReevaluateDatasets(&target.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)
	assert.Equal(t, 0, failed)

	var dataset models.DatasetMetadata
	require.NoError(t, service.db.First(&dataset, "id = ?", target.ID).Error)
	require.NotNil(t, dataset.LatestScore)
}

// TestAddTaskValidation 测试Cron表达式校验
func TestAddTaskValidation(t *testing.T) {
	service, _ := setupScheduler(t)

	err := service.AddTask(&models.ScheduledEvaluation{ID: "t1"})
	assert.Error(t, err)

	err = service.AddTask(&models.ScheduledEvaluation{
		ID:             "t2",
		CronExpression: "not a cron",
	})
	assert.Error(t, err)

	// 秒级六段表达式
	err = service.AddTask(&models.ScheduledEvaluation{
		ID:             "t3",
		CronExpression: "0 0 2 * * *",
	})
	assert.NoError(t, err)

	// 重复移除无副作用
	service.RemoveTask("t3")
	service.RemoveTask("t3")
}

// TestStartLoadsEnabledTasks 测试启动时只加载启用状态的任务
func TestStartLoadsEnabledTasks(t *testing.T) {
	service, _ := setupScheduler(t)

	enabled := &models.ScheduledEvaluation{
		Name:           "enabled-task",
		CronExpression: "0 0 3 * * *",
		IsEnabled:      true,
	}
	disabled := &models.ScheduledEvaluation{
		Name:           "disabled-task",
		CronExpression: "0 0 4 * * *",
		IsEnabled:      false,
	}
	require.NoError(t, service.db.Create(enabled).Error)
	require.NoError(t, service.db.Create(disabled).Error)
	// is_enabled带默认值true, 零值在Create时会被默认值覆盖, 显式落为false
	require.NoError(t, service.db.Model(disabled).Update("is_enabled", false).Error)

	require.NoError(t, service.Start())

	_, hasEnabled := service.entries[enabled.ID]
	_, hasDisabled := service.entries[disabled.ID]
	assert.True(t, hasEnabled)
	assert.False(t, hasDisabled)
}
