/*
 * @module service/dataset/dataset_service_test
 * @description 数据集元数据管理服务单元测试
 * @architecture 测试层
 * @documentReference ai_docs/requirements.md
 */

package dataset

import (
	"testing"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/models"
	"metadata-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDatasetService(t *testing.T) *DatasetService {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)

	catalogue, err := evaluation.NewDefaultCatalogue()
	require.NoError(t, err)
	engine := evaluation.NewEngine(catalogue)

	return NewDatasetService(tdb.DB, engine, history.NewHistoryService(tdb.DB))
}

// TestRegisterDataset 测试登记数据集时立即评估并写入历史
func TestRegisterDataset(t *testing.T) {
	service := setupDatasetService(t)

	raw := map[string]interface{}{
		"title":       "城市交通流量数据集",
		"description": "主要路口每五分钟一次的交通流量统计。",
		"license":     "CC-BY-4.0",
		"keywords":    []interface{}{"交通", "流量"},
	}

	dataset, result, err := service.RegisterDataset("", raw)
	require.NoError(t, err)
	require.NotNil(t, dataset)
	require.NotNil(t, result)

	// 名称回退到title
	assert.Equal(t, "城市交通流量数据集", dataset.Name)
	assert.Equal(t, "manual", dataset.Source)
	assert.Equal(t, []string{"交通", "流量"}, []string(dataset.Keywords))
	assert.Greater(t, result.OverallScore, 0)

	// 评估历史已写入, 最新得分已回写
	records, total, err := history.NewHistoryService(service.db).GetEvaluations(1, 10, dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, result.OverallScore, records[0].OverallScore)

	reloaded, err := service.GetDatasetByID(dataset.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LatestScore)
	assert.Equal(t, result.OverallScore, *reloaded.LatestScore)
}

// TestRegisterDatasetEmptyRecord 测试空记录登记被拒绝
func TestRegisterDatasetEmptyRecord(t *testing.T) {
	service := setupDatasetService(t)

	_, _, err := service.RegisterDataset("x", nil)
	assert.Error(t, err)
}

// TestRegisterDatasetFallbackName 测试无名称无title时使用默认名称
func TestRegisterDatasetFallbackName(t *testing.T) {
	service := setupDatasetService(t)

	dataset, _, err := service.RegisterDataset("", map[string]interface{}{
		"description": "没有标题的记录",
	})
	require.NoError(t, err)
	assert.Equal(t, "未命名数据集", dataset.Name)
}

// TestGetDatasetsFilter 测试名称模糊过滤与分页
func TestGetDatasetsFilter(t *testing.T) {
	service := setupDatasetService(t)

	for _, name := range []string{"气象-2023", "气象-2024", "人口普查"} {
		_, _, err := service.RegisterDataset(name, map[string]interface{}{"title": name})
		require.NoError(t, err)
	}

	datasets, total, err := service.GetDatasets(1, 10, "气象")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, datasets, 2)

	datasets, total, err = service.GetDatasets(1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, datasets, 2)
}

// TestUpdateDatasetReevaluates 测试更新元数据后得分变化并新增历史记录
func TestUpdateDatasetReevaluates(t *testing.T) {
	service := setupDatasetService(t)

	dataset, first, err := service.RegisterDataset("test", map[string]interface{}{
		"title": "test",
	})
	require.NoError(t, err)

	richer := map[string]interface{}{
		"title":       "test",
		"description": "补充了详细描述的元数据记录, 用于验证重评逻辑。",
		"license":     "CC0-1.0",
		"creator":     "数据治理团队",
	}
	updated, second, err := service.UpdateDataset(dataset.ID, "", richer)
	require.NoError(t, err)

	assert.Greater(t, second.OverallScore, first.OverallScore)
	require.NotNil(t, updated.LatestScore)
	assert.Equal(t, second.OverallScore, *updated.LatestScore)

	_, total, err := history.NewHistoryService(service.db).GetEvaluations(1, 10, dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

// TestDeleteDatasetKeepsHistory 测试删除数据集后历史记录保留
func TestDeleteDatasetKeepsHistory(t *testing.T) {
	service := setupDatasetService(t)

	dataset, _, err := service.RegisterDataset("待删除", map[string]interface{}{"title": "待删除"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteDataset(dataset.ID))

	_, err = service.GetDatasetByID(dataset.ID)
	assert.Error(t, err)

	_, total, err := history.NewHistoryService(service.db).GetEvaluations(1, 10, dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// 再次删除
	assert.Error(t, service.DeleteDataset(dataset.ID))
}

// TestReevaluateDataset 测试基于已存原始元数据的手动重评
func TestReevaluateDataset(t *testing.T) {
	service := setupDatasetService(t)

	dataset, first, err := service.RegisterDataset("重评对象", map[string]interface{}{
		"title":       "重评对象",
		"description": "固定不变的元数据。",
	})
	require.NoError(t, err)

	result, err := service.ReevaluateDataset(dataset.ID)
	require.NoError(t, err)
	assert.Equal(t, first.OverallScore, result.OverallScore)

	var count int64
	require.NoError(t, service.db.Model(&models.EvaluationRecord{}).
		Where("dataset_id = ?", dataset.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
