/*
 * @module service/history/history_service_test
 * @description 评估历史服务单元测试
 * @architecture 测试层
 * @documentReference ai_docs/requirements.md
 */

package history

import (
	"testing"
	"time"

	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/models"
	"metadata-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHistoryService(t *testing.T) (*HistoryService, *testutil.TestDataFactory) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewHistoryService(tdb.DB), testutil.NewTestDataFactory(tdb.DB)
}

func newTestEngine(t *testing.T) *evaluation.Engine {
	catalogue, err := evaluation.NewDefaultCatalogue()
	require.NoError(t, err)
	return evaluation.NewEngine(catalogue)
}

// TestSaveEvaluation 测试评估结果入库并回写数据集最新得分
func TestSaveEvaluation(t *testing.T) {
	service, factory := setupHistoryService(t)
	engine := newTestEngine(t)

	dataset := factory.CreateDatasetMetadata()
	result := engine.EvaluateDetailed(map[string]interface{}{
		"title":       "Test Dataset",
		"description": "A dataset for testing.",
	})

	record, err := service.SaveEvaluation(dataset.ID, result, "manual")
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, dataset.ID, *record.DatasetID)
	assert.Equal(t, result.OverallScore, record.OverallScore)
	assert.Equal(t, result.Grade.Letter, record.GradeLetter)
	assert.Equal(t, result.Summary.Passed, record.PassedCount)
	assert.Equal(t, result.Summary.Failed, record.FailedCount)
	assert.Equal(t, "manual", record.TriggeredBy)
	assert.Len(t, record.FailedRules, result.Summary.Failed)

	// 数据集最新得分被回写
	reloaded, err := service.GetEvaluationByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.OverallScore, reloaded.OverallScore)

	var ds models.DatasetMetadata
	require.NoError(t, service.db.First(&ds, "id = ?", dataset.ID).Error)
	require.NotNil(t, ds.LatestScore)
	assert.Equal(t, result.OverallScore, *ds.LatestScore)
	assert.Equal(t, result.Grade.Letter, ds.LatestGrade)
	assert.NotNil(t, ds.EvaluatedAt)
}

// TestSaveEvaluationNilResult 测试空结果入库被拒绝
func TestSaveEvaluationNilResult(t *testing.T) {
	service, _ := setupHistoryService(t)

	_, err := service.SaveEvaluation("some-id", nil, "manual")
	assert.Error(t, err)
}

// TestSaveEvaluationWithoutDataset 测试临时评估不关联数据集
func TestSaveEvaluationWithoutDataset(t *testing.T) {
	service, _ := setupHistoryService(t)
	engine := newTestEngine(t)

	result := engine.EvaluateDetailed(map[string]interface{}{"title": "临时记录"})

	record, err := service.SaveEvaluation("", result, "manual")
	require.NoError(t, err)
	assert.Nil(t, record.DatasetID)
}

// TestGetEvaluationsPagination 测试评估记录分页与数据集过滤
func TestGetEvaluationsPagination(t *testing.T) {
	service, factory := setupHistoryService(t)

	first := factory.CreateDatasetMetadata()
	second := factory.CreateDatasetMetadata()

	for i := 0; i < 3; i++ {
		factory.CreateEvaluationRecord(first.ID)
	}
	factory.CreateEvaluationRecord(second.ID)

	records, total, err := service.GetEvaluations(1, 2, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 2)

	records, total, err = service.GetEvaluations(1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, records, 4)
}

// TestCompareEvaluations 测试两次评估的对比
func TestCompareEvaluations(t *testing.T) {
	service, factory := setupHistoryService(t)

	dataset := factory.CreateDatasetMetadata()

	base := factory.CreateEvaluationRecord(dataset.ID, func(r *models.EvaluationRecord) {
		r.OverallScore = 50
		r.CategoryScores = models.JSONB{"identification": 60, "legal": 20}
		r.FailedRules = []string{"license-presence", "version-presence"}
	})
	target := factory.CreateEvaluationRecord(dataset.ID, func(r *models.EvaluationRecord) {
		r.OverallScore = 70
		r.CategoryScores = models.JSONB{"identification": 80, "legal": 60}
		r.FailedRules = []string{"version-presence", "funding-presence"}
	})

	comparison, err := service.CompareEvaluations(base.ID, target.ID)
	require.NoError(t, err)

	assert.Equal(t, 20, comparison.ScoreDelta)
	assert.Equal(t, 20, comparison.CategoryDeltas["identification"])
	assert.Equal(t, 40, comparison.CategoryDeltas["legal"])
	assert.Equal(t, []string{"license-presence"}, comparison.NewlyPassed)
	assert.Equal(t, []string{"funding-presence"}, comparison.NewlyFailed)
}

// TestCompareEvaluationsMissingRecord 测试记录不存在时对比失败
func TestCompareEvaluationsMissingRecord(t *testing.T) {
	service, factory := setupHistoryService(t)

	dataset := factory.CreateDatasetMetadata()
	record := factory.CreateEvaluationRecord(dataset.ID)

	_, err := service.CompareEvaluations(record.ID, "missing-id")
	assert.Error(t, err)
	_, err = service.CompareEvaluations("missing-id", record.ID)
	assert.Error(t, err)
}

// TestGetScoreTrend 测试得分趋势按时间升序返回并判定方向
func TestGetScoreTrend(t *testing.T) {
	service, factory := setupHistoryService(t)

	dataset := factory.CreateDatasetMetadata()
	now := time.Now()

	scores := []int{40, 55, 70}
	for i, score := range scores {
		s := score
		offset := time.Duration(i) * time.Hour
		factory.CreateEvaluationRecord(dataset.ID, func(r *models.EvaluationRecord) {
			r.OverallScore = s
			r.CreatedAt = now.Add(-24*time.Hour + offset)
		})
	}

	trend, err := service.GetScoreTrend(dataset.ID, 10)
	require.NoError(t, err)

	require.Len(t, trend.Points, 3)
	assert.Equal(t, 40, trend.Points[0].Score)
	assert.Equal(t, 70, trend.Points[2].Score)
	assert.Equal(t, "improving", trend.Direction)

	// limit裁剪最近的记录
	trend, err = service.GetScoreTrend(dataset.ID, 2)
	require.NoError(t, err)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, 55, trend.Points[0].Score)
}

// TestGetScoreTrendStable 测试单点趋势判定为stable
func TestGetScoreTrendStable(t *testing.T) {
	service, factory := setupHistoryService(t)

	dataset := factory.CreateDatasetMetadata()
	factory.CreateEvaluationRecord(dataset.ID)

	trend, err := service.GetScoreTrend(dataset.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, "stable", trend.Direction)
	assert.Len(t, trend.Points, 1)
}
