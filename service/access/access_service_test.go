/*
 * @module service/access/access_service_test
 * @description API密钥管理服务单元测试
 * @architecture 测试层
 * @documentReference ai_docs/access_control.md
 */

package access

import (
	"testing"
	"time"

	"metadata-quality-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAccessService(t *testing.T) (*AccessService, *testutil.TestDB) {
	tdb := testutil.NewTestDB()
	t.Cleanup(tdb.Close)
	return NewAccessService(tdb.DB), tdb
}

// TestCreateApiKey 测试创建API密钥
func TestCreateApiKey(t *testing.T) {
	service, _ := setupAccessService(t)

	key, fullKey, err := service.CreateApiKey("导入服务密钥", "供批量导入调用", nil)
	require.NoError(t, err)
	require.NotNil(t, key)

	assert.Len(t, fullKey, 64, "完整密钥应该是64字符的hex")
	assert.Equal(t, fullKey[:8], key.KeyPrefix, "前缀应该取完整密钥前8位")
	assert.Equal(t, "active", key.Status)
	assert.NotEqual(t, fullKey, key.KeyValueHash, "数据库不应存储明文密钥")
	assert.NotEmpty(t, key.ID)
}

// TestCreateApiKey_EmptyName 测试名称为空时创建失败
func TestCreateApiKey_EmptyName(t *testing.T) {
	service, _ := setupAccessService(t)

	_, _, err := service.CreateApiKey("", "", nil)
	assert.Error(t, err)
}

// TestVerifyApiKey 测试密钥验证与使用统计
func TestVerifyApiKey(t *testing.T) {
	service, _ := setupAccessService(t)

	created, fullKey, err := service.CreateApiKey("验证测试密钥", "", nil)
	require.NoError(t, err)

	verified, err := service.VerifyApiKey(fullKey)
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified.ID)

	// 使用统计应该被更新
	reloaded, err := service.GetApiKeyByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.UsageCount)
	assert.NotNil(t, reloaded.LastUsedAt)
}

// TestVerifyApiKey_Invalid 测试无效密钥被拒绝
func TestVerifyApiKey_Invalid(t *testing.T) {
	service, _ := setupAccessService(t)

	_, fullKey, err := service.CreateApiKey("密钥", "", nil)
	require.NoError(t, err)

	// 格式过短
	_, err = service.VerifyApiKey("short")
	assert.Error(t, err)

	// 前缀正确但密钥错误
	wrongKey := fullKey[:8] + "0000000000000000000000000000000000000000000000000000000000000000"[:56]
	_, err = service.VerifyApiKey(wrongKey)
	assert.Error(t, err)

	// 完全不存在的前缀
	_, err = service.VerifyApiKey("ffffffff1111111111111111111111111111111111111111111111111111111100")
	assert.Error(t, err)
}

// TestVerifyApiKey_Expired 测试过期密钥被拒绝
func TestVerifyApiKey_Expired(t *testing.T) {
	service, _ := setupAccessService(t)

	expiredAt := time.Now().Add(-time.Hour)
	_, fullKey, err := service.CreateApiKey("过期密钥", "", &expiredAt)
	require.NoError(t, err)

	_, err = service.VerifyApiKey(fullKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已过期")
}

// TestVerifyApiKey_Disabled 测试禁用密钥被拒绝
func TestVerifyApiKey_Disabled(t *testing.T) {
	service, _ := setupAccessService(t)

	created, fullKey, err := service.CreateApiKey("禁用密钥", "", nil)
	require.NoError(t, err)

	require.NoError(t, service.UpdateApiKeyStatus(created.ID, "disabled"))

	_, err = service.VerifyApiKey(fullKey)
	assert.Error(t, err, "禁用状态的密钥不应通过验证")
}

// TestUpdateApiKeyStatus 测试密钥状态更新
func TestUpdateApiKeyStatus(t *testing.T) {
	service, _ := setupAccessService(t)

	created, _, err := service.CreateApiKey("状态测试密钥", "", nil)
	require.NoError(t, err)

	assert.Error(t, service.UpdateApiKeyStatus(created.ID, "bogus"), "无效状态应该被拒绝")
	assert.Error(t, service.UpdateApiKeyStatus("missing-id", "disabled"), "密钥不存在应该报错")

	require.NoError(t, service.UpdateApiKeyStatus(created.ID, "disabled"))
	reloaded, err := service.GetApiKeyByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "disabled", reloaded.Status)
}

// TestGetApiKeysAndDelete 测试密钥列表与删除
func TestGetApiKeysAndDelete(t *testing.T) {
	service, _ := setupAccessService(t)

	first, _, err := service.CreateApiKey("密钥一", "", nil)
	require.NoError(t, err)
	_, _, err = service.CreateApiKey("密钥二", "", nil)
	require.NoError(t, err)

	keys, err := service.GetApiKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, service.DeleteApiKey(first.ID))

	keys, err = service.GetApiKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}
