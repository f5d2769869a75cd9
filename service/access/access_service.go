/*
 * @module service/access
 * @description API密钥管理服务，负责密钥的创建、验证、禁用与删除
 * @architecture 服务层 - 访问控制
 * @documentReference ai_docs/access_control.md
 * @stateFlow 创建密钥(仅返回一次明文) -> 请求携带密钥 -> 前缀查库 -> bcrypt校验 -> 更新使用统计
 * @rules 数据库只存储密钥的bcrypt哈希，明文仅在创建时返回一次
 * @dependencies golang.org/x/crypto/bcrypt, gorm.io/gorm
 * @refs api/middleware/api_key_auth.go
 */

package access

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"metadata-quality-service/service/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccessService API密钥管理服务
type AccessService struct {
	db *gorm.DB
}

// NewAccessService 创建访问控制服务实例
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// CreateApiKey 创建一个新的API密钥，返回完整密钥明文（仅此一次）
func (s *AccessService) CreateApiKey(name, description string, expiresAt *time.Time) (*models.ApiKey, string, error) {
	if name == "" {
		return nil, "", errors.New("密钥名称不能为空")
	}

	fullKey, err := generateRandomString(64) // 32字节随机数的hex编码
	if err != nil {
		return nil, "", err
	}

	keyPrefix := fullKey[:8]

	hashedKey, err := bcrypt.GenerateFromPassword([]byte(fullKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	apiKey := &models.ApiKey{
		Name:         name,
		KeyPrefix:    keyPrefix,
		KeyValueHash: string(hashedKey),
		Description:  description,
		ExpiresAt:    expiresAt,
		Status:       "active",
	}

	if err := s.db.Create(apiKey).Error; err != nil {
		return nil, "", err
	}

	return apiKey, fullKey, nil
}

// GetApiKeys 获取所有API密钥信息（不包含密钥本身）
func (s *AccessService) GetApiKeys() ([]models.ApiKey, error) {
	var keys []models.ApiKey
	if err := s.db.Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// GetApiKeyByID 根据ID获取API密钥
func (s *AccessService) GetApiKeyByID(keyID string) (*models.ApiKey, error) {
	var key models.ApiKey
	if err := s.db.First(&key, "id = ?", keyID).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// UpdateApiKeyStatus 启用或禁用API密钥
func (s *AccessService) UpdateApiKeyStatus(keyID, status string) error {
	if status != "active" && status != "disabled" {
		return errors.New("无效的密钥状态")
	}
	result := s.db.Model(&models.ApiKey{}).Where("id = ?", keyID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("密钥不存在")
	}
	return nil
}

// DeleteApiKey 删除API密钥
func (s *AccessService) DeleteApiKey(keyID string) error {
	return s.db.Delete(&models.ApiKey{}, "id = ?", keyID).Error
}

// VerifyApiKey 验证API密钥，成功后更新使用统计
func (s *AccessService) VerifyApiKey(keyValue string) (*models.ApiKey, error) {
	if len(keyValue) < 8 {
		return nil, errors.New("无效的API Key格式")
	}

	keyPrefix := keyValue[:8]

	var keys []models.ApiKey
	if err := s.db.Where("key_prefix = ? AND status = 'active'", keyPrefix).Find(&keys).Error; err != nil {
		return nil, err
	}

	// 遍历所有匹配前缀的密钥，逐个校验完整值
	for _, key := range keys {
		if err := bcrypt.CompareHashAndPassword([]byte(key.KeyValueHash), []byte(keyValue)); err == nil {
			if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
				return nil, errors.New("API Key已过期")
			}

			s.db.Model(&key).Updates(map[string]interface{}{
				"last_used_at": time.Now(),
				"usage_count":  key.UsageCount + 1,
			})

			return &key, nil
		}
	}

	return nil, errors.New("无效的API Key")
}

// generateRandomString 生成随机字符串
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
