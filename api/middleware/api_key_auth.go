/*
 * @module api/middleware/api_key_auth
 * @description API密钥鉴权中间件，验证请求携带的密钥并注入上下文
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/access_control.md
 * @stateFlow 密钥提取 -> 缓存检查 -> 数据库验证 -> 上下文注入 -> 下一个处理器
 * @rules 支持X-API-Key头与Bearer格式; 验证结果短时缓存以减少bcrypt开销
 * @dependencies net/http, github.com/go-chi/render
 * @refs service/access/access_service.go, api/routes.go
 */

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"metadata-quality-service/service/models"

	"github.com/go-chi/render"
)

// ContextKey 上下文键类型
type ContextKey string

const (
	// ApiKeyIDKey 密钥ID在上下文中的键
	ApiKeyIDKey ContextKey = "api_key_id"
	// ApiKeyNameKey 密钥名称在上下文中的键
	ApiKeyNameKey ContextKey = "api_key_name"
)

// KeyVerifier 密钥验证接口
type KeyVerifier interface {
	VerifyApiKey(keyValue string) (*models.ApiKey, error)
}

// ApiKeyAuthMiddleware API密钥鉴权中间件
type ApiKeyAuthMiddleware struct {
	verifier KeyVerifier
	// 验证结果缓存, bcrypt校验开销较大
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
	cacheTTL   time.Duration
	// 白名单路径（不需要鉴权）
	whitelistPaths []string
}

// cacheEntry 缓存条目
type cacheEntry struct {
	keyID     string
	keyName   string
	expiresAt time.Time
}

// NewApiKeyAuthMiddleware 创建API密钥鉴权中间件实例
func NewApiKeyAuthMiddleware(verifier KeyVerifier) *ApiKeyAuthMiddleware {
	return &ApiKeyAuthMiddleware{
		verifier: verifier,
		cache:    make(map[string]*cacheEntry),
		cacheTTL: 5 * time.Minute, // 缓存5分钟
		whitelistPaths: []string{
			"/health",  // 健康检查
			"/ready",   // 就绪检查
			"/swagger", // Swagger文档
			"/metrics", // Prometheus指标
		},
	}
}

// AddWhitelistPath 添加白名单路径
func (m *ApiKeyAuthMiddleware) AddWhitelistPath(path string) {
	m.whitelistPaths = append(m.whitelistPaths, path)
}

// IsWhitelistPath 检查路径是否在白名单中
func (m *ApiKeyAuthMiddleware) IsWhitelistPath(path string) bool {
	for _, whitelistPath := range m.whitelistPaths {
		// 支持前缀匹配
		if strings.HasPrefix(path, whitelistPath) {
			return true
		}
	}
	return false
}

// ExtractKey 从请求中提取API密钥, 支持X-API-Key头与Bearer格式
func ExtractKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// Middleware 鉴权中间件处理函数
func (m *ApiKeyAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 检查是否在白名单中
		if m.IsWhitelistPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		keyValue := ExtractKey(r)
		if keyValue == "" {
			m.respondUnauthorized(w, r, "缺少API密钥, 请使用X-API-Key头或Bearer格式")
			return
		}

		// 先检查缓存
		if entry := m.getFromCache(keyValue); entry != nil {
			ctx := context.WithValue(r.Context(), ApiKeyIDKey, entry.keyID)
			ctx = context.WithValue(ctx, ApiKeyNameKey, entry.keyName)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// 验证密钥
		apiKey, err := m.verifier.VerifyApiKey(keyValue)
		if err != nil {
			m.respondUnauthorized(w, r, fmt.Sprintf("API密钥验证失败: %v", err))
			return
		}

		m.saveToCache(keyValue, apiKey)

		ctx := context.WithValue(r.Context(), ApiKeyIDKey, apiKey.ID)
		ctx = context.WithValue(ctx, ApiKeyNameKey, apiKey.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getFromCache 从缓存中获取验证结果
func (m *ApiKeyAuthMiddleware) getFromCache(keyValue string) *cacheEntry {
	m.cacheMutex.RLock()
	defer m.cacheMutex.RUnlock()

	entry, exists := m.cache[keyValue]
	if !exists {
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		// 异步删除过期缓存
		go m.removeFromCache(keyValue)
		return nil
	}

	return entry
}

// saveToCache 保存验证结果到缓存
func (m *ApiKeyAuthMiddleware) saveToCache(keyValue string, apiKey *models.ApiKey) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	// 缓存时间不能超过密钥自身的过期时间
	cacheExpiry := time.Now().Add(m.cacheTTL)
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(cacheExpiry) {
		cacheExpiry = *apiKey.ExpiresAt
	}

	m.cache[keyValue] = &cacheEntry{
		keyID:     apiKey.ID,
		keyName:   apiKey.Name,
		expiresAt: cacheExpiry,
	}
}

// removeFromCache 从缓存中删除密钥
func (m *ApiKeyAuthMiddleware) removeFromCache(keyValue string) {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	delete(m.cache, keyValue)
}

// ClearExpiredCache 清理过期缓存（可以定期调用）
func (m *ApiKeyAuthMiddleware) ClearExpiredCache() int {
	m.cacheMutex.Lock()
	defer m.cacheMutex.Unlock()

	now := time.Now()
	clearedCount := 0

	for keyValue, entry := range m.cache {
		if now.After(entry.expiresAt) {
			delete(m.cache, keyValue)
			clearedCount++
		}
	}

	return clearedCount
}

// GetCacheStats 获取缓存统计信息
func (m *ApiKeyAuthMiddleware) GetCacheStats() map[string]interface{} {
	m.cacheMutex.RLock()
	defer m.cacheMutex.RUnlock()

	now := time.Now()
	validCount := 0
	expiredCount := 0

	for _, entry := range m.cache {
		if now.After(entry.expiresAt) {
			expiredCount++
		} else {
			validCount++
		}
	}

	return map[string]interface{}{
		"total_cached":   len(m.cache),
		"valid_cached":   validCount,
		"expired_cached": expiredCount,
		"cache_ttl":      m.cacheTTL.String(),
	}
}

// respondUnauthorized 返回401未授权响应
func (m *ApiKeyAuthMiddleware) respondUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"error":   "Unauthorized",
	})
}

// GetApiKeyIDFromContext 从上下文中获取密钥ID
func GetApiKeyIDFromContext(ctx context.Context) (string, bool) {
	keyID, ok := ctx.Value(ApiKeyIDKey).(string)
	return keyID, ok
}

// GetApiKeyNameFromContext 从上下文中获取密钥名称
func GetApiKeyNameFromContext(ctx context.Context) (string, bool) {
	keyName, ok := ctx.Value(ApiKeyNameKey).(string)
	return keyName, ok
}
