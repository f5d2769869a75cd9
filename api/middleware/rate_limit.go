/*
 * @module api/middleware/rate_limit
 * @description 限流中间件，基于Redis对评估API进行全局与密钥两层限流
 * @architecture 中间件模式 - HTTP请求拦截
 * @documentReference ai_docs/rate_limit_design.md
 * @stateFlow 构造限流规则 -> Redis检查 -> 超限返回429 -> 下一个处理器
 * @rules 限流器不可用时放行请求, 不因基础设施故障阻断评估服务
 * @dependencies net/http, github.com/go-chi/render, github.com/spf13/cast
 * @refs service/rate_limiter/redis_rate_limiter.go
 */

package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"metadata-quality-service/service/metrics"
	"metadata-quality-service/service/rate_limiter"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// RateLimitMiddleware 基于Redis的限流中间件
type RateLimitMiddleware struct {
	limiter *rate_limiter.RedisRateLimiter
	// 全局与单密钥的限流配置
	globalMaxRequests int
	globalWindow      int
	keyMaxRequests    int
	keyWindow         int
	// 白名单路径（不限流）
	whitelistPaths []string
}

// NewRateLimitMiddleware 创建限流中间件实例, 配额从环境变量读取
func NewRateLimitMiddleware(limiter *rate_limiter.RedisRateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:           limiter,
		globalMaxRequests: envInt("RATE_LIMIT_GLOBAL_MAX", 1000),
		globalWindow:      envInt("RATE_LIMIT_GLOBAL_WINDOW", 60),
		keyMaxRequests:    envInt("RATE_LIMIT_KEY_MAX", 100),
		keyWindow:         envInt("RATE_LIMIT_KEY_WINDOW", 60),
		whitelistPaths: []string{
			"/health",
			"/ready",
			"/swagger",
			"/metrics",
		},
	}
}

// Middleware 限流中间件处理函数
func (m *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil || m.isWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		rules := []rate_limiter.RateLimitRule{
			{
				Type:        "global",
				TimeWindow:  m.globalWindow,
				MaxRequests: m.globalMaxRequests,
			},
		}

		// 已通过鉴权的请求追加密钥层限流
		if keyID, ok := GetApiKeyIDFromContext(r.Context()); ok {
			rules = append(rules, rate_limiter.RateLimitRule{
				Type:        "api_key",
				TargetID:    keyID,
				TimeWindow:  m.keyWindow,
				MaxRequests: m.keyMaxRequests,
			})
		}

		result, err := m.limiter.CheckRateLimit(r.Context(), rules)
		if err != nil {
			// 限流器故障时放行
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt))

		if !result.Allowed {
			metrics.RateLimitDeniedTotal.WithLabelValues(result.RateLimitType).Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": result.Message,
				"error":   "Too Many Requests",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) isWhitelisted(path string) bool {
	for _, p := range m.whitelistPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n := cast.ToInt(value); n > 0 {
			return n
		}
	}
	return defaultValue
}
