/*
 * @module api/controllers/access_controller
 * @description 访问密钥控制器，提供API密钥的创建、查询、状态管理与删除API
 * @architecture 分层架构 - 控制器层
 * @documentReference ai_docs/access_control.md
 * @stateFlow HTTP请求处理流程
 * @rules 密钥明文仅在创建响应中返回一次
 * @dependencies metadata-quality-service/service, github.com/go-chi/chi/v5
 * @refs service/access/access_service.go
 */

package controllers

import (
	"net/http"
	"time"

	"metadata-quality-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// AccessController 访问密钥控制器
type AccessController struct{}

// NewAccessController 创建访问密钥控制器实例
func NewAccessController() *AccessController {
	return &AccessController{}
}

// CreateApiKeyRequest API密钥创建请求
type CreateApiKeyRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// ApiKeyStatusRequest API密钥状态更新请求
type ApiKeyStatusRequest struct {
	Status string `json:"status"`
}

// CreateApiKey 创建API密钥
// @Summary 创建API密钥
// @Description 创建新的API密钥，完整密钥明文仅在本次响应中返回
// @Tags 访问控制
// @Accept json
// @Produce json
// @Param request body CreateApiKeyRequest true "密钥信息"
// @Success 201 {object} APIResponse "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /access-keys [post]
func (c *AccessController) CreateApiKey(w http.ResponseWriter, r *http.Request) {
	var req CreateApiKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	apiKey, fullKey, err := service.GlobalAccessService.CreateApiKey(req.Name, req.Description, req.ExpiresAt)
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "创建API密钥失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusCreated,
		Msg:    "创建API密钥成功, 请妥善保存密钥明文",
		Data: map[string]interface{}{
			"api_key": apiKey,
			"key":     fullKey,
		},
	})
}

// GetApiKeys 获取API密钥列表
// @Summary 获取API密钥列表
// @Description 获取全部API密钥信息，不包含密钥本身
// @Tags 访问控制
// @Produce json
// @Success 200 {object} APIResponse "获取成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /access-keys [get]
func (c *AccessController) GetApiKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := service.GlobalAccessService.GetApiKeys()
	if err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "获取API密钥列表失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "获取API密钥列表成功",
		Data:   keys,
	})
}

// UpdateApiKeyStatus 更新API密钥状态
// @Summary 更新API密钥状态
// @Description 启用或禁用API密钥，status取值active/disabled
// @Tags 访问控制
// @Accept json
// @Produce json
// @Param id path string true "密钥ID"
// @Param request body ApiKeyStatusRequest true "目标状态"
// @Success 200 {object} APIResponse "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Router /access-keys/{id}/status [put]
func (c *AccessController) UpdateApiKeyStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ApiKeyStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "请求参数格式错误",
		})
		return
	}

	if err := service.GlobalAccessService.UpdateApiKeyStatus(id, req.Status); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusBadRequest,
			Msg:    "更新API密钥状态失败: " + err.Error(),
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "更新API密钥状态成功",
	})
}

// DeleteApiKey 删除API密钥
// @Summary 删除API密钥
// @Description 删除指定的API密钥
// @Tags 访问控制
// @Produce json
// @Param id path string true "密钥ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /access-keys/{id} [delete]
func (c *AccessController) DeleteApiKey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := service.GlobalAccessService.DeleteApiKey(id); err != nil {
		render.JSON(w, r, APIResponse{
			Status: http.StatusInternalServerError,
			Msg:    "删除API密钥失败",
		})
		return
	}

	render.JSON(w, r, APIResponse{
		Status: http.StatusOK,
		Msg:    "删除API密钥成功",
	})
}
