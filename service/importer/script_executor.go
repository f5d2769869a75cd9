/*
 * @module service/importer/script_executor
 * @description 字段映射脚本执行器，基于yaegi解释执行用户提供的映射脚本并缓存编译结果
 * @architecture 适配器模式 - 封装脚本解释器
 * @documentReference ai_docs/import_mapping.md
 * @stateFlow 脚本哈希 -> 缓存查找 -> 编译 -> 执行
 * @rules 脚本必须实现 Run(record map[string]interface{}) (map[string]interface{}, error) 入口函数;
 *        相同脚本只编译一次
 * @dependencies github.com/traefik/yaegi
 * @refs import_service.go
 */

package importer

import (
	"crypto/sha1"
	"fmt"
	"sync"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// MappingFunc 映射脚本的入口函数签名
type MappingFunc func(record map[string]interface{}) (map[string]interface{}, error)

// compiledScript 编译后的映射脚本
type compiledScript struct {
	fn       MappingFunc
	compiled time.Time
	hash     string
}

// ScriptExecutor 映射脚本执行器
type ScriptExecutor struct {
	mu    sync.RWMutex
	cache map[string]*compiledScript
}

// NewScriptExecutor 创建映射脚本执行器
func NewScriptExecutor() *ScriptExecutor {
	return &ScriptExecutor{
		cache: make(map[string]*compiledScript),
	}
}

// Execute 对单条记录执行映射脚本
func (e *ScriptExecutor) Execute(script string, record map[string]interface{}) (map[string]interface{}, error) {
	hash := fmt.Sprintf("%x", sha1.Sum([]byte(script)))

	// 先查缓存
	e.mu.RLock()
	compiled, ok := e.cache[hash]
	e.mu.RUnlock()

	if !ok {
		var err error
		compiled, err = e.compile(script, hash)
		if err != nil {
			return nil, fmt.Errorf("映射脚本编译失败: %w", err)
		}

		e.mu.Lock()
		e.cache[hash] = compiled
		e.mu.Unlock()
	}

	return compiled.fn(record)
}

// compile 编译脚本为可执行函数
func (e *ScriptExecutor) compile(script, hash string) (*compiledScript, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	// 包装脚本: 脚本体在 Run 函数中执行, record 为当前原始记录
	wrapped := fmt.Sprintf(`
package main

import (
	"fmt"
	"strings"
	"strconv"
	"time"
)

// 必须提供一个 Run 函数作为入口
func Run(record map[string]interface{}) (map[string]interface{}, error) {
	_ = fmt.Sprint
	_ = strings.TrimSpace
	_ = strconv.Itoa
	_ = time.Now

	// 脚本内容
%s
}
`, script)

	if _, err := i.Eval(wrapped); err != nil {
		return nil, fmt.Errorf("脚本编译失败: %w", err)
	}

	v, err := i.Eval("Run")
	if err != nil {
		return nil, fmt.Errorf("脚本缺少 Run 函数: %w", err)
	}

	runFunc, ok := v.Interface().(func(map[string]interface{}) (map[string]interface{}, error))
	if !ok {
		return nil, fmt.Errorf("Run 函数签名必须是 func(map[string]interface{}) (map[string]interface{}, error)")
	}

	return &compiledScript{
		fn:       MappingFunc(runFunc),
		compiled: time.Now(),
		hash:     hash,
	}, nil
}

// Validate 验证脚本语法(快速校验, 不执行)
func (e *ScriptExecutor) Validate(script string) error {
	_, err := e.compile(script, "")
	return err
}

// CacheSize 当前已缓存的编译脚本数量
func (e *ScriptExecutor) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// ClearCache 清理缓存
func (e *ScriptExecutor) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*compiledScript)
}
