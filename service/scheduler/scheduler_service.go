/**
 * @module SchedulerService
 * @description 定时重评调度器服务，按Cron表达式对登记的数据集重新执行质量评估
 * @architecture 基于Go协程和cron库的调度器模式
 * @documentReference ../ai_docs/scheduled_evaluation.md
 * @stateFlow 加载任务 -> cron触发 -> 批量重评 -> 状态回写
 * @rules 重评过程中的单数据集失败不中断整个任务; 任务执行状态落库
 * @dependencies gorm, cron库
 * @refs ../models/evaluation.go, ../evaluation/engine.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"metadata-quality-service/service/distributed_lock"
	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/models"
)

// SchedulerService 定时重评调度器服务
type SchedulerService struct {
	db       *gorm.DB
	engine   *evaluation.Engine
	history  *history.HistoryService
	cron     *cron.Cron
	entries  map[string]cron.EntryID
	executor *distributed_lock.LockExecutor
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSchedulerService 创建调度器服务
func NewSchedulerService(db *gorm.DB, engine *evaluation.Engine, historyService *history.HistoryService) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	// 秒级精度的cron调度器
	c := cron.New(cron.WithSeconds())

	return &SchedulerService{
		db:      db,
		engine:  engine,
		history: historyService,
		cron:    c,
		entries: make(map[string]cron.EntryID),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetLockExecutor 设置分布式锁执行器, 多实例部署时防止同一任务被重复执行
func (s *SchedulerService) SetLockExecutor(executor *distributed_lock.LockExecutor) {
	s.executor = executor
}

// Start 启动调度器
func (s *SchedulerService) Start() error {
	log.Println("启动定时重评调度器")

	s.cron.Start()

	if err := s.loadScheduledTasks(); err != nil {
		log.Printf("加载定时重评任务失败: %v", err)
		return err
	}

	log.Println("定时重评调度器启动完成")
	return nil
}

// Stop 停止调度器
func (s *SchedulerService) Stop() {
	log.Println("停止定时重评调度器")

	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}

	log.Println("定时重评调度器已停止")
}

// loadScheduledTasks 加载启用状态的定时重评任务
func (s *SchedulerService) loadScheduledTasks() error {
	var tasks []models.ScheduledEvaluation
	if err := s.db.Where("is_enabled = ?", true).Find(&tasks).Error; err != nil {
		return fmt.Errorf("获取定时重评任务失败: %w", err)
	}

	for _, task := range tasks {
		if err := s.AddTask(&task); err != nil {
			log.Printf("添加重评任务到调度器失败 [%s]: %v", task.ID, err)
		}
	}

	log.Printf("加载了 %d 个定时重评任务", len(tasks))
	return nil
}

// AddTask 将重评任务注册到调度器
func (s *SchedulerService) AddTask(task *models.ScheduledEvaluation) error {
	if task.CronExpression == "" {
		return fmt.Errorf("重评任务缺少Cron表达式")
	}

	taskID := task.ID
	entryID, err := s.cron.AddFunc(task.CronExpression, func() {
		s.executeTask(taskID)
	})
	if err != nil {
		return fmt.Errorf("添加Cron任务失败: %w", err)
	}

	s.entries[taskID] = entryID
	log.Printf("添加定时重评任务: %s [%s]", task.ID, task.CronExpression)
	return nil
}

// RemoveTask 从调度器中移除重评任务
func (s *SchedulerService) RemoveTask(taskID string) {
	if entryID, ok := s.entries[taskID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, taskID)
		log.Printf("移除定时重评任务: %s", taskID)
	}
}

// executeTask 执行一次定时重评
func (s *SchedulerService) executeTask(taskID string) {
	var task models.ScheduledEvaluation
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		log.Printf("定时重评任务不存在 [%s]: %v", taskID, err)
		return
	}
	if !task.IsEnabled {
		return
	}

	log.Printf("开始执行定时重评任务: %s", task.ID)

	var evaluated, failed int
	var err error
	run := func() error {
		evaluated, failed, err = s.ReevaluateDatasets(task.DatasetID)
		return err
	}

	// 多实例部署时用分布式锁防重
	if s.executor != nil {
		err = s.executor.ExecuteWithLock(s.ctx, "scheduled_evaluation:"+task.ID, 30*time.Minute, run)
	} else {
		err = run()
	}

	status := "success"
	if err != nil {
		status = "failed"
		log.Printf("定时重评任务失败 [%s]: %v", task.ID, err)
	}

	now := time.Now()
	s.db.Model(&models.ScheduledEvaluation{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"last_run_at":     now,
			"last_run_status": status,
		})

	log.Printf("定时重评任务完成: %s, 重评=%d, 失败=%d", task.ID, evaluated, failed)
}

// ReevaluateDatasets 重评指定数据集, datasetID为nil时重评全部
func (s *SchedulerService) ReevaluateDatasets(datasetID *string) (evaluated, failed int, err error) {
	var datasets []models.DatasetMetadata
	query := s.db.Model(&models.DatasetMetadata{})
	if datasetID != nil {
		query = query.Where("id = ?", *datasetID)
	}
	if err := query.Find(&datasets).Error; err != nil {
		return 0, 0, fmt.Errorf("获取数据集列表失败: %w", err)
	}

	for _, dataset := range datasets {
		select {
		case <-s.ctx.Done():
			return evaluated, failed, s.ctx.Err()
		default:
		}

		result := s.engine.EvaluateDetailed(map[string]interface{}(dataset.Raw))
		if _, err := s.history.SaveEvaluation(dataset.ID, result, "scheduled"); err != nil {
			failed++
			log.Printf("重评数据集失败 [%s]: %v", dataset.ID, err)
			continue
		}
		evaluated++
	}

	return evaluated, failed, nil
}
