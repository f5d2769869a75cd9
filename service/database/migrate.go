/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies metadata-quality-service/service/models, gorm.io/gorm
 * @refs dev_docs/backend_requirements.md
 */

package database

import (
	"log"
	"metadata-quality-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 元数据与评估记录相关表
	err := db.AutoMigrate(
		&models.DatasetMetadata{},
		&models.EvaluationRecord{},
	)
	if err != nil {
		return err
	}

	// 任务与访问控制相关表
	err = db.AutoMigrate(
		&models.ScheduledEvaluation{},
		&models.ApiKey{},
		&models.ImportTask{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}

// InitializeData 初始化基础数据
func InitializeData(db *gorm.DB) error {
	log.Println("开始初始化基础数据...")

	// 默认的全量定时重评任务, 已存在时不重复创建
	var count int64
	if err := db.Model(&models.ScheduledEvaluation{}).
		Where("name = ?", "nightly-full-reevaluation").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		task := &models.ScheduledEvaluation{
			Name:           "nightly-full-reevaluation",
			CronExpression: "0 0 2 * * *",
			IsEnabled:      true,
		}
		if err := db.Create(task).Error; err != nil {
			return err
		}
		log.Println("已创建默认的每日全量重评任务")
	}

	log.Println("基础数据初始化完成")
	return nil
}
