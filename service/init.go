/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、评估引擎与各领域服务的初始化
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs ai_docs/model.md
 */

package service

import (
	"fmt"
	"log"
	"os"

	"metadata-quality-service/service/access"
	"metadata-quality-service/service/database"
	"metadata-quality-service/service/dataset"
	"metadata-quality-service/service/distributed_lock"
	"metadata-quality-service/service/estimator"
	"metadata-quality-service/service/evaluation"
	"metadata-quality-service/service/event"
	"metadata-quality-service/service/history"
	"metadata-quality-service/service/importer"
	"metadata-quality-service/service/rate_limiter"
	"metadata-quality-service/service/report"
	"metadata-quality-service/service/scheduler"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                     *gorm.DB
	GlobalEngine           *evaluation.Engine
	GlobalEstimator        *estimator.Estimator
	GlobalHistoryService   *history.HistoryService
	GlobalDatasetService   *dataset.DatasetService
	GlobalReportService    *report.ReportService
	GlobalImportService    *importer.ImportService
	GlobalEventService     *event.EventService
	GlobalSchedulerService *scheduler.SchedulerService
	GlobalAccessService    *access.AccessService
	GlobalRateLimiter      *rate_limiter.RedisRateLimiter
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "things2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Shanghai",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库表结构迁移完成")

	if err := database.InitializeData(DB); err != nil {
		log.Fatalf("基础数据初始化失败: %v", err)
	}
	log.Println("基础数据初始化完成")

	log.Println("所有数据库迁移任务完成")
}

// initServices 初始化服务
func initServices() {
	catalogue, err := evaluation.NewDefaultCatalogue()
	if err != nil {
		log.Fatalf("评估规则目录初始化失败: %v", err)
	}
	GlobalEngine = evaluation.NewEngine(catalogue)
	GlobalEstimator = estimator.NewEstimator()

	GlobalHistoryService = history.NewHistoryService(DB)
	GlobalDatasetService = dataset.NewDatasetService(DB, GlobalEngine, GlobalHistoryService)
	GlobalReportService = report.NewReportService()
	GlobalImportService = importer.NewImportService(DB, GlobalEngine, GlobalHistoryService)
	GlobalEventService = event.NewEventService()
	GlobalAccessService = access.NewAccessService(DB)

	// Redis限流器为可选组件, 初始化失败时不限流
	if limiter, err := rate_limiter.NewRedisRateLimiter(); err != nil {
		log.Printf("Redis限流器初始化失败, 接口不限流: %v", err)
	} else {
		GlobalRateLimiter = limiter
	}

	// 启动定时重评调度器
	GlobalSchedulerService = scheduler.NewSchedulerService(DB, GlobalEngine, GlobalHistoryService)

	// 多实例部署时用Redis分布式锁防止重评任务重复执行
	if lock, err := distributed_lock.NewRedisLock(); err != nil {
		log.Printf("Redis分布式锁初始化失败, 调度器单实例运行: %v", err)
	} else {
		GlobalSchedulerService.SetLockExecutor(distributed_lock.NewLockExecutor(lock))
	}

	if err := GlobalSchedulerService.Start(); err != nil {
		log.Printf("启动调度器服务失败: %v", err)
	}

	log.Println("服务初始化完成")
}
