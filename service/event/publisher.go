/*
 * @module service/event/publisher
 * @description 评估事件发布服务，将评估完成事件推送到Kafka与MQTT
 * @architecture 事件驱动架构 - 业务服务层
 * @documentReference ai_docs/event_design.md
 * @stateFlow 评估完成 -> 事件构造 -> Kafka/MQTT发布
 * @rules 事件发布失败只记录日志, 不影响评估流程本身
 * @dependencies github.com/segmentio/kafka-go, github.com/eclipse/paho.mqtt.golang
 * @refs service/evaluation/engine.go
 */

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/segmentio/kafka-go"
)

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EvaluationEvent 评估完成事件
type EvaluationEvent struct {
	DatasetID    string    `json:"dataset_id"`
	RecordID     string    `json:"record_id"`
	OverallScore int       `json:"overall_score"`
	Grade        string    `json:"grade"`
	FailedCount  int       `json:"failed_count"`
	TriggeredBy  string    `json:"triggered_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event *EvaluationEvent) error
	Close() error
}

// === Kafka发布器 ===

// KafkaPublisher 基于Kafka的评估事件发布器
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher 创建Kafka发布器, broker地址从环境变量读取
func NewKafkaPublisher() *KafkaPublisher {
	brokers := strings.Split(getEnvWithDefault("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := getEnvWithDefault("KAFKA_EVALUATION_TOPIC", "metadata-quality-evaluations")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 100 * time.Millisecond,
	}

	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish 发布评估事件, 以数据集ID作为分区键
func (p *KafkaPublisher) Publish(ctx context.Context, event *EvaluationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化评估事件失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.DatasetID),
		Value: payload,
		Time:  event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("发送评估事件失败: %w", err)
	}

	slog.Debug("评估事件已发送到Kafka",
		"topic", p.topic,
		"dataset_id", event.DatasetID,
		"score", event.OverallScore)
	return nil
}

// Close 关闭Kafka写入器
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// === MQTT发布器 ===

// MQTTPublisher 基于MQTT的评估事件发布器, 供边缘侧订阅
type MQTTPublisher struct {
	client    mqtt.Client
	topicBase string
}

// NewMQTTPublisher 创建并连接MQTT发布器
func NewMQTTPublisher() (*MQTTPublisher, error) {
	broker := getEnvWithDefault("MQTT_BROKER", "tcp://localhost:1883")
	clientID := getEnvWithDefault("MQTT_CLIENT_ID", "metadata-quality-service")
	topicBase := getEnvWithDefault("MQTT_EVALUATION_TOPIC", "metadata/quality/evaluations")

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)

	if username := os.Getenv("MQTT_USERNAME"); username != "" {
		opts.SetUsername(username)
		opts.SetPassword(os.Getenv("MQTT_PASSWORD"))
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("MQTT连接失败: %v", token.Error())
	}

	slog.Info("MQTT发布器连接成功", "broker", broker)
	return &MQTTPublisher{client: client, topicBase: topicBase}, nil
}

// Publish 发布评估事件, 主题按数据集ID划分
func (p *MQTTPublisher) Publish(_ context.Context, event *EvaluationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化评估事件失败: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.topicBase, event.DatasetID)
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("MQTT发布失败: %v", token.Error())
	}
	return nil
}

// Close 断开MQTT连接
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

// === 组合发布服务 ===

// EventService 评估事件服务, 将事件扇出到全部已配置的发布器
type EventService struct {
	mu         sync.RWMutex
	publishers []Publisher
}

// NewEventService 创建事件服务, 按环境变量启用各发布器
// 某个发布器初始化失败不阻塞服务启动
func NewEventService() *EventService {
	service := &EventService{}

	if getEnvWithDefault("KAFKA_ENABLED", "false") == "true" {
		service.AddPublisher(NewKafkaPublisher())
		slog.Info("Kafka评估事件发布器已启用")
	}

	if getEnvWithDefault("MQTT_ENABLED", "false") == "true" {
		publisher, err := NewMQTTPublisher()
		if err != nil {
			slog.Error("MQTT发布器初始化失败", "error", err)
		} else {
			service.AddPublisher(publisher)
			slog.Info("MQTT评估事件发布器已启用")
		}
	}

	return service
}

// AddPublisher 注册一个发布器
func (s *EventService) AddPublisher(publisher Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishers = append(s.publishers, publisher)
}

// PublishEvaluation 发布评估完成事件到全部发布器
func (s *EventService) PublishEvaluation(ctx context.Context, event *EvaluationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	s.mu.RLock()
	publishers := make([]Publisher, len(s.publishers))
	copy(publishers, s.publishers)
	s.mu.RUnlock()

	for _, publisher := range publishers {
		if err := publisher.Publish(ctx, event); err != nil {
			slog.Error("评估事件发布失败",
				"dataset_id", event.DatasetID,
				"error", err)
		}
	}
}

// Close 关闭全部发布器
func (s *EventService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, publisher := range s.publishers {
		if err := publisher.Close(); err != nil {
			slog.Warn("关闭事件发布器失败", "error", err)
		}
	}
	s.publishers = nil
}
