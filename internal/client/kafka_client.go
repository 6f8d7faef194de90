package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"login-generator/internal/bucketing"
	"login-generator/internal/config"
	"login-generator/internal/model"
)

const publishBatchSize = 100

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes generated login events to a topic, one JSON
// message per event keyed by user id.
type KafkaProducer struct {
	writer  messageWriter
	config  *config.KafkaConfig
	buckets *bucketing.BucketingManager
	logger  *zap.Logger
}

type loginEventMessage struct {
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"user_id"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Success     bool      `json:"success"`
	EventBucket int       `json:"event_bucket"`
}

func NewKafkaProducer(cfg *config.Config, logger *zap.Logger) *KafkaProducer {
	kafkaConfig := cfg.Kafka

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kafkaConfig.Brokers...),
		Topic:        kafkaConfig.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchSize:    publishBatchSize,
		BatchBytes:   1048576, // 1MB
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", kafkaConfig.Brokers),
		zap.String("topic", kafkaConfig.Topic),
	)

	return newKafkaProducer(writer, &kafkaConfig, logger)
}

func newKafkaProducer(w messageWriter, cfg *config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		writer:  w,
		config:  cfg,
		buckets: bucketing.NewBucketingManager(cfg.Buckets),
		logger:  logger,
	}
}

// PublishEvents writes events in order, in batches of publishBatchSize.
func (p *KafkaProducer) PublishEvents(ctx context.Context, events []model.LoginEvent) error {
	batch := make([]kafka.Message, 0, publishBatchSize)
	sent := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.writer.WriteMessages(ctx, batch...); err != nil {
			return fmt.Errorf("failed to write kafka messages after %d events: %w", sent, err)
		}
		sent += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, e := range events {
		msg, err := p.buildMessage(e)
		if err != nil {
			return err
		}
		batch = append(batch, msg)
		if len(batch) == publishBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	p.logger.Info("Published login events",
		zap.String("topic", p.config.Topic),
		zap.Int("count", sent),
	)
	return nil
}

func (p *KafkaProducer) buildMessage(e model.LoginEvent) (kafka.Message, error) {
	bucket := p.buckets.GetEventBucket(e.UserID)

	value, err := json.Marshal(loginEventMessage{
		Timestamp:   e.Timestamp,
		UserID:      e.UserID,
		IPAddress:   e.IPAddress,
		UserAgent:   e.UserAgent,
		Success:     e.Success,
		EventBucket: bucket,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode login event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(e.UserID),
		Value: value,
		Time:  e.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_bucket", Value: []byte(strconv.Itoa(bucket))},
			{Key: "success", Value: []byte(strconv.FormatBool(e.Success))},
		},
	}, nil
}

// HealthCheck dials the first broker and lists partitions.
func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	if len(p.config.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}

	dialer := &kafka.Dialer{
		Timeout:   5 * time.Second,
		DualStack: true,
	}

	conn, err := dialer.DialContext(ctx, "tcp", p.config.Brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to kafka broker: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read Kafka partitions: %w", err)
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			return fmt.Errorf("failed to close kafka producer: %w", err)
		}
		p.logger.Info("Kafka producer closed")
	}
	return nil
}
