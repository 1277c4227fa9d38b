package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/IBM/sarama"
)

// Producer publishes JSON messages keyed for partition affinity
type Producer interface {
	Publish(ctx context.Context, topic, key string, value any, headers map[string]string) error
	Close() error
}

// ProducerConfig contains configuration for the sync producer
type ProducerConfig struct {
	Brokers          []string
	ClientID         string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, clientID string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		ClientID:         clientID,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// SaramaConfig translates the producer settings
func (c *ProducerConfig) SaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientID
	cfg.Version = sarama.V2_8_0_0

	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = c.RequiredAcks
	cfg.Producer.Compression = c.CompressionType
	cfg.Producer.Retry.Max = c.RetryMax
	cfg.Producer.Timeout = c.Timeout
	cfg.Producer.Idempotent = c.IdempotentWrites
	cfg.Producer.MaxMessageBytes = c.MaxMessageBytes
	if c.IdempotentWrites {
		cfg.Net.MaxOpenRequests = 1
	}

	// Same key, same partition: per-payment ordering
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

type syncProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewProducer dials the brokers and returns a sync producer
func NewProducer(config *ProducerConfig) (Producer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewProducerFrom(producer), nil
}

// NewProducerFrom wraps an existing sarama producer
func NewProducerFrom(producer sarama.SyncProducer) Producer {
	return &syncProducer{
		producer: producer,
		log:      logger.GetDefault().WithComponent("kafka-producer"),
	}
}

func (p *syncProducer) Publish(ctx context.Context, topic, key string, value any, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(payload),
		Headers:   recordHeaders(headers),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(message)
	metrics.KafkaProduced(topic, err)
	if err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	p.log.Debug("message published",
		slog.String("topic", topic),
		slog.String("key", key),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

func (p *syncProducer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func recordHeaders(headers map[string]string) []sarama.RecordHeader {
	out := make([]sarama.RecordHeader, 0, len(headers)+1)
	out = append(out, sarama.RecordHeader{Key: []byte("producer"), Value: []byte("ticketera")})
	for k, v := range headers {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return out
}

// Header returns the value of a record header, or "" when absent
func Header(msg *sarama.ConsumerMessage, key string) string {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}
