package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/IBM/sarama"
)

// Handler processes one message. A returned error is retried with backoff.
type Handler func(ctx context.Context, msg *sarama.ConsumerMessage) error

type ConsumerConfig struct {
	Brokers              []string
	ClientID             string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	Heartbeat            time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig(brokers []string, clientID, groupID string, topics ...string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              brokers,
		ClientID:             clientID,
		GroupID:              groupID,
		Topics:               topics,
		SessionTimeout:       30 * time.Second,
		Heartbeat:            3 * time.Second,
		MaxProcessingTime:    time.Minute,
		OffsetOldest:         true,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

func (c *ConsumerConfig) SaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientID
	cfg.Version = sarama.V2_8_0_0

	cfg.Consumer.Group.Session.Timeout = c.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = c.Heartbeat
	cfg.Consumer.MaxProcessingTime = c.MaxProcessingTime
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.AutoCommit.Enable = true
	cfg.Consumer.Offsets.AutoCommit.Interval = time.Second
	if c.OffsetOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return cfg
}

// Consumer runs a consumer group until its context is cancelled
type Consumer struct {
	group   sarama.ConsumerGroup
	config  *ConsumerConfig
	handler Handler
	log     *logger.Logger
}

func NewConsumer(config *ConsumerConfig, handler Handler) (*Consumer, error) {
	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return &Consumer{
		group:   group,
		config:  config,
		handler: handler,
		log:     logger.GetDefault().WithComponent("kafka-consumer").WithFields(map[string]interface{}{"group": config.GroupID}),
	}, nil
}

// Run blocks until ctx is done
func (c *Consumer) Run(ctx context.Context) {
	go c.handleErrors()

	c.log.Info("consumer started", slog.Any("topics", c.config.Topics))
	h := &groupHandler{consumer: c}
	for {
		if err := c.group.Consume(ctx, c.config.Topics, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.log.Error("error consuming messages", slog.Any("error", err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			c.log.Info("consumer shutting down")
			return
		}
	}
}

func (c *Consumer) handleErrors() {
	for err := range c.group.Errors() {
		c.log.Error("consumer group error", slog.Any("error", err))
	}
}

func (c *Consumer) Close() error {
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			h.process(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// process retries the handler, then gives up and lets the offset advance
func (h *groupHandler) process(ctx context.Context, message *sarama.ConsumerMessage) {
	c := h.consumer
	err := Retry(ctx, c.config.MaxRetries, c.config.RetryBackoffDuration, func() error {
		return c.handler(ctx, message)
	})
	metrics.KafkaConsumed(message.Topic, err)
	if err != nil {
		c.log.Error("dropping message after retries",
			slog.String("topic", message.Topic),
			slog.Int("partition", int(message.Partition)),
			slog.Int64("offset", message.Offset),
			slog.Any("error", err),
		)
	}
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marks an error that retrying cannot fix
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Retry runs fn up to maxRetries+1 times with exponential backoff
func Retry(ctx context.Context, maxRetries int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		var perm permanentError
		if errors.As(err, &perm) || attempt == maxRetries {
			return err
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
