package notifications

import (
	"context"
	"time"

	"ticketera/pkg/kafka"

	"github.com/google/uuid"
)

// Dispatcher queues a notification for delivery
type Dispatcher interface {
	Dispatch(ctx context.Context, id uuid.UUID) error
}

type kafkaDispatcher struct {
	producer kafka.Producer
	topic    string
}

func NewKafkaDispatcher(producer kafka.Producer, topic string) Dispatcher {
	return &kafkaDispatcher{producer: producer, topic: topic}
}

func (d *kafkaDispatcher) Dispatch(ctx context.Context, id uuid.UUID) error {
	msg := DispatchMessage{NotificationID: id, RequestedAt: time.Now()}
	return d.producer.Publish(ctx, d.topic, id.String(), msg, map[string]string{"notification_id": id.String()})
}

// DirectDispatcher delivers in-process when Kafka is disabled
type DirectDispatcher struct {
	Deliverer interface {
		Deliver(ctx context.Context, id uuid.UUID) error
	}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, id uuid.UUID) error {
	return d.Deliverer.Deliver(ctx, id)
}
