package payments

import (
	"context"

	"ticketera/pkg/kafka"
)

// Publisher hands a confirmation to whatever processes it
type Publisher interface {
	PublishConfirmation(ctx context.Context, c Confirmation) error
}

type kafkaPublisher struct {
	producer kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer kafka.Producer, topic string) Publisher {
	return &kafkaPublisher{producer: producer, topic: topic}
}

func (p *kafkaPublisher) PublishConfirmation(ctx context.Context, c Confirmation) error {
	headers := map[string]string{
		"payment_id": c.PaymentID.String(),
		"outcome":    string(c.Outcome),
	}
	return p.producer.Publish(ctx, p.topic, c.PaymentID.String(), c, headers)
}

// DirectPublisher processes confirmations in-process when Kafka is disabled
type DirectPublisher struct {
	Processor interface {
		ProcessConfirmation(ctx context.Context, c Confirmation) error
	}
}

func (d *DirectPublisher) PublishConfirmation(ctx context.Context, c Confirmation) error {
	return d.Processor.ProcessConfirmation(ctx, c)
}
