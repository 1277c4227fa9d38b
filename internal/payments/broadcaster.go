package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Broadcaster fans session updates out to in-process stream subscribers
type Broadcaster struct {
	pubsub *gochannel.GoChannel
}

func NewBroadcaster(logger watermill.LoggerAdapter) *Broadcaster {
	return &Broadcaster{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, logger),
	}
}

func topicFor(paymentID string) string {
	return "payments." + paymentID
}

func (b *Broadcaster) Publish(update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal payment update: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubsub.Publish(topicFor(update.Session.ID), msg)
}

// Subscribe delivers updates for one session until ctx is done
func (b *Broadcaster) Subscribe(ctx context.Context, paymentID string) (<-chan Update, error) {
	messages, err := b.pubsub.Subscribe(ctx, topicFor(paymentID))
	if err != nil {
		return nil, err
	}

	out := make(chan Update, 1)
	go func() {
		defer close(out)
		for msg := range messages {
			var update Update
			err := json.Unmarshal(msg.Payload, &update)
			msg.Ack()
			if err != nil {
				continue
			}
			select {
			case out <- update:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Broadcaster) Close() error {
	return b.pubsub.Close()
}
