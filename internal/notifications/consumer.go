package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ticketera/pkg/kafka"

	"github.com/IBM/sarama"
)

// DispatchHandler decodes notification-dispatch messages for the consumer group
func DispatchHandler(svc Service) kafka.Handler {
	return func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		var m DispatchMessage
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			return kafka.Permanent(fmt.Errorf("failed to decode dispatch message: %w", err))
		}
		err := svc.Deliver(ctx, m.NotificationID)
		if errors.Is(err, ErrNotificationNotFound) {
			return kafka.Permanent(err)
		}
		return err
	}
}
