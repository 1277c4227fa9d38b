package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ticketera/pkg/kafka"

	"github.com/IBM/sarama"
)

// ConfirmationHandler decodes payment-confirmations messages for the consumer group
func ConfirmationHandler(svc Service) kafka.Handler {
	return func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		var c Confirmation
		if err := json.Unmarshal(msg.Value, &c); err != nil {
			return kafka.Permanent(fmt.Errorf("failed to decode confirmation: %w", err))
		}
		err := svc.ProcessConfirmation(ctx, c)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrSessionExpired),
			errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrInvalidTransition),
			errors.Is(err, ErrStaleReference):
			return kafka.Permanent(err)
		}
		return err
	}
}
