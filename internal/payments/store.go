package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ticketera/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps payment sessions in Redis as JSON
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	BindReference(ctx context.Context, reference string, id uuid.UUID) error
	ResolveReference(ctx context.Context, reference string) (uuid.UUID, error)
	UnbindReference(ctx context.Context, reference string) error
	// MarkWebhook returns false when the provider event id was already seen
	MarkWebhook(ctx context.Context, eventID string) (bool, error)
	ForgetWebhook(ctx context.Context, eventID string) error
}

type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSessionStore(client redis.UniversalClient, ttl time.Duration) SessionStore {
	return &redisStore{client: client, ttl: ttl}
}

func (r *redisStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal payment session: %w", err)
	}
	key := constants.BuildPaymentSessionKey(session.ID.String())
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save payment session: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := r.client.Get(ctx, constants.BuildPaymentSessionKey(id.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load payment session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode payment session: %w", err)
	}
	return &session, nil
}

func (r *redisStore) BindReference(ctx context.Context, reference string, id uuid.UUID) error {
	key := constants.BuildPaymentReferenceKey(reference)
	return r.client.Set(ctx, key, id.String(), r.ttl).Err()
}

func (r *redisStore) ResolveReference(ctx context.Context, reference string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, constants.BuildPaymentReferenceKey(reference)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrUnknownReference
		}
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (r *redisStore) UnbindReference(ctx context.Context, reference string) error {
	return r.client.Del(ctx, constants.BuildPaymentReferenceKey(reference)).Err()
}

func (r *redisStore) MarkWebhook(ctx context.Context, eventID string) (bool, error) {
	return r.client.SetNX(ctx, constants.BuildWebhookDedupeKey(eventID), "1", constants.TTL_WEBHOOK_DEDUPE).Result()
}

func (r *redisStore) ForgetWebhook(ctx context.Context, eventID string) error {
	return r.client.Del(ctx, constants.BuildWebhookDedupeKey(eventID)).Err()
}
