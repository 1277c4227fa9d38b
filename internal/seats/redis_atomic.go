package seats

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ticketera/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HoldStore keeps short-lived seat reservations in Redis so that two users
// cannot select the same seat at once.
type HoldStore interface {
	Hold(ctx context.Context, eventID, userID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) error
	Release(ctx context.Context, eventID, userID uuid.UUID, seatIDs []uuid.UUID) (int, error)
	Holders(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]string, error)
	SelectedSeatIDs(ctx context.Context, eventID, userID uuid.UUID) ([]uuid.UUID, error)
	PreloadScripts(ctx context.Context) error
}

// KEYS[1]    = selection set for (event, user)
// KEYS[2..N] = hold key per seat
// ARGV[1]    = user id
// ARGV[2]    = ttl seconds
// ARGV[3..N] = seat ids, aligned with KEYS[2..N]
// Returns 0 on success, or the 1-based position of the first seat held by someone else.
var holdScript = redis.NewScript(`
local user_id = ARGV[1]
local ttl = tonumber(ARGV[2])

for i = 2, #KEYS do
    local holder = redis.call("GET", KEYS[i])
    if holder and holder ~= user_id then
        return i - 1
    end
end

for i = 2, #KEYS do
    redis.call("SET", KEYS[i], user_id, "EX", ttl)
    redis.call("SADD", KEYS[1], ARGV[i + 1])
end
redis.call("EXPIRE", KEYS[1], ttl)

return 0
`)

// Same KEYS/ARGV layout as holdScript without the ttl. Only holds owned by
// ARGV[1] are deleted. Returns the number of holds released.
var releaseScript = redis.NewScript(`
local user_id = ARGV[1]
local released = 0

for i = 2, #KEYS do
    if redis.call("GET", KEYS[i]) == user_id then
        redis.call("DEL", KEYS[i])
        released = released + 1
    end
    redis.call("SREM", KEYS[1], ARGV[i])
end

return released
`)

type redisHoldStore struct {
	redis redis.UniversalClient
}

func NewHoldStore(client redis.UniversalClient) HoldStore {
	return &redisHoldStore{redis: client}
}

func scriptKeys(eventID, userID uuid.UUID, seatIDs []uuid.UUID) []string {
	keys := make([]string, 0, len(seatIDs)+1)
	keys = append(keys, constants.BuildSeatSelectionKey(eventID.String(), userID.String()))
	for _, id := range seatIDs {
		keys = append(keys, constants.BuildSeatHoldKey(eventID.String(), id.String()))
	}
	return keys
}

func (r *redisHoldStore) Hold(ctx context.Context, eventID, userID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) error {
	if len(seatIDs) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, userID.String(), strconv.Itoa(int(ttl.Seconds())))
	for _, id := range seatIDs {
		args = append(args, id.String())
	}

	conflict, err := holdScript.Run(ctx, r.redis, scriptKeys(eventID, userID, seatIDs), args...).Int()
	if err != nil {
		return fmt.Errorf("failed to execute atomic seat hold: %w", err)
	}
	if conflict > 0 && conflict <= len(seatIDs) {
		return fmt.Errorf("%w: %s is held by another user", ErrSeatNotAvailable, seatIDs[conflict-1])
	}
	return nil
}

func (r *redisHoldStore) Release(ctx context.Context, eventID, userID uuid.UUID, seatIDs []uuid.UUID) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}

	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, userID.String())
	for _, id := range seatIDs {
		args = append(args, id.String())
	}

	released, err := releaseScript.Run(ctx, r.redis, scriptKeys(eventID, userID, seatIDs), args...).Int()
	if err != nil {
		return 0, fmt.Errorf("failed to execute atomic seat release: %w", err)
	}
	return released, nil
}

// Holders maps each held seat to the id of the user holding it
func (r *redisHoldStore) Holders(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	holders := make(map[uuid.UUID]string)
	if len(seatIDs) == 0 {
		return holders, nil
	}

	keys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		keys[i] = constants.BuildSeatHoldKey(eventID.String(), id.String())
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat holds: %w", err)
	}
	for i, v := range values {
		if s, ok := v.(string); ok && s != "" {
			holders[seatIDs[i]] = s
		}
	}
	return holders, nil
}

func (r *redisHoldStore) SelectedSeatIDs(ctx context.Context, eventID, userID uuid.UUID) ([]uuid.UUID, error) {
	members, err := r.redis.SMembers(ctx, constants.BuildSeatSelectionKey(eventID.String(), userID.String())).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		if id, err := uuid.Parse(m); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// PreloadScripts loads the Lua scripts so the first selection skips the EVAL fallback
func (r *redisHoldStore) PreloadScripts(ctx context.Context) error {
	if err := holdScript.Load(ctx, r.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if err := releaseScript.Load(ctx, r.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}
	return nil
}
