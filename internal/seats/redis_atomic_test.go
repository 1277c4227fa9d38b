package seats

import (
	"context"
	"testing"
	"time"

	"ticketera/internal/shared/constants"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldStore_HoldConflict(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewHoldStore(db)
	eventID, userID, seatID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectEvalSha(holdScript.Hash(),
		[]string{
			constants.BuildSeatSelectionKey(eventID.String(), userID.String()),
			constants.BuildSeatHoldKey(eventID.String(), seatID.String()),
		},
		userID.String(), "900", seatID.String(),
	).SetVal(int64(1))

	err := store.Hold(context.Background(), eventID, userID, []uuid.UUID{seatID}, 15*time.Minute)

	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldStore_HoldSuccess(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewHoldStore(db)
	eventID, userID, seatID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectEvalSha(holdScript.Hash(),
		[]string{
			constants.BuildSeatSelectionKey(eventID.String(), userID.String()),
			constants.BuildSeatHoldKey(eventID.String(), seatID.String()),
		},
		userID.String(), "60", seatID.String(),
	).SetVal(int64(0))

	require.NoError(t, store.Hold(context.Background(), eventID, userID, []uuid.UUID{seatID}, time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldStore_Holders(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewHoldStore(db)
	eventID := uuid.New()
	held, free := uuid.New(), uuid.New()

	mock.ExpectMGet(
		constants.BuildSeatHoldKey(eventID.String(), held.String()),
		constants.BuildSeatHoldKey(eventID.String(), free.String()),
	).SetVal([]interface{}{"user-1", nil})

	holders, err := store.Holders(context.Background(), eventID, []uuid.UUID{held, free})

	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{held: "user-1"}, holders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHoldStore_SelectedSeatIDsSkipsGarbage(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewHoldStore(db)
	eventID, userID, seatID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectSMembers(constants.BuildSeatSelectionKey(eventID.String(), userID.String())).
		SetVal([]string{seatID.String(), "not-a-uuid"})

	ids, err := store.SelectedSeatIDs(context.Background(), eventID, userID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{seatID}, ids)
}

func TestHoldStore_EmptyInputSkipsRedis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewHoldStore(db)

	require.NoError(t, store.Hold(context.Background(), uuid.New(), uuid.New(), nil, time.Minute))
	n, err := store.Release(context.Background(), uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
