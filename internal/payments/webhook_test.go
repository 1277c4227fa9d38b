package payments

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	body := []byte(`{"event_id":"evt_1","reference":"YP-1","status":"paid"}`)
	sig := Sign("s3cret", body)

	assert.True(t, VerifySignature("s3cret", body, sig))
	assert.False(t, VerifySignature("other", body, sig))
	assert.False(t, VerifySignature("s3cret", append(body, ' '), sig))
	assert.False(t, VerifySignature("s3cret", body, ""))
}

func TestBroadcaster_DeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster(watermill.NopLogger{})
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := b.Subscribe(ctx, "pay-1")
	require.NoError(t, err)

	require.NoError(t, b.Publish(Update{Type: UpdateStatus, Session: SessionResponse{ID: "pay-2", Status: StatusFailed}}))
	require.NoError(t, b.Publish(Update{Type: UpdateStatus, Session: SessionResponse{ID: "pay-1", Status: StatusSuccess}}))

	select {
	case u := <-updates:
		assert.Equal(t, "pay-1", u.Session.ID)
		assert.Equal(t, StatusSuccess, u.Session.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}
}
