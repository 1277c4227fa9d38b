package payments

import (
	"testing"
	"time"

	"ticketera/internal/payments/checkout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newYapeSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(uuid.New(), uuid.New(), checkout.Params{Amount: decimal.NewFromInt(250), Type: checkout.TypeEvent}, 15*time.Minute, start)
	require.NoError(t, s.SelectMethod(MethodYape, start))
	return s
}

func TestParseMethod(t *testing.T) {
	for _, m := range []string{"yape", "mercado_pago", "paypal", "card"} {
		got, err := ParseMethod(m)
		require.NoError(t, err)
		assert.Equal(t, Method(m), got)
	}
	_, err := ParseMethod("bitcoin")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestSelectYape_StartsCountdown(t *testing.T) {
	s := newYapeSession(t)

	assert.Equal(t, StepMethodDetails, s.Step)
	assert.Equal(t, StatusPending, s.Status)
	assert.Equal(t, 900, s.Remaining)
	assert.NotEmpty(t, s.Reference)
	require.NotNil(t, s.ExpiresAt)
	assert.Equal(t, start.Add(15*time.Minute), *s.ExpiresAt)
}

func TestTick_ExpiresAtZeroAndNeverGoesNegative(t *testing.T) {
	s := newYapeSession(t)

	for i := 0; i < 899; i++ {
		s.Tick()
	}
	assert.Equal(t, 1, s.Remaining)
	assert.Equal(t, StatusPending, s.Status)

	s.Tick()
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, StatusExpired, s.Status)

	for i := 0; i < 10; i++ {
		s.Tick()
	}
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, StatusExpired, s.Status)
}

func TestRegenerate_AfterExpiry(t *testing.T) {
	s := newYapeSession(t)
	first := s.Reference
	for i := 0; i < 900; i++ {
		s.Tick()
	}
	require.Equal(t, StatusExpired, s.Status)

	later := start.Add(20 * time.Minute)
	require.NoError(t, s.Regenerate(later))

	assert.Equal(t, 900, s.Remaining)
	assert.Equal(t, StatusPending, s.Status)
	assert.NotEqual(t, first, s.Reference)
	assert.Equal(t, later.Add(15*time.Minute), *s.ExpiresAt)
}

func TestSync_FollowsWallClock(t *testing.T) {
	s := newYapeSession(t)

	s.Sync(start.Add(100 * time.Second))
	assert.Equal(t, 800, s.Remaining)

	s.Sync(start.Add(time.Hour))
	assert.Equal(t, 0, s.Remaining)
	assert.Equal(t, StatusExpired, s.Status)
}

func TestBack_DiscardsCode(t *testing.T) {
	s := newYapeSession(t)
	require.NoError(t, s.Back(start))

	assert.Equal(t, StepMethodSelection, s.Step)
	assert.Empty(t, s.Reference)
	assert.Nil(t, s.ExpiresAt)
	assert.Equal(t, 0, s.Remaining)

	// a tick after going back does nothing
	s.Tick()
	assert.Equal(t, StatusPending, s.Status)

	assert.ErrorIs(t, s.Back(start), ErrInvalidTransition)
}

func TestSubmit_NonQR(t *testing.T) {
	s := NewSession(uuid.New(), uuid.New(), checkout.Params{}, 15*time.Minute, start)
	require.NoError(t, s.SelectMethod(MethodCard, start))
	assert.Empty(t, s.Reference)

	require.NoError(t, s.Submit(3*time.Second, start))
	assert.Equal(t, StepProcessing, s.Step)
	assert.Equal(t, start.Add(3*time.Second), *s.ProcessingUntil)

	require.NoError(t, s.Confirm(start.Add(3*time.Second)))
	assert.Equal(t, StepSuccess, s.Step)
	assert.Equal(t, StatusSuccess, s.Status)
	assert.ErrorIs(t, s.Confirm(start), ErrSessionClosed)
}

func TestSubmit_RejectsQR(t *testing.T) {
	s := newYapeSession(t)
	assert.ErrorIs(t, s.Submit(time.Second, start), ErrInvalidTransition)
}

func TestConfirm_ExpiredQR(t *testing.T) {
	s := newYapeSession(t)
	err := s.Confirm(start.Add(16 * time.Minute))
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, StepMethodDetails, s.Step)
}

func TestFail_KeepsStep(t *testing.T) {
	s := newYapeSession(t)
	require.NoError(t, s.Fail("insufficient funds", start))
	assert.Equal(t, StatusFailed, s.Status)
	assert.Equal(t, StepMethodDetails, s.Step)
	assert.True(t, s.IsTerminal())
	assert.ErrorIs(t, s.Regenerate(start), ErrInvalidTransition)
}
