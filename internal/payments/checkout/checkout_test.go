package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParse(t *testing.T) {
	in := Params{
		Amount:  decimal.RequireFromString("250.00"),
		Type:    TypeEvent,
		Seats:   []string{"A1", "A2"},
		Title:   "Concierto de Rock & Pop",
		EventID: "2b1f3c2e-8a57-4a8c-9a3e-3d2f7c1d9e10",
		Date:    "2026-12-05",
		Venue:   "Estadio Nacional",
	}

	raw := Encode(in)
	assert.Contains(t, raw, "seats=A1%2CA2")

	out, err := Parse("?" + raw)
	require.NoError(t, err)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.Seats, out.Seats)
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.EventID, out.EventID)
	assert.Equal(t, in.Date, out.Date)
	assert.Equal(t, in.Venue, out.Venue)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"missing amount", "type=event", ErrInvalidAmount},
		{"non numeric amount", "amount=abc&type=event", ErrInvalidAmount},
		{"zero amount", "amount=0&type=event", ErrInvalidAmount},
		{"missing type", "amount=10", ErrInvalidType},
		{"unknown type", "amount=10&type=hotel", ErrInvalidType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_TransportWithoutSeats(t *testing.T) {
	p, err := Parse("amount=90&type=transport&title=Lima+-+Cusco")
	require.NoError(t, err)
	assert.Empty(t, p.Seats)
	assert.Equal(t, "Lima - Cusco", p.Title)
}
