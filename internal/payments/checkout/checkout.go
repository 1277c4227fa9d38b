// Package checkout encodes and parses the query string that carries a
// purchase summary into the payment screen.
package checkout

import (
	"errors"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("checkout amount is missing or invalid")
	ErrInvalidType   = errors.New("checkout type must be event or transport")
)

type Type string

const (
	TypeEvent     Type = "event"
	TypeTransport Type = "transport"
)

const (
	ParamAmount  = "amount"
	ParamType    = "type"
	ParamSeats   = "seats"
	ParamTitle   = "title"
	ParamEventID = "event_id"
	ParamDate    = "date"
	ParamVenue   = "venue"
)

type Params struct {
	Amount  decimal.Decimal `json:"amount"`
	Type    Type            `json:"type"`
	Seats   []string        `json:"seats"`
	Title   string          `json:"title"`
	EventID string          `json:"event_id,omitempty"`
	Date    string          `json:"date,omitempty"`
	Venue   string          `json:"venue,omitempty"`
}

// Encode returns the query string without a leading "?"
func Encode(p Params) string {
	v := url.Values{}
	v.Set(ParamAmount, p.Amount.StringFixed(2))
	v.Set(ParamType, string(p.Type))
	if len(p.Seats) > 0 {
		v.Set(ParamSeats, strings.Join(p.Seats, ","))
	}
	setIf(v, ParamTitle, p.Title)
	setIf(v, ParamEventID, p.EventID)
	setIf(v, ParamDate, p.Date)
	setIf(v, ParamVenue, p.Venue)
	return v.Encode()
}

// Parse accepts a raw query string, with or without a leading "?"
func Parse(raw string) (Params, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Params{}, err
	}
	return FromValues(v)
}

func FromValues(v url.Values) (Params, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(v.Get(ParamAmount)))
	if err != nil || !amount.IsPositive() {
		return Params{}, ErrInvalidAmount
	}

	t := Type(v.Get(ParamType))
	if t != TypeEvent && t != TypeTransport {
		return Params{}, ErrInvalidType
	}

	p := Params{
		Amount:  amount,
		Type:    t,
		Seats:   []string{},
		Title:   v.Get(ParamTitle),
		EventID: v.Get(ParamEventID),
		Date:    v.Get(ParamDate),
		Venue:   v.Get(ParamVenue),
	}
	for _, s := range strings.Split(v.Get(ParamSeats), ",") {
		if s = strings.TrimSpace(s); s != "" {
			p.Seats = append(p.Seats, s)
		}
	}
	return p, nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
