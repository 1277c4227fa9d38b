package seats

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Selection is one user's working seat selection for one event.
// It never mutates the seats it was built from.
type Selection struct {
	seats    []EventSeat
	index    map[uuid.UUID]int
	selected []uuid.UUID
}

func NewSelection(seats []EventSeat) *Selection {
	index := make(map[uuid.UUID]int, len(seats))
	for i, s := range seats {
		index[s.ID] = i
	}
	return &Selection{seats: seats, index: index}
}

// SelectSeat adds an available seat. Selecting an already selected seat is a no-op.
func (s *Selection) SelectSeat(id uuid.UUID) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSeatNotFound, id)
	}
	if s.IsSelected(id) {
		return nil
	}
	if !s.seats[i].IsAvailable() {
		return fmt.Errorf("%w: %s is %s", ErrSeatNotAvailable, s.seats[i].Label(), s.seats[i].Status)
	}
	s.selected = append(s.selected, id)
	return nil
}

// DeselectSeat removes a seat from the selection. Unselected seats are ignored.
func (s *Selection) DeselectSeat(id uuid.UUID) error {
	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSeatNotFound, id)
	}
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Selection) IsSelected(id uuid.UUID) bool {
	for _, sel := range s.selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *Selection) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, id := range s.selected {
		total = total.Add(s.seats[s.index[id]].Price)
	}
	return total
}

// Selected returns the selected seats in selection order
func (s *Selection) Selected() []EventSeat {
	out := make([]EventSeat, 0, len(s.selected))
	for _, id := range s.selected {
		out = append(out, s.seats[s.index[id]])
	}
	return out
}

// Restore re-applies a previously persisted selection, skipping seats that
// are gone or no longer available.
func (s *Selection) Restore(ids []uuid.UUID) {
	for _, id := range ids {
		_ = s.SelectSeat(id)
	}
}

// Views returns every seat, marking selected ones
func (s *Selection) Views() []SeatView {
	out := make([]SeatView, 0, len(s.seats))
	for _, seat := range s.seats {
		v := seat.ToView()
		if s.IsSelected(seat.ID) {
			v.Status = StatusSelected
		}
		out = append(out, v)
	}
	return out
}

func (s *Selection) Response(eventID uuid.UUID) SelectionResponse {
	selected := s.Selected()
	resp := SelectionResponse{
		EventID: eventID.String(),
		Seats:   make([]SeatView, 0, len(selected)),
		Labels:  make([]string, 0, len(selected)),
		Count:   len(selected),
		Total:   s.TotalPrice(),
	}
	for _, seat := range selected {
		v := seat.ToView()
		v.Status = StatusSelected
		resp.Seats = append(resp.Seats, v)
		resp.Labels = append(resp.Labels, seat.Label())
	}
	return resp
}
