package seats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketera/internal/events"
	"ticketera/internal/venues"
	"ticketera/pkg/logger"
	"ticketera/pkg/metrics"

	"github.com/google/uuid"
)

type Service interface {
	GenerateSeats(ctx context.Context, eventID uuid.UUID) (*GenerateResponse, error)
	GetSeatMap(ctx context.Context, eventID uuid.UUID, viewer *uuid.UUID) ([]SeatView, error)
	GetSelection(ctx context.Context, eventID, userID uuid.UUID) (*SelectionResponse, error)
	SelectSeat(ctx context.Context, eventID, userID, seatID uuid.UUID) (*SelectionResponse, error)
	DeselectSeat(ctx context.Context, eventID, userID, seatID uuid.UUID) (*SelectionResponse, error)
	ClearSelection(ctx context.Context, eventID, userID uuid.UUID) error
	OccupySeats(ctx context.Context, eventID, userID, bookingID uuid.UUID, seatIDs []uuid.UUID) error
	SetSeatStatus(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, status Status) error
}

// EventLookup is the part of the event service seats depend on
type EventLookup interface {
	GetEvent(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, status events.Status) error
}

type VenueLookup interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

type service struct {
	repo    Repository
	holds   HoldStore
	events  EventLookup
	venues  VenueLookup
	holdTTL time.Duration
	log     *logger.Logger
}

func NewService(repo Repository, holds HoldStore, eventLookup EventLookup, venueLookup VenueLookup, holdTTL time.Duration) Service {
	return &service{
		repo:    repo,
		holds:   holds,
		events:  eventLookup,
		venues:  venueLookup,
		holdTTL: holdTTL,
		log:     logger.GetDefault().WithComponent("seats"),
	}
}

// GenerateSeats lays out the event's seats from its venue seating map.
// Rows are lettered from A, seats numbered from 1.
func (s *service) GenerateSeats(ctx context.Context, eventID uuid.UUID) (*GenerateResponse, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	venueID, err := uuid.Parse(event.VenueID)
	if err != nil {
		return nil, fmt.Errorf("invalid venue id on event: %w", err)
	}
	venue, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count seats: %w", err)
	}
	if existing > 0 {
		return nil, ErrSeatsAlreadyGenerated
	}

	if err := venue.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}

	seats := BuildSeats(eventID, venue.SeatingMap)
	if err := s.repo.CreateSeats(ctx, seats); err != nil {
		return nil, fmt.Errorf("failed to create seats: %w", err)
	}

	s.log.Info("seats generated", slog.String("event_id", eventID.String()), slog.Int("count", len(seats)))
	return &GenerateResponse{EventID: eventID.String(), Created: len(seats)}, nil
}

func BuildSeats(eventID uuid.UUID, m venues.SeatingMap) []EventSeat {
	seats := make([]EventSeat, 0, max(m.TotalSeats(), 0))
	for _, section := range m.Sections {
		for r := 0; r < section.Rows; r++ {
			row := rowLabel(r)
			for n := 1; n <= section.SeatsPerRow; n++ {
				seats = append(seats, EventSeat{
					ID:       uuid.New(),
					EventID:  eventID,
					Section:  section.Name,
					Row:      row,
					Number:   n,
					Price:    section.Price,
					Category: section.Category,
					Status:   StatusAvailable,
				})
			}
		}
	}
	return seats
}

// rowLabel maps 0 -> A, 25 -> Z, 26 -> AA
func rowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

// loadSeats returns the event's seats with live holds from other users
// reported as reserved.
func (s *service) loadSeats(ctx context.Context, eventID uuid.UUID, viewer *uuid.UUID) ([]EventSeat, error) {
	seats, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(seats))
	for _, seat := range seats {
		if seat.IsAvailable() {
			ids = append(ids, seat.ID)
		}
	}
	holders, err := s.holds.Holders(ctx, eventID, ids)
	if err != nil {
		return nil, err
	}

	for i := range seats {
		holder, held := holders[seats[i].ID]
		if !held {
			continue
		}
		if viewer == nil || holder != viewer.String() {
			seats[i].Status = StatusReserved
		}
	}
	return seats, nil
}

func (s *service) loadSelection(ctx context.Context, eventID, userID uuid.UUID) (*Selection, error) {
	seats, err := s.loadSeats(ctx, eventID, &userID)
	if err != nil {
		return nil, err
	}
	selected, err := s.holds.SelectedSeatIDs(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	sel := NewSelection(seats)
	sel.Restore(selected)
	return sel, nil
}

func (s *service) GetSeatMap(ctx context.Context, eventID uuid.UUID, viewer *uuid.UUID) ([]SeatView, error) {
	if viewer != nil {
		sel, err := s.loadSelection(ctx, eventID, *viewer)
		if err != nil {
			return nil, err
		}
		return sel.Views(), nil
	}

	seats, err := s.loadSeats(ctx, eventID, nil)
	if err != nil {
		return nil, err
	}
	return NewSelection(seats).Views(), nil
}

func (s *service) GetSelection(ctx context.Context, eventID, userID uuid.UUID) (*SelectionResponse, error) {
	sel, err := s.loadSelection(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	resp := sel.Response(eventID)
	return &resp, nil
}

func (s *service) SelectSeat(ctx context.Context, eventID, userID, seatID uuid.UUID) (resp *SelectionResponse, err error) {
	defer func() { metrics.SeatOperation("select", err) }()

	sel, err := s.loadSelection(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := sel.SelectSeat(seatID); err != nil {
		return nil, err
	}
	if err := s.holds.Hold(ctx, eventID, userID, []uuid.UUID{seatID}, s.holdTTL); err != nil {
		return nil, err
	}

	s.log.LogSeatSelected(ctx, eventID.String(), seatID.String(), userID.String())
	out := sel.Response(eventID)
	return &out, nil
}

func (s *service) DeselectSeat(ctx context.Context, eventID, userID, seatID uuid.UUID) (resp *SelectionResponse, err error) {
	defer func() { metrics.SeatOperation("deselect", err) }()

	sel, err := s.loadSelection(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if err := sel.DeselectSeat(seatID); err != nil {
		return nil, err
	}
	if _, err := s.holds.Release(ctx, eventID, userID, []uuid.UUID{seatID}); err != nil {
		return nil, err
	}

	out := sel.Response(eventID)
	return &out, nil
}

func (s *service) ClearSelection(ctx context.Context, eventID, userID uuid.UUID) error {
	selected, err := s.holds.SelectedSeatIDs(ctx, eventID, userID)
	if err != nil {
		return err
	}
	_, err = s.holds.Release(ctx, eventID, userID, selected)
	return err
}

// OccupySeats finalizes a paid selection. The event is flagged sold out
// once no seat is left available.
func (s *service) OccupySeats(ctx context.Context, eventID, userID, bookingID uuid.UUID, seatIDs []uuid.UUID) (err error) {
	defer func() { metrics.SeatOperation("occupy", err) }()

	remaining, err := s.repo.OccupySeats(ctx, eventID, bookingID, seatIDs)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to occupy seats", err, map[string]interface{}{
			"event_id":   eventID.String(),
			"user_id":    userID.String(),
			"booking_id": bookingID.String(),
			"count":      len(seatIDs),
		})
		return err
	}

	if _, err := s.holds.Release(ctx, eventID, userID, seatIDs); err != nil {
		s.log.Warn("failed to release holds after occupy", slog.String("event_id", eventID.String()), slog.Any("error", err))
	}

	if remaining == 0 {
		if err := s.events.SetStatus(ctx, eventID, events.StatusSoldOut); err != nil {
			s.log.Warn("failed to mark event sold out", slog.String("event_id", eventID.String()), slog.Any("error", err))
		}
	}
	return nil
}

func (s *service) SetSeatStatus(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, status Status) error {
	if err := s.repo.SetStatus(ctx, eventID, seatIDs, status); err != nil {
		return fmt.Errorf("failed to update seats: %w", err)
	}
	return nil
}
