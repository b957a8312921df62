package booking

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	bookings BookingRepository
	fields   FieldDirectory
	teams    TeamDirectory
	notifs   NotificationSender
	now      func() time.Time
}

func NewService(bookings BookingRepository, fields FieldDirectory, teams TeamDirectory, notifs NotificationSender) *Service {
	return &Service{
		bookings: bookings,
		fields:   fields,
		teams:    teams,
		notifs:   notifs,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrValidation
	}
	if req.StartTime.Before(s.now()) {
		return nil, ErrValidation
	}

	field, err := s.fields.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.TeamID != nil {
		ok, err := s.teams.Exists(ctx, *req.TeamID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotFound
		}
	}

	durationHours := req.EndTime.Sub(req.StartTime).Hours()
	total := durationHours * field.RatePerHour
	total = math.Round(total*100) / 100

	b := &domain.Booking{
		FieldID:       req.FieldID,
		RequestedBy:   req.RequestedBy,
		TeamID:        req.TeamID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TotalPrice:    total,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
	}

	if err := s.bookings.CreateIfAvailable(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingCreated(ctx, field.OwnerID, b.ID, b.FieldID, b.StartTime); err != nil {
			log.Printf("level=warn msg=booking created notification failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return b, nil
}

// ChangeStatus moves a booking along the status state machine on behalf of
// the actor. The write is a conditional update guarded on the status the
// actor saw, so a transition raced by another writer fails instead of
// silently overwriting.
func (s *Service) ChangeStatus(ctx context.Context, bookingID int64, actor domain.Actor, targetStatus string) (*domain.Booking, error) {
	target := domain.BookingStatus(targetStatus)

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	field, err := s.fields.GetByID(ctx, b.FieldID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(actor, b, field.OwnerID, target); err != nil {
		return nil, err
	}

	ok, err := s.bookings.UpdateStatusFrom(ctx, b.ID, b.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race: the booking left the status the actor decided on.
		return nil, ErrInvalidTransition
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyBookingStatusChanged(ctx, b.RequestedBy, b.ID, target); err != nil {
			log.Printf("level=warn msg=status change notification failed booking_id=%d err=%v", b.ID, err)
		}
	}

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.GetByRequester(ctx, userID, limit, offset)
}

// GetFieldBookings lists a field's bookings for its owner (or an admin).
func (s *Service) GetFieldBookings(ctx context.Context, fieldID int64, actor domain.Actor) ([]domain.Booking, error) {
	field, err := s.fields.GetByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != field.OwnerID {
		return nil, ErrForbidden
	}
	return s.bookings.GetByFieldID(ctx, fieldID)
}

// GetBusySlots lists occupied intervals on a field so clients can pick a
// free slot before creating a booking.
func (s *Service) GetBusySlots(ctx context.Context, fieldID int64, from, to time.Time) ([]repository.BusySlot, error) {
	if !to.After(from) {
		return nil, ErrValidation
	}
	if _, err := s.fields.GetByID(ctx, fieldID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.bookings.GetBusySlotsForField(ctx, fieldID, from, to)
}
