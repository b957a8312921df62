package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fieldbook/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	bookings BookingStore
	now      func() time.Time
	newTxnID func(bookingID int64) string
}

func NewService(bookings BookingStore) *Service {
	return &Service{
		bookings: bookings,
		now:      time.Now,
		newTxnID: defaultTxnID,
	}
}

// defaultTxnID combines the booking id with a random uuid, so concurrent
// payments for different bookings can never collide.
func defaultTxnID(bookingID int64) string {
	return fmt.Sprintf("txn-%d-%s", bookingID, uuid.NewString())
}

// WithClock replaces the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithTxnIDGenerator replaces transaction id generation. Tests only.
func (s *Service) WithTxnIDGenerator(gen func(bookingID int64) string) *Service {
	s.newTxnID = gen
	return s
}

// RecordPayment applies the unpaid -> paid transition. Only the requester
// or an admin may pay; the field owner confirms bookings but never
// initiates payment. Guards run in order: cancelled wins over already-paid,
// and both are re-derived from a fresh read if the conditional update finds
// the row already moved underneath us.
func (s *Service) RecordPayment(ctx context.Context, bookingID int64, actor domain.Actor, method string) (*domain.Booking, error) {
	m := domain.PaymentMethod(method)
	if !m.IsValid() {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if actor.ID != b.RequestedBy && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if b.Status == domain.BookingCancelled {
		return nil, ErrBookingCancelled
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	ok, err := s.bookings.MarkPaid(ctx, bookingID, m, s.newTxnID(bookingID), s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		// The row changed between our read and the update. Re-read to
		// report which guard the booking tripped.
		fresh, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == domain.BookingCancelled {
			return nil, ErrBookingCancelled
		}
		return nil, ErrAlreadyPaid
	}

	return s.bookings.GetByID(ctx, bookingID)
}
