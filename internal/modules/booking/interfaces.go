package booking

import (
	"context"
	"time"

	"fieldbook/internal/domain"
	"fieldbook/internal/repository"
)

// BookingRepository is the booking store: the only writer of booking rows.
type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error)
	GetBusySlotsForField(ctx context.Context, fieldID int64, from, to time.Time) ([]repository.BusySlot, error)
	GetByRequester(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	GetByFieldID(ctx context.Context, fieldID int64) ([]domain.Booking, error)
}

// FieldDirectory resolves field records. Read-only from this module.
type FieldDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// TeamDirectory resolves team references on bookings.
type TeamDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// NotificationSender delivers booking events to interested users. Failures
// are logged, never propagated.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, fieldID int64, start time.Time) error
	NotifyBookingStatusChanged(ctx context.Context, userID, bookingID int64, status domain.BookingStatus) error
}
