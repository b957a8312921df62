package payment

import (
	"context"
	"time"

	"fieldbook/internal/domain"
)

// BookingStore is the slice of the booking store the payment handler needs:
// reading a booking and applying the one-way unpaid -> paid transition.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkPaid(ctx context.Context, bookingID int64, method domain.PaymentMethod, transactionID string, paidAt time.Time) (bool, error)
}
