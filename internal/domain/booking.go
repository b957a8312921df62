package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// statusTransitions is the booking state machine. A status missing from the
// map is not a valid status at all; a status mapping to an empty list is
// terminal.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCard         PaymentMethod = "card"
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodWallet       PaymentMethod = "wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodCash, MethodBankTransfer, MethodWallet:
		return true
	}
	return false
}

type Booking struct {
	ID            int64         `json:"id"`
	FieldID       int64         `json:"field_id" validate:"required"`
	RequestedBy   int64         `json:"requested_by" validate:"required"`
	TeamID        *int64        `json:"team_id,omitempty"`
	StartTime     time.Time     `json:"start_time" validate:"required"`
	EndTime       time.Time     `json:"end_time" validate:"required"`
	TotalPrice    float64       `json:"total_price" validate:"gte=0"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	// Payment fields are set together by the unpaid -> paid transition and
	// stay nil before it.
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Overlaps reports whether the booking's [start, end) interval intersects
// the given one. Intervals that merely touch do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
