package notification

import (
	"context"
	"log"
	"time"

	"fieldbook/internal/domain"
)

// LogSender writes booking events to the process log. The real notification
// pipeline lives outside this service; this keeps the event stream visible
// in local and test runs.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) NotifyBookingCreated(_ context.Context, ownerUserID, bookingID, fieldID int64, start time.Time) error {
	log.Printf("notify event=booking_created owner_user_id=%d booking_id=%d field_id=%d start=%s",
		ownerUserID, bookingID, fieldID, start.Format(time.RFC3339))
	return nil
}

func (LogSender) NotifyBookingStatusChanged(_ context.Context, userID, bookingID int64, status domain.BookingStatus) error {
	log.Printf("notify event=booking_status_changed user_id=%d booking_id=%d status=%s",
		userID, bookingID, status)
	return nil
}
