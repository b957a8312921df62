package booking

import "time"

type CreateBookingRequest struct {
	FieldID   int64     `json:"field_id" binding:"required"`
	TeamID    *int64    `json:"team_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`

	// RequestedBy comes from the authenticated actor, never from the body.
	RequestedBy int64 `json:"-"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
