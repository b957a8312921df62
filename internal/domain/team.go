package domain

import "time"

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	CaptainID int64     `json:"captain_id"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
