package domain

import "time"

type FieldSurface string

const (
	SurfaceGrass      FieldSurface = "grass"
	SurfaceArtificial FieldSurface = "artificial"
	SurfaceIndoor     FieldSurface = "indoor"
)

type Field struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Name        string       `json:"name" validate:"required"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	Surface     FieldSurface `json:"surface,omitempty"`
	RatePerHour float64      `json:"rate_per_hour" validate:"required,gte=0"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
