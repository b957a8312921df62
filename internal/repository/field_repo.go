package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

// FieldRepository is the read side of the field directory. The booking core
// never writes field rows.
type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

type fieldModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id"`
	Name        string    `gorm:"column:name"`
	Address     string    `gorm:"column:address"`
	City        string    `gorm:"column:city"`
	Surface     string    `gorm:"column:surface"`
	RatePerHour float64   `gorm:"column:rate_per_hour"`
	IsActive    bool      `gorm:"column:is_active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (fieldModel) TableName() string { return "fields" }

func toDomainField(m fieldModel) *domain.Field {
	return &domain.Field{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Address:     m.Address,
		City:        m.City,
		Surface:     domain.FieldSurface(m.Surface),
		RatePerHour: m.RatePerHour,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	var m fieldModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainField(m), nil
}

func (r *FieldRepository) List(ctx context.Context, city string) ([]domain.Field, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if city != "" {
		q = q.Where("LOWER(city) = LOWER(?)", city)
	}

	var rows []fieldModel
	if err := q.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Field, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainField(m))
	}
	return out, nil
}
