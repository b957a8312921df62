package repository

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned by CreateIfAvailable when the requested interval
// intersects an existing non-cancelled booking on the same field. It is
// produced both by the in-transaction overlap recheck and by the Postgres
// exclusion constraint, so the invariant holds even if a caller skips the
// service-layer availability check.
var ErrSlotTaken = errors.New("time slot is already taken")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	FieldID       int64      `gorm:"column:field_id;index"`
	RequestedBy   int64      `gorm:"column:requested_by"`
	TeamID        *int64     `gorm:"column:team_id"`
	StartTime     time.Time  `gorm:"column:start_time"`
	EndTime       time.Time  `gorm:"column:end_time"`
	TotalPrice    float64    `gorm:"column:total_price"`
	Status        string     `gorm:"column:status"`
	PaymentStatus string     `gorm:"column:payment_status"`
	PaymentMethod *string    `gorm:"column:payment_method"`
	TransactionID *string    `gorm:"column:transaction_id"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var method *domain.PaymentMethod
	if m.PaymentMethod != nil {
		v := domain.PaymentMethod(*m.PaymentMethod)
		method = &v
	}

	return &domain.Booking{
		ID:            m.ID,
		FieldID:       m.FieldID,
		RequestedBy:   m.RequestedBy,
		TeamID:        m.TeamID,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		TotalPrice:    m.TotalPrice,
		Status:        domain.BookingStatus(m.Status),
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		PaymentMethod: method,
		TransactionID: m.TransactionID,
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		CancelledAt:   m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var method *string
	if b.PaymentMethod != nil {
		v := string(*b.PaymentMethod)
		method = &v
	}

	return bookingModel{
		ID:            b.ID,
		FieldID:       b.FieldID,
		RequestedBy:   b.RequestedBy,
		TeamID:        b.TeamID,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentMethod: method,
		TransactionID: b.TransactionID,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		CancelledAt:   b.CancelledAt,
	}
}

// CreateIfAvailable checks the overlap predicate and inserts the booking as
// one transaction, so two concurrent creates for intersecting intervals on
// the same field cannot both commit. On Postgres the bookings_no_overlap
// exclusion constraint backs the same invariant at the storage level.
func (r *BookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&bookingModel{}).
			Where("field_id = ?", b.FieldID).
			Where("status NOT IN ('cancelled')").
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrSlotTaken
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)
		return nil
	})
	if err != nil {
		if isOverlapConstraintViolation(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// isOverlapConstraintViolation matches the Postgres exclusion constraint
// (23P01) or a unique index (23505) guarding booking overlap.
func isOverlapConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "23P01", "23505":
		return pgErr.ConstraintName == "bookings_no_overlap"
	}
	return false
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// UpdateStatusFrom moves the booking from one status to another with a
// conditional single-row update. It returns false when the row was not in
// the expected from-status anymore, which callers treat as a lost race.
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error) {
	now := time.Now().UTC()
	fields := map[string]any{
		"status":     string(to),
		"updated_at": now,
	}
	if to == domain.BookingCancelled {
		fields["cancelled_at"] = &now
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Updates(fields)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// MarkPaid applies the unpaid -> paid transition together with its payment
// fields in one conditional update. The predicate excludes cancelled
// bookings so a stale payment request cannot pay a booking cancelled after
// the caller last read it.
func (r *BookingRepository) MarkPaid(ctx context.Context, bookingID int64, method domain.PaymentMethod, transactionID string, paidAt time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND payment_status = ? AND status <> ?",
			bookingID, string(domain.PaymentUnpaid), string(domain.BookingCancelled)).
		Updates(map[string]any{
			"payment_status": string(domain.PaymentPaid),
			"payment_method": string(method),
			"transaction_id": transactionID,
			"paid_at":        paidAt,
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

type BusySlot struct {
	Start time.Time `gorm:"column:start" json:"start"`
	End   time.Time `gorm:"column:end" json:"end"`
}

// GetBusySlotsForField lists non-cancelled booking intervals intersecting
// [from, to) on the field, ordered by start time.
func (r *BookingRepository) GetBusySlotsForField(ctx context.Context, fieldID int64, from, to time.Time) ([]BusySlot, error) {
	var rows []BusySlot
	err := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select(`start_time AS "start", end_time AS "end"`).
		Where("field_id = ?", fieldID).
		Where("status NOT IN ('cancelled')").
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepository) GetByRequester(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("requested_by = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) GetByFieldID(ctx context.Context, fieldID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}
