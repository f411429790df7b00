package postgres

import (
	"context"
	"database/sql"

	"devevents/internal/domain"
)

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{
		DB: db,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (event_id, slug, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, b.EventID, b.Slug, b.Email, b.CreatedAt, b.UpdatedAt).
		Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("booking already exists")
		}
		return err
	}
	return nil
}

func (r *bookingRepository) Exists(ctx context.Context, eventID, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE event_id = $1 AND email = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	query := `
		SELECT id, event_id, slug, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Slug, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}
