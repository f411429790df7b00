package domain

import (
	"context"
	"time"
)

// Booking is a reservation of one spot at an event for one email address.
// Slug is a copy of the event slug at booking time and is not kept in sync.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, slug, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Slug:      slug,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage for bookings. The pair (event_id, email)
// is unique; Create returns an ErrConflict error when it is violated.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	Exists(ctx context.Context, eventID, email string) (bool, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
}

// BookingResult is the outcome of a booking attempt.
// Err carries the classified error for callers that need to tell kinds apart.
// swagger:model BookingResult
type BookingResult struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Booking *Booking `json:"booking,omitempty"`
	Err     error    `json:"-"`
}

// BookingService defines the booking write path and its admin read path.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, slug, email string) BookingResult
	ListEventBookings(ctx context.Context, eventID string) ([]*Booking, error)
}
