package domain

import (
	"context"
	"time"
)

// Mode is how an event is attended.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

// Event represents a listed developer event.
// Date is stored as YYYY-MM-DD and Time as 24-hour HH:MM.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=100"`
	Slug        string    `json:"slug"`
	Description string    `json:"description" validate:"required,max=1000"`
	Overview    string    `json:"overview" validate:"required,max=500"`
	Image       string    `json:"image" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"required"`
	Mode        Mode      `json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string    `json:"audience" validate:"required"`
	Agenda      []string  `json:"agenda" validate:"required,min=1,dive,required"`
	Organizer   string    `json:"organizer" validate:"required"`
	Tags        []string  `json:"tags" validate:"required,min=1,dive,required"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventRepository defines the interface for event storage.
// Create and Update return an ErrConflict error when the slug is already taken.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	// ListSimilar returns the events sharing at least one tag with the event
	// identified by slug, excluding that event.
	ListSimilar(ctx context.Context, slug string) ([]*Event, error)
	// ListSlugsWithBase returns stored slugs equal to base or of the form base-N.
	ListSlugsWithBase(ctx context.Context, base string) ([]string, error)
}

// EventService defines event listing and the administrative write path.
// Read operations fail soft: storage faults yield an empty list or no event.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, eventID string, event *Event) (*Event, error)
	ListEvents(ctx context.Context) []*Event
	GetEventBySlug(ctx context.Context, slug string) (*Event, bool)
	ListSimilarEvents(ctx context.Context, slug string) []*Event
}

// CalendarExporter renders an event as an iCalendar document.
type CalendarExporter interface {
	Export(event *Event, eventURL string) ([]byte, error)
}
