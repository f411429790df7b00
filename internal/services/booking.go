package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"devevents/internal/domain"
)

const (
	msgMissingFields  = "missing required fields"
	msgInvalidEmail   = "invalid email address"
	msgInvalidEventID = "invalid event id"
	msgEventNotFound  = "event not found"
	msgBookingExists  = "booking already exists"
	msgBookingFailed  = "failed to create booking"
)

var bookingEmailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type bookingService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	publicBaseURL  string
	contextTimeout time.Duration
}

// NewBookingService creates a BookingService. emailService may be nil to skip
// confirmation emails.
func NewBookingService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	publicBaseURL string,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		emailService:   emailService,
		logger:         logger,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
		contextTimeout: timeout,
	}
}

// CreateBooking never returns a raw fault: the result always carries a
// user-facing message and the classified error.
func (s *bookingService) CreateBooking(ctx context.Context, eventID, slug, email string) domain.BookingResult {
	booking, err := s.book(ctx, eventID, slug, email)
	if err != nil {
		return domain.BookingResult{
			Success: false,
			Error:   domain.PublicMessage(err, msgBookingFailed),
			Err:     err,
		}
	}
	return domain.BookingResult{Success: true, Booking: booking}
}

func (s *bookingService) book(ctx context.Context, eventID, slug, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	eventID = strings.TrimSpace(eventID)
	slug = strings.TrimSpace(slug)
	email = strings.ToLower(strings.TrimSpace(email))
	if eventID == "" || slug == "" || email == "" {
		return nil, domain.NewValidationError(msgMissingFields)
	}
	if !bookingEmailRegexp.MatchString(email) {
		return nil, domain.NewValidationError(msgInvalidEmail)
	}
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidEventID)
	}
	// urn and braced forms parse but are rejected by the uuid column type.
	eventID = id.String()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(msgEventNotFound)
		}
		return nil, s.fault(ctx, "get event", eventID, err)
	}

	exists, err := s.bookingRepo.Exists(ctx, eventID, email)
	if err != nil {
		return nil, s.fault(ctx, "check booking", eventID, err)
	}
	if exists {
		return nil, domain.NewConflictError(msgBookingExists)
	}

	now := time.Now().UTC()
	booking := domain.NewBooking(eventID, slug, email, now, now)
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// The unique index is authoritative when two requests race past Exists.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflictError(msgBookingExists)
		}
		return nil, s.fault(ctx, "create booking", eventID, err)
	}

	s.sendConfirmation(ctx, event, booking)
	return booking, nil
}

func (s *bookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) fault(ctx context.Context, op, eventID string, err error) error {
	s.logger.ErrorContext(ctx, "createBooking failed", "op", op, "event_id", eventID, "err", err)
	return domain.NewPersistenceError(msgBookingFailed, fmt.Errorf("%s: %w", op, err))
}

// sendConfirmation is best effort; the booking is already stored.
func (s *bookingService) sendConfirmation(ctx context.Context, event *domain.Event, booking *domain.Booking) {
	if s.emailService == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventDate:  event.Date,
		EventTime:  event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       event.Mode,
		EventURL:   s.publicBaseURL + "/events/" + event.Slug,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation email failed", "booking_id", booking.ID, "err", err)
	}
}
