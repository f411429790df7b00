package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devevents/internal/domain"
	"devevents/internal/normalize"
)

type eventService struct {
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateEvent runs validate, normalize, checkUniqueness and persist in order.
// Slug is always derived from the title; any caller-supplied slug is ignored.
func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.prepare(ctx, event); err != nil {
		return err
	}
	if err := s.assignSlug(ctx, event, ""); err != nil {
		return err
	}

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return s.writeFault(ctx, "create event", err)
	}
	return nil
}

// UpdateEvent replaces the mutable fields of the stored event. The slug is
// only re-derived when the title changes.
func (s *eventService) UpdateEvent(ctx context.Context, eventID string, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.writeFault(ctx, "get event", err)
	}

	if err := s.prepare(ctx, event); err != nil {
		return nil, err
	}
	event.ID = current.ID
	event.CreatedAt = current.CreatedAt
	if event.Title == current.Title {
		event.Slug = current.Slug
	} else if err := s.assignSlug(ctx, event, current.Slug); err != nil {
		return nil, err
	}

	event.UpdatedAt = time.Now().UTC()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.writeFault(ctx, "update event", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) []*domain.Event {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list events failed", "err", err)
		return []*domain.Event{}
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "get event by slug failed", "slug", slug, "err", err)
		}
		return nil, false
	}
	return event, true
}

func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) []*domain.Event {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return []*domain.Event{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListSimilar(ctx, slug)
	if err != nil {
		s.logger.ErrorContext(ctx, "list similar events failed", "slug", slug, "err", err)
		return []*domain.Event{}
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events
}

// prepare covers the validate and normalize steps of the write pipeline.
func (s *eventService) prepare(_ context.Context, event *domain.Event) error {
	if event == nil {
		return domain.NewValidationError("event is required")
	}
	normalize.TrimEvent(event)
	if err := normalize.ValidateEvent(event); err != nil {
		return err
	}
	return normalize.CanonicalizeSchedule(event)
}

// assignSlug is the checkUniqueness step. An event keeps its own slug when
// that slug already fits the new title, and never collides with itself. The
// unique index still decides races between concurrent writers.
func (s *eventService) assignSlug(ctx context.Context, event *domain.Event, ownSlug string) error {
	base := normalize.Slugify(event.Title)
	if base == "" {
		return domain.NewValidationError("title must contain at least one letter or digit")
	}
	if ownSlug != "" && normalize.MatchesBase(ownSlug, base) {
		event.Slug = ownSlug
		return nil
	}
	existing, err := s.eventRepo.ListSlugsWithBase(ctx, base)
	if err != nil {
		return s.writeFault(ctx, "list slugs", err)
	}
	slug, err := normalize.DeriveSlug(event.Title, existing)
	if err != nil {
		return err
	}
	event.Slug = slug
	return nil
}

// writeFault passes classified errors through and hides raw storage faults
// behind a PersistenceError.
func (s *eventService) writeFault(ctx context.Context, op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) && !errors.Is(err, domain.ErrPersistence) {
		return err
	}
	s.logger.ErrorContext(ctx, "event persistence fault", "op", op, "err", err)
	return domain.NewPersistenceError("failed to save event", fmt.Errorf("%s: %w", op, err))
}
