package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	events          []*domain.Event
	bySlug          map[string]*domain.Event
	similar         []*domain.Event
	createErr       error
	updateErr       error
	lastCreate      *domain.Event
	lastUpdateID    string
	lastUpdate      *domain.Event
	lastSlugLookup  string
	lastSimilarSlug string
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreate = event
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = "0b6d5c1e-6f43-4b4e-9a55-3c1f1f3f2a10"
	event.Slug = "go-meetup"
	return nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID string, event *domain.Event) (*domain.Event, error) {
	f.lastUpdateID = eventID
	f.lastUpdate = event
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	event.ID = eventID
	event.Slug = "go-meetup"
	return event, nil
}

func (f *fakeEventService) ListEvents(_ context.Context) []*domain.Event {
	if f.events == nil {
		return []*domain.Event{}
	}
	return f.events
}

func (f *fakeEventService) GetEventBySlug(_ context.Context, slug string) (*domain.Event, bool) {
	f.lastSlugLookup = slug
	e, ok := f.bySlug[slug]
	return e, ok
}

func (f *fakeEventService) ListSimilarEvents(_ context.Context, slug string) []*domain.Event {
	f.lastSimilarSlug = slug
	if f.similar == nil {
		return []*domain.Event{}
	}
	return f.similar
}

// fakeBookingService implements domain.BookingService for handler tests.
type fakeBookingService struct {
	result       domain.BookingResult
	bookings     []*domain.Booking
	listErr      error
	lastEventID  string
	lastSlug     string
	lastEmail    string
	lastListedID string
}

func (f *fakeBookingService) CreateBooking(_ context.Context, eventID, slug, email string) domain.BookingResult {
	f.lastEventID, f.lastSlug, f.lastEmail = eventID, slug, email
	return f.result
}

func (f *fakeBookingService) ListEventBookings(_ context.Context, eventID string) ([]*domain.Booking, error) {
	f.lastListedID = eventID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.bookings, nil
}

type fakeCalendar struct {
	body    []byte
	err     error
	lastURL string
}

func (f *fakeCalendar) Export(_ *domain.Event, eventURL string) ([]byte, error) {
	f.lastURL = eventURL
	return f.body, f.err
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}
