package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"devevents/internal/domain"
)

// mockBookingRepository enforces (event_id, email) uniqueness the way the
// unique index does.
type mockBookingRepository struct {
	mu        sync.Mutex
	bookings  []*domain.Booking
	existsErr error
	createErr error
	// blindExists makes Exists always report false, opening the race window
	// between the pre-check and the insert.
	blindExists bool
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, b := range m.bookings {
		if b.EventID == booking.EventID && b.Email == booking.Email {
			return domain.NewConflictError("booking already exists")
		}
	}
	booking.ID = uuid.NewString()
	m.bookings = append(m.bookings, booking)
	return nil
}

func (m *mockBookingRepository) Exists(ctx context.Context, eventID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.blindExists {
		return false, nil
	}
	for _, b := range m.bookings {
		if b.EventID == eventID && b.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockEmailService struct {
	mu   sync.Mutex
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (m *mockEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return m.err
}

func seedBookableEvent() (*mockEventRepository, *domain.Event) {
	ev := newEventInput("Go Meetup")
	ev.Slug = "go-meetup"
	ev.Date = "2025-06-01"
	ev.Time = "18:30"
	return newMockEventRepository(ev), ev
}

func TestBookingService_CreateBooking(t *testing.T) {
	events, ev := seedBookableEvent()
	bookings := &mockBookingRepository{}
	mailer := &mockEmailService{}
	svc := NewBookingService(events, bookings, mailer, discardLogger(), "https://devevents.test/", 5*time.Second)

	res := svc.CreateBooking(context.Background(), ev.ID, " go-meetup ", "  Ada@Example.COM ")
	require.True(t, res.Success)
	require.Empty(t, res.Error)
	require.NoError(t, res.Err)
	require.NotNil(t, res.Booking)
	require.NotEmpty(t, res.Booking.ID)
	require.Equal(t, "ada@example.com", res.Booking.Email)
	require.Equal(t, "go-meetup", res.Booking.Slug)
	require.Len(t, bookings.bookings, 1)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "ada@example.com", mailer.sent[0].Email)
	require.Equal(t, "Go Meetup", mailer.sent[0].EventTitle)
	require.Equal(t, "https://devevents.test/events/go-meetup", mailer.sent[0].EventURL)
}

func TestBookingService_CreateBooking_CanonicalizesEventID(t *testing.T) {
	for _, raw := range []string{"urn:uuid:%s", "{%s}", " %s "} {
		events, ev := seedBookableEvent()
		bookings := &mockBookingRepository{}
		svc := NewBookingService(events, bookings, nil, discardLogger(), "", 5*time.Second)

		res := svc.CreateBooking(context.Background(), fmt.Sprintf(raw, strings.ToUpper(ev.ID)), ev.Slug, "a@b.co")
		require.True(t, res.Success, raw)
		require.Equal(t, ev.ID, res.Booking.EventID)
		require.Equal(t, ev.ID, bookings.bookings[0].EventID)
	}
}

func TestBookingService_CreateBooking_Rejections(t *testing.T) {
	events, ev := seedBookableEvent()

	tests := []struct {
		name     string
		eventID  string
		slug     string
		email    string
		wantKind error
		wantMsg  string
	}{
		{name: "missing event id", eventID: "", slug: "go-meetup", email: "a@b.co", wantKind: domain.ErrValidation, wantMsg: "missing required fields"},
		{name: "missing slug", eventID: ev.ID, slug: "  ", email: "a@b.co", wantKind: domain.ErrValidation, wantMsg: "missing required fields"},
		{name: "missing email", eventID: ev.ID, slug: "go-meetup", email: "", wantKind: domain.ErrValidation, wantMsg: "missing required fields"},
		{name: "email without domain dot", eventID: ev.ID, slug: "go-meetup", email: "a@b", wantKind: domain.ErrValidation, wantMsg: "invalid email address"},
		{name: "email with inner space", eventID: ev.ID, slug: "go-meetup", email: "a b@c.de", wantKind: domain.ErrValidation, wantMsg: "invalid email address"},
		{name: "malformed event id", eventID: "42", slug: "go-meetup", email: "a@b.co", wantKind: domain.ErrValidation, wantMsg: "invalid event id"},
		{name: "unknown event", eventID: uuid.NewString(), slug: "go-meetup", email: "a@b.co", wantKind: domain.ErrValidation, wantMsg: "event not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &mockBookingRepository{}
			svc := NewBookingService(events, bookings, nil, discardLogger(), "", 5*time.Second)

			res := svc.CreateBooking(context.Background(), tt.eventID, tt.slug, tt.email)
			require.False(t, res.Success)
			require.Equal(t, tt.wantMsg, res.Error)
			require.ErrorIs(t, res.Err, tt.wantKind)
			require.Nil(t, res.Booking)
			require.Empty(t, bookings.bookings)
		})
	}
}

func TestBookingService_CreateBooking_DuplicateIgnoresCase(t *testing.T) {
	events, ev := seedBookableEvent()
	bookings := &mockBookingRepository{}
	svc := NewBookingService(events, bookings, nil, discardLogger(), "", 5*time.Second)
	ctx := context.Background()

	first := svc.CreateBooking(ctx, ev.ID, ev.Slug, "A@B.com")
	require.True(t, first.Success)

	second := svc.CreateBooking(ctx, ev.ID, ev.Slug, "a@b.com")
	require.False(t, second.Success)
	require.Equal(t, "booking already exists", second.Error)
	require.ErrorIs(t, second.Err, domain.ErrConflict)
	require.Len(t, bookings.bookings, 1)
}

func TestBookingService_CreateBooking_ConcurrentDuplicates(t *testing.T) {
	events, ev := seedBookableEvent()
	bookings := &mockBookingRepository{blindExists: true}
	svc := NewBookingService(events, bookings, nil, discardLogger(), "", 5*time.Second)

	const workers = 8
	results := make([]domain.BookingResult, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = svc.CreateBooking(context.Background(), ev.ID, ev.Slug, "racer@example.com")
		}()
	}
	close(start)
	wg.Wait()

	var succeeded, conflicted int
	for _, res := range results {
		switch {
		case res.Success:
			succeeded++
		case errors.Is(res.Err, domain.ErrConflict):
			require.Equal(t, "booking already exists", res.Error)
			conflicted++
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, workers-1, conflicted)
	require.Len(t, bookings.bookings, 1)
}

func TestBookingService_CreateBooking_PersistenceFaults(t *testing.T) {
	tests := []struct {
		name     string
		bookings *mockBookingRepository
		eventErr error
	}{
		{name: "event lookup fails", bookings: &mockBookingRepository{}, eventErr: errors.New("connection reset")},
		{name: "exists check fails", bookings: &mockBookingRepository{existsErr: errors.New("timeout")}},
		{name: "insert fails", bookings: &mockBookingRepository{createErr: errors.New("disk full")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, ev := seedBookableEvent()
			events.err = tt.eventErr
			svc := NewBookingService(events, tt.bookings, nil, discardLogger(), "", 5*time.Second)

			res := svc.CreateBooking(context.Background(), ev.ID, ev.Slug, "a@b.co")
			require.False(t, res.Success)
			require.Equal(t, "failed to create booking", res.Error)
			require.ErrorIs(t, res.Err, domain.ErrPersistence)
		})
	}
}

func TestBookingService_CreateBooking_EmailFailureDoesNotFailBooking(t *testing.T) {
	events, ev := seedBookableEvent()
	bookings := &mockBookingRepository{}
	mailer := &mockEmailService{err: errors.New("ses throttled")}
	svc := NewBookingService(events, bookings, mailer, discardLogger(), "", 5*time.Second)

	res := svc.CreateBooking(context.Background(), ev.ID, ev.Slug, "a@b.co")
	require.True(t, res.Success)
	require.Len(t, mailer.sent, 1)
	require.Len(t, bookings.bookings, 1)
}

func TestBookingService_ListEventBookings(t *testing.T) {
	events, ev := seedBookableEvent()
	bookings := &mockBookingRepository{}
	svc := NewBookingService(events, bookings, nil, discardLogger(), "", 5*time.Second)
	ctx := context.Background()

	require.True(t, svc.CreateBooking(ctx, ev.ID, ev.Slug, "one@example.com").Success)
	require.True(t, svc.CreateBooking(ctx, ev.ID, ev.Slug, "two@example.com").Success)

	got, err := svc.ListEventBookings(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	_, err = svc.ListEventBookings(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)

	events.err = errors.New("boom")
	_, err = svc.ListEventBookings(ctx, ev.ID)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrNotFound)
}
