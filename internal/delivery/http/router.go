package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"devevents/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// requireAdmin guards the /admin routes.
func NewRouter(
	eventController *controllers.EventController,
	bookingController *controllers.BookingController,
	healthController *controllers.HealthController,
	requireAdmin func(http.HandlerFunc) http.HandlerFunc,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{slug}", eventController.GetEvent)
	mux.HandleFunc("GET /events/{slug}/similar", eventController.ListSimilarEvents)
	mux.HandleFunc("GET /events/{slug}/calendar.ics", eventController.ExportCalendar)
	mux.HandleFunc("POST /bookings", bookingController.CreateBooking)

	// Admin
	mux.HandleFunc("POST /admin/events", requireAdmin(eventController.CreateEvent))
	mux.HandleFunc("PUT /admin/events/{eventID}", requireAdmin(eventController.UpdateEvent))
	mux.HandleFunc("GET /admin/events/{eventID}/bookings", requireAdmin(bookingController.ListEventBookings))

	mux.HandleFunc("GET /health", healthController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
