package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
// Missing fields are reported by the booking service, not at decode time.
type CreateBookingRequest struct {
	EventID string `json:"event_id"`
	Slug    string `json:"slug"`
	Email   string `json:"email"`
}

// BookingSuccessResponse is the success envelope for POST /bookings (201).
type BookingSuccessResponse struct {
	Data  domain.BookingResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// BookingListSuccessResponse is the success envelope for GET /admin/events/{eventID}/bookings.
type BookingListSuccessResponse struct {
	Data  []*domain.Booking `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Books one spot for an email address. The email is compared case-insensitively; each address can book an event once.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body CreateBookingRequest true "Booking data"
// @Success 201 {object} controllers.BookingSuccessResponse "data.success is true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing required fields, invalid email, unknown event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (booking already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (failed to create booking)"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result := c.Service.CreateBooking(r.Context(), req.EventID, req.Slug, req.Email)
	if !result.Success {
		writeServiceError(w, r, c.Logger, result.Err, result.Error)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// ListEventBookings godoc
// @Summary List bookings for an event
// @Description Returns the event's bookings, oldest first. Requires an admin token.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.BookingListSuccessResponse "data contains the bookings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/bookings [get]
func (c *BookingController) ListEventBookings(w http.ResponseWriter, r *http.Request) {
	eventID, ok := canonicalUUID(r.PathValue("eventID"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	bookings, err := c.Service.ListEventBookings(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to list bookings")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// canonicalUUID parses s in any form uuid.Parse accepts (urn, braced, upper
// case) and returns the lowercase hyphenated form the uuid column expects.
func canonicalUUID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
