package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/domain"
	"devevents/internal/normalize"
)

// EventRequest is the request body for POST /admin/events and PUT /admin/events/{eventID}.
// Slug is accepted for compatibility and ignored: it is always derived from the title.
type EventRequest struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date" example:"2025-06-01"`
	Time        string   `json:"time" example:"6:30 PM"`
	Mode        string   `json:"mode" enums:"online,offline,hybrid"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

func (req EventRequest) toEvent() *domain.Event {
	return &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        domain.Mode(req.Mode),
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	}
}

// Validate reports missing fields, length limits and an unknown mode before
// the request reaches the service. Date and time formats are checked by the
// service when it canonicalizes the schedule.
func (req EventRequest) Validate() []string {
	event := req.toEvent()
	event.Agenda = slices.Clone(event.Agenda)
	event.Tags = slices.Clone(event.Tags)
	normalize.TrimEvent(event)
	if err := normalize.ValidateEvent(event); err != nil {
		return strings.Split(domain.PublicMessage(err, err.Error()), "; ")
	}
	return nil
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for endpoints returning a list of events.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger        *slog.Logger
	Service       domain.EventService
	Calendar      domain.CalendarExporter
	PublicBaseURL string
}

func NewEventController(logger *slog.Logger, svc domain.EventService, calendar domain.CalendarExporter, publicBaseURL string) *EventController {
	return &EventController{
		Logger:        logger,
		Service:       svc,
		Calendar:      calendar,
		PublicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event, newest first. Storage faults yield an empty list.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the events"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.ListEvents(r.Context()))
}

// GetEvent godoc
// @Summary Get an event by slug
// @Description Slug lookup is case-insensitive and ignores surrounding whitespace.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{slug} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := c.Service.GetEventBySlug(r.Context(), r.PathValue("slug"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListSimilarEvents godoc
// @Summary List similar events
// @Description Returns events sharing at least one tag with the given event, excluding it. Unknown slugs yield an empty list.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventListSuccessResponse "data contains the similar events"
// @Router /events/{slug}/similar [get]
func (c *EventController) ListSimilarEvents(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.ListSimilarEvents(r.Context(), r.PathValue("slug")))
}

// ExportCalendar godoc
// @Summary Download an event as iCalendar
// @Tags events
// @Produce text/calendar
// @Param slug path string true "Event slug"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/calendar.ics [get]
func (c *EventController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	event, ok := c.Service.GetEventBySlug(r.Context(), r.PathValue("slug"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	body, err := c.Calendar.Export(event, c.eventURL(event))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "calendar export failed", "slug", event.Slug, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "failed to export calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Slug+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Validates, normalizes date and time, derives a unique slug from the title and stores the event. Requires an admin token.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		writeServiceError(w, r, c.Logger, err, "failed to save event")
		return
	}
	c.Logger.InfoContext(r.Context(), "event created", "admin", adminSubject(r), "event_id", event.ID, "slug", event.Slug)
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Replaces every editable field. The slug changes only when the new title no longer fits it. Requires an admin token.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := canonicalUUID(r.PathValue("eventID"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event id")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toEvent())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		writeServiceError(w, r, c.Logger, err, "failed to save event")
		return
	}
	c.Logger.InfoContext(r.Context(), "event updated", "admin", adminSubject(r), "event_id", event.ID, "slug", event.Slug)
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// adminSubject returns the token subject set by RequireAdmin.
func adminSubject(r *http.Request) string {
	subject, ok := middleware.AdminSubjectFromContext(r.Context())
	if !ok {
		return "unknown"
	}
	return subject
}

func (c *EventController) eventURL(event *domain.Event) string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + "/events/" + event.Slug
}
