// Package calendar exports events as iCalendar (RFC 5545) documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"devevents/internal/domain"
)

const (
	productID = "-//devevents//events//EN"
	// Stored events carry only a start; calendar clients need an end.
	defaultDuration = 2 * time.Hour
)

type icsExporter struct {
	now func() time.Time
}

// NewICSExporter returns a CalendarExporter producing single-event VCALENDAR documents.
func NewICSExporter() domain.CalendarExporter {
	return &icsExporter{now: time.Now}
}

func (e *icsExporter) Export(event *domain.Event, eventURL string) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.Time, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse event start: %w", err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	vevent := cal.AddEvent(event.ID + "@devevents")
	vevent.SetDtStampTime(e.now().UTC())
	vevent.SetCreatedTime(event.CreatedAt.UTC())
	vevent.SetModifiedAt(event.UpdatedAt.UTC())
	vevent.SetStartAt(start)
	vevent.SetEndAt(start.Add(defaultDuration))
	vevent.SetSummary(event.Title)
	vevent.SetDescription(description(event))
	vevent.SetLocation(location(event))
	if eventURL != "" {
		vevent.SetURL(eventURL)
	}
	if len(event.Tags) > 0 {
		vevent.AddProperty(ical.ComponentPropertyCategories, strings.Join(event.Tags, ","))
	}
	return []byte(cal.Serialize()), nil
}

// ORGANIZER must be a CAL-ADDRESS, and events only carry a display name.
func description(event *domain.Event) string {
	if event.Organizer == "" {
		return event.Description
	}
	return event.Description + "\n\nOrganizer: " + event.Organizer
}

func location(event *domain.Event) string {
	if event.Mode == domain.ModeOnline {
		return "Online"
	}
	return strings.Join([]string{event.Venue, event.Location}, ", ")
}
