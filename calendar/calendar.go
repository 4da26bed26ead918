// Package calendar talks to the calendar service: it reads existing duty and
// hand-off events from an iCalendar feed and writes new or corrected events
// back to the collection.
package calendar

import (
	"time"

	"github.com/emersion/go-ical"
)

// Kind classifies an event by its subject pattern.
type Kind string

const (
	KindDuty    Kind = "TRIAGE"
	KindHandoff Kind = "HANDOFF"
)

// Event is one classified calendar event. Attendees holds the required
// attendees' email addresses. The decoded component is retained so that
// updates can rewrite the event in place.
type Event struct {
	UID       string
	Kind      Kind
	Date      time.Time
	Start     time.Time
	End       time.Time
	Subject   string
	Attendees []string

	comp *ical.Component
}

// Client is the calendar collaborator contract consumed by the reconciler.
type Client interface {
	// Query returns the classified events whose date falls within
	// [start, end] inclusive. Events matching neither subject pattern are
	// dropped.
	Query(start, end time.Time) ([]Event, error)

	// CreateAllDayEvent creates an all-day event on date. When free is set
	// the event does not block attendee availability.
	CreateAllDayEvent(date time.Time, subject string, attendees []string, location string, categories []string, free bool) error

	// CreateEvent creates a timed event.
	CreateEvent(start, end time.Time, subject string, attendees []string, location string, categories []string) error

	// UpdateAttendees replaces the required-attendee list of an existing
	// event.
	UpdateAttendees(event *Event, attendees []string) error
}
