package reconcile

import (
	"fmt"
	"sort"
	"time"

	"triage-scheduler/calendar"
)

// EventIndex maps calendar date -> event kind -> the existing event. At most
// one event per date and kind is recognized; when the calendar holds more,
// the first one returned by the feed wins. Built fresh for each run and
// discarded afterwards.
type EventIndex map[string]map[calendar.Kind]*calendar.Event

// BuildIndex queries the calendar collaborator over [start, end] and indexes
// the result by date and kind.
func BuildIndex(client calendar.Client, start, end time.Time) (EventIndex, error) {
	events, err := client.Query(start, end)
	if err != nil {
		return nil, fmt.Errorf("querying existing events: %w", err)
	}

	index := make(EventIndex)
	for i := range events {
		event := &events[i]
		key := event.Date.Format("2006-01-02")
		if index[key] == nil {
			index[key] = make(map[calendar.Kind]*calendar.Event)
		}
		if _, ok := index[key][event.Kind]; ok {
			continue
		}
		index[key][event.Kind] = event
	}
	return index, nil
}

// Lookup returns the existing event of the given kind on date, if any.
// "No existing event" is an ordinary outcome, not an error.
func (idx EventIndex) Lookup(date time.Time, kind calendar.Kind) (*calendar.Event, bool) {
	byKind, ok := idx[date.Format("2006-01-02")]
	if !ok {
		return nil, false
	}
	event, ok := byKind[kind]
	return event, ok
}

// DutyDates returns the dates carrying a duty event, sorted ascending.
func (idx EventIndex) DutyDates() []time.Time {
	var dates []time.Time
	for _, byKind := range idx {
		if event, ok := byKind[calendar.KindDuty]; ok {
			dates = append(dates, event.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
