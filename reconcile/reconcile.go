// Package reconcile compares the desired duty schedule against the calendar
// service's existing events and issues the minimal set of create/update
// requests. A second pass over an unchanged calendar issues none.
package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"triage-scheduler/calendar"
	"triage-scheduler/errors"
	"triage-scheduler/metrics"
	"triage-scheduler/models"
	"triage-scheduler/scheduler"
)

// HandoffSubject is the fixed subject of hand-off events; the hand-off
// classification regex must match it.
const HandoffSubject = "Triage Hand-Off"

// Hand-off meetings run 08:45-09:00 local time on the incoming team's first
// duty day.
const (
	handoffStartHour   = 8
	handoffStartMinute = 45
	handoffEndHour     = 9
	handoffEndMinute   = 0
)

// Reconciler holds the run-scoped collaborators and settings for one
// reconciliation pass.
type Reconciler struct {
	Cal        calendar.Client
	MODs       *scheduler.MODResolver
	Log        hclog.Logger
	Location   string
	Categories []string
	Timezone   *time.Location
	DryRun     bool
}

// SyncDutyEvents ensures a duty event exists for every schedule entry.
// Existing duty events are never updated by this flow, only created when
// absent; attendee drift on duty events is out of scope.
func (r *Reconciler) SyncDutyEvents(entries []models.ScheduleEntry, index EventIndex) error {
	for _, entry := range entries {
		if _, ok := index.Lookup(entry.Date, calendar.KindDuty); ok {
			r.Log.Info("found existing TRIAGE event", "date", entry.DateKey())
			metrics.DutyEventsExisting.Inc()
			continue
		}

		r.Log.Info("making new TRIAGE event", "date", entry.DateKey(), "subject", entry.Subject)
		if r.DryRun {
			r.Log.Info("DRYRUN: suppressing create", "subject", entry.Subject, "attendees", entry.Attendees)
			metrics.DryRunSuppressed.Inc()
			continue
		}
		err := r.Cal.CreateAllDayEvent(entry.Date, entry.Subject, entry.Attendees, r.Location, r.Categories, true)
		if err != nil {
			return fmt.Errorf("creating duty event for %s: %w", entry.DateKey(), err)
		}
		metrics.DutyEventsCreated.Inc()
	}
	return nil
}

// SyncHandoffEvents derives the hand-off meetings from the existing duty
// events: one per adjacent pair of duty dates, on the later date, attended
// by both teams plus that day's managers on duty. Existing hand-offs with a
// diverging attendee list are corrected in place.
func (r *Reconciler) SyncHandoffEvents(index EventIndex) error {
	dutyDates := index.DutyDates()
	for i := 0; i+1 < len(dutyDates); i++ {
		curr, _ := index.Lookup(dutyDates[i], calendar.KindDuty)
		next, _ := index.Lookup(dutyDates[i+1], calendar.KindDuty)

		if len(curr.Attendees) == 0 {
			return &errors.DataIntegrityError{
				Date:   curr.Date,
				Reason: fmt.Sprintf("duty event %q has no required attendees", curr.Subject),
			}
		}
		if len(next.Attendees) == 0 {
			return &errors.DataIntegrityError{
				Date:   next.Date,
				Reason: fmt.Sprintf("duty event %q has no required attendees", next.Subject),
			}
		}

		handoffDate := next.Date
		attendees := attendeeUnion(curr.Attendees, next.Attendees, r.MODs.OnDutyEmails(handoffDate))

		if err := r.syncHandoff(index, handoffDate, attendees); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) syncHandoff(index EventIndex, date time.Time, attendees []string) error {
	dateKey := date.Format("2006-01-02")

	existing, ok := index.Lookup(date, calendar.KindHandoff)
	if !ok {
		start := time.Date(date.Year(), date.Month(), date.Day(), handoffStartHour, handoffStartMinute, 0, 0, r.tz())
		end := time.Date(date.Year(), date.Month(), date.Day(), handoffEndHour, handoffEndMinute, 0, 0, r.tz())

		r.Log.Info("making new HANDOFF event", "date", dateKey, "attendees", attendees)
		if r.DryRun {
			r.Log.Info("DRYRUN: suppressing create",
				"start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339),
				"subject", HandoffSubject, "attendees", attendees)
			metrics.DryRunSuppressed.Inc()
			return nil
		}
		err := r.Cal.CreateEvent(start, end, HandoffSubject, attendees, r.Location, r.Categories)
		if err != nil {
			return fmt.Errorf("creating hand-off event for %s: %w", dateKey, err)
		}
		metrics.HandoffEventsCreated.Inc()
		return nil
	}

	r.Log.Info("found existing HANDOFF event", "date", dateKey)
	current := append([]string(nil), existing.Attendees...)
	sort.Strings(current)

	if slicesEqual(current, attendees) {
		metrics.HandoffEventsInSync.Inc()
		return nil
	}

	r.Log.Warn("attendee mismatch for HANDOFF event, correcting",
		"date", dateKey, "existing", current, "new", attendees)
	if r.DryRun {
		r.Log.Info("DRYRUN: suppressing update", "subject", existing.Subject, "attendees", attendees)
		metrics.DryRunSuppressed.Inc()
		return nil
	}
	if err := r.Cal.UpdateAttendees(existing, attendees); err != nil {
		return fmt.Errorf("updating hand-off event for %s: %w", dateKey, err)
	}
	metrics.HandoffEventsUpdated.Inc()
	return nil
}

func (r *Reconciler) tz() *time.Location {
	if r.Timezone != nil {
		return r.Timezone
	}
	return time.Local
}

// attendeeUnion merges attendee lists, dropping duplicates, and returns the
// result sorted.
func attendeeUnion(lists ...[]string) []string {
	seen := make(map[string]bool)
	var union []string
	for _, list := range lists {
		for _, email := range list {
			if email == "" || seen[email] {
				continue
			}
			seen[email] = true
			union = append(union, email)
		}
	}
	sort.Strings(union)
	return union
}

func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
