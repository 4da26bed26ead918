// Package scheduler maps the pairing rotation onto business days to produce
// the desired duty schedule.
package scheduler

import (
	"fmt"
	"time"

	"triage-scheduler/models"
	"triage-scheduler/pairing"
)

// SubjectPrefix starts every duty event subject; the duty classification
// regex must match it.
const SubjectPrefix = "Triage: "

// Teams returns the pairing rotation for the roster, rotated left by
// startAt. This is also what the list-teams inspection mode prints, so an
// operator can pick a start offset that resumes a rotation mid-cycle.
func Teams(roster []models.StaffMember, startAt int) (pairing.Rotation, error) {
	rotation := pairing.NewRotation(roster)
	if len(rotation) == 0 {
		return nil, fmt.Errorf("roster of %d member(s) yields no duty pairs", len(roster))
	}
	return rotation.Rotate(startAt), nil
}

// Build assigns one team per business day, consuming the rotated rotation
// from the front and wrapping around as often as the range requires. The
// resulting date assignments are a pure function of (roster, startAt, days):
// rerunning with identical inputs yields identical entries.
func Build(roster []models.StaffMember, startAt int, days []time.Time) ([]models.ScheduleEntry, error) {
	rotation, err := Teams(roster, startAt)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ScheduleEntry, 0, len(days))
	for i, day := range days {
		team := rotation.Team(i)
		entries = append(entries, models.ScheduleEntry{
			Date:      day,
			Team:      team,
			Subject:   SubjectPrefix + team.Label(),
			Attendees: team.Emails(),
		})
	}
	return entries, nil
}
