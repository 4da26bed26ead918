package scheduler

import (
	"time"

	"triage-scheduler/models"
)

// MODResolver answers which managers are on duty for a given date. The
// weekday mapping is built once per run from the roster's manager entries.
type MODResolver struct {
	byWeekday map[time.Weekday][]models.StaffMember
}

// NewMODResolver indexes the roster's managers by their configured duty
// weekdays. A manager may appear under several weekdays.
func NewMODResolver(roster []models.StaffMember) *MODResolver {
	byWeekday := make(map[time.Weekday][]models.StaffMember)
	for _, member := range roster {
		if member.Role != models.RoleManager {
			continue
		}
		for _, day := range member.DutyDays {
			byWeekday[day] = append(byWeekday[day], member)
		}
	}
	return &MODResolver{byWeekday: byWeekday}
}

// OnDuty returns the managers covering date's weekday. An empty result is
// not an error; hand-off events simply omit manager attendees that day.
func (m *MODResolver) OnDuty(date time.Time) []models.StaffMember {
	return m.byWeekday[date.Weekday()]
}

// OnDutyEmails returns the email addresses of the managers covering date's
// weekday.
func (m *MODResolver) OnDutyEmails(date time.Time) []string {
	managers := m.OnDuty(date)
	emails := make([]string, 0, len(managers))
	for _, manager := range managers {
		emails = append(emails, manager.Email)
	}
	return emails
}
