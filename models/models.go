package models

import (
	"strings"
	"time"
)

// Role classifies a roster member.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

// StaffMember represents one person from the roster file.
// It is shared across packages and immutable for the duration of a run.
type StaffMember struct {
	Name  string
	Email string
	Role  Role
	// DutyDays lists the weekdays a manager covers as Manager On Duty.
	// Empty for staff members.
	DutyDays []time.Weekday
}

// Team is an unordered pair of staff members assigned to one duty day.
// Teams are value objects: two teams with the same members are equal
// regardless of member order.
type Team struct {
	First  StaffMember
	Second StaffMember
}

// Equal reports whether both teams contain the same two members.
func (t Team) Equal(other Team) bool {
	if t.First.Name == other.First.Name && t.Second.Name == other.Second.Name {
		return true
	}
	return t.First.Name == other.Second.Name && t.Second.Name == other.First.Name
}

// Label returns the team's display form, e.g. "Alice, Bob".
func (t Team) Label() string {
	return t.First.Name + ", " + t.Second.Name
}

// Emails returns the members' email addresses in member order.
func (t Team) Emails() []string {
	return []string{t.First.Email, t.Second.Email}
}

// ScheduleEntry assigns a team to one business day. Subject and Attendees
// are derived from the team and used verbatim when creating duty events.
type ScheduleEntry struct {
	Date      time.Time
	Team      Team
	Subject   string
	Attendees []string
}

// DateKey returns the calendar-date key used to match the entry against
// existing events.
func (e ScheduleEntry) DateKey() string {
	return e.Date.Format("2006-01-02")
}

// ParseWeekday maps a weekday name or three-letter abbreviation to
// time.Weekday. Matching is case-insensitive.
func ParseWeekday(s string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mon", "monday":
		return time.Monday, true
	case "tue", "tuesday":
		return time.Tuesday, true
	case "wed", "wednesday":
		return time.Wednesday, true
	case "thu", "thr", "thursday":
		return time.Thursday, true
	case "fri", "friday":
		return time.Friday, true
	case "sat", "saturday":
		return time.Saturday, true
	case "sun", "sunday":
		return time.Sunday, true
	}
	return 0, false
}
