package formatter_test

import (
	"strings"
	"testing"
	"time"

	"triage-scheduler/formatter"
	"triage-scheduler/models"
	"triage-scheduler/pairing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTeams(t *testing.T) {
	rotation := pairing.Rotation{
		{First: models.StaffMember{Name: "Alice"}, Second: models.StaffMember{Name: "Bob"}},
		{First: models.StaffMember{Name: "Carol"}, Second: models.StaffMember{Name: "Dave"}},
	}

	output := formatter.FormatTeams(rotation)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	assert.Equal(t, []string{
		"00  Alice, Bob",
		"01  Carol, Dave",
	}, lines)
}

func TestFormatTeamsEmptyRotation(t *testing.T) {
	assert.Empty(t, formatter.FormatTeams(nil))
}

func TestFormatSchedule(t *testing.T) {
	entries := []models.ScheduleEntry{
		{
			Date:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			Subject: "Triage: Alice, Bob",
		},
		{
			Date:    time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
			Subject: "Triage: Carol, Dave",
		},
	}

	output := formatter.FormatSchedule(entries)
	assert.Contains(t, output, "2026-03-02 Mon  Triage: Alice, Bob")
	assert.Contains(t, output, "2026-03-03 Tue  Triage: Carol, Dave")
}
