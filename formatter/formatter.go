// Package formatter renders operator-facing inspection output: the team
// rotation listing and the planned schedule.
package formatter

import (
	"fmt"
	"strings"

	"triage-scheduler/models"
	"triage-scheduler/pairing"
)

// FormatTeams renders the rotated pairing cycle, one indexed line per team.
// The index is what an operator passes as -start-at to resume a rotation
// mid-cycle.
func FormatTeams(rotation pairing.Rotation) string {
	var sb strings.Builder
	for i, team := range rotation {
		sb.WriteString(fmt.Sprintf("%02d  %s\n", i, team.Label()))
	}
	return sb.String()
}

// FormatSchedule renders the planned duty schedule, one line per business
// day.
func FormatSchedule(entries []models.ScheduleEntry) string {
	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("%s %s  %s\n",
			entry.DateKey(), entry.Date.Weekday().String()[:3], entry.Subject))
	}
	return sb.String()
}
