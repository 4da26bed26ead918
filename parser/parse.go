package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"triage-scheduler/errors"
	"triage-scheduler/models"
)

// holidayLayouts are the accepted date formats for the holiday file, tried
// in order.
var holidayLayouts = []string{"2006-01-02", "2006/01/02", "Jan 2 2006", "Jan 2, 2006"}

// ParseRoster reads CSV roster data and returns the members in file order.
// Order is significant: it determines pairing order downstream.
//
// Each record is "name, email, role" with an optional fourth field listing
// duty weekdays for managers as a semicolon-separated list (e.g. "Mon;Wed").
// Lines starting with '#' are comments.
func ParseRoster(r io.Reader) ([]models.StaffMember, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var roster []models.StaffMember
	seen := make(map[string]bool)
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		if len(record) > 0 && strings.HasPrefix(record[0], "#") {
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if len(record) < 3 || len(record) > 4 {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    errors.ErrInvalidFieldCount,
			}
		}

		member := models.StaffMember{
			Name:  strings.TrimSpace(record[0]),
			Email: strings.TrimSpace(record[1]),
		}

		if seen[member.Name] {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %q", errors.ErrDuplicateName, member.Name),
			}
		}
		seen[member.Name] = true

		if !strings.Contains(member.Email, "@") {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %q", errors.ErrInvalidEmail, member.Email),
			}
		}

		switch role := models.Role(strings.ToLower(strings.TrimSpace(record[2]))); role {
		case models.RoleStaff, models.RoleManager:
			member.Role = role
		default:
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %q", errors.ErrInvalidRole, record[2]),
			}
		}

		if len(record) == 4 && strings.TrimSpace(record[3]) != "" {
			days, err := parseDutyDays(record[3])
			if err != nil {
				return nil, &errors.ParseError{
					Line:   lineNum,
					Record: record,
					Err:    err,
				}
			}
			member.DutyDays = days
		}

		roster = append(roster, member)
	}

	if len(roster) == 0 {
		return nil, errors.ErrEmptyRoster
	}
	return roster, nil
}

func parseDutyDays(field string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(field, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, ok := models.ParseWeekday(part)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errors.ErrInvalidDutyDay, part)
		}
		days = append(days, day)
	}
	return days, nil
}

// ParseHolidays reads holiday dates, one per line, and returns them
// normalized to midnight in loc. Lines starting with '#' are comments.
func ParseHolidays(r io.Reader, loc *time.Location) ([]time.Time, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var holidays []time.Time
	lineNum := 0

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading holidays at line %d: %w", lineNum, err)
		}

		if len(record) == 0 {
			continue
		}
		value := strings.TrimSpace(record[0])
		if value == "" || strings.HasPrefix(value, "#") {
			continue
		}

		day, err := parseDate(value, loc)
		if err != nil {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %v", errors.ErrInvalidDate, err),
			}
		}
		holidays = append(holidays, day)
	}

	return holidays, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range holidayLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
