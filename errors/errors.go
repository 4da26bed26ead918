package errors

import (
	"fmt"
	"time"
)

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing or unreadable required input. It always
// aborts the run before any calendar mutation is attempted.
type ConfigError struct {
	Setting string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration error: %s", e.Setting)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Setting, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports a malformed upstream calendar event, such as a
// duty event without required attendees. Fatal: the run must stop rather
// than create a hand-off with an incomplete attendee list.
type DataIntegrityError struct {
	Date   time.Time
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity error for date %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidEmail      = fmt.Errorf("invalid email address")
	ErrInvalidRole       = fmt.Errorf("invalid role")
	ErrInvalidDutyDay    = fmt.Errorf("invalid duty day")
	ErrDuplicateName     = fmt.Errorf("duplicate member name")
	ErrInvalidDate       = fmt.Errorf("invalid date")
	ErrEmptyRoster       = fmt.Errorf("empty roster")
)
