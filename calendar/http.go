package calendar

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

const productID = "-//triage-scheduler//EN"

// HTTPConfig holds the connection settings for an iCalendar-backed calendar
// service: a read-only feed URL for queries and a collection URL accepting
// PUTs of single-event calendars.
type HTTPConfig struct {
	FeedURL        string
	CollectionURL  string
	Username       string
	Password       string
	DutyPattern    *regexp.Regexp
	HandoffPattern *regexp.Regexp
	Location       *time.Location
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	cfg  HTTPConfig
	http *http.Client
	log  hclog.Logger
}

// NewHTTPClient builds a client. The HTTP timeout is this collaborator's own
// policy; the reconciliation core does not enforce one.
func NewHTTPClient(cfg HTTPConfig, logger hclog.Logger) *HTTPClient {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  logger.Named("calendar"),
	}
}

// Query fetches the feed and returns the duty and hand-off events whose date
// falls within [start, end] inclusive. Event dates are normalized to the
// configured location, so feed timestamps in other zones still match the
// computed schedule dates.
func (c *HTTPClient) Query(start, end time.Time) ([]Event, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar feed: %w", err)
	}
	if err := validateFeed(string(body)); err != nil {
		return nil, err
	}

	first := dateOnly(start.In(c.cfg.Location))
	last := dateOnly(end.In(c.cfg.Location))

	var events []Event
	decoder := ical.NewDecoder(bytes.NewReader(body))
	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding calendar feed: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			event, ok := c.parseEvent(comp)
			if !ok {
				continue
			}
			if event.Date.Before(first) || event.Date.After(last) {
				continue
			}
			events = append(events, event)
		}
	}

	c.log.Debug("queried calendar feed", "start", first, "end", last, "events", len(events))
	return events, nil
}

func (c *HTTPClient) parseEvent(comp *ical.Component) (Event, bool) {
	event := Event{comp: comp}

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		event.UID = prop.Value
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		if text, err := prop.Text(); err == nil {
			event.Subject = text
		} else {
			event.Subject = prop.Value
		}
	}

	switch {
	case c.cfg.DutyPattern.MatchString(event.Subject):
		event.Kind = KindDuty
	case c.cfg.HandoffPattern.MatchString(event.Subject):
		event.Kind = KindHandoff
	default:
		c.log.Debug("skipping unclassified event", "subject", event.Subject)
		return Event{}, false
	}

	if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
		if t, err := prop.DateTime(c.cfg.Location); err == nil {
			event.Start = t.In(c.cfg.Location)
		}
	}
	if event.Start.IsZero() {
		c.log.Debug("skipping event without start time", "subject", event.Subject)
		return Event{}, false
	}
	if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
		if t, err := prop.DateTime(c.cfg.Location); err == nil {
			event.End = t.In(c.cfg.Location)
		}
	}

	event.Date = dateOnly(event.Start)
	event.Attendees = requiredAttendees(comp)
	return event, true
}

// requiredAttendees extracts the email addresses of an event's required
// attendees. Attendees without an explicit role count as required.
func requiredAttendees(comp *ical.Component) []string {
	var emails []string
	for _, prop := range comp.Props.Values(ical.PropAttendee) {
		role := prop.Params.Get(ical.ParamRole)
		if role != "" && role != "REQ-PARTICIPANT" {
			continue
		}
		email := prop.Value
		if strings.HasPrefix(strings.ToLower(email), "mailto:") {
			email = email[len("mailto:"):]
		}
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// CreateAllDayEvent creates a one-day all-day event.
func (c *HTTPClient) CreateAllDayEvent(date time.Time, subject string, attendees []string, location string, categories []string, free bool) error {
	uid := uuid.NewString()
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	setTimestamp(event.Component)
	event.Props.SetText(ical.PropSummary, subject)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetValueType(ical.ValueDate)
	start.Value = date.Format("20060102")
	event.Props.Set(start)

	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetValueType(ical.ValueDate)
	end.Value = date.AddDate(0, 0, 1).Format("20060102")
	event.Props.Set(end)

	if free {
		event.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	}
	setCommonProps(event.Component, attendees, location, categories)

	c.log.Debug("creating all-day event", "uid", uid, "subject", subject, "date", date.Format("2006-01-02"))
	return c.put(uid, event.Component)
}

// CreateEvent creates a timed event.
func (c *HTTPClient) CreateEvent(start, end time.Time, subject string, attendees []string, location string, categories []string) error {
	uid := uuid.NewString()
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	setTimestamp(event.Component)
	event.Props.SetText(ical.PropSummary, subject)

	startProp := ical.NewProp(ical.PropDateTimeStart)
	startProp.SetDateTime(start)
	event.Props.Set(startProp)

	endProp := ical.NewProp(ical.PropDateTimeEnd)
	endProp.SetDateTime(end)
	event.Props.Set(endProp)

	setCommonProps(event.Component, attendees, location, categories)

	c.log.Debug("creating event", "uid", uid, "subject", subject, "start", start)
	return c.put(uid, event.Component)
}

// UpdateAttendees rewrites the required-attendee list of a previously
// queried event and writes the event back.
func (c *HTTPClient) UpdateAttendees(event *Event, attendees []string) error {
	if event.comp == nil || event.UID == "" {
		return fmt.Errorf("event %q is not writable: no source component", event.Subject)
	}

	delete(event.comp.Props, ical.PropAttendee)
	addAttendees(event.comp, attendees)
	event.Attendees = append([]string(nil), attendees...)

	c.log.Debug("updating event attendees", "uid", event.UID, "subject", event.Subject, "attendees", attendees)
	return c.put(event.UID, event.comp)
}

func (c *HTTPClient) put(uid string, comp *ical.Component) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, comp)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encoding event %s: %w", uid, err)
	}

	url := strings.TrimSuffix(c.cfg.CollectionURL, "/") + "/" + uid + ".ics"
	req, err := http.NewRequest(http.MethodPut, url, &buf)
	if err != nil {
		return fmt.Errorf("building request for event %s: %w", uid, err)
	}
	req.Header.Set("Content-Type", "text/calendar; charset=utf-8")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("writing event %s: %w", uid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("calendar rejected event %s with status %d", uid, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}
}

func setTimestamp(comp *ical.Component) {
	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(time.Now().UTC())
	comp.Props.Set(stamp)
}

func setCommonProps(comp *ical.Component, attendees []string, location string, categories []string) {
	if location != "" {
		comp.Props.SetText(ical.PropLocation, location)
	}
	if len(categories) > 0 {
		comp.Props.SetText(ical.PropCategories, strings.Join(categories, ","))
	}
	addAttendees(comp, attendees)
}

func addAttendees(comp *ical.Component, attendees []string) {
	for _, email := range attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Params.Set(ical.ParamRole, "REQ-PARTICIPANT")
		prop.Value = "mailto:" + email
		comp.Props.Add(prop)
	}
}

func validateFeed(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("received HTML instead of iCalendar data - check if URL requires authentication")
	}
	if !strings.HasPrefix(trimmed, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 100 {
			preview = preview[:100]
		}
		return fmt.Errorf("invalid iCalendar feed - expected BEGIN:VCALENDAR, got: %s", preview)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
