package calendar_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"triage-scheduler/calendar"
)

const feedBody = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:duty-mon\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"SUMMARY:Triage: Alice\\, Bob\r\n" +
	"DTSTART;VALUE=DATE:20260302\r\n" +
	"DTEND;VALUE=DATE:20260303\r\n" +
	"ATTENDEE;ROLE=REQ-PARTICIPANT:mailto:alice@example.com\r\n" +
	"ATTENDEE;ROLE=REQ-PARTICIPANT:mailto:bob@example.com\r\n" +
	"ATTENDEE;ROLE=OPT-PARTICIPANT:mailto:lurker@example.com\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:handoff-wed\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"SUMMARY:Triage Hand-Off\r\n" +
	"DTSTART:20260304T084500Z\r\n" +
	"DTEND:20260304T090000Z\r\n" +
	"ATTENDEE:mailto:alice@example.com\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:unrelated\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"SUMMARY:Coffee chat\r\n" +
	"DTSTART:20260304T100000Z\r\n" +
	"DTEND:20260304T103000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:duty-out-of-range\r\n" +
	"DTSTAMP:20260301T000000Z\r\n" +
	"SUMMARY:Triage: Far\\, Future\r\n" +
	"DTSTART;VALUE=DATE:20260401\r\n" +
	"DTEND;VALUE=DATE:20260402\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func newTestClient(t *testing.T, handler http.Handler) (*calendar.HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := calendar.NewHTTPClient(calendar.HTTPConfig{
		FeedURL:        server.URL + "/feed.ics",
		CollectionURL:  server.URL + "/cal",
		Username:       "triage",
		Password:       "hunter2",
		DutyPattern:    regexp.MustCompile("^Triage: "),
		HandoffPattern: regexp.MustCompile("^Triage Hand-Off"),
		Location:       time.UTC,
	}, hclog.NewNullLogger())
	return client, server
}

func feedHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "triage", user)
		assert.Equal(t, "hunter2", pass)
		io.WriteString(w, feedBody)
	})
}

func TestQueryClassifiesAndFilters(t *testing.T) {
	client, _ := newTestClient(t, feedHandler(t))

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	events, err := client.Query(start, end)
	assert.NoError(t, err)

	// Unclassified and out-of-range events are dropped.
	assert.Len(t, events, 2)

	duty := events[0]
	assert.Equal(t, calendar.KindDuty, duty.Kind)
	assert.Equal(t, "Triage: Alice, Bob", duty.Subject)
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), duty.Date)
	// Only required attendees count.
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, duty.Attendees)

	handoff := events[1]
	assert.Equal(t, calendar.KindHandoff, handoff.Kind)
	assert.Equal(t, time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC), handoff.Date)
	assert.Equal(t, []string{"alice@example.com"}, handoff.Attendees)
}

func TestQueryRejectsNonCalendarResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html><body>login required</body></html>")
	}))

	_, err := client.Query(time.Now(), time.Now())
	assert.ErrorContains(t, err, "HTML")
}

func TestQueryPropagatesHTTPError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.Query(time.Now(), time.Now())
	assert.ErrorContains(t, err, "403")
}

func TestCreateAllDayEvent(t *testing.T) {
	var putPath, putBody, contentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		putPath = r.URL.Path
		putBody = string(body)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))

	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	err := client.CreateAllDayEvent(date, "Triage: Alice, Bob",
		[]string{"alice@example.com", "bob@example.com"}, "Room 42", []string{"TicketMaster"}, true)
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(putPath, "/cal/"))
	assert.True(t, strings.HasSuffix(putPath, ".ics"))
	assert.Contains(t, contentType, "text/calendar")

	assert.Contains(t, putBody, "BEGIN:VEVENT")
	assert.Contains(t, putBody, "DTSTART;VALUE=DATE:20260302")
	assert.Contains(t, putBody, "DTEND;VALUE=DATE:20260303")
	assert.Contains(t, putBody, "TRANSP:TRANSPARENT")
	assert.Contains(t, putBody, "LOCATION:Room 42")
	assert.Contains(t, putBody, "CATEGORIES:TicketMaster")
	assert.Contains(t, putBody, "mailto:alice@example.com")
	assert.Contains(t, putBody, "mailto:bob@example.com")
	assert.Contains(t, putBody, "ROLE=REQ-PARTICIPANT")
}

func TestCreateEvent(t *testing.T) {
	var putBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		putBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))

	start := time.Date(2026, time.March, 4, 8, 45, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)
	err := client.CreateEvent(start, end, "Triage Hand-Off",
		[]string{"alice@example.com"}, "Room 42", []string{"TicketMaster"})
	assert.NoError(t, err)

	assert.Contains(t, putBody, "SUMMARY:Triage Hand-Off")
	assert.Contains(t, putBody, "20260304T084500")
	assert.Contains(t, putBody, "20260304T090000")
	assert.Contains(t, putBody, "mailto:alice@example.com")
}

func TestCreateEventPropagatesRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	err := client.CreateEvent(time.Now(), time.Now().Add(15*time.Minute),
		"Triage Hand-Off", []string{"alice@example.com"}, "Room 42", nil)
	assert.ErrorContains(t, err, "409")
}

func TestUpdateAttendeesRewritesEvent(t *testing.T) {
	var putPath, putBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, feedBody)
			return
		}
		body, _ := io.ReadAll(r.Body)
		putPath = r.URL.Path
		putBody = string(body)
		w.WriteHeader(http.StatusNoContent)
	}))

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
	events, err := client.Query(start, end)
	assert.NoError(t, err)

	var handoff *calendar.Event
	for i := range events {
		if events[i].Kind == calendar.KindHandoff {
			handoff = &events[i]
		}
	}
	assert.NotNil(t, handoff)

	newAttendees := []string{"carol@example.com", "dave@example.com"}
	assert.NoError(t, client.UpdateAttendees(handoff, newAttendees))
	assert.Equal(t, newAttendees, handoff.Attendees)

	assert.Equal(t, "/cal/handoff-wed.ics", putPath)
	assert.Contains(t, putBody, "mailto:carol@example.com")
	assert.Contains(t, putBody, "mailto:dave@example.com")
	assert.NotContains(t, putBody, "mailto:alice@example.com")
	assert.Contains(t, putBody, "SUMMARY:Triage Hand-Off")
}

func TestUpdateAttendeesRejectsSyntheticEvent(t *testing.T) {
	client, _ := newTestClient(t, feedHandler(t))

	event := &calendar.Event{UID: "", Subject: "Triage Hand-Off"}
	err := client.UpdateAttendees(event, []string{"alice@example.com"})
	assert.ErrorContains(t, err, "not writable")
}
