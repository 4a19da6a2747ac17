// Package schedule turns booking requests into Google Calendar
// appointments on the business calendar.
package schedule

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/cartercar/booking-service/internal/booking"
	"github.com/cartercar/booking-service/pkg/logging"
)

// appointmentLength is the length of every appointment window.
const appointmentLength = 2 * time.Hour

// defaultLocation stands in when the customer left the location blank.
const defaultLocation = "Customer Location (see details)"

// Scheduler creates calendar events for bookings.
type Scheduler struct {
	svc        *calendar.Service
	calendarID string
	logger     *logging.Logger
	now        func() time.Time
}

// New creates a calendar-backed scheduler.
func New(svc *calendar.Service, calendarID string, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		svc:        svc,
		calendarID: calendarID,
		logger:     logger,
		now:        time.Now,
	}
}

// Schedule creates a 2-hour appointment for the booking and returns the
// created event id. Unparseable dates fall back to today and
// unparseable times to 9:00 AM; the event still gets created, just at a
// degraded slot. Failures come back as *booking.ScheduleError.
func (s *Scheduler) Schedule(ctx context.Context, req *booking.Request) (string, error) {
	if _, err := s.svc.Calendars.Get(s.calendarID).Context(ctx).Do(); err != nil {
		return "", &booking.ScheduleError{Err: fmt.Errorf("schedule: calendar %q not found: %w", s.calendarID, err)}
	}

	start, end := s.window(req)

	location := req.Location
	if location == "" {
		location = defaultLocation
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s - %s", req.Service, req.Name, req.Vehicle),
		Description: eventDescription(req),
		Location:    location,
		ColorId:     eventColorID(req.Classify()),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}

	created, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", &booking.ScheduleError{Err: fmt.Errorf("schedule: create event: %w", err)}
	}

	s.logger.Info("calendar event created",
		"event_id", created.Id,
		"start", start.Format(time.RFC3339),
		"customer", req.Name,
	)
	return created.Id, nil
}

// window derives the appointment window from the requested date and
// time strings.
func (s *Scheduler) window(req *booking.Request) (time.Time, time.Time) {
	day, ok := parseDate(req.PreferredDate)
	if !ok {
		day = s.now()
		s.logger.Warn("could not parse preferred date, using current date", "preferred_date", req.PreferredDate)
	}

	hour, minute, ok := parseClock(req.PreferredTime)
	if !ok {
		hour, minute = 9, 0
		s.logger.Warn("could not parse preferred time, defaulting to 9:00 AM", "preferred_time", req.PreferredTime)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local)
	return start, start.Add(appointmentLength)
}

// dateLayouts are the formats the website form is known to submit.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var clockPattern = regexp.MustCompile(`(?i)(\d+):(\d+)\s*(AM|PM)`)

// parseClock parses strings like "9:00 AM" or "2:30pm" into a 24-hour
// clock. 12 AM maps to hour 0 and 12 PM stays 12.
func parseClock(value string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	period := strings.ToUpper(m[3])

	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour, minute, true
}

// eventColorID maps a booking priority to a Google Calendar color id:
// tomato for emergencies, tangerine for high-value leads, basil for
// fleet work.
func eventColorID(p booking.Priority) string {
	switch p {
	case booking.PriorityEmergency:
		return "11"
	case booking.PriorityHighValue:
		return "6"
	case booking.PriorityFleet:
		return "10"
	default:
		return ""
	}
}

func eventDescription(req *booking.Request) string {
	details := req.Details
	if details == "" {
		details = "No additional details"
	}
	return strings.TrimSpace(fmt.Sprintf(`CARTER CAR APPOINTMENT

Customer: %s
Phone: %s
Email: %s

Vehicle: %s
Service: %s
Location: %s

Details: %s

Emergency: %s
Fleet Service: %s
Lead Score: %d/100

$45 Service Fee - Credited to repair cost`,
		req.Name, req.Phone, req.Email,
		req.Vehicle, req.Service, req.Location,
		details,
		booking.YesNo(req.IsEmergency), booking.YesNo(req.IsFleet), req.LeadScore,
	))
}
