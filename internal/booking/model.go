package booking

import (
	"strconv"
	"strings"
	"time"
)

// NotProvided is the sentinel the website form submits for optional
// contact fields the customer left blank.
const NotProvided = "Not provided"

// Request is one booking form submission as posted by the website.
// Fields are taken at face value; nothing beyond a successful decode is
// validated before use.
type Request struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Vehicle       string `json:"vehicle"`
	Service       string `json:"service"`
	Location      string `json:"location"`
	Details       string `json:"details"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	IsEmergency   bool   `json:"isEmergency"`
	IsFleet       bool   `json:"isFleet"`
	LeadScore     int    `json:"leadScore"`
	Timestamp     string `json:"timestamp"`
}

// HasCustomerEmail reports whether the customer supplied a usable email
// address. The form submits "Not provided" when the field is left blank.
func (r *Request) HasCustomerEmail() bool {
	return r.Email != "" && !strings.EqualFold(r.Email, NotProvided)
}

// Priority classifies a booking for highlighting and calendar coloring.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityFleet
	PriorityHighValue
	PriorityEmergency
)

// highValueLeadScore is the lead score at or above which a booking is
// flagged as high value.
const highValueLeadScore = 80

// Classify returns the booking's priority. Emergency wins over a high
// lead score, which wins over fleet status.
func (r *Request) Classify() Priority {
	switch {
	case r.IsEmergency:
		return PriorityEmergency
	case r.LeadScore >= highValueLeadScore:
		return PriorityHighValue
	case r.IsFleet:
		return PriorityFleet
	default:
		return PriorityNone
	}
}

// Record is a stored booking: the request plus the identifiers assigned
// while processing it. EventID stays empty when scheduling fails.
type Record struct {
	Request
	BookingID string `json:"bookingId"`
	EventID   string `json:"eventId,omitempty"`
}

// bookingIDPrefix tags generated booking identifiers.
const bookingIDPrefix = "BK"

// NewBookingID derives a booking identifier from the given instant.
// Uniqueness is practical, not cryptographic: two requests within the
// same millisecond would collide.
func NewBookingID(now time.Time) string {
	return bookingIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// YesNo renders a flag the way the booking log spells it.
func YesNo(v bool) string {
	if v {
		return "YES"
	}
	return "No"
}
