package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartercar/booking-service/internal/booking"
	"github.com/cartercar/booking-service/internal/messaging/twilioclient"
	"github.com/cartercar/booking-service/pkg/logging"
)

// SMSClient sends outbound SMS messages.
type SMSClient interface {
	SendMessage(ctx context.Context, from, to, body string) (*twilioclient.Message, error)
}

// Config holds the business contact points the notifier targets.
type Config struct {
	BusinessPhone string
	BusinessEmail string
	SMSFromNumber string
}

// Service sends the booking notifications: the SMS alert and the
// business, customer, and error-report emails. A nil SMS client means
// the gateway credentials were never configured; that degrades the SMS
// step to a recorded failure, not a fatal one.
type Service struct {
	email  EmailSender
	sms    SMSClient
	cfg    Config
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, sms SMSClient, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:  email,
		sms:    sms,
		cfg:    cfg,
		logger: logger,
	}
}

// Alert texts the business about a new booking.
func (s *Service) Alert(ctx context.Context, req *booking.Request, bookingID string) error {
	if s.sms == nil {
		return &booking.ConfigError{Reason: "notify: twilio credentials not configured"}
	}

	to := "+1" + s.cfg.BusinessPhone
	msg, err := s.sms.SendMessage(ctx, s.cfg.SMSFromNumber, to, smsBody(req, bookingID))
	if err != nil {
		var apiErr *twilioclient.APIError
		if errors.As(err, &apiErr) {
			return &booking.GatewayError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return &booking.GatewayError{Err: err}
	}

	s.logger.Info("sms alert sent", "booking_id", bookingID, "message_sid", msg.Sid)
	return nil
}

// smsBody composes the plain-text alert.
func smsBody(req *booking.Request, bookingID string) string {
	urgencyFlag := "📋 New Booking"
	if req.IsEmergency {
		urgencyFlag = "🚨 EMERGENCY 🚨"
	}
	fleetFlag := ""
	if req.IsFleet {
		fleetFlag = " [FLEET]"
	}
	callToAction := "Call within 1 hour"
	if req.IsEmergency {
		callToAction = "⚡ RESPOND IMMEDIATELY!"
	}

	return fmt.Sprintf(`%s%s

Carter Car - New Appointment Request
ID: %s
Score: %d/100

Customer: %s
Phone: %s
Vehicle: %s
Service: %s
When: %s %s

%s`,
		urgencyFlag, fleetFlag,
		bookingID, req.LeadScore,
		req.Name, req.Phone, req.Vehicle, req.Service,
		req.PreferredDate, req.PreferredTime,
		callToAction,
	)
}

// BusinessNotification emails the full booking rundown to the business.
func (s *Service) BusinessNotification(ctx context.Context, req *booking.Request, bookingID, eventID string) error {
	urgencyLabel := "📋 New Booking Request"
	if req.IsEmergency {
		urgencyLabel = "🚨 EMERGENCY REQUEST"
	}

	msg := EmailMessage{
		To:      s.cfg.BusinessEmail,
		Subject: fmt.Sprintf("%s - %s - %s", urgencyLabel, req.Name, req.Vehicle),
		Body:    smsBody(req, bookingID),
		HTML:    businessEmailHTML(req, bookingID, eventID),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return &booking.MailError{Op: "business notification", Err: err}
	}
	return nil
}

// CustomerConfirmation emails the customer that their request was
// received. A missing or placeholder address is a silent skip, never a
// failure.
func (s *Service) CustomerConfirmation(ctx context.Context, req *booking.Request) error {
	if !req.HasCustomerEmail() {
		s.logger.Info("customer email not provided, skipping confirmation", "customer", req.Name)
		return nil
	}

	msg := EmailMessage{
		To:      req.Email,
		ToName:  req.Name,
		Subject: "Carter Car Mobile Mechanic - Appointment Request Received",
		Body:    fmt.Sprintf("Hi %s, we received your appointment request and will contact you shortly to confirm the details.", req.Name),
		HTML:    customerEmailHTML(req),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return &booking.MailError{Op: "customer confirmation", Err: err}
	}
	return nil
}

// ErrorReport emails the business one consolidated rundown of every
// step that failed while processing a booking.
func (s *Service) ErrorReport(ctx context.Context, req *booking.Request, report booking.Report) error {
	msg := EmailMessage{
		To:      s.cfg.BusinessEmail,
		Subject: "❌ ERROR: Carter Car Booking Failed - " + req.Name,
		Body:    fmt.Sprintf("A booking request from %s was processed, but %d step(s) failed.", req.Name, len(report)),
		HTML:    errorReportHTML(req, report),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return &booking.MailError{Op: "error report", Err: err}
	}
	s.logger.Info("error report sent", "customer", req.Name, "failed_steps", len(report))
	return nil
}
