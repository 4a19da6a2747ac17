package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cartercar/booking-service/internal/booking"
	"github.com/cartercar/booking-service/internal/messaging/twilioclient"
)

type fakeEmailSender struct {
	sent []EmailMessage
	err  error
}

func (f *fakeEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeSMSClient struct {
	from, to, body string
	err            error
}

func (f *fakeSMSClient) SendMessage(ctx context.Context, from, to, body string) (*twilioclient.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.from, f.to, f.body = from, to, body
	return &twilioclient.Message{Sid: "SM1", Status: "queued"}, nil
}

func testRequest() *booking.Request {
	return &booking.Request{
		Name: "Dana", Phone: "5551234", Email: "dana@example.com",
		Vehicle: "2015 Civic", Service: "brakes", Location: "Downtown",
		PreferredDate: "2026-09-01", PreferredTime: "2:00 PM",
		LeadScore: 55, Timestamp: "2026-08-30T12:00:00Z",
	}
}

func testConfig() Config {
	return Config{
		BusinessPhone: "3176431578",
		BusinessEmail: "shop@example.com",
		SMSFromNumber: "+15550002222",
	}
}

func TestAlert_ConfigErrorWithoutSMSClient(t *testing.T) {
	svc := NewService(&fakeEmailSender{}, nil, testConfig(), nil)

	err := svc.Alert(context.Background(), testRequest(), "BK1")
	if err == nil {
		t.Fatal("expected error")
	}
	var cfgErr *booking.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected *booking.ConfigError, got %T", err)
	}
}

func TestAlert_SendsToBusinessPhone(t *testing.T) {
	sms := &fakeSMSClient{}
	svc := NewService(&fakeEmailSender{}, sms, testConfig(), nil)

	req := testRequest()
	req.IsEmergency = true
	req.IsFleet = true
	if err := svc.Alert(context.Background(), req, "BK42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sms.to != "+13176431578" {
		t.Errorf("expected business number, got %s", sms.to)
	}
	if sms.from != "+15550002222" {
		t.Errorf("expected configured from number, got %s", sms.from)
	}
	for _, want := range []string{"EMERGENCY", "[FLEET]", "BK42", "Score: 55/100", "Dana", "RESPOND IMMEDIATELY"} {
		if !strings.Contains(sms.body, want) {
			t.Errorf("expected SMS body to contain %q:\n%s", want, sms.body)
		}
	}
}

func TestAlert_GatewayErrorCarriesStatus(t *testing.T) {
	sms := &fakeSMSClient{err: &twilioclient.APIError{StatusCode: 500, Body: "upstream down"}}
	svc := NewService(&fakeEmailSender{}, sms, testConfig(), nil)

	err := svc.Alert(context.Background(), testRequest(), "BK1")
	var gwErr *booking.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *booking.GatewayError, got %T", err)
	}
	if gwErr.StatusCode != 500 || gwErr.Body != "upstream down" {
		t.Errorf("expected gateway status propagated, got %+v", gwErr)
	}
}

func TestAlert_TransportErrorWrapped(t *testing.T) {
	sms := &fakeSMSClient{err: errors.New("connection refused")}
	svc := NewService(&fakeEmailSender{}, sms, testConfig(), nil)

	err := svc.Alert(context.Background(), testRequest(), "BK1")
	var gwErr *booking.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected *booking.GatewayError, got %T", err)
	}
	if gwErr.Err == nil {
		t.Error("expected transport error to be carried")
	}
}

func TestBusinessNotification_IncludesCalendarLink(t *testing.T) {
	email := &fakeEmailSender{}
	svc := NewService(email, nil, testConfig(), nil)

	if err := svc.BusinessNotification(context.Background(), testRequest(), "BK42", "evt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}

	msg := email.sent[0]
	if msg.To != "shop@example.com" {
		t.Errorf("expected business recipient, got %s", msg.To)
	}
	if !strings.Contains(msg.HTML, "calendar.google.com/calendar/event?eid=") {
		t.Error("expected calendar deep link in business email")
	}
	if !strings.Contains(msg.HTML, "BK42") {
		t.Error("expected booking id in business email")
	}
}

func TestBusinessNotification_OmitsCalendarRowWithoutEvent(t *testing.T) {
	email := &fakeEmailSender{}
	svc := NewService(email, nil, testConfig(), nil)

	if err := svc.BusinessNotification(context.Background(), testRequest(), "BK42", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(email.sent[0].HTML, "Added to Calendar") {
		t.Error("expected no calendar row when scheduling failed")
	}
}

func TestBusinessNotification_MailError(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp down")}
	svc := NewService(email, nil, testConfig(), nil)

	err := svc.BusinessNotification(context.Background(), testRequest(), "BK1", "")
	var mailErr *booking.MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("expected *booking.MailError, got %T", err)
	}
}

func TestCustomerConfirmation_SkipsSentinelAddress(t *testing.T) {
	email := &fakeEmailSender{}
	svc := NewService(email, nil, testConfig(), nil)

	for _, addr := range []string{"", "Not provided", "not provided"} {
		req := testRequest()
		req.Email = addr
		if err := svc.CustomerConfirmation(context.Background(), req); err != nil {
			t.Errorf("expected silent skip for %q, got %v", addr, err)
		}
	}
	if len(email.sent) != 0 {
		t.Errorf("expected no emails sent, got %d", len(email.sent))
	}
}

func TestCustomerConfirmation_SendsToCustomer(t *testing.T) {
	email := &fakeEmailSender{}
	svc := NewService(email, nil, testConfig(), nil)

	req := testRequest()
	req.IsEmergency = true
	if err := svc.CustomerConfirmation(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := email.sent[0]
	if msg.To != "dana@example.com" {
		t.Errorf("expected customer recipient, got %s", msg.To)
	}
	if !strings.Contains(msg.HTML, "within 30 minutes") {
		t.Error("expected emergency response window in customer email")
	}
	if !strings.Contains(msg.HTML, "$45 Service Fee") {
		t.Error("expected service fee explainer in customer email")
	}
}

func TestErrorReport_ListsFailedSteps(t *testing.T) {
	email := &fakeEmailSender{}
	svc := NewService(email, nil, testConfig(), nil)

	report := booking.Report{
		{Step: booking.StepSMS, Reason: "sms gateway: status 500 - upstream down"},
		{Step: booking.StepSchedule, Reason: "calendar not found"},
	}
	if err := svc.ErrorReport(context.Background(), testRequest(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := email.sent[0]
	if !strings.Contains(msg.Subject, "Dana") {
		t.Errorf("expected customer name in subject, got %s", msg.Subject)
	}
	for _, want := range []string{booking.StepSMS, booking.StepSchedule, "upstream down"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected error report to contain %q", want)
		}
	}
}

func TestErrorReport_MailError(t *testing.T) {
	email := &fakeEmailSender{err: errors.New("smtp down")}
	svc := NewService(email, nil, testConfig(), nil)

	err := svc.ErrorReport(context.Background(), testRequest(), booking.Report{{Step: booking.StepSMS, Reason: "x"}})
	var mailErr *booking.MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("expected *booking.MailError, got %T", err)
	}
}
