package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/cartercar/booking-service/internal/observability/metrics"
	"github.com/cartercar/booking-service/pkg/logging"
)

// Store appends a booking to the persistent booking log and returns the
// assigned booking identifier.
type Store interface {
	Append(ctx context.Context, req *Request) (string, error)
}

// Scheduler creates a calendar appointment for a booking and returns the
// created event's identifier.
type Scheduler interface {
	Schedule(ctx context.Context, req *Request) (string, error)
}

// Texter sends the SMS alert to the business.
type Texter interface {
	Alert(ctx context.Context, req *Request, bookingID string) error
}

// Mailer sends the booking emails.
type Mailer interface {
	BusinessNotification(ctx context.Context, req *Request, bookingID, eventID string) error
	CustomerConfirmation(ctx context.Context, req *Request) error
	ErrorReport(ctx context.Context, req *Request, report Report) error
}

// Status is the outcome reported to the caller.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialSuccess Status = "partial_success"
	StatusError          Status = "error"
)

// Step names as they appear in execution reports and the error-report
// email.
const (
	StepStore         = "Save to Sheet"
	StepSchedule      = "Create Calendar Event"
	StepSMS           = "Send SMS Alert"
	StepBusinessEmail = "Send Business Email"
	StepCustomerEmail = "Send Customer Email"
)

// state tracks where a request is in its processing sequence.
type state int

const (
	stateStoring state = iota
	stateScheduling
	stateNotifyingSMS
	stateNotifyingBusinessEmail
	stateNotifyingCustomerEmail
	stateFinalizing
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateStoring:
		return "storing"
	case stateScheduling:
		return "scheduling"
	case stateNotifyingSMS:
		return "notifying_sms"
	case stateNotifyingBusinessEmail:
		return "notifying_business_email"
	case stateNotifyingCustomerEmail:
		return "notifying_customer_email"
	case stateFinalizing:
		return "finalizing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// step is one row of the processing table. Whether a failure aborts the
// request is a property of the table, not of the call site.
type step struct {
	state state
	name  string
	fatal bool
	run   func(ctx context.Context, rec *Record) error
}

// Result is the outcome of processing one booking request.
type Result struct {
	Status    Status
	Message   string
	BookingID string
	EventID   string
	Report    Report
}

// Service drives a booking through its processing sequence: append to
// the booking log, schedule the appointment, fan out notifications, and
// send a consolidated error report if anything failed along the way.
type Service struct {
	store     Store
	scheduler Scheduler
	texter    Texter
	mailer    Mailer
	logger    *logging.Logger
	metrics   *metrics.BookingMetrics
}

// NewService creates the booking orchestrator.
func NewService(store Store, scheduler Scheduler, texter Texter, mailer Mailer, logger *logging.Logger, m *metrics.BookingMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		scheduler: scheduler,
		texter:    texter,
		mailer:    mailer,
		logger:    logger,
		metrics:   m,
	}
}

func (s *Service) steps() []step {
	return []step{
		{
			state: stateStoring,
			name:  StepStore,
			fatal: true,
			run: func(ctx context.Context, rec *Record) error {
				id, err := s.store.Append(ctx, &rec.Request)
				if err != nil {
					return err
				}
				rec.BookingID = id
				return nil
			},
		},
		{
			state: stateScheduling,
			name:  StepSchedule,
			run: func(ctx context.Context, rec *Record) error {
				id, err := s.scheduler.Schedule(ctx, &rec.Request)
				if err != nil {
					return err
				}
				rec.EventID = id
				return nil
			},
		},
		{
			state: stateNotifyingSMS,
			name:  StepSMS,
			run: func(ctx context.Context, rec *Record) error {
				return s.texter.Alert(ctx, &rec.Request, rec.BookingID)
			},
		},
		{
			state: stateNotifyingBusinessEmail,
			name:  StepBusinessEmail,
			run: func(ctx context.Context, rec *Record) error {
				return s.mailer.BusinessNotification(ctx, &rec.Request, rec.BookingID, rec.EventID)
			},
		},
		{
			state: stateNotifyingCustomerEmail,
			name:  StepCustomerEmail,
			run: func(ctx context.Context, rec *Record) error {
				return s.mailer.CustomerConfirmation(ctx, &rec.Request)
			},
		},
	}
}

// Process runs a decoded booking request through the step table. The
// first step is fatal on failure; every later step is best-effort. The
// error report is sent, best-effort, whenever at least one step failed.
func (s *Service) Process(ctx context.Context, req *Request) *Result {
	start := time.Now()
	rec := &Record{Request: *req}
	var report Report

	table := s.steps()
	for i, st := range table {
		err := st.run(ctx, rec)
		if err == nil {
			s.logger.Info("booking step completed",
				"state", st.state.String(),
				"step", st.name,
				"progress", fmt.Sprintf("%d/%d", i+1, len(table)),
				"booking_id", rec.BookingID,
			)
			continue
		}

		report = append(report, StepFailure{Step: st.name, Reason: err.Error()})
		s.metrics.ObserveStepFailure(st.name)

		if st.fatal {
			s.logger.Error("fatal booking step failed, aborting",
				"state", stateFailed.String(),
				"step", st.name,
				"error", err,
				"customer", req.Name,
			)
			s.sendErrorReport(ctx, req, report)
			s.metrics.ObserveBooking(string(StatusError), time.Since(start).Seconds())
			return &Result{
				Status:  StatusError,
				Message: err.Error(),
				Report:  report,
			}
		}

		s.logger.Warn("booking step failed, continuing",
			"state", st.state.String(),
			"step", st.name,
			"error", err,
			"booking_id", rec.BookingID,
		)
	}

	// Finalizing: the error report goes out only when something failed.
	if report.Failed() {
		s.sendErrorReport(ctx, req, report)
		s.metrics.ObserveBooking(string(StatusPartialSuccess), time.Since(start).Seconds())
		return &Result{
			Status:    StatusPartialSuccess,
			Message:   fmt.Sprintf("Booking received. %d notification(s) failed.", len(report)),
			BookingID: rec.BookingID,
			EventID:   rec.EventID,
			Report:    report,
		}
	}

	s.logger.Info("booking processed successfully", "booking_id", rec.BookingID, "customer", req.Name)
	s.metrics.ObserveBooking(string(StatusSuccess), time.Since(start).Seconds())
	return &Result{
		Status:    StatusSuccess,
		Message:   "Booking received.",
		BookingID: rec.BookingID,
		EventID:   rec.EventID,
	}
}

// sendErrorReport runs in the finalization phase where no error channel
// remains, so its own failure is logged and swallowed.
func (s *Service) sendErrorReport(ctx context.Context, req *Request, report Report) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.ErrorReport(ctx, req, report); err != nil {
		s.logger.Error("could not send error report", "error", err, "failed_steps", len(report))
	}
}
