package booking

import (
	"fmt"
)

// Each failure kind a processing step can produce is a distinct error
// type so callers can branch with errors.As instead of matching message
// strings. StoreError is the only fatal kind; every other kind is
// recorded in the execution report and processing continues.

// StoreError reports a failed append to the booking log. Fatal: when the
// log cannot record the booking, nothing else may run.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("booking store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ScheduleError reports a failed calendar event creation.
type ScheduleError struct {
	Err error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("appointment scheduler: %v", e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// ConfigError reports a notification step that cannot run because its
// gateway credentials are not configured.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// GatewayError reports an SMS gateway rejection. StatusCode and Body
// carry the gateway response when one was received; Err carries
// transport-level failures.
type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sms gateway: %v", e.Err)
	}
	return fmt.Sprintf("sms gateway: status %d - %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// MailError reports a failed email send. Op names which email was being
// sent.
type MailError struct {
	Op  string
	Err error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("%s email: %v", e.Op, e.Err)
}

func (e *MailError) Unwrap() error { return e.Err }
