package booking

// StepFailure records one failed processing step for a single request.
type StepFailure struct {
	Step   string `json:"step"`
	Reason string `json:"error"`
}

// Report accumulates the non-fatal failures observed while processing
// one request. It lives only for the duration of the request: it decides
// the response status and feeds the consolidated error-report email,
// then is discarded.
type Report []StepFailure

// Failed reports whether any step failed.
func (r Report) Failed() bool { return len(r) > 0 }
