package booking

import (
	"encoding/json"
	"net/http"

	"github.com/cartercar/booking-service/pkg/logging"
)

// Handler handles HTTP requests for bookings
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new booking handler
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// Response is the JSON body returned to the form front-end.
type Response struct {
	Status  Status  `json:"status"`
	Message string  `json:"message"`
	ID      string  `json:"id"`
	EventID *string `json:"eventId"`
}

// CreateBooking handles POST /bookings requests. A malformed body is the
// one failure that stops everything: no booking id exists yet and there
// is no customer data to report on.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		writeJSON(w, http.StatusBadRequest, Response{
			Status:  StatusError,
			Message: "invalid request body: " + err.Error(),
		})
		return
	}

	result := h.svc.Process(r.Context(), &req)

	resp := Response{
		Status:  result.Status,
		Message: result.Message,
		ID:      result.BookingID,
	}
	if result.EventID != "" {
		resp.EventID = &result.EventID
	}

	code := http.StatusOK
	if result.Status == StatusError {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, resp)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
