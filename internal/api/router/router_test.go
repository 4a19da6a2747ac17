package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cartercar/booking-service/internal/booking"
)

type stubStore struct{}

func (stubStore) Append(ctx context.Context, req *booking.Request) (string, error) {
	return "BK1", nil
}

type stubScheduler struct{}

func (stubScheduler) Schedule(ctx context.Context, req *booking.Request) (string, error) {
	return "evt-1", nil
}

type stubTexter struct{}

func (stubTexter) Alert(ctx context.Context, req *booking.Request, bookingID string) error {
	return nil
}

type stubMailer struct{}

func (stubMailer) BusinessNotification(ctx context.Context, req *booking.Request, bookingID, eventID string) error {
	return nil
}

func (stubMailer) CustomerConfirmation(ctx context.Context, req *booking.Request) error {
	return nil
}

func (stubMailer) ErrorReport(ctx context.Context, req *booking.Request, report booking.Report) error {
	return nil
}

func newTestRouter(origins []string) http.Handler {
	svc := booking.NewService(stubStore{}, stubScheduler{}, stubTexter{}, stubMailer{}, nil, nil)
	return New(&Config{
		BookingHandler:     booking.NewHandler(svc, nil),
		CORSAllowedOrigins: origins,
	})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestBookingsRoute(t *testing.T) {
	r := newTestRouter(nil)

	body := strings.NewReader(`{"name":"Dana","phone":"5551234","vehicle":"2015 Civic"}`)
	req := httptest.NewRequest(http.MethodPost, "/bookings", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":"BK1"`) {
		t.Errorf("expected booking id in response, got %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter([]string{"https://cartercarmechanic.com"})

	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", "https://cartercarmechanic.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://cartercarmechanic.com" {
		t.Errorf("expected allowed origin echoed back, got %q", got)
	}
}
