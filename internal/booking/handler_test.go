package booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var errFake = errors.New("fake failure")

func newTestHandler(store *fakeStore, scheduler *fakeScheduler, texter *fakeTexter, mailer *fakeMailer) *Handler {
	svc := NewService(store, scheduler, texter, mailer, nil, nil)
	return NewHandler(svc, nil)
}

func postBooking(t *testing.T, h *Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateBooking(w, req)
	return w
}

func TestCreateBooking_Success(t *testing.T) {
	h := newTestHandler(&fakeStore{id: "BK100"}, &fakeScheduler{id: "evt-1"}, &fakeTexter{}, &fakeMailer{})

	body, _ := json.Marshal(Request{Name: "Dana", Phone: "5551234", Vehicle: "2015 Civic"})
	w := postBooking(t, h, body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != StatusSuccess {
		t.Errorf("expected success, got %s", resp.Status)
	}
	if resp.ID != "BK100" {
		t.Errorf("expected booking id BK100, got %s", resp.ID)
	}
	if resp.EventID == nil || *resp.EventID != "evt-1" {
		t.Errorf("expected event id evt-1, got %v", resp.EventID)
	}
}

func TestCreateBooking_InvalidJSON(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeScheduler{}, &fakeTexter{}, &fakeMailer{})

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.CreateBooking(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != StatusError {
		t.Errorf("expected error status, got %s", resp.Status)
	}
}

func TestCreateBooking_StoreFailureReturns500(t *testing.T) {
	store := &fakeStore{err: &StoreError{Err: errFake}}
	h := newTestHandler(store, &fakeScheduler{}, &fakeTexter{}, &fakeMailer{})

	body, _ := json.Marshal(Request{Name: "Dana"})
	w := postBooking(t, h, body)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var resp Response
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != StatusError {
		t.Errorf("expected error status, got %s", resp.Status)
	}
}

func TestCreateBooking_PartialSuccessStays200(t *testing.T) {
	texter := &fakeTexter{err: &GatewayError{StatusCode: 500, Body: "down"}}
	h := newTestHandler(&fakeStore{id: "BK100"}, &fakeScheduler{id: "evt-1"}, texter, &fakeMailer{})

	body, _ := json.Marshal(Request{Name: "Dana"})
	w := postBooking(t, h, body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp Response
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != StatusPartialSuccess {
		t.Errorf("expected partial_success, got %s", resp.Status)
	}
}

func TestCreateBooking_NullEventIDWhenSchedulingFails(t *testing.T) {
	scheduler := &fakeScheduler{err: &ScheduleError{Err: errFake}}
	h := newTestHandler(&fakeStore{id: "BK100"}, scheduler, &fakeTexter{}, &fakeMailer{})

	body, _ := json.Marshal(Request{Name: "Dana"})
	w := postBooking(t, h, body)

	if !strings.Contains(w.Body.String(), `"eventId":null`) {
		t.Errorf("expected null eventId in response, got %s", w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&fakeStore{}, &fakeScheduler{}, &fakeTexter{}, &fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
