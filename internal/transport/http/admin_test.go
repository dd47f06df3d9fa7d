package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/domain"
)

func TestAdmin_RequiresKey(t *testing.T) {
	rt := newTestRouter()
	rt.reader.res = sampleReservation()

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations/abc", nil)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/reservations/abc", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec = httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with wrong key, got %d", rec.Code)
	}
}

func TestAdmin_DisabledWithoutConfiguredKey(t *testing.T) {
	handler := RequireAdminKey("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations/abc", nil)
	req.Header.Set("X-Admin-Key", "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 when no key is configured, got %d", rec.Code)
	}
}

func TestAdmin_GetReservation(t *testing.T) {
	rt := newTestRouter()
	rt.reader.res = sampleReservation()

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations/"+rt.reader.res.ID, nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp reservationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != rt.reader.res.ID {
		t.Fatalf("expected reservation %s, got %s", rt.reader.res.ID, resp.ID)
	}
}

func TestAdmin_ResolveCancellation(t *testing.T) {
	rt := newTestRouter()
	res := sampleReservation()
	res.Status = domain.StatusCancelled
	rt.lifecycle.res = res

	body := `{"approve": true}`
	req := httptest.NewRequest(http.MethodPost, "/admin/reservations/"+res.ID+"/cancellation/resolve", strings.NewReader(body))
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rt.lifecycle.last != "resolve_cancellation" {
		t.Fatalf("expected resolve_cancellation, got %s", rt.lifecycle.last)
	}
	if !rt.lifecycle.resolve.Approve || rt.lifecycle.resolve.ReservationID != res.ID {
		t.Fatalf("unexpected input: %+v", rt.lifecycle.resolve)
	}
}

func TestAdmin_ResolveChangeReject(t *testing.T) {
	rt := newTestRouter()
	rt.lifecycle.res = sampleReservation()

	body := `{"approve": false}`
	req := httptest.NewRequest(http.MethodPost, "/admin/reservations/abc/change/resolve", strings.NewReader(body))
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rt.lifecycle.last != "resolve_change" {
		t.Fatalf("expected resolve_change, got %s", rt.lifecycle.last)
	}
	if rt.lifecycle.resolve.Approve {
		t.Fatalf("expected reject forwarded")
	}
}

func TestAdmin_RentalFlow(t *testing.T) {
	rt := newTestRouter()
	res := sampleReservation()
	res.Status = domain.StatusInProgress
	rt.lifecycle.res = res

	req := httptest.NewRequest(http.MethodPost, "/admin/reservations/"+res.ID+"/rental/begin", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rt.lifecycle.last != "begin_rental" {
		t.Fatalf("expected begin_rental, got %s", rt.lifecycle.last)
	}
	if rt.lifecycle.rentalID != res.ID {
		t.Fatalf("expected path id forwarded, got %q", rt.lifecycle.rentalID)
	}

	res.Status = domain.StatusCompleted
	rt.lifecycle.res = res

	req = httptest.NewRequest(http.MethodPost, "/admin/reservations/"+res.ID+"/rental/complete", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec = httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rt.lifecycle.last != "complete_rental" {
		t.Fatalf("expected complete_rental, got %s", rt.lifecycle.last)
	}

	var resp reservationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "completed" {
		t.Fatalf("expected completed, got %s", resp.Status)
	}
}

func TestAdmin_RentalWrongStatus(t *testing.T) {
	rt := newTestRouter()
	rt.lifecycle.err = domain.ErrWrongStatus

	req := httptest.NewRequest(http.MethodPost, "/admin/reservations/abc/rental/begin", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Code != "wrong_status" {
		t.Fatalf("expected code wrong_status, got %s", resp.Code)
	}
}

func TestAdmin_IssueToken(t *testing.T) {
	rt := newTestRouter()
	expires := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	rt.access.issued = app.EnsureTokenResult{
		PlainToken: "fresh-token",
		Rotated:    true,
		ExpiresAt:  expires,
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/reservations/abc/token", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rt.access.issuedFor != "abc" {
		t.Fatalf("expected issue for path id, got %q", rt.access.issuedFor)
	}
	var resp issueTokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PublicToken != "fresh-token" || !resp.Rotated {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("expected expiry %v, got %v", expires, resp.ExpiresAt)
	}
}
