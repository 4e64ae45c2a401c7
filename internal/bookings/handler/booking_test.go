package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	createFunc       func(ctx context.Context, booking *model.Booking) (string, error)
	getByIDFunc      func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id string, actor model.Actor, actorID string, newStatus model.BookingStatus, note string) error
	cancelFunc       func(ctx context.Context, id string, actor model.Actor, actorID string, reason string) error
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return "64f000000000000000000001", nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) VehicleSchedule(ctx context.Context, vehicleID string, until time.Time) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, actor model.Actor, actorID string, newStatus model.BookingStatus, note string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, actor, actorID, newStatus, note)
	}
	return nil
}

func (m *mockBookingService) Cancel(ctx context.Context, id string, actor model.Actor, actorID string, reason string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id, actor, actorID, reason)
	}
	return nil
}

func (m *mockBookingService) AssignDriver(ctx context.Context, id string, driverID string) error {
	return nil
}

func (m *mockBookingService) Invoice(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) ConfirmPayment(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) RequestReview(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) SubmitReview(ctx context.Context, id string, rating int, comment string) error {
	return nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	h := NewBookingHandler(svc, logger.Discard())
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_ReturnsID(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{"vehicle_id":"v1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data["id"] != "64f000000000000000000001" {
		t.Errorf("expected booking id in response, got %+v", body)
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(context.Context, *model.Booking) (string, error) {
			return "", apperrors.Conflict("vehicle already booked for the requested window")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict code, got %q", body.Code)
	}
	if !strings.Contains(body.Error, "already booked") {
		t.Errorf("expected user-facing message, got %q", body.Error)
	}
}

func TestGetByID_NotFoundMapsTo404(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateStatus_PassesActor(t *testing.T) {
	var gotActor model.Actor
	var gotStatus model.BookingStatus
	svc := &mockBookingService{
		updateStatusFunc: func(_ context.Context, _ string, actor model.Actor, _ string, newStatus model.BookingStatus, _ string) error {
			gotActor = actor
			gotStatus = newStatus
			return nil
		},
	}
	router := newTestRouter(svc)

	body := `{"actor":"driver","actor_id":"d1","status":"pickup"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/id/b1/status", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if gotActor != model.ActorDriver || gotStatus != model.StatusPickup {
		t.Errorf("expected driver/pickup passed through, got %s/%s", gotActor, gotStatus)
	}
}

func TestCancel_StateErrorMapsTo409(t *testing.T) {
	svc := &mockBookingService{
		cancelFunc: func(context.Context, string, model.Actor, string, string) error {
			return apperrors.State("cannot move booking from confirmed to cancelled")
		},
	}
	router := newTestRouter(svc)

	body := `{"actor":"customer","actor_id":"c1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/b1/cancel", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetAll_InvalidLimit(t *testing.T) {
	router := newTestRouter(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
