package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"docportal/pkg/logger"
	"docportal/pkg/model"
)

type mockBookingService struct {
	submitFn      func(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error)
	listByEmailFn func(ctx context.Context, email string) ([]*model.Booking, error)
	getByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingService) Submit(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error) {
	return m.submitFn(ctx, booking)
}

func (m *mockBookingService) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	return m.listByEmailFn(ctx, email)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFn(ctx, id)
}

func newRouter(service *mockBookingService) *httprouter.Router {
	handler := NewBookingHandler(service, logger.New(logger.Config{Level: "error", Service: "test"}))
	router := httprouter.New()
	handler.RegisterRoutes(router)
	return router
}

func TestCreate_RejectionIsStill200(t *testing.T) {
	service := &mockBookingService{
		submitFn: func(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error) {
			return &model.BookingReceipt{
				Acknowledged: false,
				Message:      "You already have a booking on Jan 1, 2024",
			}, nil
		},
	}

	body := `{"email":"a@x.com","treatment":"Braces","appointmentDate":"Jan 1, 2024","slot":"10AM"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var receipt struct {
		Acknowledged bool   `json:"acknowledged"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	if receipt.Acknowledged {
		t.Error("rejection serialized as acknowledged")
	}
	if !strings.Contains(receipt.Message, "Jan 1, 2024") {
		t.Errorf("message %q does not name the date", receipt.Message)
	}
}

func TestCreate_AcceptanceCarriesInsertedID(t *testing.T) {
	service := &mockBookingService{
		submitFn: func(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error) {
			return &model.BookingReceipt{Acknowledged: true, InsertedID: "abc123"}, nil
		},
	}

	body := `{"email":"a@x.com","treatment":"Braces","appointmentDate":"Jan 1, 2024","slot":"10AM"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var receipt map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	if receipt["acknowledged"] != true || receipt["insertedId"] != "abc123" {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	service := &mockBookingService{
		submitFn: func(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error) {
			t.Error("service reached with malformed body")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestListByEmail_PassesQueryParam(t *testing.T) {
	var seen string
	service := &mockBookingService{
		listByEmailFn: func(ctx context.Context, email string) ([]*model.Booking, error) {
			seen = email
			return []*model.Booking{{Email: email, Treatment: "Braces"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/bookings?email=a%40x.com", nil)
	rec := httptest.NewRecorder()
	newRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if seen != "a@x.com" {
		t.Errorf("service saw email %q, want %q", seen, "a@x.com")
	}

	var bookings []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	if len(bookings) != 1 || bookings[0]["treatment"] != "Braces" {
		t.Errorf("unexpected listing: %+v", bookings)
	}
}
