package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/bookings/service"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Create submits a booking to the conflict guard. Both outcomes are HTTP
// 200: acceptance echoes the insert acknowledgment, rejection carries
// acknowledged:false with the conflict message.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	receipt, err := h.service.Submit(r.Context(), &booking)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, receipt); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) ListByEmail(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")

	bookings, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		h.writeError(w, "ListByEmail", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, bookings); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListByEmail", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, booking); err != nil {
		h.log.Error("failed to write JSON response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/bookings", h.ListByEmail)
	router.GET("/bookings/:id", h.GetByID)
	router.POST("/bookings", h.Create)
}
