package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/appointments/service"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
)

type AppointmentHandler struct {
	service service.AppointmentService
	log     *logger.Logger
}

func NewAppointmentHandler(service service.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AppointmentHandler) Options(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")

	catalog, err := h.service.Available(r.Context(), date)
	if err != nil {
		h.writeError(w, "Options", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, catalog); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Options", "error", err)
	}
}

func (h *AppointmentHandler) OptionsV2(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")

	catalog, err := h.service.AvailableAggregated(r.Context(), date)
	if err != nil {
		h.writeError(w, "OptionsV2", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, catalog); err != nil {
		h.log.Error("failed to write JSON response", "handler", "OptionsV2", "error", err)
	}
}

func (h *AppointmentHandler) Specialties(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	names, err := h.service.Specialties(r.Context())
	if err != nil {
		h.writeError(w, "Specialties", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, names); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Specialties", "error", err)
	}
}

func (h *AppointmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/appointmentOptions", h.Options)
	router.GET("/v2/appointmentOptions", h.OptionsV2)
	router.GET("/appointmentSpecialty", h.Specialties)
}
