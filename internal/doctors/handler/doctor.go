package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/auth"
	"docportal/internal/doctors/service"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

// DoctorHandler exposes the roster endpoints. Every route sits behind the
// identity+role pipeline; there is no public view of the roster.
type DoctorHandler struct {
	service   service.DoctorService
	adminGate auth.Gate
	log       *logger.Logger
}

func NewDoctorHandler(service service.DoctorService, adminGate auth.Gate, log *logger.Logger) *DoctorHandler {
	return &DoctorHandler{
		service:   service,
		adminGate: adminGate,
		log:       log,
	}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	doctors, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, doctors); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "error", err)
	}
}

func (h *DoctorHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var doctor model.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		h.writeError(w, "Add", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Add(r.Context(), &doctor)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Add", "error", err)
	}
}

func (h *DoctorHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.Remove(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Remove", "error", err)
	}
}

func (h *DoctorHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *DoctorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/doctors", h.adminGate(h.List))
	router.POST("/doctors", h.adminGate(h.Add))
	router.DELETE("/doctors/:id", h.adminGate(h.Remove))
}
