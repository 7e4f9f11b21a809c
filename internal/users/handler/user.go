package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"docportal/internal/auth"
	usererrors "docportal/internal/users/errors"
	"docportal/internal/users/service"
	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

type UserHandler struct {
	service   service.UserService
	adminGate auth.Gate
	log       *logger.Logger
}

func NewUserHandler(service service.UserService, adminGate auth.Gate, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		adminGate: adminGate,
		log:       log,
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, users); err != nil {
		h.log.Error("failed to write JSON response", "handler", "List", "error", err)
	}
}

// AdminStatus reports whether an email maps to an admin. Unknown emails are
// simply not admins; the endpoint never errors on absence.
func (h *UserHandler) AdminStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	user, err := h.service.FindByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, usererrors.ErrNotFound) {
		h.writeError(w, "AdminStatus", apperrors.Internal("Failed to look up user", err))
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, model.AdminStatus{IsAdmin: user.IsAdmin()}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "AdminStatus", "error", err)
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Create(r.Context(), &user)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.Promote(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Promote", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Promote", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/users", h.List)
	router.GET("/users/admin/:email", h.AdminStatus)
	router.POST("/users", h.Create)
	router.PUT("/users/admin/:id", h.adminGate(h.Promote))
}
