package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	usererrors "docportal/internal/users/errors"
	httputil "docportal/pkg/http"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

// UserFinder is the slice of the user repository the issuer needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// TokenHandler issues credentials for registered emails. No password is
// checked; knowing a registered email is the whole trust boundary here.
type TokenHandler struct {
	tokens *TokenManager
	users  UserFinder
	log    *logger.Logger
}

func NewTokenHandler(tokens *TokenManager, users UserFinder, log *logger.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		users:  users,
		log:    log,
	}
}

func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := r.URL.Query().Get("email")

	_, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, usererrors.ErrNotFound) {
			h.log.Error("Failed to look up user for token issuance", "error", err)
		}
		// Unknown emails get an empty token with a 403, matching what
		// clients of this endpoint have always been served.
		if writeErr := httputil.WriteJSON(w, http.StatusForbidden, TokenResponse{}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "IssueToken", "error", writeErr)
		}
		return
	}

	token, err := h.tokens.Issue(email)
	if err != nil {
		h.log.Error("Failed to sign access token", "email", email, "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusForbidden, TokenResponse{}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "IssueToken", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "IssueToken", "error", err)
	}
}

func (h *TokenHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/jwt", h.IssueToken)
}
