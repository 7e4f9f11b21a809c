package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "docportal/pkg/errors"
	httputil "docportal/pkg/http"
)

type contextKey string

const identityKey contextKey = "identity_email"

// Gate decorates a route with a capability check. Gates compose into an
// ordered pipeline that short-circuits on the first denial.
type Gate func(httprouter.Handle) httprouter.Handle

// Chain applies gates outermost-first, so Chain(Identity(tm), AdminOnly(rc))
// verifies the credential before the role is ever consulted.
func Chain(gates ...Gate) Gate {
	return func(next httprouter.Handle) httprouter.Handle {
		for i := len(gates) - 1; i >= 0; i-- {
			next = gates[i](next)
		}
		return next
	}
}

// RoleChecker reports whether an identity holds the admin role. The lookup
// is read-only and hits the user store on every call.
type RoleChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Identity verifies the bearer credential and stores the email claim in the
// request context. A missing header denies with 401, anything unverifiable
// with 403.
func Identity(tm *TokenManager) Gate {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			header := r.Header.Get("Authorization")
			if header == "" {
				_ = httputil.WriteError(w, apperrors.Unauthorized("unauthorized access"))
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				_ = httputil.WriteError(w, apperrors.Forbidden("Forbidden access"))
				return
			}

			claims, err := tm.Verify(raw)
			if err != nil {
				_ = httputil.WriteError(w, apperrors.Forbidden("Forbidden access"))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims.Email)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// AdminOnly denies unless the identity established by a preceding Identity
// gate maps to a user with the admin role. It must never run first: without
// an identity in context the request is denied outright.
func AdminOnly(roles RoleChecker) Gate {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				_ = httputil.WriteError(w, apperrors.Forbidden("Forbidden access"))
				return
			}

			isAdmin, err := roles.IsAdmin(r.Context(), email)
			if err != nil {
				_ = httputil.WriteError(w, err)
				return
			}
			if !isAdmin {
				_ = httputil.WriteError(w, apperrors.Forbidden("Forbidden access"))
				return
			}

			next(w, r, ps)
		}
	}
}

// EmailFromContext returns the identity established by the Identity gate.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey).(string)
	return email, ok && email != ""
}
