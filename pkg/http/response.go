package http

import (
	"encoding/json"
	"net/http"

	apperrors "docportal/pkg/errors"
)

// MessageResponse is the body shape used for authorization denials,
// mirroring the portal's original wire format.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders an AppError with its own status code and a {message}
// body. Non-AppError values are masked as a generic internal failure.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	body := MessageResponse{Message: appErr.Message}
	if appErr.Code == apperrors.CodeInternal {
		body.Message = "Internal server error"
	}
	return WriteJSON(w, appErr.StatusCode(), body)
}
