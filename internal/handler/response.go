package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/middleware"
	"tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"
)

// maxBodyBytes caps request bodies decoded by handlers
const maxBodyBytes = 1 << 20

// MessageResponse is the body of mutations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError converts err to an AppError and writes it. Server-side failures are logged with their cause.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := errors.From(err)
	requestID := middleware.RequestIDFromContext(r.Context())

	entry := log.WithFields(map[string]interface{}{
		"request_id": requestID,
		"path":       r.URL.Path,
		"error_type": string(appErr.Type),
	})
	if appErr.StatusCode >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.WithField("message", appErr.Message).Debug("Request rejected")
	}

	if err := errors.WriteJSON(w, appErr, requestID); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || err == io.EOF {
		return nil
	}
	return errors.NewValidationError("Invalid request body", map[string]interface{}{
		"reason": err.Error(),
	})
}

// claimOrError fetches the caller's claim, writing a 401 when the route was mounted without Auth
func claimOrError(w http.ResponseWriter, r *http.Request, log *logger.Logger) (domain.Claim, bool) {
	claim, ok := middleware.ClaimFromContext(r.Context())
	if !ok {
		writeError(w, r, log, errors.NewMissingCredentialError("Authentication required"))
	}
	return claim, ok
}
