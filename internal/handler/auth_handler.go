package handler

import (
	"net/http"
	"strings"

	"tourzen-api/internal/container"
	"tourzen-api/internal/domain"
	"tourzen-api/pkg/errors"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	container *container.Container
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{
		container: container,
	}
}

// FirebaseLogin handles POST /auth/firebase-login. It exchanges a provider
// assertion for a session token.
func (h *AuthHandler) FirebaseLogin(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, logger, err)
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		writeError(w, r, logger, errors.NewValidationError("idToken is required", nil))
		return
	}

	issued, err := h.container.Services.Identity.Exchange(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, issued)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	logger.WithField("uid", claim.SubjectID).Debug("Returning caller claim")
	writeJSON(w, logger, http.StatusOK, claim)
}
