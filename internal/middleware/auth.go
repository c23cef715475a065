package middleware

import (
	"context"
	"net/http"
	"strings"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/service"
	"tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"

	"github.com/google/uuid"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// ClaimContextKey is the key for the verified claim in context
	ClaimContextKey ContextKey = "claim"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

const requestIDHeader = "X-Request-ID"

// Auth rejects requests without a valid local bearer token. A missing or
// malformed header is 401; a token that does not verify is 403.
func Auth(tokens service.TokenService, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, r, errors.NewMissingCredentialError("Authorization header is required"), logger)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, r, errors.NewMissingCredentialError("Invalid authorization header format"), logger)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				writeErrorResponse(w, r, errors.NewMissingCredentialError("Token is required"), logger)
				return
			}

			claim, ok := tokens.Verify(token)
			if !ok {
				writeErrorResponse(w, r, errors.NewInvalidCredentialError("Invalid or expired token"), logger)
				return
			}

			logger.WithField("uid", claim.SubjectID).Debug("User authenticated successfully")

			next.ServeHTTP(w, r.WithContext(WithClaim(r.Context(), *claim)))
		})
	}
}

// WithClaim returns a copy of ctx carrying claim
func WithClaim(ctx context.Context, claim domain.Claim) context.Context {
	return context.WithValue(ctx, ClaimContextKey, claim)
}

// ClaimFromContext returns the claim stored by Auth
func ClaimFromContext(ctx context.Context) (domain.Claim, bool) {
	claim, ok := ctx.Value(ClaimContextKey).(domain.Claim)
	return claim, ok
}

// RequestID tags each request with an id, reusing a well-formed inbound X-Request-ID
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id set by RequestID, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, r *http.Request, appErr *errors.AppError, logger *logger.Logger) {
	requestID := RequestIDFromContext(r.Context())

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"type":       appErr.Type,
		"path":       r.URL.Path,
	}).Info(appErr.Message)

	if err := errors.WriteJSON(w, appErr, requestID); err != nil {
		logger.WithError(err).Error("Failed to write error response")
	}
}
