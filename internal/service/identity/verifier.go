package identity

import (
	"context"
	"strings"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/service"
	"tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"
)

// Provider verifies one kind of external identity assertion
type Provider interface {
	Verify(ctx context.Context, assertion string) (*domain.ExternalIdentity, error)
}

// Verifier implements service.IdentityVerifier. It picks a provider from the
// shape of the assertion and exchanges the verified identity for a local token.
type Verifier struct {
	firebase Provider
	google   Provider
	tokens   service.TokenService
	logger   *logger.Logger
}

// NewVerifier creates a verifier. Either provider may be nil, in which case
// assertions of that shape are rejected.
func NewVerifier(firebase, google Provider, tokens service.TokenService, logger *logger.Logger) *Verifier {
	return &Verifier{
		firebase: firebase,
		google:   google,
		tokens:   tokens,
		logger:   logger,
	}
}

// Exchange verifies assertion and issues a local token for the identity it names
func (v *Verifier) Exchange(ctx context.Context, assertion string) (*domain.IssuedToken, error) {
	assertion = strings.TrimSpace(assertion)
	if assertion == "" {
		return nil, errors.NewAuthenticationError("ID token is required")
	}

	var provider Provider
	switch {
	case isGoogleAccessToken(assertion):
		v.logger.Debug("Assertion identified as Google access token")
		provider = v.google
	case isJWTToken(assertion):
		v.logger.Debug("Assertion identified as JWT, using Firebase validation")
		provider = v.firebase
	default:
		v.logger.Warn("Unrecognized assertion format")
		return nil, errors.NewAuthenticationError("Unrecognized token format")
	}

	if provider == nil {
		return nil, errors.NewAuthenticationError("Identity provider is not configured")
	}

	ident, err := provider.Verify(ctx, assertion)
	if err != nil {
		v.logger.WithError(err).Info("Identity assertion rejected")
		return nil, errors.NewAuthenticationError("Invalid or expired ID token")
	}

	if ident.Email == "" {
		v.logger.WithField("provider", ident.Provider).Warn("Verified identity has no email")
		return nil, errors.NewAuthenticationError("Identity has no email address")
	}

	issued, err := v.tokens.Issue(ident.Claim())
	if err != nil {
		return nil, err
	}

	v.logger.WithFields(map[string]interface{}{
		"uid":      ident.SubjectID,
		"provider": ident.Provider,
	}).Info("User signed in")

	return issued, nil
}

// isGoogleAccessToken checks if the token is a Google OAuth access token
func isGoogleAccessToken(token string) bool {
	return len(token) > 5 && strings.HasPrefix(token, "ya29.")
}

// isJWTToken checks if the token has the three dot-separated segments of a JWT
func isJWTToken(token string) bool {
	return len(strings.Split(token, ".")) == 3
}
