package identity

import (
	"context"
	"errors"
	"fmt"

	"tourzen-api/internal/domain"
	"tourzen-api/pkg/logger"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProvider resolves a Google OAuth access token into the account it belongs to
type GoogleProvider struct {
	clientID string
	opts     []option.ClientOption
	logger   *logger.Logger
}

// NewGoogleProvider creates a provider. When clientID is set, tokens issued
// to other OAuth clients are rejected. opts are appended to every API client.
func NewGoogleProvider(clientID string, logger *logger.Logger, opts ...option.ClientOption) *GoogleProvider {
	return &GoogleProvider{
		clientID: clientID,
		opts:     opts,
		logger:   logger,
	}
}

func (p *GoogleProvider) Verify(ctx context.Context, accessToken string) (*domain.ExternalIdentity, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})

	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, p.opts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	if p.clientID != "" {
		info, err := svc.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("tokeninfo: %w", err)
		}
		if info.Audience != p.clientID && info.IssuedTo != p.clientID {
			p.logger.WithFields(map[string]interface{}{
				"expected_audience": p.clientID,
				"actual_audience":   info.Audience,
			}).Warn("Token audience mismatch")
			return nil, errors.New("token not intended for this application")
		}
	}

	user, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	if user.Id == "" {
		return nil, errors.New("userinfo: no user identifier")
	}

	return &domain.ExternalIdentity{
		SubjectID:     user.Id,
		Email:         user.Email,
		EmailVerified: user.VerifiedEmail != nil && *user.VerifiedEmail,
		Name:          user.Name,
		Picture:       user.Picture,
		Provider:      "google",
	}, nil
}
