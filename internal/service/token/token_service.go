package token

import (
	"errors"
	"time"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/metrics"
	apperrors "tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// Failure kinds reported when a token does not verify. They are logged and
// counted but never returned to callers.
const (
	KindExpired   = "expired"
	KindMalformed = "malformed"
	KindSignature = "signature"
	KindInvalid   = "invalid"
)

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// tokenClaims is the payload of a local access token
type tokenClaims struct {
	Email       string `json:"email"`
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 access tokens
type Service struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	now     func() time.Time
	logger  *logger.Logger
	metrics metrics.Recorder
}

// NewService creates a token service. rec may be nil.
func NewService(secret, issuer string, ttl time.Duration, logger *logger.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = (*metrics.Collector)(nil)
	}
	return &Service{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		metrics: rec,
	}
}

// Issue signs a token carrying claim, valid for the configured ttl
func (s *Service) Issue(claim domain.Claim) (*domain.IssuedToken, error) {
	if claim.Email == "" {
		return nil, apperrors.NewValidationError("Email is required to issue a token", nil)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := tokenClaims{
		Email:       claim.Email,
		UID:         claim.SubjectID,
		DisplayName: claim.DisplayName,
		PhotoURL:    claim.AvatarURI,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claim.SubjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to sign token", err)
	}

	s.metrics.TokenIssued()
	s.logger.WithField("uid", claim.SubjectID).Debug("Issued access token")

	return &domain.IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, issuer and expiry. Any failure yields (nil, false).
func (s *Service) Verify(token string) (*domain.Claim, bool) {
	claim, kind, err := s.verify(token)
	if err != nil {
		s.metrics.TokenRejected(kind)
		log := s.logger.WithField("kind", kind).WithError(err)
		if kind == KindSignature {
			log.Warn("Access token rejected")
		} else {
			log.Debug("Access token rejected")
		}
		return nil, false
	}
	return claim, true
}

func (s *Service) verify(token string) (*domain.Claim, string, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods(hmacMethods),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classify(err), err
	}
	if claims.Email == "" {
		return nil, KindInvalid, errors.New("token has no email")
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}

	return &domain.Claim{
		SubjectID:   uid,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AvatarURI:   claims.PhotoURL,
	}, "", nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return KindExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return KindMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return KindSignature
	default:
		return KindInvalid
	}
}

