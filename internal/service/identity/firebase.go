package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"tourzen-api/internal/domain"
	"tourzen-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// FirebaseCertsURL serves the x509 certificates that sign Firebase ID tokens
	FirebaseCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

	firebaseIssuerPrefix = "https://securetoken.google.com/"
	defaultCertsMaxAge   = time.Hour
)

var (
	ErrNoProject  = errors.New("firebase project id is not configured")
	ErrUnknownKey = errors.New("token signed with unknown key")
)

type firebaseClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// FirebaseProvider verifies Firebase Authentication ID tokens
type FirebaseProvider struct {
	projectID  string
	certsURL   string
	httpClient *http.Client
	now        func() time.Time
	logger     *logger.Logger

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

// NewFirebaseProvider creates a provider for tokens minted for projectID
func NewFirebaseProvider(projectID string, logger *logger.Logger) *FirebaseProvider {
	return &FirebaseProvider{
		projectID: projectID,
		certsURL:  FirebaseCertsURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now:    time.Now,
		logger: logger,
	}
}

// Verify checks the RS256 signature against Google's published certificates
// and the project-bound aud and iss claims
func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (*domain.ExternalIdentity, error) {
	if p.projectID == "" {
		return nil, ErrNoProject
	}

	var claims firebaseClaims
	_, err := jwt.ParseWithClaims(idToken, &claims,
		func(t *jwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errors.New("token has no kid header")
			}
			keys, err := p.publicKeys(ctx)
			if err != nil {
				return nil, err
			}
			key, ok := keys[kid]
			if !ok {
				return nil, ErrUnknownKey
			}
			return key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(p.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+p.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("firebase token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("firebase token: empty subject")
	}

	return &domain.ExternalIdentity{
		SubjectID:     claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		Provider:      "firebase",
	}, nil
}

// publicKeys returns the cached signing keys, refetching once they expire
func (p *FirebaseProvider) publicKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	p.mu.RLock()
	if p.keys != nil && p.now().Before(p.expiresAt) {
		keys := p.keys
		p.mu.RUnlock()
		return keys, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keys != nil && p.now().Before(p.expiresAt) {
		return p.keys, nil
	}

	keys, maxAge, err := p.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}

	p.keys = keys
	p.expiresAt = p.now().Add(maxAge)
	p.logger.WithFields(map[string]interface{}{
		"keys":    len(keys),
		"max_age": maxAge.String(),
	}).Debug("Refreshed Firebase signing certificates")

	return keys, nil
}

func (p *FirebaseProvider) fetchKeys(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.certsURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create certs request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, 0, fmt.Errorf("certs endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		key, err := parseRSACert(certPEM)
		if err != nil {
			p.logger.WithError(err).WithField("kid", kid).Warn("Skipping unusable signing certificate")
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return nil, 0, errors.New("certs endpoint returned no usable keys")
	}

	return keys, maxAge(resp.Header.Get("Cache-Control")), nil
}

func parseRSACert(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("invalid PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate key is not RSA")
	}
	return key, nil
}

// maxAge reads max-age from a Cache-Control header
func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if v, ok := strings.CutPrefix(directive, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultCertsMaxAge
}
