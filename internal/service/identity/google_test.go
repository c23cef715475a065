package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tourzen-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const testAccessToken = "ya29.test-access-token"

func newGoogleAPI(t *testing.T, audience string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testAccessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":             "g-123",
			"email":          "b@x.com",
			"verified_email": true,
			"name":           "Bo",
			"picture":        "https://img/b.png",
		})
	})
	mux.HandleFunc("/oauth2/v2/tokeninfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"audience":  audience,
			"issued_to": audience,
			"user_id":   "g-123",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleProvider_Verify(t *testing.T) {
	srv := newGoogleAPI(t, "client-1")
	p := NewGoogleProvider("client-1", logger.NewNop(), option.WithEndpoint(srv.URL+"/"))

	ident, err := p.Verify(context.Background(), testAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "g-123", ident.SubjectID)
	assert.Equal(t, "b@x.com", ident.Email)
	assert.True(t, ident.EmailVerified)
	assert.Equal(t, "Bo", ident.Name)
	assert.Equal(t, "google", ident.Provider)
}

func TestGoogleProvider_AudienceMismatch(t *testing.T) {
	srv := newGoogleAPI(t, "someone-elses-client")
	p := NewGoogleProvider("client-1", logger.NewNop(), option.WithEndpoint(srv.URL+"/"))

	ident, err := p.Verify(context.Background(), testAccessToken)
	assert.Error(t, err)
	assert.Nil(t, ident)
}

func TestGoogleProvider_RejectedToken(t *testing.T) {
	srv := newGoogleAPI(t, "")
	p := NewGoogleProvider("", logger.NewNop(), option.WithEndpoint(srv.URL+"/"))

	ident, err := p.Verify(context.Background(), "ya29.revoked")
	assert.Error(t, err)
	assert.Nil(t, ident)
}
