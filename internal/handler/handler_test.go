package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"tourzen-api/internal/config"
	"tourzen-api/internal/container"
	"tourzen-api/internal/domain"
	"tourzen-api/pkg/database"
	"tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"
)

var (
	touristClaim = domain.Claim{SubjectID: "u-1", Email: "a@x.com", DisplayName: "Ann"}
	guideClaim   = domain.Claim{SubjectID: "u-2", Email: "guide@x.com"}
)

type stubIdentity struct {
	issued        *domain.IssuedToken
	err           error
	lastAssertion string
}

func (s *stubIdentity) Exchange(_ context.Context, assertion string) (*domain.IssuedToken, error) {
	s.lastAssertion = assertion
	return s.issued, s.err
}

type stubBookings struct {
	createID   string
	err        error
	bookings   []domain.Booking
	booking    *domain.Booking
	lastClaim  domain.Claim
	lastReq    domain.CreateBookingRequest
	lastID     string
	lastStatus domain.BookingStatus
}

func (s *stubBookings) CreateBooking(_ context.Context, claim domain.Claim, req domain.CreateBookingRequest) (string, error) {
	s.lastClaim, s.lastReq = claim, req
	return s.createID, s.err
}

func (s *stubBookings) ListMyBookings(_ context.Context, claim domain.Claim) ([]domain.Booking, error) {
	s.lastClaim = claim
	return s.bookings, s.err
}

func (s *stubBookings) GetBooking(_ context.Context, claim domain.Claim, id string) (*domain.Booking, error) {
	s.lastClaim, s.lastID = claim, id
	return s.booking, s.err
}

func (s *stubBookings) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	s.lastID, s.lastStatus = id, status
	return s.err
}

type stubPackages struct {
	pkg        *domain.TourPackage
	packages   []domain.TourPackage
	gallery    []domain.GalleryItem
	err        error
	lastClaim  domain.Claim
	lastID     string
	lastSearch string
	lastReq    domain.PackageRequest
	lastPatch  domain.PackagePatch
}

func (s *stubPackages) Create(_ context.Context, claim domain.Claim, req domain.PackageRequest) (*domain.TourPackage, error) {
	s.lastClaim, s.lastReq = claim, req
	return s.pkg, s.err
}

func (s *stubPackages) Get(_ context.Context, id string) (*domain.TourPackage, error) {
	s.lastID = id
	return s.pkg, s.err
}

func (s *stubPackages) List(_ context.Context, search string) ([]domain.TourPackage, error) {
	s.lastSearch = search
	return s.packages, s.err
}

func (s *stubPackages) Featured(context.Context) ([]domain.TourPackage, error) {
	return s.packages, s.err
}

func (s *stubPackages) Gallery(context.Context) ([]domain.GalleryItem, error) {
	return s.gallery, s.err
}

func (s *stubPackages) Mine(_ context.Context, claim domain.Claim) ([]domain.TourPackage, error) {
	s.lastClaim = claim
	return s.packages, s.err
}

func (s *stubPackages) Update(_ context.Context, claim domain.Claim, id string, patch domain.PackagePatch) (*domain.TourPackage, error) {
	s.lastClaim, s.lastID, s.lastPatch = claim, id, patch
	return s.pkg, s.err
}

func (s *stubPackages) Delete(_ context.Context, claim domain.Claim, id string) error {
	s.lastClaim, s.lastID = claim, id
	return s.err
}

type testEnv struct {
	container *container.Container
	router    *chi.Mux
	mock      pgxmock.PgxPoolIface
	identity  *stubIdentity
	bookings  *stubBookings
	packages  *stubPackages
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		AllowedOrigins:    []string{"http://localhost:5173"},
		JWTSecret:         "handler-test-secret",
		JWTExpiresIn:      time.Hour,
		JWTIssuer:         "tourzen-api",
		FirebaseProjectID: "tourzen-test",
		RequestTimeout:    5 * time.Second,
		BookingRatePerMin: 30,
	}
}

func newTestEnv(t *testing.T, configure ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, fn := range configure {
		fn(cfg)
	}

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	c, err := container.New(cfg, logger.NewNop(), &database.PostgresDB{Pool: mock})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	env := &testEnv{
		container: c,
		mock:      mock,
		identity:  &stubIdentity{},
		bookings:  &stubBookings{},
		packages:  &stubPackages{},
	}
	c.Services.Identity = env.identity
	c.Services.Bookings = env.bookings
	c.Services.Packages = env.packages
	env.router = NewRouter(c)
	return env
}

// bearer issues a session token for claim with the container's token service
func (e *testEnv) bearer(t *testing.T, claim domain.Claim) string {
	t.Helper()
	issued, err := e.container.Services.Tokens.Issue(claim)
	require.NoError(t, err)
	return "Bearer " + issued.Token
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(dst))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var resp errors.ErrorResponse
	decodeBody(t, w, &resp)
	return resp
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) MessageResponse {
	t.Helper()
	var resp MessageResponse
	decodeBody(t, w, &resp)
	return resp
}

func decodeCreated(t *testing.T, w *httptest.ResponseRecorder) domain.CreatedResponse {
	t.Helper()
	var resp domain.CreatedResponse
	decodeBody(t, w, &resp)
	return resp
}

