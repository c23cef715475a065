package service

import (
	"context"

	"tourzen-api/internal/domain"
)

// TokenService issues and verifies the service's own access tokens
type TokenService interface {
	// Issue signs a token for claim. Claim.Email must be set.
	Issue(claim domain.Claim) (*domain.IssuedToken, error)

	// Verify returns the claim of a valid token. Every failure is (nil, false).
	Verify(token string) (*domain.Claim, bool)
}

// IdentityVerifier exchanges an external identity assertion for a local token
type IdentityVerifier interface {
	Exchange(ctx context.Context, assertion string) (*domain.IssuedToken, error)
}

// BookingService defines the booking workflow
type BookingService interface {
	// CreateBooking validates, de-duplicates and persists a booking for the caller
	CreateBooking(ctx context.Context, claim domain.Claim, req domain.CreateBookingRequest) (string, error)

	// ListMyBookings returns every booking made by the caller
	ListMyBookings(ctx context.Context, claim domain.Claim) ([]domain.Booking, error)

	// GetBooking returns one booking to its tourist or its package's guide
	GetBooking(ctx context.Context, claim domain.Claim, id string) (*domain.Booking, error)

	// UpdateStatus overwrites the status of a booking
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// PackageService defines tour package operations
type PackageService interface {
	Create(ctx context.Context, claim domain.Claim, req domain.PackageRequest) (*domain.TourPackage, error)
	Get(ctx context.Context, id string) (*domain.TourPackage, error)
	List(ctx context.Context, search string) ([]domain.TourPackage, error)
	Featured(ctx context.Context) ([]domain.TourPackage, error)
	Gallery(ctx context.Context) ([]domain.GalleryItem, error)
	Mine(ctx context.Context, claim domain.Claim) ([]domain.TourPackage, error)
	Update(ctx context.Context, claim domain.Claim, id string, patch domain.PackagePatch) (*domain.TourPackage, error)
	Delete(ctx context.Context, claim domain.Claim, id string) error
}

// Services aggregates all service interfaces
type Services struct {
	Tokens   TokenService
	Identity IdentityVerifier
	Bookings BookingService
	Packages PackageService
}
