package repository

import (
	"context"
	"errors"

	"tourzen-api/internal/domain"
)

// Sentinel errors returned by repository implementations
var (
	// ErrNotFound indicates the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint rejected the write
	ErrDuplicate = errors.New("duplicate")

	// ErrReferenced indicates a row cannot be removed while other rows point at it
	ErrReferenced = errors.New("referenced by other rows")
)

// PackageRepository defines the interface for tour package data operations
type PackageRepository interface {
	// Create inserts a package; ID and CreatedAt must already be set
	Create(ctx context.Context, pkg *domain.TourPackage) error

	// GetByID retrieves a package by ID
	GetByID(ctx context.Context, id string) (*domain.TourPackage, error)

	// List returns packages whose name or destination contains search (case-insensitive); empty search lists all
	List(ctx context.Context, search string) ([]domain.TourPackage, error)

	// ListRecent returns the newest packages
	ListRecent(ctx context.Context, limit int) ([]domain.TourPackage, error)

	// ListByCreator returns packages created by email
	ListByCreator(ctx context.Context, email string) ([]domain.TourPackage, error)

	// Update overwrites the writable fields of a package
	Update(ctx context.Context, pkg *domain.TourPackage) error

	// Delete removes a package
	Delete(ctx context.Context, id string) error

	// IncrementBookingCount atomically adds delta to booking_count
	IncrementBookingCount(ctx context.Context, id string, delta int) error
}

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	// CreateWithCounter inserts the booking and increments the package's
	// booking_count in one transaction
	CreateWithCounter(ctx context.Context, booking *domain.Booking) error

	// ExistsForTourist reports whether email already booked packageID
	ExistsForTourist(ctx context.Context, packageID, email string) (bool, error)

	// GetByID retrieves a booking by ID
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByTourist returns all bookings made by email
	ListByTourist(ctx context.Context, email string) ([]domain.Booking, error)

	// UpdateStatus overwrites the status of a booking
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Packages PackageRepository
	Bookings BookingRepository
}
