package service

import (
	"context"
	"errors"
	"time"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/metrics"
	"tourzen-api/internal/repository"
	apperrors "tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"

	"github.com/google/uuid"
)

type bookingService struct {
	packages repository.PackageRepository
	bookings repository.BookingRepository
	cache    *CacheService
	metrics  metrics.Recorder
	logger   *logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewBookingService creates the booking workflow. cache and rec may be nil.
func NewBookingService(
	packages repository.PackageRepository,
	bookings repository.BookingRepository,
	cache *CacheService,
	rec metrics.Recorder,
	logger *logger.Logger,
) BookingService {
	if cache == nil {
		cache = NewCacheService(nil, nil)
	}
	if rec == nil {
		rec = (*metrics.Collector)(nil)
	}
	return &bookingService{
		packages: packages,
		bookings: bookings,
		cache:    cache,
		metrics:  rec,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateBooking books a package for the caller. The tourist email always
// comes from the claim, never from the request body.
func (s *bookingService) CreateBooking(ctx context.Context, claim domain.Claim, req domain.CreateBookingRequest) (string, error) {
	if missing := missingBookingFields(req); len(missing) > 0 {
		s.metrics.BookingRejected("validation")
		return "", apperrors.NewValidationError("Missing required booking fields", map[string]interface{}{
			"missing": missing,
		})
	}
	if err := validateID(req.PackageID); err != nil {
		s.metrics.BookingRejected("validation")
		return "", err
	}
	if claim.Email == "" {
		return "", apperrors.NewAuthenticationError("Token carries no email")
	}

	log := s.logger.WithFields(map[string]interface{}{
		"package_id": req.PackageID,
		"uid":        claim.SubjectID,
	})

	pkg, err := s.cache.GetPackage(ctx, req.PackageID, s.packages.GetByID)
	if errors.Is(err, repository.ErrNotFound) {
		s.metrics.BookingRejected("not_found")
		return "", apperrors.NewNotFoundError("Tour package not found")
	}
	if err != nil {
		s.metrics.BookingRejected("store")
		log.WithError(err).Error("Failed to load package for booking")
		return "", apperrors.NewStoreError("Failed to create booking", err)
	}

	exists, err := s.bookings.ExistsForTourist(ctx, pkg.ID, claim.Email)
	if err != nil {
		s.metrics.BookingRejected("store")
		log.WithError(err).Error("Failed to check for an existing booking")
		return "", apperrors.NewStoreError("Failed to create booking", err)
	}
	if exists {
		s.metrics.BookingRejected("conflict")
		return "", apperrors.NewConflictError("You have already booked this package")
	}

	if !s.cache.AcquireBookingLock(ctx, pkg.ID, claim.Email) {
		s.metrics.BookingRejected("conflict")
		return "", apperrors.NewConflictError("A booking for this package is already in progress")
	}
	defer s.cache.ReleaseBookingLock(ctx, pkg.ID, claim.Email)

	now := s.now().UTC()
	booking := &domain.Booking{
		ID:                s.newID(),
		PackageID:         pkg.ID,
		TouristEmail:      claim.Email,
		TouristName:       req.TouristName,
		TouristPhoto:      req.TouristPhoto,
		SelectedTourDate:  req.SelectedTourDate,
		BookingDate:       now,
		Status:            domain.BookingStatusPending,
		Notes:             req.Notes,
		TourName:          pkg.TourName,
		PackageImage:      pkg.Image,
		DepartureLocation: pkg.DepartureLocation,
		Destination:       pkg.Destination,
		GuideContactNo:    pkg.GuideContactNo,
		GuideEmail:        pkg.GuideEmail,
		CreatedAt:         now,
	}

	err = s.bookings.CreateWithCounter(ctx, booking)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		s.metrics.BookingRejected("conflict")
		log.Info("Concurrent duplicate booking rejected by constraint")
		return "", apperrors.NewConflictError("You have already booked this package")
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.BookingRejected("not_found")
		return "", apperrors.NewNotFoundError("Tour package not found")
	case err != nil:
		s.metrics.BookingRejected("store")
		log.WithError(err).Error("Failed to persist booking")
		return "", apperrors.NewStoreError("Failed to create booking", err)
	}

	s.metrics.BookingCreated()
	log.WithField("booking_id", booking.ID).Info("Booking created")

	return booking.ID, nil
}

// ListMyBookings returns the caller's bookings
func (s *bookingService) ListMyBookings(ctx context.Context, claim domain.Claim) ([]domain.Booking, error) {
	if claim.Email == "" {
		return nil, apperrors.NewAuthenticationError("Token carries no email")
	}

	bookings, err := s.bookings.ListByTourist(ctx, claim.Email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bookings")
		return nil, apperrors.NewStoreError("Failed to fetch bookings", err)
	}
	return bookings, nil
}

// GetBooking returns a booking to its tourist or to the guide of its package
func (s *bookingService) GetBooking(ctx context.Context, claim domain.Claim, id string) (*domain.Booking, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Booking not found")
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to get booking")
		return nil, apperrors.NewStoreError("Failed to fetch booking", err)
	}

	if claim.Email == "" || (booking.TouristEmail != claim.Email && booking.GuideEmail != claim.Email) {
		return nil, apperrors.NewAuthorizationError("You are not allowed to view this booking")
	}
	return booking, nil
}

// UpdateStatus overwrites a booking's status. Any known status may follow any other.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if err := validateID(id); err != nil {
		return err
	}
	if status == "" {
		return apperrors.NewValidationError("Status is required", nil)
	}
	if !status.Valid() {
		return apperrors.NewValidationError("Unknown booking status", map[string]interface{}{
			"allowed": []domain.BookingStatus{
				domain.BookingStatusPending,
				domain.BookingStatusInReview,
				domain.BookingStatusAccepted,
				domain.BookingStatusRejected,
				domain.BookingStatusCompleted,
			},
		})
	}

	err := s.bookings.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFoundError("Booking not found")
	}
	if err != nil {
		s.logger.WithError(err).WithField("booking_id", id).Error("Failed to update booking status")
		return apperrors.NewStoreError("Failed to update booking status", err)
	}

	s.metrics.BookingStatusUpdated(string(status))
	s.logger.WithFields(map[string]interface{}{
		"booking_id": id,
		"status":     status,
	}).Info("Booking status updated")
	return nil
}

func missingBookingFields(req domain.CreateBookingRequest) []string {
	var missing []string
	if req.PackageID == "" {
		missing = append(missing, "packageId")
	}
	if req.TouristEmail == "" {
		missing = append(missing, "touristEmail")
	}
	if req.SelectedTourDate == "" {
		missing = append(missing, "selectedTourDate")
	}
	return missing
}

// validateID rejects identifiers that are not UUIDs
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError("Invalid id format", map[string]interface{}{"id": id})
	}
	return nil
}
