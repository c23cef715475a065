package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/repository"
	apperrors "tourzen-api/pkg/errors"
	"tourzen-api/pkg/logger"

	"github.com/google/uuid"
)

const (
	featuredLimit = 6
	galleryLimit  = 10
)

type packageService struct {
	packages repository.PackageRepository
	cache    *CacheService
	logger   *logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewPackageService creates the tour package service. cache may be nil.
func NewPackageService(packages repository.PackageRepository, cache *CacheService, logger *logger.Logger) PackageService {
	if cache == nil {
		cache = NewCacheService(nil, nil)
	}
	return &packageService{
		packages: packages,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores a package owned by the caller. Guide name and photo default
// to the caller's profile; the guide email is always the caller's.
func (s *packageService) Create(ctx context.Context, claim domain.Claim, req domain.PackageRequest) (*domain.TourPackage, error) {
	if claim.Email == "" {
		return nil, apperrors.NewAuthenticationError("Token carries no email")
	}
	if err := validatePackageRequest(req); err != nil {
		return nil, err
	}

	guideName := firstNonEmpty(req.GuideName, claim.DisplayName, claim.Email)
	guidePhoto := firstNonEmpty(req.GuidePhoto, claim.AvatarURI)

	pkg := &domain.TourPackage{
		ID:                s.newID(),
		TourName:          strings.TrimSpace(req.TourName),
		Destination:       strings.TrimSpace(req.Destination),
		DepartureLocation: req.DepartureLocation,
		GuideName:         guideName,
		GuideEmail:        claim.Email,
		GuidePhoto:        guidePhoto,
		GuideContactNo:    req.GuideContactNo,
		Image:             req.Image,
		Duration:          req.Duration,
		Price:             req.Price,
		TourDate:          req.TourDate,
		Description:       req.Description,
		CreatedByEmail:    claim.Email,
		BookingCount:      0,
		CreatedAt:         s.now().UTC(),
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		s.logger.WithError(err).Error("Failed to create package")
		return nil, apperrors.NewStoreError("Failed to add package", err)
	}

	s.logger.WithField("package_id", pkg.ID).Info("Package created")
	return pkg, nil
}

func (s *packageService) Get(ctx context.Context, id string) (*domain.TourPackage, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// List returns every package, or those whose name or destination contains search
func (s *packageService) List(ctx context.Context, search string) ([]domain.TourPackage, error) {
	packages, err := s.packages.List(ctx, strings.TrimSpace(search))
	if err != nil {
		s.logger.WithError(err).Error("Failed to list packages")
		return nil, apperrors.NewStoreError("Failed to fetch packages", err)
	}
	return packages, nil
}

func (s *packageService) Featured(ctx context.Context) ([]domain.TourPackage, error) {
	packages, err := s.packages.ListRecent(ctx, featuredLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list featured packages")
		return nil, apperrors.NewStoreError("Failed to fetch featured packages", err)
	}
	return packages, nil
}

// Gallery returns the id, name and image of the newest packages
func (s *packageService) Gallery(ctx context.Context) ([]domain.GalleryItem, error) {
	packages, err := s.packages.ListRecent(ctx, galleryLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list gallery images")
		return nil, apperrors.NewStoreError("Failed to fetch gallery images", err)
	}

	items := make([]domain.GalleryItem, 0, len(packages))
	for _, p := range packages {
		items = append(items, domain.GalleryItem{ID: p.ID, TourName: p.TourName, Image: p.Image})
	}
	return items, nil
}

func (s *packageService) Mine(ctx context.Context, claim domain.Claim) ([]domain.TourPackage, error) {
	if claim.Email == "" {
		return nil, apperrors.NewValidationError("User email not found in token", nil)
	}

	packages, err := s.packages.ListByCreator(ctx, claim.Email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list created packages")
		return nil, apperrors.NewStoreError("Failed to fetch your created packages", err)
	}
	return packages, nil
}

// Update overwrites the fields present in patch and keeps the rest. Only the creator may update a package.
func (s *packageService) Update(ctx context.Context, claim domain.Claim, id string, patch domain.PackagePatch) (*domain.TourPackage, error) {
	existing, err := s.owned(ctx, claim, id, "update")
	if err != nil {
		return nil, err
	}
	if err := validatePackagePatch(patch); err != nil {
		return nil, err
	}

	updated := *existing
	patch.Apply(&updated)
	updated.TourName = strings.TrimSpace(updated.TourName)
	updated.Destination = strings.TrimSpace(updated.Destination)

	err = s.packages.Update(ctx, &updated)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Package not found")
	}
	if err != nil {
		s.logger.WithError(err).WithField("package_id", id).Error("Failed to update package")
		return nil, apperrors.NewStoreError("Failed to update package", err)
	}

	s.cache.InvalidatePackage(ctx, id)
	return &updated, nil
}

// Delete removes a package. Only the creator may delete it, and never while bookings reference it.
func (s *packageService) Delete(ctx context.Context, claim domain.Claim, id string) error {
	existing, err := s.owned(ctx, claim, id, "delete")
	if err != nil {
		return err
	}
	if existing.BookingCount > 0 {
		return apperrors.NewConflictError("Package has bookings and cannot be deleted")
	}

	err = s.packages.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrReferenced):
		return apperrors.NewConflictError("Package has bookings and cannot be deleted")
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFoundError("Package not found")
	case err != nil:
		s.logger.WithError(err).WithField("package_id", id).Error("Failed to delete package")
		return apperrors.NewStoreError("Failed to delete package", err)
	}

	s.cache.InvalidatePackage(ctx, id)
	s.logger.WithField("package_id", id).Info("Package deleted")
	return nil
}

func (s *packageService) load(ctx context.Context, id string) (*domain.TourPackage, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Package not found")
	}
	if err != nil {
		s.logger.WithError(err).WithField("package_id", id).Error("Failed to get package")
		return nil, apperrors.NewStoreError("Failed to fetch package", err)
	}
	return pkg, nil
}

// owned loads a package and checks that the caller created it
func (s *packageService) owned(ctx context.Context, claim domain.Claim, id, action string) (*domain.TourPackage, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	pkg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if claim.Email == "" || pkg.CreatedByEmail != claim.Email {
		return nil, apperrors.NewAuthorizationError("You are not authorized to " + action + " this package")
	}
	return pkg, nil
}

func validatePackageRequest(req domain.PackageRequest) error {
	var missing []string
	if strings.TrimSpace(req.TourName) == "" {
		missing = append(missing, "tour_name")
	}
	if strings.TrimSpace(req.Destination) == "" {
		missing = append(missing, "destination")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("Missing required package fields", map[string]interface{}{
			"missing": missing,
		})
	}
	if req.Price < 0 {
		return apperrors.NewValidationError("Price cannot be negative", nil)
	}
	return nil
}

// validatePackagePatch rejects blanking a required field or a negative price
func validatePackagePatch(patch domain.PackagePatch) error {
	var blank []string
	if patch.TourName != nil && strings.TrimSpace(*patch.TourName) == "" {
		blank = append(blank, "tour_name")
	}
	if patch.Destination != nil && strings.TrimSpace(*patch.Destination) == "" {
		blank = append(blank, "destination")
	}
	if len(blank) > 0 {
		return apperrors.NewValidationError("Required package fields cannot be blank", map[string]interface{}{
			"blank": blank,
		})
	}
	if patch.Price != nil && *patch.Price < 0 {
		return apperrors.NewValidationError("Price cannot be negative", nil)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
