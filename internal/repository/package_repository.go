package repository

import (
	"context"
	"errors"
	"fmt"

	"tourzen-api/internal/domain"
	"tourzen-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

const packageColumns = `id, tour_name, destination, departure_location, guide_name, guide_email,
	guide_photo, guide_contact_no, image, duration, price, tour_date, description,
	created_by_email, booking_count, created_at`

type PackageRepo struct {
	db *database.PostgresDB
}

func NewPackageRepository(db *database.PostgresDB) *PackageRepo {
	return &PackageRepo{db: db}
}

// Create inserts a new tour package
func (r *PackageRepo) Create(ctx context.Context, pkg *domain.TourPackage) error {
	query := `
		INSERT INTO tour_packages (` + packageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		pkg.ID,
		pkg.TourName,
		pkg.Destination,
		pkg.DepartureLocation,
		pkg.GuideName,
		pkg.GuideEmail,
		pkg.GuidePhoto,
		pkg.GuideContactNo,
		pkg.Image,
		pkg.Duration,
		pkg.Price,
		pkg.TourDate,
		pkg.Description,
		pkg.CreatedByEmail,
		pkg.BookingCount,
		pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// GetByID gets a package by ID
func (r *PackageRepo) GetByID(ctx context.Context, id string) (*domain.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages WHERE id = $1`

	pkg, err := scanPackage(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return pkg, nil
}

// List returns packages matching search on tour name or destination
func (r *PackageRepo) List(ctx context.Context, search string) ([]domain.TourPackage, error) {
	if search == "" {
		return r.queryPackages(ctx, `SELECT `+packageColumns+` FROM tour_packages ORDER BY created_at DESC`)
	}
	query := `
		SELECT ` + packageColumns + `
		FROM tour_packages
		WHERE tour_name ILIKE '%' || $1 || '%' OR destination ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	return r.queryPackages(ctx, query, search)
}

// ListRecent returns the newest limit packages
func (r *PackageRepo) ListRecent(ctx context.Context, limit int) ([]domain.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages ORDER BY created_at DESC LIMIT $1`
	return r.queryPackages(ctx, query, limit)
}

// ListByCreator returns the packages created by email
func (r *PackageRepo) ListByCreator(ctx context.Context, email string) ([]domain.TourPackage, error) {
	query := `SELECT ` + packageColumns + ` FROM tour_packages WHERE created_by_email = $1 ORDER BY created_at DESC`
	return r.queryPackages(ctx, query, email)
}

// Update overwrites the guide-editable fields. booking_count, created_by_email,
// guide_email and created_at are never touched here.
func (r *PackageRepo) Update(ctx context.Context, pkg *domain.TourPackage) error {
	query := `
		UPDATE tour_packages
		SET tour_name = $2, destination = $3, departure_location = $4, guide_name = $5,
		    guide_photo = $6, guide_contact_no = $7, image = $8, duration = $9,
		    price = $10, tour_date = $11, description = $12
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		pkg.ID,
		pkg.TourName,
		pkg.Destination,
		pkg.DepartureLocation,
		pkg.GuideName,
		pkg.GuidePhoto,
		pkg.GuideContactNo,
		pkg.Image,
		pkg.Duration,
		pkg.Price,
		pkg.TourDate,
		pkg.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a package. Bookings reference packages with ON DELETE RESTRICT.
func (r *PackageRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tour_packages WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return ErrReferenced
	}
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementBookingCount adds delta to the package's booking_count
func (r *PackageRepo) IncrementBookingCount(ctx context.Context, id string, delta int) error {
	return incrementBookingCount(ctx, r.db.Pool, id, delta)
}

// incrementBookingCount is shared with the booking repository, which runs it inside its insert transaction
func incrementBookingCount(ctx context.Context, q database.Querier, id string, delta int) error {
	tag, err := q.Exec(ctx, `UPDATE tour_packages SET booking_count = booking_count + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to increment booking count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PackageRepo) queryPackages(ctx context.Context, query string, args ...any) ([]domain.TourPackage, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer rows.Close()

	packages := make([]domain.TourPackage, 0)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packages: %w", err)
	}

	return packages, nil
}

func scanPackage(row pgx.Row) (*domain.TourPackage, error) {
	var pkg domain.TourPackage
	err := row.Scan(
		&pkg.ID,
		&pkg.TourName,
		&pkg.Destination,
		&pkg.DepartureLocation,
		&pkg.GuideName,
		&pkg.GuideEmail,
		&pkg.GuidePhoto,
		&pkg.GuideContactNo,
		&pkg.Image,
		&pkg.Duration,
		&pkg.Price,
		&pkg.TourDate,
		&pkg.Description,
		&pkg.CreatedByEmail,
		&pkg.BookingCount,
		&pkg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
