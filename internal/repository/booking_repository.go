package repository

import (
	"context"
	"errors"
	"fmt"

	"tourzen-api/internal/domain"
	"tourzen-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, package_id, tourist_email, tourist_name, tourist_photo, selected_tour_date,
	booking_date, status, notes, tour_name, package_image, departure_location, destination,
	guide_contact_no, guide_email, created_at`

type BookingRepo struct {
	db *database.PostgresDB
}

func NewBookingRepository(db *database.PostgresDB) *BookingRepo {
	return &BookingRepo{db: db}
}

// CreateWithCounter inserts the booking and bumps the package counter in the
// same transaction. A second booking for the same (package, tourist) pair is
// rejected by the bookings_package_tourist_unique constraint and returns ErrDuplicate.
func (r *BookingRepo) CreateWithCounter(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			b.ID,
			b.PackageID,
			b.TouristEmail,
			b.TouristName,
			b.TouristPhoto,
			b.SelectedTourDate,
			b.BookingDate,
			string(b.Status),
			b.Notes,
			b.TourName,
			b.PackageImage,
			b.DepartureLocation,
			b.Destination,
			b.GuideContactNo,
			b.GuideEmail,
			b.CreatedAt,
		)
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		if database.IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return incrementBookingCount(ctx, tx, b.PackageID, 1)
	})
}

// ExistsForTourist checks whether email already holds a booking for packageID
func (r *BookingRepo) ExistsForTourist(ctx context.Context, packageID, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE package_id = $1 AND tourist_email = $2)`

	if err := r.db.Pool.QueryRow(ctx, query, packageID, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing booking: %w", err)
	}
	return exists, nil
}

// GetByID gets a booking by ID
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// ListByTourist returns every booking made by email, newest first
func (r *BookingRepo) ListByTourist(ctx context.Context, email string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tourist_email = $1 ORDER BY booking_date DESC`

	rows, err := r.db.Pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus sets the status of a booking
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	err := row.Scan(
		&b.ID,
		&b.PackageID,
		&b.TouristEmail,
		&b.TouristName,
		&b.TouristPhoto,
		&b.SelectedTourDate,
		&b.BookingDate,
		&status,
		&b.Notes,
		&b.TourName,
		&b.PackageImage,
		&b.DepartureLocation,
		&b.Destination,
		&b.GuideContactNo,
		&b.GuideEmail,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	return &b, nil
}
