package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"tourzen-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertBookingSQL = regexp.QuoteMeta(`INSERT INTO bookings`)
	incrementSQL     = regexp.QuoteMeta(`UPDATE tour_packages SET booking_count = booking_count + $2 WHERE id = $1`)
)

func sampleBooking() *domain.Booking {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:               "6f1c2a8e-7d3b-4c8e-9a51-0b7a5f3c2d10",
		PackageID:        "0d3f5c1a-2b4e-4f6a-8c9d-1e2f3a4b5c6d",
		TouristEmail:     "a@x.com",
		SelectedTourDate: "2025-01-01",
		BookingDate:      now,
		Status:           domain.BookingStatusPending,
		Destination:      "Sajek Valley",
		CreatedAt:        now,
	}
}

func bookingRow(b *domain.Booking) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "package_id", "tourist_email", "tourist_name", "tourist_photo", "selected_tour_date",
		"booking_date", "status", "notes", "tour_name", "package_image", "departure_location",
		"destination", "guide_contact_no", "guide_email", "created_at",
	}).AddRow(
		b.ID, b.PackageID, b.TouristEmail, b.TouristName, b.TouristPhoto, b.SelectedTourDate,
		b.BookingDate, string(b.Status), b.Notes, b.TourName, b.PackageImage, b.DepartureLocation,
		b.Destination, b.GuideContactNo, b.GuideEmail, b.CreatedAt,
	)
}

func TestBookingRepo_CreateWithCounter_OK(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)
	b := sampleBooking()

	mock.ExpectBegin()
	mock.ExpectExec(insertBookingSQL).
		WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(incrementSQL).
		WithArgs(b.PackageID, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.CreateWithCounter(context.Background(), b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_CreateWithCounter_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(insertBookingSQL).
		WithArgs(anyArgs(16)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "bookings_package_tourist_unique"})
	mock.ExpectRollback()

	err := r.CreateWithCounter(context.Background(), sampleBooking())
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet(), "counter must not be touched on a duplicate")
}

func TestBookingRepo_CreateWithCounter_IncrementFailsRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface, b *domain.Booking)
		wantErr error
	}{
		{
			name: "package vanished between read and write",
			setup: func(mock pgxmock.PgxPoolIface, b *domain.Booking) {
				mock.ExpectExec(incrementSQL).
					WithArgs(b.PackageID, 1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "store error on increment",
			setup: func(mock pgxmock.PgxPoolIface, b *domain.Booking) {
				mock.ExpectExec(incrementSQL).
					WithArgs(b.PackageID, 1).
					WillReturnError(errors.New("connection reset"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newDB(t)
			r := NewBookingRepository(db)
			b := sampleBooking()

			mock.ExpectBegin()
			mock.ExpectExec(insertBookingSQL).
				WithArgs(anyArgs(16)...).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			tt.setup(mock, b)
			mock.ExpectRollback()

			err := r.CreateWithCounter(context.Background(), b)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepo_ExistsForTourist(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("pkg-1", "a@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := r.ExistsForTourist(ctx, "pkg-1", "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("pkg-1", "b@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err = r.ExistsForTourist(ctx, "pkg-1", "b@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBookingRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)
	ctx := context.Background()
	b := sampleBooking()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = $1`)).
		WithArgs(b.ID).
		WillReturnRows(bookingRow(b))

	got, err := r.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.TouristEmail, got.TouristEmail)
	assert.Equal(t, domain.BookingStatusPending, got.Status)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE id = $1`)).
		WithArgs(b.ID).
		WillReturnError(pgx.ErrNoRows)

	_, err = r.GetByID(ctx, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookingRepo_ListByTourist(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)
	b := sampleBooking()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookings WHERE tourist_email = $1`)).
		WithArgs("a@x.com").
		WillReturnRows(bookingRow(b))

	got, err := r.ListByTourist(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestBookingRepo_UpdateStatus(t *testing.T) {
	db, mock := newDB(t)
	r := NewBookingRepository(db)
	ctx := context.Background()
	updateSQL := regexp.QuoteMeta(`UPDATE bookings SET status = $2 WHERE id = $1`)

	mock.ExpectExec(updateSQL).
		WithArgs("b-1", "Rejected").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateStatus(ctx, "b-1", domain.BookingStatusRejected))

	mock.ExpectExec(updateSQL).
		WithArgs("b-missing", "Accepted").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.UpdateStatus(ctx, "b-missing", domain.BookingStatusAccepted), ErrNotFound)
}
