package domain

import "time"

// BookingStatus is the single status field of a booking. Any value may follow any other.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusInReview  BookingStatus = "In Review"
	BookingStatusAccepted  BookingStatus = "Accepted"
	BookingStatusRejected  BookingStatus = "Rejected"
	BookingStatusCompleted BookingStatus = "Completed"
)

// Valid reports whether s is one of the known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusInReview, BookingStatusAccepted,
		BookingStatusRejected, BookingStatusCompleted:
		return true
	}
	return false
}

// Booking is one tourist's reservation of one package. The package fields
// below PackageID are a snapshot taken when the booking was created.
type Booking struct {
	ID               string        `json:"_id"`
	PackageID        string        `json:"packageId"`
	TouristEmail     string        `json:"touristEmail"`
	TouristName      string        `json:"touristName,omitempty"`
	TouristPhoto     string        `json:"touristPhoto,omitempty"`
	SelectedTourDate string        `json:"selectedTourDate"`
	BookingDate      time.Time     `json:"booking_date"`
	Status           BookingStatus `json:"status"`
	Notes            string        `json:"notes,omitempty"`

	TourName          string `json:"tourName"`
	PackageImage      string `json:"packageImage"`
	DepartureLocation string `json:"departure_location"`
	Destination       string `json:"destination"`
	GuideContactNo    string `json:"guide_contact_no"`
	GuideEmail        string `json:"guideEmail"`

	CreatedAt time.Time `json:"created_at"`
}

// CreateBookingRequest is the body of POST /bookings. TouristEmail is required
// for compatibility with existing clients but is replaced by the caller's email.
type CreateBookingRequest struct {
	PackageID        string `json:"packageId"`
	TouristEmail     string `json:"touristEmail"`
	TouristName      string `json:"touristName"`
	TouristPhoto     string `json:"touristPhoto"`
	SelectedTourDate string `json:"selectedTourDate"`
	BookingDate      *int64 `json:"bookingDate,omitempty"`
	Notes            string `json:"notes"`
}

// UpdateStatusRequest is the body of PATCH /bookings/{id}/status
type UpdateStatusRequest struct {
	Status BookingStatus `json:"status"`
}

// CreatedResponse is the 201 body of booking and package creation
type CreatedResponse struct {
	Message    string `json:"message"`
	InsertedID string `json:"insertedId"`
}
