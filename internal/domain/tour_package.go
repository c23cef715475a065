package domain

import "time"

// TourPackage is a tour offered by a guide. BookingCount is only ever changed by increment.
type TourPackage struct {
	ID                string    `json:"_id"`
	TourName          string    `json:"tour_name"`
	Destination       string    `json:"destination"`
	DepartureLocation string    `json:"departure_location"`
	GuideName         string    `json:"guide_name"`
	GuideEmail        string    `json:"guide_email"`
	GuidePhoto        string    `json:"guide_photo"`
	GuideContactNo    string    `json:"guide_contact_no"`
	Image             string    `json:"image"`
	Duration          string    `json:"duration"`
	Price             float64   `json:"price"`
	TourDate          string    `json:"tour_date"`
	Description       string    `json:"package_details"`
	CreatedByEmail    string    `json:"createdByEmail"`
	BookingCount      int       `json:"booking_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// PackageRequest is the writable part of a package, used for create and update
type PackageRequest struct {
	TourName          string  `json:"tour_name"`
	Destination       string  `json:"destination"`
	DepartureLocation string  `json:"departure_location"`
	GuideName         string  `json:"guide_name"`
	GuidePhoto        string  `json:"guide_photo"`
	GuideContactNo    string  `json:"guide_contact_no"`
	Image             string  `json:"image"`
	Duration          string  `json:"duration"`
	Price             float64 `json:"price"`
	TourDate          string  `json:"tour_date"`
	Description       string  `json:"package_details"`
}

// PackagePatch is the body of PUT /packages/{id}. Nil fields keep their stored value.
type PackagePatch struct {
	TourName          *string  `json:"tour_name"`
	Destination       *string  `json:"destination"`
	DepartureLocation *string  `json:"departure_location"`
	GuideName         *string  `json:"guide_name"`
	GuidePhoto        *string  `json:"guide_photo"`
	GuideContactNo    *string  `json:"guide_contact_no"`
	Image             *string  `json:"image"`
	Duration          *string  `json:"duration"`
	Price             *float64 `json:"price"`
	TourDate          *string  `json:"tour_date"`
	Description       *string  `json:"package_details"`
}

// Apply copies the fields present in p onto pkg
func (p PackagePatch) Apply(pkg *TourPackage) {
	setString(&pkg.TourName, p.TourName)
	setString(&pkg.Destination, p.Destination)
	setString(&pkg.DepartureLocation, p.DepartureLocation)
	setString(&pkg.GuideName, p.GuideName)
	setString(&pkg.GuidePhoto, p.GuidePhoto)
	setString(&pkg.GuideContactNo, p.GuideContactNo)
	setString(&pkg.Image, p.Image)
	setString(&pkg.Duration, p.Duration)
	setString(&pkg.TourDate, p.TourDate)
	setString(&pkg.Description, p.Description)
	if p.Price != nil {
		pkg.Price = *p.Price
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// GalleryItem is the projection served by GET /packages/gallery
type GalleryItem struct {
	ID       string `json:"_id"`
	TourName string `json:"tour_name"`
	Image    string `json:"image"`
}
