package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tourzen-api/internal/container"
	"tourzen-api/internal/domain"
)

// BookingHandler serves /bookings
type BookingHandler struct {
	container *container.Container
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(container *container.Container) *BookingHandler {
	return &BookingHandler{
		container: container,
	}
}

// Create handles POST /bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	var req domain.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, logger, err)
		return
	}

	id, err := h.container.Services.Bookings.CreateBooking(r.Context(), claim, req)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusCreated, domain.CreatedResponse{
		Message:    "Booking created successfully",
		InsertedID: id,
	})
}

// Mine handles GET /bookings/my-bookings
func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	bookings, err := h.container.Services.Bookings.ListMyBookings(r.Context(), claim)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	writeJSON(w, logger, http.StatusOK, bookings)
}

// Get handles GET /bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	booking, err := h.container.Services.Bookings.GetBooking(r.Context(), claim, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, booking)
}

// UpdateStatus handles PATCH /bookings/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req domain.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, logger, err)
		return
	}

	if err := h.container.Services.Bookings.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, MessageResponse{Message: "Booking status updated"})
}
