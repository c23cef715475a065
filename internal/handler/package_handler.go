package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tourzen-api/internal/container"
	"tourzen-api/internal/domain"
)

// PackageHandler serves /packages
type PackageHandler struct {
	container *container.Container
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(container *container.Container) *PackageHandler {
	return &PackageHandler{
		container: container,
	}
}

// Create handles POST /packages
func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	var req domain.PackageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, logger, err)
		return
	}

	pkg, err := h.container.Services.Packages.Create(r.Context(), claim, req)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusCreated, domain.CreatedResponse{
		Message:    "Package created successfully",
		InsertedID: pkg.ID,
	})
}

// List handles GET /packages?search=
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	packages, err := h.container.Services.Packages.List(r.Context(), r.URL.Query().Get("search"))
	h.writeList(w, r, packages, err)
}

// Featured handles GET /packages/featured
func (h *PackageHandler) Featured(w http.ResponseWriter, r *http.Request) {
	packages, err := h.container.Services.Packages.Featured(r.Context())
	h.writeList(w, r, packages, err)
}

// Gallery handles GET /packages/gallery
func (h *PackageHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	items, err := h.container.Services.Packages.Gallery(r.Context())
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	if items == nil {
		items = []domain.GalleryItem{}
	}

	writeJSON(w, logger, http.StatusOK, items)
}

// Mine handles GET /packages/my-packages
func (h *PackageHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claim, ok := claimOrError(w, r, h.container.GetLogger())
	if !ok {
		return
	}

	packages, err := h.container.Services.Packages.Mine(r.Context(), claim)
	h.writeList(w, r, packages, err)
}

// Get handles GET /packages/{id}
func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	pkg, err := h.container.Services.Packages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, pkg)
}

// Update handles PUT /packages/{id}
func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	var patch domain.PackagePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, logger, err)
		return
	}

	pkg, err := h.container.Services.Packages.Update(r.Context(), claim, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, pkg)
}

// Delete handles DELETE /packages/{id}
func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	claim, ok := claimOrError(w, r, logger)
	if !ok {
		return
	}

	if err := h.container.Services.Packages.Delete(r.Context(), claim, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, logger, err)
		return
	}

	writeJSON(w, logger, http.StatusOK, MessageResponse{Message: "Package deleted successfully"})
}

func (h *PackageHandler) writeList(w http.ResponseWriter, r *http.Request, packages []domain.TourPackage, err error) {
	logger := h.container.GetLogger()
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	if packages == nil {
		packages = []domain.TourPackage{}
	}
	writeJSON(w, logger, http.StatusOK, packages)
}
