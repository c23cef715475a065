package service

import (
	"context"
	"strings"
	"sync"

	"tourzen-api/internal/domain"
	"tourzen-api/internal/repository"
)

// fakePackageRepo is an in-memory repository.PackageRepository
type fakePackageRepo struct {
	mu       sync.Mutex
	pkgs     map[string]*domain.TourPackage
	order    []string
	err      error
	getCalls int
}

func newFakePackageRepo(pkgs ...domain.TourPackage) *fakePackageRepo {
	f := &fakePackageRepo{pkgs: make(map[string]*domain.TourPackage)}
	for i := range pkgs {
		p := pkgs[i]
		f.pkgs[p.ID] = &p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakePackageRepo) Create(_ context.Context, pkg *domain.TourPackage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	p := *pkg
	f.pkgs[p.ID] = &p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakePackageRepo) GetByID(_ context.Context, id string) (*domain.TourPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.pkgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePackageRepo) List(_ context.Context, search string) ([]domain.TourPackage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.TourPackage, 0)
	needle := strings.ToLower(search)
	for _, id := range f.order {
		p, ok := f.pkgs[id]
		if !ok {
			continue
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(p.TourName), needle) ||
			strings.Contains(strings.ToLower(p.Destination), needle) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) ListRecent(ctx context.Context, limit int) ([]domain.TourPackage, error) {
	all, err := f.List(ctx, "")
	if err != nil {
		return nil, err
	}
	// newest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePackageRepo) ListByCreator(ctx context.Context, email string) ([]domain.TourPackage, error) {
	all, err := f.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]domain.TourPackage, 0)
	for _, p := range all {
		if p.CreatedByEmail == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) Update(_ context.Context, pkg *domain.TourPackage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	existing, ok := f.pkgs[pkg.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p := *pkg
	p.BookingCount = existing.BookingCount
	p.CreatedByEmail = existing.CreatedByEmail
	p.GuideEmail = existing.GuideEmail
	p.CreatedAt = existing.CreatedAt
	f.pkgs[pkg.ID] = &p
	return nil
}

func (f *fakePackageRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.pkgs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.pkgs, id)
	return nil
}

func (f *fakePackageRepo) IncrementBookingCount(_ context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.incrementLocked(id, delta)
}

func (f *fakePackageRepo) incrementLocked(id string, delta int) error {
	p, ok := f.pkgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.BookingCount += delta
	return nil
}

func (f *fakePackageRepo) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.pkgs[id]; ok {
		return p.BookingCount
	}
	return -1
}

// fakeBookingRepo enforces the (package, tourist) uniqueness and bumps the
// package counter in the same step, like the SQL implementation
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []domain.Booking
	packages *fakePackageRepo

	// hideExisting makes ExistsForTourist answer false, simulating a
	// concurrent twin that passed the pre-check
	hideExisting bool
	createErr    error
	err          error
}

func newFakeBookingRepo(packages *fakePackageRepo, bookings ...domain.Booking) *fakeBookingRepo {
	return &fakeBookingRepo{packages: packages, bookings: bookings}
}

func (f *fakeBookingRepo) CreateWithCounter(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.bookings {
		if existing.PackageID == b.PackageID && existing.TouristEmail == b.TouristEmail {
			return repository.ErrDuplicate
		}
	}

	f.packages.mu.Lock()
	defer f.packages.mu.Unlock()
	if err := f.packages.incrementLocked(b.PackageID, 1); err != nil {
		return err
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) ExistsForTourist(_ context.Context, packageID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.hideExisting {
		return false, nil
	}
	for _, b := range f.bookings {
		if b.PackageID == packageID && b.TouristEmail == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookingRepo) ListByTourist(_ context.Context, email string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Booking, 0)
	for _, b := range f.bookings {
		if b.TouristEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeBookingRepo) all() []domain.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Booking(nil), f.bookings...)
}
