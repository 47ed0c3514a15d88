package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"safari/internal/domain"
	"safari/internal/domain/models"

	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	packages map[int64]models.Package
	deals    map[int64]models.Deal
	addons   map[int64]models.Addon
	nextID   int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		packages: map[int64]models.Package{
			3: {ID: 3, Slug: "evening-desert-safari", Title: "Evening Desert Safari", Status: "active"},
			4: {ID: 4, Slug: "hidden", Title: "Hidden", Status: "inactive"},
		},
		deals: map[int64]models.Deal{
			1: {ID: 1, PackageID: 3, Name: "Premium Package", Price: decimal.NewFromInt(150), Status: domain.DealActive, SortOrder: 1},
			2: {ID: 2, PackageID: 3, Name: "Old Package", Price: decimal.NewFromInt(90), Status: domain.DealInactive, SortOrder: 2},
			5: {ID: 5, PackageID: 4, Name: "Elsewhere", Price: decimal.NewFromInt(10), Status: domain.DealActive},
		},
		addons: map[int64]models.Addon{
			10: {ID: 10, Name: "Quad bike ride", Price: decimal.NewFromInt(50), IsActive: true},
			11: {ID: 11, Name: "Henna painting", Price: decimal.RequireFromString("25.50"), IsActive: true},
			12: {ID: 12, Name: "Falcon show", Price: decimal.NewFromInt(80), IsActive: false},
		},
		nextID: 100,
	}
}

func (f *fakeCatalog) ListPackages(ctx context.Context) ([]models.Package, error) {
	out := []models.Package{}
	for _, p := range f.packages {
		if p.Status == "active" {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetPackageByID(ctx context.Context, id int64) (models.Package, error) {
	p, ok := f.packages[id]
	if !ok {
		return models.Package{}, domain.NotFoundError{Resource: "package"}
	}
	return p, nil
}

func (f *fakeCatalog) GetPackageBySlug(ctx context.Context, slug string) (models.Package, error) {
	for _, p := range f.packages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.Package{}, domain.NotFoundError{Resource: "package"}
}

func (f *fakeCatalog) ListDeals(ctx context.Context, packageID int64, activeOnly bool) ([]models.Deal, error) {
	out := []models.Deal{}
	for _, d := range f.deals {
		if d.PackageID == packageID && (!activeOnly || d.Status == domain.DealActive) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (f *fakeCatalog) GetDeal(ctx context.Context, id int64) (models.Deal, error) {
	d, ok := f.deals[id]
	if !ok {
		return models.Deal{}, domain.NotFoundError{Resource: "deal"}
	}
	return d, nil
}

func (f *fakeCatalog) CreateDeal(ctx context.Context, d models.Deal) (int64, error) {
	f.nextID++
	d.ID = f.nextID
	f.deals[d.ID] = d
	return d.ID, nil
}

func (f *fakeCatalog) UpdateDeal(ctx context.Context, d models.Deal) error {
	f.deals[d.ID] = d
	return nil
}

func (f *fakeCatalog) ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error) {
	out := []models.Addon{}
	for _, a := range f.addons {
		if !activeOnly || a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetAddons(ctx context.Context, ids []int64) ([]models.Addon, error) {
	out := []models.Addon{}
	for _, id := range ids {
		if a, ok := f.addons[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetAddon(ctx context.Context, id int64) (models.Addon, error) {
	a, ok := f.addons[id]
	if !ok {
		return models.Addon{}, domain.NotFoundError{Resource: "addon"}
	}
	return a, nil
}

func (f *fakeCatalog) CreateAddon(ctx context.Context, a models.Addon) (int64, error) {
	f.nextID++
	a.ID = f.nextID
	f.addons[a.ID] = a
	return a.ID, nil
}

func (f *fakeCatalog) UpdateAddon(ctx context.Context, a models.Addon) error {
	f.addons[a.ID] = a
	return nil
}

type fakeBookings struct {
	mu        sync.Mutex
	rows      map[int64]models.BookingRecord
	nextID    int64
	conflicts int // number of Create calls to fail with a reference conflict
	creates   int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{rows: map[int64]models.BookingRecord{}}
}

func (f *fakeBookings) Create(ctx context.Context, b models.BookingRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.conflicts > 0 {
		f.conflicts--
		return 0, domain.ConflictError{Resource: "booking", Msg: "reference already used"}
	}
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.rows[b.ID] = b
	return b.ID, nil
}

func (f *fakeBookings) GetByID(ctx context.Context, id int64) (models.BookingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return models.BookingRecord{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (f *fakeBookings) List(ctx context.Context, flt models.BookingFilter) (models.BookingPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := models.BookingPage{Items: []models.BookingRecord{}, Page: flt.Page.Page, PageSize: flt.Page.PageSize}
	for _, b := range f.rows {
		if flt.Status == "" || string(b.Status) == flt.Status {
			page.Items = append(page.Items, b)
		}
	}
	page.Total = len(page.Items)
	return page, nil
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok || b.Status != from {
		return domain.ConflictError{Resource: "booking"}
	}
	b.Status = to
	f.rows[id] = b
	return nil
}

type fakeAdmins struct {
	byEmail map[string]models.Admin
}

func (f *fakeAdmins) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return models.Admin{}, domain.NotFoundError{Resource: "admin"}
	}
	return a, nil
}

func (f *fakeAdmins) Create(ctx context.Context, a models.Admin) (int64, error) {
	a.ID = int64(len(f.byEmail) + 1)
	f.byEmail[a.Email] = a
	return a.ID, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.BookingCreatedEvent
}

func (p *fakePublisher) PublishBookingCreated(ctx context.Context, ev models.BookingCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}
