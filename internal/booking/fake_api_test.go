package booking

import (
	"context"
	"sync"

	"safari/internal/domain"
	"safari/internal/domain/models"

	"github.com/shopspring/decimal"
)

type fakeAPI struct {
	mu      sync.Mutex
	deals   []models.Deal
	addons  []models.Addon
	calls   int
	lastReq models.CreateBookingRequest
	result  models.CreateBookingResult
	err     error

	// block, when set, holds CreateBooking until closed; started is
	// signalled once CreateBooking is entered.
	block   chan struct{}
	started chan struct{}
	// dealsGate, when set, holds PackageDeals until closed regardless of ctx.
	dealsGate chan struct{}
}

func (f *fakeAPI) PackageDeals(ctx context.Context, packageID int64) ([]models.Deal, error) {
	if f.dealsGate != nil {
		<-f.dealsGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Deal, 0, len(f.deals))
	for _, d := range f.deals {
		if d.PackageID == packageID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeAPI) Addons(ctx context.Context) ([]models.Addon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Addon(nil), f.addons...), nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	block, started := f.block, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func testDeals() []models.Deal {
	return []models.Deal{
		{ID: 1, PackageID: 3, Name: "Premium Package", Price: decimal.NewFromInt(150), Status: domain.DealActive},
		{ID: 2, PackageID: 3, Name: "Standard Package", Price: decimal.RequireFromString("99.99"), Status: domain.DealActive},
	}
}

func testCatalog() []models.Addon {
	return []models.Addon{
		{ID: 10, Name: "Quad bike ride", Price: decimal.RequireFromString("50.00"), IsActive: true},
		{ID: 11, Name: "Henna painting", Price: decimal.RequireFromString("25.50"), IsActive: true},
	}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		deals:  testDeals(),
		addons: testCatalog(),
		result: models.CreateBookingResult{BookingID: 42, Reference: "DS-TEST0042", TotalPrice: models.NewAmount(decimal.NewFromInt(550))},
	}
}

type recordingListener struct {
	mu        sync.Mutex
	notices   []Reason
	confirmed []Outcome
}

func (l *recordingListener) Notice(reason Reason, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, reason)
}

func (l *recordingListener) Confirmed(out Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = append(l.confirmed, out)
}
