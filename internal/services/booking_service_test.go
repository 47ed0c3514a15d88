package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/idempotency"

	"github.com/shopspring/decimal"
)

func fixedNow() time.Time {
	return time.Date(2026, 11, 1, 10, 0, 0, 0, time.Local)
}

func newBookingService() (BookingService, *fakeBookings, *fakePublisher) {
	bookings := newFakeBookings()
	pub := &fakePublisher{}
	return BookingService{
		Catalog:     newFakeCatalog(),
		Bookings:    bookings,
		Idempotency: idempotency.NewMemoryStore(time.Hour),
		Events:      pub,
		Now:         fixedNow,
	}, bookings, pub
}

func validRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		PackageID:   3,
		DealID:      1,
		BookingDate: "2026-12-01",
		Adults:      2,
		Children:    1,
		FirstName:   " Layla ",
		LastName:    "Haddad",
		Email:       "Layla@Example.com",
		Phone:       "+971 50 123 4567",
		Addons:      []models.AddonLine{{AddonID: 10, Quantity: 2}},
	}
}

func TestCreateBookingComputesServerTotal(t *testing.T) {
	svc, bookings, pub := newBookingService()

	res, err := svc.Create(context.Background(), validRequest(), "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if res.BookingID <= 0 || !strings.HasPrefix(res.Reference, "DS-") || len(res.Reference) != 11 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.TotalPrice.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("total: got %s want 550", res.TotalPrice)
	}

	rec := bookings.rows[res.BookingID]
	if rec.Status != domain.BookingPending {
		t.Fatalf("status: %s", rec.Status)
	}
	if !rec.BasePrice.Equal(decimal.NewFromInt(450)) || !rec.AddonsTotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("base/addons: %s/%s", rec.BasePrice, rec.AddonsTotal)
	}
	if rec.WhatsApp != "+971501234567" || rec.Email != "layla@example.com" || rec.FirstName != "Layla" {
		t.Fatalf("contact not normalized: %+v", rec)
	}
	if len(rec.Addons) != 1 || rec.Addons[0].Name != "Quad bike ride" {
		t.Fatalf("addon lines: %+v", rec.Addons)
	}
	if len(pub.events) != 1 || pub.events[0].BookingID != res.BookingID {
		t.Fatalf("event not published: %+v", pub.events)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*models.CreateBookingRequest)
		field string
	}{
		{"missing date", func(r *models.CreateBookingRequest) { r.BookingDate = "" }, "booking_date"},
		{"bad date", func(r *models.CreateBookingRequest) { r.BookingDate = "01/12/2026" }, "booking_date"},
		{"past date", func(r *models.CreateBookingRequest) { r.BookingDate = "2026-10-31" }, "booking_date"},
		{"no adults", func(r *models.CreateBookingRequest) { r.Adults = 0 }, "adults"},
		{"negative children", func(r *models.CreateBookingRequest) { r.Children = -1 }, "children"},
		{"missing first name", func(r *models.CreateBookingRequest) { r.FirstName = "  " }, "first_name"},
		{"bad email", func(r *models.CreateBookingRequest) { r.Email = "not-an-email" }, "email"},
		{"missing phone", func(r *models.CreateBookingRequest) { r.Phone = "" }, "phone"},
		{"zero addon qty", func(r *models.CreateBookingRequest) { r.Addons = []models.AddonLine{{AddonID: 10}} }, "addons"},
		{"unknown addon", func(r *models.CreateBookingRequest) { r.Addons = []models.AddonLine{{AddonID: 404, Quantity: 1}} }, "addons"},
		{"inactive addon", func(r *models.CreateBookingRequest) { r.Addons = []models.AddonLine{{AddonID: 12, Quantity: 1}} }, "addons"},
		{"unknown deal", func(r *models.CreateBookingRequest) { r.DealID = 999 }, "deal_id"},
		{"inactive deal", func(r *models.CreateBookingRequest) { r.DealID = 2 }, "deal_id"},
		{"deal of other package", func(r *models.CreateBookingRequest) { r.DealID = 5 }, "deal_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, bookings, _ := newBookingService()
			req := validRequest()
			tc.edit(&req)

			_, err := svc.Create(context.Background(), req, "")
			var ve domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field: got %q want %q (%v)", ve.Field, tc.field, err)
			}
			if bookings.creates != 0 {
				t.Fatalf("invalid booking reached the store")
			}
		})
	}
}

func TestCreateBookingTodayIsAllowed(t *testing.T) {
	svc, _, _ := newBookingService()
	req := validRequest()
	req.BookingDate = "2026-11-01"
	if _, err := svc.Create(context.Background(), req, ""); err != nil {
		t.Fatalf("same-day booking rejected: %v", err)
	}
}

func TestCreateBookingIdempotencyKeyReplays(t *testing.T) {
	svc, bookings, pub := newBookingService()

	first, err := svc.Create(context.Background(), validRequest(), "key-1")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), validRequest(), "key-1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if first.BookingID != second.BookingID || first.Reference != second.Reference {
		t.Fatalf("replay returned a different booking: %+v vs %+v", first, second)
	}
	if len(bookings.rows) != 1 || len(pub.events) != 1 {
		t.Fatalf("duplicate booking stored: rows=%d events=%d", len(bookings.rows), len(pub.events))
	}
}

func TestCreateBookingReleasesKeyOnFailure(t *testing.T) {
	svc, _, _ := newBookingService()
	bad := validRequest()
	bad.DealID = 999
	if _, err := svc.Create(context.Background(), bad, "key-2"); err == nil {
		t.Fatalf("expected failure")
	}
	if _, err := svc.Create(context.Background(), validRequest(), "key-2"); err != nil {
		t.Fatalf("key should be usable after a failed attempt: %v", err)
	}
}

func TestCreateBookingRetriesReferenceCollision(t *testing.T) {
	svc, bookings, _ := newBookingService()
	bookings.conflicts = 2
	if _, err := svc.Create(context.Background(), validRequest(), ""); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if bookings.creates != 3 {
		t.Fatalf("expected 3 attempts, got %d", bookings.creates)
	}

	bookings.conflicts = referenceAttempts
	if _, err := svc.Create(context.Background(), validRequest(), ""); !domain.IsConflict(err) {
		t.Fatalf("expected conflict after exhausting attempts, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, _ := newBookingService()
	res, err := svc.Create(context.Background(), validRequest(), "")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, res.BookingID, "completed"); !domain.IsConflict(err) {
		t.Fatalf("pending -> completed should conflict, got %v", err)
	}
	rec, err := svc.UpdateStatus(ctx, res.BookingID, "Confirmed")
	if err != nil || rec.Status != domain.BookingConfirmed {
		t.Fatalf("confirm: %v %s", err, rec.Status)
	}
	if rec, err = svc.UpdateStatus(ctx, res.BookingID, "completed"); err != nil || rec.Status != domain.BookingCompleted {
		t.Fatalf("complete: %v %s", err, rec.Status)
	}
	if _, err := svc.UpdateStatus(ctx, res.BookingID, "cancelled"); !domain.IsConflict(err) {
		t.Fatalf("completed is final, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, res.BookingID, "archived"); !domain.IsValidation(err) {
		t.Fatalf("unknown status should be a validation error, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 999, "confirmed"); !domain.IsNotFound(err) {
		t.Fatalf("missing booking should be not found, got %v", err)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newBookingService()
	if _, err := svc.List(context.Background(), models.BookingFilter{Status: "lost"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	page, err := svc.List(context.Background(), models.BookingFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.PageSize != 20 || page.Page != 1 {
		t.Fatalf("paging not normalized: %+v", page)
	}
}

func TestNewReferenceFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := NewReference()
		if len(ref) != 11 || !strings.HasPrefix(ref, "DS-") || strings.ToUpper(ref) != ref {
			t.Fatalf("bad reference %q", ref)
		}
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}
