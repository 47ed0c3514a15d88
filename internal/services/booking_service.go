package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"safari/internal/booking"
	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/events"
	"safari/internal/idempotency"
	"safari/internal/utils"

	"github.com/google/uuid"
)

const referenceAttempts = 3

// BookingService validates and stores public bookings and runs the admin
// status workflow. Idempotency and Events are optional.
type BookingService struct {
	Catalog     CatalogStore
	Bookings    BookingStore
	Idempotency idempotency.Store
	Events      events.Publisher
	Now         func() time.Time
	RequestID   string
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create validates req strictly, prices it and stores it as pending. A
// repeated idemKey returns the booking created by the first request.
func (s BookingService) Create(ctx context.Context, req models.CreateBookingRequest, idemKey string) (models.CreateBookingResult, error) {
	if err := validateCreate(req, s.now()); err != nil {
		s.logRejected(err)
		return models.CreateBookingResult{}, err
	}

	idemKey = strings.TrimSpace(idemKey)
	if idemKey != "" && s.Idempotency != nil {
		existing, err := s.Idempotency.Reserve(ctx, idemKey)
		switch {
		case errors.Is(err, idempotency.ErrInProgress):
			return models.CreateBookingResult{}, domain.ConflictError{Resource: "booking", Msg: "a request with this Idempotency-Key is still in progress", Err: err}
		case err != nil:
			utils.LogEventf(s.RequestID, "booking", "idempotency", "reserve failed, continuing without key: %v", err)
			idemKey = ""
		case existing > 0:
			rec, err := s.Bookings.GetByID(ctx, existing)
			if err != nil {
				return models.CreateBookingResult{}, domain.InternalError{Err: err}
			}
			utils.LogEventf(s.RequestID, "booking", "create", "replayed booking_id=%d", existing)
			return resultFrom(rec), nil
		}
	} else {
		idemKey = ""
	}

	committed := false
	defer func() {
		if idemKey != "" && !committed {
			_ = s.Idempotency.Release(context.WithoutCancel(ctx), idemKey)
		}
	}()

	rec, err := s.price(ctx, req)
	if err != nil {
		s.logRejected(err)
		return models.CreateBookingResult{}, err
	}

	var id int64
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		rec.Reference = NewReference()
		id, err = s.Bookings.Create(ctx, rec)
		if !domain.IsConflict(err) {
			break
		}
	}
	if err != nil {
		if domain.IsConflict(err) {
			return models.CreateBookingResult{}, err
		}
		return models.CreateBookingResult{}, domain.InternalError{Err: err}
	}
	rec.ID = id
	committed = true

	if idemKey != "" {
		if err := s.Idempotency.Complete(ctx, idemKey, id); err != nil {
			utils.LogEventf(s.RequestID, "booking", "idempotency", "complete failed booking_id=%d: %v", id, err)
		}
	}
	utils.LogEventf(s.RequestID, "booking", "create", "booking_id=%d reference=%s deal_id=%d total=%s",
		id, rec.Reference, rec.DealID, utils.FormatMoney(rec.TotalPrice.Decimal))

	s.publishCreated(ctx, rec)
	return resultFrom(rec), nil
}

func (s BookingService) logRejected(err error) {
	if domain.IsValidation(err) {
		utils.LogEventf(s.RequestID, "booking", "create", "rejected: %v", err)
	}
}

// price resolves the deal and add-ons and fills in the stored amounts.
func (s BookingService) price(ctx context.Context, req models.CreateBookingRequest) (models.BookingRecord, error) {
	deal, err := s.Catalog.GetDeal(ctx, req.DealID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.BookingRecord{}, domain.ValidationError{Field: "deal_id", Msg: "unknown deal", Err: err}
		}
		return models.BookingRecord{}, domain.InternalError{Err: err}
	}
	if deal.Status != domain.DealActive {
		return models.BookingRecord{}, domain.ValidationError{Field: "deal_id", Msg: "deal is not available"}
	}
	if deal.PackageID != req.PackageID {
		return models.BookingRecord{}, domain.ValidationError{Field: "deal_id", Msg: "deal does not belong to this package"}
	}

	sel := booking.SelectionFromLines(req.Addons)
	catalog, err := s.Catalog.GetAddons(ctx, sel.IDs())
	if err != nil {
		return models.BookingRecord{}, domain.InternalError{Err: err}
	}
	known := make(map[int64]models.Addon, len(catalog))
	for _, a := range catalog {
		known[a.ID] = a
	}
	for _, id := range sel.IDs() {
		a, ok := known[id]
		if !ok {
			return models.BookingRecord{}, domain.ValidationError{Field: "addons", Msg: fmt.Sprintf("unknown add-on %d", id)}
		}
		if !a.IsActive {
			return models.BookingRecord{}, domain.ValidationError{Field: "addons", Msg: fmt.Sprintf("add-on %d is not available", id)}
		}
	}

	guests := booking.NewGuestCounts(req.Adults, req.Children, req.Infants)
	q := booking.QuoteFor(deal.ID, guests, sel, []models.Deal{deal}, catalog)

	rec := models.BookingRecord{
		PackageID:       req.PackageID,
		DealID:          deal.ID,
		DealName:        deal.Name,
		BookingDate:     strings.TrimSpace(req.BookingDate),
		Adults:          guests.Adults,
		Children:        guests.Children,
		Infants:         guests.Infants,
		FirstName:       utils.NormalizeSpace(req.FirstName),
		LastName:        utils.NormalizeSpace(req.LastName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           utils.NormalizePhone(req.Phone),
		WhatsApp:        utils.NormalizePhone(utils.FirstNonEmpty(req.WhatsApp, req.Phone)),
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		BasePrice:       models.NewAmount(q.Base),
		AddonsTotal:     models.NewAmount(q.AddonsTotal),
		TotalPrice:      models.NewAmount(q.Total),
		Status:          domain.BookingPending,
		Addons:          []models.BookingAddon{},
	}
	for _, l := range q.Lines {
		if l.Kind != booking.LineAddon {
			continue
		}
		rec.Addons = append(rec.Addons, models.BookingAddon{
			AddonID:   l.RefID,
			Name:      l.Label,
			Quantity:  l.Quantity,
			UnitPrice: models.NewAmount(l.UnitPrice),
			LineTotal: models.NewAmount(l.Total),
		})
	}
	return rec, nil
}

func (s BookingService) publishCreated(ctx context.Context, rec models.BookingRecord) {
	if s.Events == nil {
		return
	}
	ev := models.BookingCreatedEvent{
		BookingID:   rec.ID,
		Reference:   rec.Reference,
		PackageID:   rec.PackageID,
		DealID:      rec.DealID,
		BookingDate: rec.BookingDate,
		Email:       rec.Email,
		TotalPrice:  rec.TotalPrice,
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.PublishBookingCreated(pubCtx, ev); err != nil {
		utils.LogEventf(s.RequestID, "booking", "publish", "booking_id=%d failed: %v", rec.ID, err)
	}
}

func (s BookingService) Get(ctx context.Context, id int64) (models.BookingRecord, error) {
	if id <= 0 {
		return models.BookingRecord{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	return s.Bookings.GetByID(ctx, id)
}

func (s BookingService) List(ctx context.Context, f models.BookingFilter) (models.BookingPage, error) {
	if f.Status != "" {
		if _, ok := domain.ParseBookingStatus(f.Status); !ok {
			return models.BookingPage{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
		}
	}
	f.Page = f.Page.Normalize()
	return s.Bookings.List(ctx, f)
}

// UpdateStatus applies an admin status change if the transition is allowed.
func (s BookingService) UpdateStatus(ctx context.Context, id int64, status string) (models.BookingRecord, error) {
	to, ok := domain.ParseBookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return models.BookingRecord{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}
	cur, err := s.Get(ctx, id)
	if err != nil {
		return models.BookingRecord{}, err
	}
	if !cur.Status.CanTransition(to) {
		return models.BookingRecord{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("cannot change status from %s to %s", cur.Status, to),
		}
	}
	if err := s.Bookings.UpdateStatus(ctx, id, cur.Status, to); err != nil {
		return models.BookingRecord{}, err
	}
	utils.LogEventf(s.RequestID, "booking", "update_status", "booking_id=%d %s->%s", id, cur.Status, to)
	return s.Bookings.GetByID(ctx, id)
}

// NewReference returns a booking reference such as DS-4F9A01C2.
func NewReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "DS-" + strings.ToUpper(raw[:8])
}

func resultFrom(rec models.BookingRecord) models.CreateBookingResult {
	return models.CreateBookingResult{BookingID: rec.ID, Reference: rec.Reference, TotalPrice: rec.TotalPrice}
}

func validateCreate(req models.CreateBookingRequest, now time.Time) error {
	switch {
	case req.PackageID <= 0:
		return domain.ValidationError{Field: "package_id", Msg: "required"}
	case req.DealID <= 0:
		return domain.ValidationError{Field: "deal_id", Msg: "required"}
	case strings.TrimSpace(req.BookingDate) == "":
		return domain.ValidationError{Field: "booking_date", Msg: "required"}
	}
	date, err := utils.ParseDate(req.BookingDate)
	if err != nil {
		return domain.ValidationError{Field: "booking_date", Msg: "must be YYYY-MM-DD", Err: err}
	}
	if !utils.SameOrAfterDay(date, now) {
		return domain.ValidationError{Field: "booking_date", Msg: "must not be in the past"}
	}

	switch {
	case req.Adults < 1:
		return domain.ValidationError{Field: "adults", Msg: "at least one adult is required"}
	case req.Children < 0:
		return domain.ValidationError{Field: "children", Msg: "must not be negative"}
	case req.Infants < 0:
		return domain.ValidationError{Field: "infants", Msg: "must not be negative"}
	case strings.TrimSpace(req.FirstName) == "":
		return domain.ValidationError{Field: "first_name", Msg: "required"}
	case strings.TrimSpace(req.LastName) == "":
		return domain.ValidationError{Field: "last_name", Msg: "required"}
	case !utils.ValidEmail(req.Email):
		return domain.ValidationError{Field: "email", Msg: "invalid email"}
	case utils.NormalizePhone(req.Phone) == "":
		return domain.ValidationError{Field: "phone", Msg: "required"}
	}

	for _, a := range req.Addons {
		if a.AddonID <= 0 {
			return domain.ValidationError{Field: "addons", Msg: "invalid add-on id"}
		}
		if a.Quantity <= 0 {
			return domain.ValidationError{Field: "addons", Msg: fmt.Sprintf("quantity for add-on %d must be positive", a.AddonID)}
		}
	}
	return nil
}
