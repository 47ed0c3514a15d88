package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"safari/internal/domain/models"
)

// ErrDialogClosed is delivered to a pending load when the dialog was closed
// (or reopened) before the response arrived. The response is discarded.
var ErrDialogClosed = errors.New("booking dialog closed")

// CatalogSource loads what the booking dialog needs to price a draft.
type CatalogSource interface {
	PackageDeals(ctx context.Context, packageID int64) ([]models.Deal, error)
	Addons(ctx context.Context) ([]models.Addon, error)
}

// API is everything the dialog talks to.
type API interface {
	CatalogSource
	BookingCreator
}

// Listener receives what the UI shows: inline notices and the redirect to
// the confirmation view.
type Listener interface {
	Notice(reason Reason, text string)
	Confirmed(out Outcome)
}

// Dialog is one booking dialog: it owns the draft while open, loads deals
// and add-ons when opened, and discards everything when closed.
type Dialog struct {
	api       API
	listener  Listener
	submitter *Submitter

	mu     sync.Mutex
	open   bool
	gen    uint64
	cancel context.CancelFunc
	draft  Draft
	deals  []models.Deal
	addons []models.Addon
}

func NewDialog(api API, l Listener) *Dialog {
	return &Dialog{api: api, listener: l, submitter: NewSubmitter(api)}
}

// Open starts a fresh draft for packageID and loads its deals and the add-on
// catalog in the background. The returned channel yields the load result once.
func (d *Dialog) Open(ctx context.Context, packageID int64) <-chan error {
	d.mu.Lock()
	d.closeLocked()
	d.gen++
	gen := d.gen
	loadCtx, cancel := context.WithCancel(ctx)
	d.open = true
	d.cancel = cancel
	d.draft = NewDraft(packageID)
	d.submitter.Reset()
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer cancel()
		deals, err := d.api.PackageDeals(loadCtx, packageID)
		var addons []models.Addon
		if err == nil {
			addons, err = d.api.Addons(loadCtx)
		}

		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.open || d.gen != gen {
			done <- ErrDialogClosed
			return
		}
		if err == nil {
			d.deals = deals
			d.addons = addons
		}
		done <- err
	}()
	return done
}

// Close cancels any pending load and discards the draft.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Dialog) closeLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.open {
		d.gen++
	}
	d.open = false
	d.draft = Draft{}
	d.deals = nil
	d.addons = nil
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Dialog) Deals() []models.Deal {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Deal(nil), d.deals...)
}

func (d *Dialog) Addons() []models.Addon {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Addon(nil), d.addons...)
}

// Draft returns a copy of the current draft.
func (d *Dialog) Draft() Draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft.Clone()
}

// Busy reports whether a submission is in flight.
func (d *Dialog) Busy() bool {
	return d.submitter.Busy()
}

func (d *Dialog) SelectDeal(dealID int64) {
	d.edit(func(dr *Draft) { dr.DealID = dealID })
}

func (d *Dialog) SelectDate(t time.Time) {
	d.edit(func(dr *Draft) { dr.SelectDate(t) })
}

func (d *Dialog) AdjustGuests(kind GuestKind, dir Direction) {
	d.edit(func(dr *Draft) { dr.Guests.Adjust(kind, dir) })
}

func (d *Dialog) AdjustAddon(addonID int64, dir Direction) {
	d.edit(func(dr *Draft) { dr.Addons.Adjust(addonID, dir) })
}

func (d *Dialog) SetContact(c Contact) {
	d.edit(func(dr *Draft) { dr.Contact = c })
}

func (d *Dialog) edit(fn func(*Draft)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return
	}
	fn(&d.draft)
}

// Quote prices the current draft with the loaded deals and add-ons.
func (d *Dialog) Quote() Quote {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ComputeQuote(d.draft, d.deals, d.addons)
}

// Submit sends the current draft. The request is not tied to the dialog:
// closing the dialog mid-flight does not abort it. On success the dialog is
// dismissed and the listener is sent to the confirmation; on failure the
// draft stays as it was.
func (d *Dialog) Submit(ctx context.Context) Outcome {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return Outcome{State: StateIdle, Reason: ReasonDialogClosed}
	}
	draft := d.draft.Clone()
	deals := append([]models.Deal(nil), d.deals...)
	addons := append([]models.Addon(nil), d.addons...)
	gen := d.gen
	d.mu.Unlock()

	out := d.submitter.Submit(context.WithoutCancel(ctx), draft, deals, addons)

	switch out.State {
	case StateFailed:
		if d.listener != nil {
			d.listener.Notice(out.Reason, out.Notice)
		}
	case StateSucceeded:
		d.mu.Lock()
		if d.open && d.gen == gen {
			d.closeLocked()
		}
		d.mu.Unlock()
		if d.listener != nil {
			d.listener.Confirmed(out)
		}
	}
	return out
}
