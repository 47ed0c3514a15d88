package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"safari/internal/domain/models"
	"safari/internal/utils"

	"github.com/shopspring/decimal"
)

// State is a step of the submission workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reason explains a non-successful outcome.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonDateRequired Reason = "date_required"
	ReasonDealRequired Reason = "deal_required"
	ReasonSubmitFailed Reason = "submit_failed"
	ReasonInFlight     Reason = "in_flight"
	ReasonDialogClosed Reason = "dialog_closed"
)

// User-facing notice texts.
const (
	NoticeDateRequired = "Please select a date for your safari."
	NoticeDealRequired = "Please choose a package deal."
	NoticeSubmitFailed = "Booking failed, please try again."
)

var errNoBookingID = errors.New("booking api returned no booking id")

// BookingCreator is the booking-creation endpoint.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResult, error)
}

// Outcome reports what a submit attempt did. Estimate is the client-side
// preview; ServerTotal is what the API stored. They are not reconciled.
type Outcome struct {
	State       State
	Reason      Reason
	Notice      string
	BookingID   int64
	Reference   string
	Estimate    decimal.Decimal
	ServerTotal decimal.Decimal
	Err         error
}

// Submitter runs the validate -> submit workflow with at most one request in
// flight. A failed attempt leaves it ready for another submit.
type Submitter struct {
	api BookingCreator

	mu    sync.Mutex
	busy  bool
	state State
}

func NewSubmitter(api BookingCreator) *Submitter {
	return &Submitter{api: api}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a submission is running; callers disable the submit
// control while it is true.
func (s *Submitter) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Reset returns a finished submitter to Idle. It has no effect while busy.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.busy {
		s.state = StateIdle
	}
}

// Submit validates d and sends it. A call made while another is in flight
// returns immediately with ReasonInFlight and performs no request.
func (s *Submitter) Submit(ctx context.Context, d Draft, deals []models.Deal, catalog []models.Addon) Outcome {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Outcome{State: StateSubmitting, Reason: ReasonInFlight}
	}
	s.busy = true
	s.state = StateValidating
	s.mu.Unlock()

	final := StateIdle
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.state = final
		s.mu.Unlock()
	}()

	if !d.HasDate() {
		return Outcome{State: StateFailed, Reason: ReasonDateRequired, Notice: NoticeDateRequired}
	}
	if !d.HasDeal() {
		return Outcome{State: StateFailed, Reason: ReasonDealRequired, Notice: NoticeDealRequired}
	}

	req := BuildRequest(d, catalog)
	estimate := ComputeTotal(d, deals, catalog)

	s.setState(StateSubmitting)
	res, err := s.api.CreateBooking(ctx, req)
	if err == nil && res.BookingID <= 0 {
		err = errNoBookingID
	}
	if err != nil {
		utils.LogEventf("", "booking", "submit", "deal_id=%d failed: %v", req.DealID, err)
		return Outcome{
			State:    StateFailed,
			Reason:   ReasonSubmitFailed,
			Notice:   NoticeSubmitFailed,
			Estimate: estimate,
			Err:      err,
		}
	}

	final = StateSucceeded
	utils.LogEventf("", "booking", "submit", "booking_id=%d created", res.BookingID)
	return Outcome{
		State:       StateSucceeded,
		BookingID:   res.BookingID,
		Reference:   res.Reference,
		Estimate:    estimate,
		ServerTotal: res.TotalPrice.Decimal,
	}
}

func (s *Submitter) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
