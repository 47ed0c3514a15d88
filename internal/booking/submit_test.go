package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"safari/internal/domain/models"

	"github.com/shopspring/decimal"
)

func TestSubmitWithoutDateMakesNoRequest(t *testing.T) {
	api := newFakeAPI()
	s := NewSubmitter(api)
	d := contactDraft()
	d.Date = time.Time{}

	out := s.Submit(context.Background(), d, testDeals(), testCatalog())
	if out.State != StateFailed || out.Reason != ReasonDateRequired {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if api.callCount() != 0 {
		t.Fatalf("network called %d times", api.callCount())
	}
	if s.State() != StateIdle || s.Busy() {
		t.Fatalf("submitter not reset: state=%s busy=%v", s.State(), s.Busy())
	}
}

func TestSubmitWithoutDealMakesNoRequest(t *testing.T) {
	api := newFakeAPI()
	s := NewSubmitter(api)
	d := contactDraft()
	d.DealID = 0

	out := s.Submit(context.Background(), d, testDeals(), testCatalog())
	if out.State != StateFailed || out.Reason != ReasonDealRequired {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if api.callCount() != 0 {
		t.Fatalf("network called %d times", api.callCount())
	}
}

func TestDateIsCheckedBeforeDeal(t *testing.T) {
	s := NewSubmitter(newFakeAPI())
	out := s.Submit(context.Background(), NewDraft(3), nil, nil)
	if out.Reason != ReasonDateRequired {
		t.Fatalf("expected date_required first, got %s", out.Reason)
	}
}

func TestSingleFlightSubmission(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	api.started = make(chan struct{}, 1)
	s := NewSubmitter(api)
	d := contactDraft()

	first := make(chan Outcome, 1)
	go func() {
		first <- s.Submit(context.Background(), d, testDeals(), testCatalog())
	}()

	select {
	case <-api.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the api")
	}

	if !s.Busy() || s.State() != StateSubmitting {
		t.Fatalf("expected busy submitting, got busy=%v state=%s", s.Busy(), s.State())
	}
	second := s.Submit(context.Background(), d, testDeals(), testCatalog())
	if second.Reason != ReasonInFlight {
		t.Fatalf("second submit: got %+v", second)
	}

	close(api.block)
	out := <-first
	if out.State != StateSucceeded {
		t.Fatalf("first submit: got %+v", out)
	}
	if api.callCount() != 1 {
		t.Fatalf("expected exactly one network call, got %d", api.callCount())
	}
	if s.Busy() {
		t.Fatalf("busy flag not cleared")
	}
}

func TestFailedSubmissionIsRetryable(t *testing.T) {
	api := newFakeAPI()
	api.setErr(errors.New("connection reset"))
	s := NewSubmitter(api)
	d := contactDraft()

	out := s.Submit(context.Background(), d, testDeals(), testCatalog())
	if out.State != StateFailed || out.Reason != ReasonSubmitFailed || out.Notice != NoticeSubmitFailed {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Err == nil {
		t.Fatalf("underlying error should be kept for logging")
	}
	if s.State() != StateIdle || s.Busy() {
		t.Fatalf("submitter should be resubmittable: state=%s busy=%v", s.State(), s.Busy())
	}

	api.setErr(nil)
	out = s.Submit(context.Background(), d, testDeals(), testCatalog())
	if out.State != StateSucceeded || out.BookingID != 42 {
		t.Fatalf("retry: got %+v", out)
	}
	if api.callCount() != 2 {
		t.Fatalf("expected two calls, got %d", api.callCount())
	}
	if s.State() != StateSucceeded {
		t.Fatalf("state after success: %s", s.State())
	}
}

func TestSubmitTreatsMissingIDAsFailure(t *testing.T) {
	api := newFakeAPI()
	api.result = models.CreateBookingResult{}
	out := NewSubmitter(api).Submit(context.Background(), contactDraft(), testDeals(), testCatalog())
	if out.State != StateFailed || out.Reason != ReasonSubmitFailed {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestServerTotalIsReportedAlongsideEstimate(t *testing.T) {
	api := newFakeAPI()
	api.result.TotalPrice = models.NewAmount(decimal.NewFromInt(540))
	out := NewSubmitter(api).Submit(context.Background(), contactDraft(), testDeals(), testCatalog())
	if !out.Estimate.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("estimate: got %s", out.Estimate)
	}
	if !out.ServerTotal.Equal(decimal.NewFromInt(540)) {
		t.Fatalf("server total: got %s", out.ServerTotal)
	}
	if api.lastReq.WhatsApp != "+971501234567" {
		t.Fatalf("payload whatsapp: %q", api.lastReq.WhatsApp)
	}
}
