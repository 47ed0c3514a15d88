package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCompleted, BookingCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	if st, ok := ParseBookingStatus("confirmed"); !ok || st != BookingConfirmed {
		t.Fatalf("expected confirmed, got %q %v", st, ok)
	}
	if _, ok := ParseBookingStatus("paid"); ok {
		t.Fatalf("unknown status accepted")
	}
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Page: 0, PageSize: 500}.Normalize()
	if p.Page != 1 || p.PageSize != 100 {
		t.Fatalf("unexpected normalize result: %+v", p)
	}
	if off := (Pagination{Page: 3, PageSize: 20}).Offset(); off != 40 {
		t.Fatalf("offset: got %d want 40", off)
	}
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create booking: %w", ValidationError{Field: "email", Msg: "required"})
	if !IsValidation(err) {
		t.Fatalf("wrapped validation error not detected")
	}
	if IsNotFound(err) {
		t.Fatalf("validation error reported as not found")
	}
	if got := err.Error(); got != "create booking: email: required" {
		t.Fatalf("unexpected message %q", got)
	}

	base := errors.New("sql: no rows")
	nf := NotFoundError{Resource: "booking", Err: base}
	if !errors.Is(nf, base) {
		t.Fatalf("NotFoundError should unwrap to its cause")
	}
	if !IsUnauthorized(UnauthorizedError{}) {
		t.Fatalf("unauthorized not detected")
	}
}
