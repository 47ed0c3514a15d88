package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountEncodesAsNumber(t *testing.T) {
	b, err := json.Marshal(CreateBookingResult{BookingID: 9, TotalPrice: NewAmount(decimal.RequireFromString("550.50"))})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"total_price":550.5`) {
		t.Fatalf("total_price should be a bare number: %s", b)
	}
}

func TestAmountDecodesNumbersAndStrings(t *testing.T) {
	for _, raw := range []string{`{"booking_id":1,"total_price":550}`, `{"booking_id":1,"total_price":"550.00"}`} {
		var res CreateBookingResult
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !res.TotalPrice.Equal(decimal.NewFromInt(550)) {
			t.Fatalf("%s: got %s", raw, res.TotalPrice)
		}
	}
}

func TestCatalogPriceIsDecimalString(t *testing.T) {
	var a Addon
	if err := json.Unmarshal([]byte(`{"id":3,"name":"Sandboarding","price":"45.00","is_active":true}`), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Price.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("price: got %s", a.Price)
	}
	b, _ := json.Marshal(a)
	if !strings.Contains(string(b), `"price":"45"`) {
		t.Fatalf("price should encode as a string: %s", b)
	}
}
