package models

import (
	"time"

	"safari/internal/domain"

	"github.com/shopspring/decimal"
)

// Amount is a money value that encodes as a bare JSON number.
// Decoding accepts both numbers and quoted strings.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// AddonLine is one add-on entry of a booking request.
type AddonLine struct {
	AddonID  int64 `json:"addon_id"`
	Quantity int   `json:"quantity"`
}

// CreateBookingRequest is the body of POST /public/bookings.
type CreateBookingRequest struct {
	PackageID       int64       `json:"package_id"`
	DealID          int64       `json:"deal_id"`
	BookingDate     string      `json:"booking_date"`
	Adults          int         `json:"adults"`
	Children        int         `json:"children"`
	Infants         int         `json:"infants"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	WhatsApp        string      `json:"whatsapp"`
	SpecialRequests string      `json:"special_requests,omitempty"`
	Addons          []AddonLine `json:"addons"`
}

// CreateBookingResult is the data returned after a booking is stored.
type CreateBookingResult struct {
	BookingID  int64  `json:"booking_id"`
	Reference  string `json:"reference,omitempty"`
	TotalPrice Amount `json:"total_price"`
}

// BookingAddon is a stored add-on line with the price captured at booking time.
type BookingAddon struct {
	AddonID   int64  `json:"addon_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Amount `json:"unit_price"`
	LineTotal Amount `json:"line_total"`
}

// BookingRecord is the server-owned booking. Clients treat it as read-only.
type BookingRecord struct {
	ID              int64                `json:"id"`
	Reference       string               `json:"reference"`
	PackageID       int64                `json:"package_id"`
	PackageTitle    string               `json:"package_title"`
	DealID          int64                `json:"deal_id"`
	DealName        string               `json:"deal_name"`
	BookingDate     string               `json:"booking_date"`
	Adults          int                  `json:"adults"`
	Children        int                  `json:"children"`
	Infants         int                  `json:"infants"`
	FirstName       string               `json:"first_name"`
	LastName        string               `json:"last_name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	WhatsApp        string               `json:"whatsapp"`
	SpecialRequests string               `json:"special_requests,omitempty"`
	BasePrice       Amount               `json:"base_price"`
	AddonsTotal     Amount               `json:"addons_total"`
	TotalPrice      Amount               `json:"total_price"`
	Status          domain.BookingStatus `json:"status"`
	Addons          []BookingAddon       `json:"addons"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// BookingFilter narrows the admin booking list.
type BookingFilter struct {
	Status string
	Page   domain.Pagination
}

// BookingCreatedEvent is published after a booking commits.
type BookingCreatedEvent struct {
	BookingID   int64  `json:"booking_id"`
	Reference   string `json:"reference"`
	PackageID   int64  `json:"package_id"`
	DealID      int64  `json:"deal_id"`
	BookingDate string `json:"booking_date"`
	Email       string `json:"email"`
	TotalPrice  Amount `json:"total_price"`
}

// BookingPage is one page of the admin booking list.
type BookingPage struct {
	Items    []BookingRecord `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}
