package models

import (
	"safari/internal/domain"

	"github.com/shopspring/decimal"
)

// Package is a tour product (e.g. "Evening Desert Safari") that deals hang off.
type Package struct {
	ID       int64  `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	Duration string `json:"duration"`
	Status   string `json:"status"`
	Deals    []Deal `json:"deals,omitempty"`
}

// Deal is a priced variant of a package. Price is per adult or child.
type Deal struct {
	ID          int64             `json:"id"`
	PackageID   int64             `json:"package_id"`
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Status      domain.DealStatus `json:"status"`
	SortOrder   int               `json:"sort_order"`
}

// Addon is an optional paid extra attachable to a booking with a quantity.
type Addon struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
}

// DealInput is the admin payload for creating or updating a deal.
type DealInput struct {
	PackageID   int64  `json:"package_id"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Status      string `json:"status"`
	SortOrder   int    `json:"sort_order"`
}

// AddonInput is the admin payload for creating or updating an add-on.
type AddonInput struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}
