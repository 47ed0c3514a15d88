package booking

import (
	"safari/internal/domain/models"

	"github.com/shopspring/decimal"
)

// LineKind identifies what a quote line charges for.
type LineKind string

const (
	LineAdults   LineKind = "adults"
	LineChildren LineKind = "children"
	LineInfants  LineKind = "infants"
	LineAddon    LineKind = "addon"
)

// Line is one displayed row of a price breakdown.
type Line struct {
	Kind      LineKind
	RefID     int64
	Label     string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Quote is a price breakdown. Total is always the sum of Lines.
type Quote struct {
	Deal        *models.Deal
	Lines       []Line
	Base        decimal.Decimal
	AddonsTotal decimal.Decimal
	Total       decimal.Decimal
}

// QuoteFor prices a deal, head counts and add-on selection against the given
// deals and add-on catalog. An unknown deal yields an empty zero quote; an
// add-on missing from the catalog is skipped. Nothing is rounded.
func QuoteFor(dealID int64, guests GuestCounts, addons AddonSelection, deals []models.Deal, catalog []models.Addon) Quote {
	q := Quote{Base: decimal.Zero, AddonsTotal: decimal.Zero, Total: decimal.Zero}

	deal, ok := findDeal(deals, dealID)
	if !ok {
		return q
	}
	q.Deal = &deal

	q.add(Line{Kind: LineAdults, RefID: deal.ID, Label: "Adults", Quantity: guests.Adults, UnitPrice: deal.Price})
	if guests.Children > 0 {
		q.add(Line{Kind: LineChildren, RefID: deal.ID, Label: "Children", Quantity: guests.Children, UnitPrice: deal.Price})
	}
	if guests.Infants > 0 {
		q.add(Line{Kind: LineInfants, RefID: deal.ID, Label: "Infants", Quantity: guests.Infants, UnitPrice: decimal.Zero})
	}

	prices := addonIndex(catalog)
	for _, item := range addons.Items() {
		a, ok := prices[item.AddonID]
		if !ok {
			continue
		}
		q.add(Line{Kind: LineAddon, RefID: a.ID, Label: a.Name, Quantity: item.Quantity, UnitPrice: a.Price})
	}
	return q
}

// ComputeQuote prices a draft.
func ComputeQuote(d Draft, deals []models.Deal, catalog []models.Addon) Quote {
	return QuoteFor(d.DealID, d.Guests, d.Addons, deals, catalog)
}

// ComputeTotal is the displayed total of a draft:
// price*adults + price*children + sum(addon price * qty).
func ComputeTotal(d Draft, deals []models.Deal, catalog []models.Addon) decimal.Decimal {
	return ComputeQuote(d, deals, catalog).Total
}

func (q *Quote) add(l Line) {
	l.Total = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
	q.Lines = append(q.Lines, l)
	if l.Kind == LineAddon {
		q.AddonsTotal = q.AddonsTotal.Add(l.Total)
	} else {
		q.Base = q.Base.Add(l.Total)
	}
	q.Total = q.Total.Add(l.Total)
}

func findDeal(deals []models.Deal, id int64) (models.Deal, bool) {
	if id <= 0 {
		return models.Deal{}, false
	}
	for _, d := range deals {
		if d.ID == id {
			return d, true
		}
	}
	return models.Deal{}, false
}

func addonIndex(catalog []models.Addon) map[int64]models.Addon {
	idx := make(map[int64]models.Addon, len(catalog))
	for _, a := range catalog {
		idx[a.ID] = a
	}
	return idx
}
