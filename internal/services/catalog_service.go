package services

import (
	"context"
	"strings"

	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/utils"

	"github.com/shopspring/decimal"
)

type CatalogService struct {
	Catalog   CatalogStore
	RequestID string
}

func (s CatalogService) Packages(ctx context.Context) ([]models.Package, error) {
	return s.Catalog.ListPackages(ctx)
}

// PackageBySlug returns an active package together with its active deals.
func (s CatalogService) PackageBySlug(ctx context.Context, slug string) (models.Package, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return models.Package{}, domain.ValidationError{Field: "slug", Msg: "required"}
	}
	p, err := s.Catalog.GetPackageBySlug(ctx, slug)
	if err != nil {
		return models.Package{}, err
	}
	if p.Status != "active" {
		return models.Package{}, domain.NotFoundError{Resource: "package"}
	}
	deals, err := s.Catalog.ListDeals(ctx, p.ID, true)
	if err != nil {
		return models.Package{}, domain.InternalError{Err: err}
	}
	p.Deals = deals
	return p, nil
}

// PackageDeals lists the active deals of a package in display order.
func (s CatalogService) PackageDeals(ctx context.Context, packageID int64) ([]models.Deal, error) {
	if packageID <= 0 {
		return nil, domain.ValidationError{Field: "package_id", Msg: "required"}
	}
	if _, err := s.Catalog.GetPackageByID(ctx, packageID); err != nil {
		return nil, err
	}
	return s.Catalog.ListDeals(ctx, packageID, true)
}

// Addons lists the add-ons currently offered.
func (s CatalogService) Addons(ctx context.Context) ([]models.Addon, error) {
	return s.Catalog.ListAddons(ctx, true)
}

func (s CatalogService) CreateDeal(ctx context.Context, in models.DealInput) (models.Deal, error) {
	d, err := s.dealFromInput(ctx, in)
	if err != nil {
		return models.Deal{}, err
	}
	id, err := s.Catalog.CreateDeal(ctx, d)
	if err != nil {
		return models.Deal{}, domain.InternalError{Err: err}
	}
	d.ID = id
	utils.LogEventf(s.RequestID, "catalog", "create_deal", "deal_id=%d package_id=%d", id, d.PackageID)
	return d, nil
}

func (s CatalogService) UpdateDeal(ctx context.Context, id int64, in models.DealInput) (models.Deal, error) {
	if id <= 0 {
		return models.Deal{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	if _, err := s.Catalog.GetDeal(ctx, id); err != nil {
		return models.Deal{}, err
	}
	d, err := s.dealFromInput(ctx, in)
	if err != nil {
		return models.Deal{}, err
	}
	d.ID = id
	if err := s.Catalog.UpdateDeal(ctx, d); err != nil {
		return models.Deal{}, domain.InternalError{Err: err}
	}
	utils.LogEventf(s.RequestID, "catalog", "update_deal", "deal_id=%d", id)
	return d, nil
}

func (s CatalogService) dealFromInput(ctx context.Context, in models.DealInput) (models.Deal, error) {
	name := utils.NormalizeSpace(in.Name)
	if name == "" {
		return models.Deal{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if in.PackageID <= 0 {
		return models.Deal{}, domain.ValidationError{Field: "package_id", Msg: "required"}
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.Deal{}, err
	}
	status := domain.DealStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	switch status {
	case "":
		status = domain.DealActive
	case domain.DealActive, domain.DealInactive:
	default:
		return models.Deal{}, domain.ValidationError{Field: "status", Msg: "must be active or inactive"}
	}
	if _, err := s.Catalog.GetPackageByID(ctx, in.PackageID); err != nil {
		if domain.IsNotFound(err) {
			return models.Deal{}, domain.ValidationError{Field: "package_id", Msg: "unknown package", Err: err}
		}
		return models.Deal{}, err
	}
	return models.Deal{
		PackageID:   in.PackageID,
		Name:        name,
		Tagline:     strings.TrimSpace(in.Tagline),
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Status:      status,
		SortOrder:   in.SortOrder,
	}, nil
}

func (s CatalogService) CreateAddon(ctx context.Context, in models.AddonInput) (models.Addon, error) {
	a, err := addonFromInput(in, true)
	if err != nil {
		return models.Addon{}, err
	}
	id, err := s.Catalog.CreateAddon(ctx, a)
	if err != nil {
		return models.Addon{}, domain.InternalError{Err: err}
	}
	a.ID = id
	utils.LogEventf(s.RequestID, "catalog", "create_addon", "addon_id=%d", id)
	return a, nil
}

// UpdateAddon replaces an add-on's fields. A missing is_active keeps the
// current value.
func (s CatalogService) UpdateAddon(ctx context.Context, id int64, in models.AddonInput) (models.Addon, error) {
	if id <= 0 {
		return models.Addon{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	cur, err := s.Catalog.GetAddon(ctx, id)
	if err != nil {
		return models.Addon{}, err
	}
	a, err := addonFromInput(in, cur.IsActive)
	if err != nil {
		return models.Addon{}, err
	}
	a.ID = id
	if err := s.Catalog.UpdateAddon(ctx, a); err != nil {
		return models.Addon{}, domain.InternalError{Err: err}
	}
	utils.LogEventf(s.RequestID, "catalog", "update_addon", "addon_id=%d active=%t", id, a.IsActive)
	return a, nil
}

// parsePrice accepts non-negative amounts with at most two decimals, the
// precision of the price columns.
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := utils.ParseMoney(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.ValidationError{Field: "price", Msg: "must be a non-negative amount", Err: err}
	}
	if !price.Equal(price.Round(2)) {
		return decimal.Zero, domain.ValidationError{Field: "price", Msg: "must have at most two decimal places"}
	}
	return price, nil
}

func addonFromInput(in models.AddonInput, defaultActive bool) (models.Addon, error) {
	name := utils.NormalizeSpace(in.Name)
	if name == "" {
		return models.Addon{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.Addon{}, err
	}
	active := defaultActive
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.Addon{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(in.Description),
		IsActive:    active,
	}, nil
}
