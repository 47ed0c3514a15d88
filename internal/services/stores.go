package services

import (
	"context"

	"safari/internal/domain"
	"safari/internal/domain/models"
)

// CatalogStore is implemented by repositories.CatalogRepo.
type CatalogStore interface {
	ListPackages(ctx context.Context) ([]models.Package, error)
	GetPackageByID(ctx context.Context, id int64) (models.Package, error)
	GetPackageBySlug(ctx context.Context, slug string) (models.Package, error)
	ListDeals(ctx context.Context, packageID int64, activeOnly bool) ([]models.Deal, error)
	GetDeal(ctx context.Context, id int64) (models.Deal, error)
	CreateDeal(ctx context.Context, d models.Deal) (int64, error)
	UpdateDeal(ctx context.Context, d models.Deal) error
	ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error)
	GetAddons(ctx context.Context, ids []int64) ([]models.Addon, error)
	GetAddon(ctx context.Context, id int64) (models.Addon, error)
	CreateAddon(ctx context.Context, a models.Addon) (int64, error)
	UpdateAddon(ctx context.Context, a models.Addon) error
}

// BookingStore is implemented by repositories.BookingRepo.
type BookingStore interface {
	Create(ctx context.Context, b models.BookingRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (models.BookingRecord, error)
	List(ctx context.Context, f models.BookingFilter) (models.BookingPage, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// AdminStore is implemented by repositories.AdminRepo.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (models.Admin, error)
	Create(ctx context.Context, a models.Admin) (int64, error)
}
