package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "safari/internal/config"
	intdb "safari/internal/db"
	"safari/internal/domain"
	"safari/internal/domain/models"
)

type CatalogRepo struct {
	DB *sql.DB
}

func (r CatalogRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const packageColumns = `id, slug, title, COALESCE(summary, ''), location, duration, status`

func scanPackage(row interface{ Scan(...any) error }) (models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Summary, &p.Location, &p.Duration, &p.Status)
	return p, err
}

// ListPackages returns active packages ordered by title.
func (r CatalogRepo) ListPackages(ctx context.Context) ([]models.Package, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE status='active' ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	out := []models.Package{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r CatalogRepo) GetPackageByID(ctx context.Context, id int64) (models.Package, error) {
	p, err := scanPackage(r.db().QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Package{}, domain.NotFoundError{Resource: "package", Err: err}
	}
	return p, err
}

func (r CatalogRepo) GetPackageBySlug(ctx context.Context, slug string) (models.Package, error) {
	p, err := scanPackage(r.db().QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages WHERE slug=? LIMIT 1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Package{}, domain.NotFoundError{Resource: "package", Err: err}
	}
	return p, err
}

const dealColumns = `id, package_id, name, tagline, COALESCE(description, ''), price, status, sort_order`

func scanDeal(row interface{ Scan(...any) error }) (models.Deal, error) {
	var d models.Deal
	var status string
	err := row.Scan(&d.ID, &d.PackageID, &d.Name, &d.Tagline, &d.Description, &d.Price, &status, &d.SortOrder)
	d.Status = domain.DealStatus(status)
	return d, err
}

// ListDeals returns the deals of a package in display order.
func (r CatalogRepo) ListDeals(ctx context.Context, packageID int64, activeOnly bool) ([]models.Deal, error) {
	q := `SELECT ` + dealColumns + ` FROM package_deals WHERE package_id=?`
	if activeOnly {
		q += ` AND status='active'`
	}
	q += ` ORDER BY sort_order, id`

	rows, err := r.db().QueryContext(ctx, q, packageID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	out := []models.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r CatalogRepo) GetDeal(ctx context.Context, id int64) (models.Deal, error) {
	d, err := scanDeal(r.db().QueryRowContext(ctx, `SELECT `+dealColumns+` FROM package_deals WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Deal{}, domain.NotFoundError{Resource: "deal", Err: err}
	}
	return d, err
}

func (r CatalogRepo) CreateDeal(ctx context.Context, d models.Deal) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO package_deals (package_id, name, tagline, description, price, status, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.PackageID, d.Name, d.Tagline, intdb.NullIfEmpty(d.Description), d.Price, string(d.Status), d.SortOrder,
	)
	if err != nil {
		return 0, fmt.Errorf("insert deal: %w", err)
	}
	return res.LastInsertId()
}

func (r CatalogRepo) UpdateDeal(ctx context.Context, d models.Deal) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE package_deals
		SET package_id=?, name=?, tagline=?, description=?, price=?, status=?, sort_order=?, updated_at=NOW()
		WHERE id=?`,
		d.PackageID, d.Name, d.Tagline, intdb.NullIfEmpty(d.Description), d.Price, string(d.Status), d.SortOrder, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	return nil
}

const addonColumns = `id, name, price, COALESCE(description, ''), is_active`

func scanAddon(row interface{ Scan(...any) error }) (models.Addon, error) {
	var a models.Addon
	err := row.Scan(&a.ID, &a.Name, &a.Price, &a.Description, &a.IsActive)
	return a, err
}

func (r CatalogRepo) queryAddons(ctx context.Context, q string, args ...any) ([]models.Addon, error) {
	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	defer rows.Close()

	out := []models.Addon{}
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r CatalogRepo) ListAddons(ctx context.Context, activeOnly bool) ([]models.Addon, error) {
	q := `SELECT ` + addonColumns + ` FROM addons`
	if activeOnly {
		q += ` WHERE is_active=1`
	}
	return r.queryAddons(ctx, q+` ORDER BY name, id`)
}

// GetAddons loads the given ids regardless of status. Missing ids are simply
// absent from the result.
func (r CatalogRepo) GetAddons(ctx context.Context, ids []int64) ([]models.Addon, error) {
	if len(ids) == 0 {
		return []models.Addon{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryAddons(ctx, `SELECT `+addonColumns+` FROM addons WHERE id IN (`+intdb.Placeholders(len(ids))+`) ORDER BY id`, args...)
}

func (r CatalogRepo) GetAddon(ctx context.Context, id int64) (models.Addon, error) {
	a, err := scanAddon(r.db().QueryRowContext(ctx, `SELECT `+addonColumns+` FROM addons WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Addon{}, domain.NotFoundError{Resource: "addon", Err: err}
	}
	return a, err
}

func (r CatalogRepo) CreateAddon(ctx context.Context, a models.Addon) (int64, error) {
	res, err := r.db().ExecContext(ctx, `INSERT INTO addons (name, price, description, is_active) VALUES (?, ?, ?, ?)`,
		a.Name, a.Price, intdb.NullIfEmpty(a.Description), a.IsActive)
	if err != nil {
		return 0, fmt.Errorf("insert addon: %w", err)
	}
	return res.LastInsertId()
}

func (r CatalogRepo) UpdateAddon(ctx context.Context, a models.Addon) error {
	_, err := r.db().ExecContext(ctx, `UPDATE addons SET name=?, price=?, description=?, is_active=?, updated_at=NOW() WHERE id=?`,
		a.Name, a.Price, intdb.NullIfEmpty(a.Description), a.IsActive, a.ID)
	if err != nil {
		return fmt.Errorf("update addon: %w", err)
	}
	return nil
}
