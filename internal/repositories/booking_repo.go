package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "safari/internal/config"
	intdb "safari/internal/db"
	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/utils"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create stores a booking and its add-on lines in one transaction.
// A reference collision is reported as domain.ConflictError.
func (r BookingRepo) Create(ctx context.Context, b models.BookingRecord) (int64, error) {
	var id int64
	err := intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		var err error
		if id, err = insertBooking(ctx, tx, b); err != nil {
			return err
		}
		return insertBookingAddons(ctx, tx, id, b.Addons)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertBooking(ctx context.Context, q intdb.DBTX, b models.BookingRecord) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings (
			reference, package_id, deal_id, booking_date,
			adults, children, infants,
			first_name, last_name, email, phone, whatsapp, special_requests,
			base_price, addons_total, total_price, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.PackageID, b.DealID, b.BookingDate,
		b.Adults, b.Children, b.Infants,
		b.FirstName, b.LastName, b.Email, b.Phone, b.WhatsApp, intdb.NullIfEmpty(b.SpecialRequests),
		b.BasePrice.Decimal, b.AddonsTotal.Decimal, b.TotalPrice.Decimal, string(b.Status),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "booking", Msg: "reference already used", Err: err}
		}
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	return res.LastInsertId()
}

func insertBookingAddons(ctx context.Context, q intdb.DBTX, bookingID int64, lines []models.BookingAddon) error {
	for _, a := range lines {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO booking_addons (booking_id, addon_id, name, quantity, unit_price, line_total)
			VALUES (?, ?, ?, ?, ?, ?)`,
			bookingID, a.AddonID, a.Name, a.Quantity, a.UnitPrice.Decimal, a.LineTotal.Decimal,
		); err != nil {
			return fmt.Errorf("insert booking addon: %w", err)
		}
	}
	return nil
}

const bookingSelect = `
	SELECT
		b.id, b.reference, b.package_id, COALESCE(p.title, ''), b.deal_id, COALESCE(d.name, ''),
		b.booking_date, b.adults, b.children, b.infants,
		b.first_name, b.last_name, b.email, b.phone, b.whatsapp, COALESCE(b.special_requests, ''),
		b.base_price, b.addons_total, b.total_price, b.status, b.created_at, b.updated_at
	FROM bookings b
	LEFT JOIN packages p ON p.id = b.package_id
	LEFT JOIN package_deals d ON d.id = b.deal_id`

func scanBooking(row interface{ Scan(...any) error }) (models.BookingRecord, error) {
	var (
		b      models.BookingRecord
		date   time.Time
		status string
	)
	err := row.Scan(
		&b.ID, &b.Reference, &b.PackageID, &b.PackageTitle, &b.DealID, &b.DealName,
		&date, &b.Adults, &b.Children, &b.Infants,
		&b.FirstName, &b.LastName, &b.Email, &b.Phone, &b.WhatsApp, &b.SpecialRequests,
		&b.BasePrice.Decimal, &b.AddonsTotal.Decimal, &b.TotalPrice.Decimal, &status, &b.CreatedAt, &b.UpdatedAt,
	)
	b.BookingDate = utils.FormatDate(date)
	b.Status = domain.BookingStatus(status)
	b.Addons = []models.BookingAddon{}
	return b, err
}

func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.BookingRecord, error) {
	b, err := scanBooking(r.db().QueryRowContext(ctx, bookingSelect+` WHERE b.id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookingRecord{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.BookingRecord{}, fmt.Errorf("get booking: %w", err)
	}

	rows, err := r.db().QueryContext(ctx, `
		SELECT addon_id, name, quantity, unit_price, line_total
		FROM booking_addons WHERE booking_id=? ORDER BY addon_id`, id)
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("get booking addons: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.BookingAddon
		if err := rows.Scan(&a.AddonID, &a.Name, &a.Quantity, &a.UnitPrice.Decimal, &a.LineTotal.Decimal); err != nil {
			return models.BookingRecord{}, err
		}
		b.Addons = append(b.Addons, a)
	}
	return b, rows.Err()
}

// List returns one page of bookings, newest first. Add-on lines are not loaded.
func (r BookingRepo) List(ctx context.Context, f models.BookingFilter) (models.BookingPage, error) {
	page := f.Page.Normalize()
	where := ""
	args := []any{}
	if f.Status != "" {
		where = ` WHERE b.status=?`
		args = append(args, f.Status)
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings b`+where, args...).Scan(&total); err != nil {
		return models.BookingPage{}, fmt.Errorf("count bookings: %w", err)
	}

	rows, err := r.db().QueryContext(ctx, bookingSelect+where+` ORDER BY b.id DESC LIMIT ? OFFSET ?`,
		append(args, page.PageSize, page.Offset())...)
	if err != nil {
		return models.BookingPage{}, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := models.BookingPage{Items: []models.BookingRecord{}, Page: page.Page, PageSize: page.PageSize, Total: total}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return models.BookingPage{}, err
		}
		out.Items = append(out.Items, b)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking from one status to another. It fails with a
// conflict when the stored status is no longer from.
func (r BookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	res, err := r.db().ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=NOW() WHERE id=? AND status=?`,
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "status changed by another request"}
	}
	return nil
}
