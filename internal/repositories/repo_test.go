package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"safari/internal/domain"
	"safari/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func sampleRecord() models.BookingRecord {
	return models.BookingRecord{
		Reference:   "DS-1A2B3C4D",
		PackageID:   3,
		DealID:      1,
		BookingDate: "2026-12-01",
		Adults:      2,
		Children:    1,
		FirstName:   "Layla",
		LastName:    "Haddad",
		Email:       "layla@example.com",
		Phone:       "+971501234567",
		WhatsApp:    "+971501234567",
		BasePrice:   models.NewAmount(decimal.NewFromInt(450)),
		AddonsTotal: models.NewAmount(decimal.NewFromInt(100)),
		TotalPrice:  models.NewAmount(decimal.NewFromInt(550)),
		Status:      domain.BookingPending,
		Addons: []models.BookingAddon{
			{AddonID: 10, Name: "Quad bike ride", Quantity: 2, UnitPrice: models.NewAmount(decimal.NewFromInt(50)), LineTotal: models.NewAmount(decimal.NewFromInt(100))},
		},
	}
}

func TestInsertBookingAddonsRunsOnPlainDB(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO booking_addons").
		WithArgs(int64(21), int64(10), "Quad bike ride", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := insertBookingAddons(context.Background(), db, 21, sampleRecord().Addons); err != nil {
		t.Fatalf("insertBookingAddons error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoCreateWritesLinesInOneTx(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("DS-1A2B3C4D", int64(3), int64(1), "2026-12-01", 2, 1, 0,
			"Layla", "Haddad", "layla@example.com", "+971501234567", "+971501234567", nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "pending").
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectExec("INSERT INTO booking_addons").
		WithArgs(int64(15), int64(10), "Quad bike ride", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := BookingRepo{DB: db}.Create(context.Background(), sampleRecord())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 15 {
		t.Fatalf("id: got %d want 15", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoCreateDuplicateReferenceIsConflict(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := BookingRepo{DB: db}.Create(context.Background(), sampleRecord())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoCreateRollsBackOnAddonFailure(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(16, 1))
	mock.ExpectExec("INSERT INTO booking_addons").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	if _, err := (BookingRepo{DB: db}).Create(context.Background(), sampleRecord()); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var bookingCols = []string{
	"id", "reference", "package_id", "title", "deal_id", "name",
	"booking_date", "adults", "children", "infants",
	"first_name", "last_name", "email", "phone", "whatsapp", "special_requests",
	"base_price", "addons_total", "total_price", "status", "created_at", "updated_at",
}

func TestBookingRepoGetByID(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM bookings b").WithArgs(int64(15)).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(
			15, "DS-1A2B3C4D", 3, "Evening Desert Safari", 1, "Premium Package",
			time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), 2, 1, 0,
			"Layla", "Haddad", "layla@example.com", "+971501234567", "+971501234567", "",
			"450.00", "100.00", "550.00", "pending", now, now,
		))
	mock.ExpectQuery("FROM booking_addons").WithArgs(int64(15)).
		WillReturnRows(sqlmock.NewRows([]string{"addon_id", "name", "quantity", "unit_price", "line_total"}).
			AddRow(10, "Quad bike ride", 2, "50.00", "100.00"))

	b, err := BookingRepo{DB: db}.GetByID(context.Background(), 15)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if b.BookingDate != "2026-12-01" || b.PackageTitle != "Evening Desert Safari" {
		t.Fatalf("unexpected record %+v", b)
	}
	if !b.TotalPrice.Equal(decimal.NewFromInt(550)) || b.Status != domain.BookingPending {
		t.Fatalf("total/status: %s %s", b.TotalPrice, b.Status)
	}
	if len(b.Addons) != 1 || b.Addons[0].Quantity != 2 {
		t.Fatalf("addons: %+v", b.Addons)
	}
}

func TestBookingRepoGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM bookings b").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	if _, err := (BookingRepo{DB: db}).GetByID(context.Background(), 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingRepoListFiltersByStatus(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").WithArgs("confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery("WHERE b.status=\\? ORDER BY b.id DESC LIMIT \\? OFFSET \\?").WithArgs("confirmed", 10, 10).
		WillReturnRows(sqlmock.NewRows(bookingCols).AddRow(
			4, "DS-00000004", 3, "Evening Desert Safari", 1, "Premium Package",
			now, 1, 0, 0, "A", "B", "a@example.com", "1", "1", "",
			"150.00", "0.00", "150.00", "confirmed", now, now,
		))

	page, err := BookingRepo{DB: db}.List(context.Background(), models.BookingFilter{
		Status: "confirmed",
		Page:   domain.Pagination{Page: 2, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if page.Total != 21 || page.Page != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepoUpdateStatusDetectsRace(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("confirmed", int64(5), "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := BookingRepo{DB: db}.UpdateStatus(context.Background(), 5, domain.BookingPending, domain.BookingConfirmed)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCatalogRepoListDealsActiveOnly(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM package_deals WHERE package_id=\\? AND status='active' ORDER BY sort_order").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "package_id", "name", "tagline", "description", "price", "status", "sort_order"}).
			AddRow(1, 3, "Premium Package", "Best seller", "", "150.00", "active", 1).
			AddRow(2, 3, "Standard Package", "", "", "99.99", "active", 2))

	deals, err := CatalogRepo{DB: db}.ListDeals(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("ListDeals error: %v", err)
	}
	if len(deals) != 2 || !deals[1].Price.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("unexpected deals %+v", deals)
	}
	if deals[0].Status != domain.DealActive {
		t.Fatalf("status: %s", deals[0].Status)
	}
}

func TestCatalogRepoGetAddonsByIDs(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM addons WHERE id IN \\(\\?,\\?\\)").
		WithArgs(int64(10), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "description", "is_active"}).
			AddRow(10, "Quad bike ride", "50.00", "", true))

	addons, err := CatalogRepo{DB: db}.GetAddons(context.Background(), []int64{10, 11})
	if err != nil {
		t.Fatalf("GetAddons error: %v", err)
	}
	if len(addons) != 1 || addons[0].ID != 10 || !addons[0].IsActive {
		t.Fatalf("unexpected addons %+v", addons)
	}

	empty, err := CatalogRepo{DB: db}.GetAddons(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty id list: %v %v", empty, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCatalogRepoGetDealNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM package_deals WHERE id=\\?").WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	if _, err := (CatalogRepo{DB: db}).GetDeal(context.Background(), 404); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdminRepoGetByEmailNormalizes(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM admins").WithArgs("ops@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status"}).
			AddRow(1, "Ops", "ops@example.com", "$2a$10$hash", "admin", "active"))

	a, err := AdminRepo{DB: db}.GetByEmail(context.Background(), "  Ops@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if a.ID != 1 || a.PasswordHash == "" {
		t.Fatalf("unexpected admin %+v", a)
	}
}
