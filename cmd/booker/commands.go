package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"safari/internal/booking"
	"safari/internal/utils"
)

func cmdPackages(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("packages", flag.ContinueOnError)
	if err := parse(fs, a, args); err != nil {
		return err
	}
	pkgs, err := a.client.Packages(ctx)
	if err != nil {
		return err
	}
	printPackages(a.out, pkgs)
	return nil
}

func cmdDeals(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("deals", flag.ContinueOnError)
	pkg := fs.Int64("package", 0, "package id")
	slug := fs.String("slug", "", "package slug (instead of -package)")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *slug != "" {
		p, err := a.client.Package(ctx, *slug)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (#%d)\n", p.Title, p.ID)
		printDeals(a.out, p.Deals)
		return nil
	}
	if *pkg <= 0 {
		return errors.New("-package or -slug is required")
	}
	deals, err := a.client.PackageDeals(ctx, *pkg)
	if err != nil {
		return err
	}
	printDeals(a.out, deals)
	return nil
}

func cmdAddons(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("addons", flag.ContinueOnError)
	if err := parse(fs, a, args); err != nil {
		return err
	}
	addons, err := a.client.Addons(ctx)
	if err != nil {
		return err
	}
	printAddons(a.out, addons)
	return nil
}

// addonFlag collects repeated -addon id=qty values.
type addonFlag map[int64]int

func (f addonFlag) String() string {
	parts := make([]string, 0, len(f))
	for id, q := range f {
		parts = append(parts, fmt.Sprintf("%d=%d", id, q))
	}
	return strings.Join(parts, ",")
}

func (f addonFlag) Set(v string) error {
	idStr, qtyStr, found := strings.Cut(v, "=")
	if !found {
		idStr, qtyStr = v, "1"
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid add-on id %q", idStr)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
	if err != nil || qty < 0 {
		return fmt.Errorf("invalid quantity %q", qtyStr)
	}
	f[id] += qty
	return nil
}

type cliListener struct {
	a *app
}

func (l cliListener) Notice(reason booking.Reason, text string) {
	fmt.Fprintf(l.a.errOut, "! %s\n", text)
}

func (l cliListener) Confirmed(out booking.Outcome) {
	fmt.Fprintf(l.a.out, "\nBooking confirmed: #%d %s\n", out.BookingID, out.Reference)
	fmt.Fprintf(l.a.out, "  Estimated total : %s\n", utils.FormatPrice(out.Estimate))
	fmt.Fprintf(l.a.out, "  Charged total   : %s\n", utils.FormatPrice(out.ServerTotal))
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	pkg := fs.Int64("package", 0, "package id (required)")
	deal := fs.Int64("deal", 0, "deal id")
	date := fs.String("date", "", "safari date, YYYY-MM-DD")
	adults := fs.Int("adults", 1, "adults (at least 1)")
	children := fs.Int("children", 0, "children")
	infants := fs.Int("infants", 0, "infants (free)")
	addons := addonFlag{}
	fs.Var(addons, "addon", "add-on as id=qty, repeatable")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	whatsapp := fs.String("whatsapp", "", "WhatsApp number (defaults to phone)")
	notes := fs.String("notes", "", "special requests")
	dryRun := fs.Bool("dry-run", false, "only show the price")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *pkg <= 0 {
		return errors.New("-package is required")
	}

	d := booking.NewDialog(a.client, cliListener{a: a})
	defer d.Close()
	if err := <-d.Open(ctx, *pkg); err != nil {
		return fmt.Errorf("load deals and add-ons: %w", err)
	}

	if *deal > 0 {
		d.SelectDeal(*deal)
	}
	if *date != "" {
		t, err := utils.ParseDate(*date)
		if err != nil {
			return fmt.Errorf("invalid -date %q, want YYYY-MM-DD", *date)
		}
		d.SelectDate(t)
	}
	stepGuests(d, booking.Adults, *adults-1)
	stepGuests(d, booking.Children, *children)
	stepGuests(d, booking.Infants, *infants)

	offered := map[int64]bool{}
	for _, ad := range d.Addons() {
		offered[ad.ID] = true
	}
	for id, qty := range addons {
		if !offered[id] {
			fmt.Fprintf(a.errOut, "add-on %d is not offered, ignored\n", id)
		}
		for i := 0; i < qty; i++ {
			d.AdjustAddon(id, booking.Increment)
		}
	}
	d.SetContact(booking.Contact{
		FirstName:       *first,
		LastName:        *last,
		Email:           *email,
		Phone:           *phone,
		WhatsApp:        *whatsapp,
		SpecialRequests: *notes,
	})

	printQuote(a.out, d.Quote())
	if *dryRun {
		return nil
	}

	out := d.Submit(ctx)
	if out.State != booking.StateSucceeded {
		return errors.New("booking not submitted")
	}
	rec, err := a.client.GetBooking(ctx, out.BookingID)
	if err != nil {
		fmt.Fprintf(a.errOut, "could not load booking details: %v\n", err)
		return nil
	}
	printBooking(a.out, rec)
	return nil
}

func stepGuests(d *booking.Dialog, kind booking.GuestKind, n int) {
	for i := 0; i < n; i++ {
		d.AdjustGuests(kind, booking.Increment)
	}
}

func idFlag(fs *flag.FlagSet) *int64 {
	return fs.Int64("id", 0, "booking id")
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := idFlag(fs)
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id is required")
	}
	rec, err := a.client.GetBooking(ctx, *id)
	if err != nil {
		return err
	}
	printBooking(a.out, rec)
	return nil
}

func cmdVoucher(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("voucher", flag.ContinueOnError)
	id := idFlag(fs)
	dir := fs.String("dir", ".", "directory to write the PDF into")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id is required")
	}
	pdf, name, err := a.client.Voucher(ctx, *id)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, filepath.Base(name))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved %s (%d bytes)\n", path, len(pdf))
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", envOr("SAFARI_ADMIN_EMAIL", ""), "admin email")
	password := fs.String("password", "", "admin password (or SAFARI_ADMIN_PASSWORD)")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	pw := *password
	if pw == "" {
		pw = os.Getenv("SAFARI_ADMIN_PASSWORD")
	}
	if *email == "" || pw == "" {
		return errors.New("-email and a password are required")
	}
	admin, err := a.client.AdminLogin(ctx, *email, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", admin.Email, admin.Role)
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if err := a.client.AdminLogout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func cmdBookings(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("bookings", flag.ContinueOnError)
	status := fs.String("status", "", "filter by status")
	page := fs.Int("page", 1, "page")
	size := fs.Int("page-size", 20, "page size")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	p, err := a.client.AdminBookings(ctx, *status, *page, *size)
	if err != nil {
		return err
	}
	printPage(a.out, p)
	return nil
}

func cmdStatus(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	id := idFlag(fs)
	to := fs.String("to", "", "new status: confirmed, cancelled or completed")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *id <= 0 || *to == "" {
		return errors.New("-id and -to are required")
	}
	rec, err := a.client.AdminUpdateStatus(ctx, *id, *to)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "booking #%d is now %s\n", rec.ID, rec.Status)
	return nil
}

func cmdVerify(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	code := fs.String("code", "", "voucher code from the QR image")
	if err := parse(fs, a, args); err != nil {
		return err
	}
	if *code == "" {
		return errors.New("-code is required")
	}
	res, err := a.client.AdminVerifyVoucher(ctx, *code)
	if err != nil {
		return err
	}
	verdict := "VALID"
	if !res.Valid {
		verdict = "NOT VALID"
	}
	fmt.Fprintf(a.out, "%s: booking #%d %s, status %s\n", verdict, res.Booking.ID, res.Booking.Reference, res.Booking.Status)
	return nil
}
