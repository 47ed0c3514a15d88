package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"safari/internal/booking"
	"safari/internal/domain/models"
	"safari/internal/utils"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printPackages(w io.Writer, pkgs []models.Package) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tSLUG\tTITLE\tDURATION")
	for _, p := range pkgs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Slug, p.Title, p.Duration)
	}
	_ = tw.Flush()
}

func printDeals(w io.Writer, deals []models.Deal) {
	if len(deals) == 0 {
		fmt.Fprintln(w, "no deals available")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tDEAL\tPRICE / PERSON\tTAGLINE")
	for _, d := range deals {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.ID, d.Name, utils.FormatPrice(d.Price), d.Tagline)
	}
	_ = tw.Flush()
}

func printAddons(w io.Writer, addons []models.Addon) {
	if len(addons) == 0 {
		fmt.Fprintln(w, "no add-ons available")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tADD-ON\tPRICE")
	for _, a := range addons {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Name, utils.FormatPrice(a.Price))
	}
	_ = tw.Flush()
}

func printQuote(w io.Writer, q booking.Quote) {
	if q.Deal == nil {
		fmt.Fprintln(w, "No deal selected.")
	} else {
		fmt.Fprintf(w, "Deal: %s\n", q.Deal.Name)
	}
	tw := table(w)
	for _, l := range q.Lines {
		fmt.Fprintf(tw, "  %s\t%d x %s\t%s\n", l.Label, l.Quantity, utils.FormatPrice(l.UnitPrice), utils.FormatPrice(l.Total))
	}
	fmt.Fprintf(tw, "  Total\t\t%s\n", utils.FormatPrice(q.Total))
	_ = tw.Flush()
}

func printBooking(w io.Writer, b models.BookingRecord) {
	fmt.Fprintf(w, "\nBooking #%d  %s  [%s]\n", b.ID, b.Reference, strings.ToUpper(string(b.Status)))
	fmt.Fprintf(w, "  Package : %s\n", utils.FirstNonEmpty(b.PackageTitle, fmt.Sprintf("#%d", b.PackageID)))
	fmt.Fprintf(w, "  Deal    : %s\n", utils.FirstNonEmpty(b.DealName, fmt.Sprintf("#%d", b.DealID)))
	fmt.Fprintf(w, "  Date    : %s\n", b.BookingDate)
	fmt.Fprintf(w, "  Guests  : %d adult(s), %d child(ren), %d infant(s)\n", b.Adults, b.Children, b.Infants)
	fmt.Fprintf(w, "  Guest   : %s %s <%s> %s\n", b.FirstName, b.LastName, b.Email, b.Phone)
	for _, a := range b.Addons {
		fmt.Fprintf(w, "  + %s x%d = %s\n", a.Name, a.Quantity, utils.FormatPrice(a.LineTotal.Decimal))
	}
	fmt.Fprintf(w, "  Total   : %s\n", utils.FormatPrice(b.TotalPrice.Decimal))
}

func printPage(w io.Writer, p models.BookingPage) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tREFERENCE\tDATE\tGUEST\tSTATUS\tTOTAL")
	for _, b := range p.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%s\n", b.ID, b.Reference, b.BookingDate,
			b.FirstName, b.LastName, b.Status, utils.FormatPrice(b.TotalPrice.Decimal))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d, %d of %d bookings\n", p.Page, len(p.Items), p.Total)
}
