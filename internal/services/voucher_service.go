package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"safari/internal/domain"
	"safari/internal/domain/models"
	"safari/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (models.BookingRecord, error)
}

// VoucherService renders the printable booking voucher and checks the signed
// code printed in its QR image.
type VoucherService struct {
	Bookings  BookingReader
	Secret    string
	RequestID string
}

func (s VoucherService) Generate(ctx context.Context, bookingID int64) ([]byte, string, error) {
	if bookingID <= 0 {
		return nil, "", domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if b.Status == domain.BookingCancelled {
		return nil, "", domain.ConflictError{Resource: "voucher", Msg: "booking is cancelled"}
	}
	utils.LogEvent(s.RequestID, "voucher", "generate", fmt.Sprintf("booking_id=%d", bookingID))
	return buildVoucherPDF(b, s.Code(b))
}

// Code is reference|id|signature.
func (s VoucherService) Code(b models.BookingRecord) string {
	data := fmt.Sprintf("%s|%d", b.Reference, b.ID)
	return data + "|" + s.sign(data)
}

func (s VoucherService) sign(data string) string {
	h := hmac.New(sha256.New, []byte(s.Secret))
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Verify checks a scanned voucher code and returns the booking it belongs to.
func (s VoucherService) Verify(ctx context.Context, code string) (models.BookingRecord, error) {
	parts := strings.Split(strings.TrimSpace(code), "|")
	if len(parts) != 3 {
		return models.BookingRecord{}, domain.ValidationError{Field: "code", Msg: "malformed voucher code"}
	}
	data := parts[0] + "|" + parts[1]
	if !hmac.Equal([]byte(s.sign(data)), []byte(parts[2])) {
		return models.BookingRecord{}, domain.ValidationError{Field: "code", Msg: "voucher signature mismatch"}
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return models.BookingRecord{}, domain.ValidationError{Field: "code", Msg: "malformed voucher code", Err: err}
	}
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return models.BookingRecord{}, err
	}
	if b.Reference != parts[0] {
		return models.BookingRecord{}, domain.ValidationError{Field: "code", Msg: "voucher does not match booking"}
	}
	utils.LogEventf(s.RequestID, "voucher", "verify", "booking_id=%d status=%s", b.ID, b.Status)
	return b, nil
}

func buildVoucherPDF(b models.BookingRecord, code string) ([]byte, string, error) {
	qrPNG, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return nil, "", fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Voucher", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DESERT SAFARI VOUCHER")
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 45, 45, false, imageOpts, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference  : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Booking ID : #%d", b.ID),
		fmt.Sprintf("Package    : %s", safe(b.PackageTitle, "-")),
		fmt.Sprintf("Deal       : %s", safe(b.DealName, "-")),
		fmt.Sprintf("Date       : %s", safe(b.BookingDate, "-")),
		fmt.Sprintf("Guests     : %s", guestSummary(b)),
		fmt.Sprintf("Lead guest : %s", safe(strings.TrimSpace(b.FirstName+" "+b.LastName), "-")),
		fmt.Sprintf("Phone      : %s", safe(b.Phone, "-")),
		fmt.Sprintf("WhatsApp   : %s", safe(b.WhatsApp, "-")),
		fmt.Sprintf("Status     : %s", strings.ToUpper(string(b.Status))),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Package (adults + children): "+utils.FormatPrice(b.BasePrice.Decimal))
	pdf.Ln(6)
	for _, a := range b.Addons {
		pdf.Cell(0, 6, fmt.Sprintf("%s x%d @ %s = %s", a.Name, a.Quantity,
			utils.FormatPrice(a.UnitPrice.Decimal), utils.FormatPrice(a.LineTotal.Decimal)))
		pdf.Ln(6)
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatPrice(b.TotalPrice.Decimal))
	pdf.Ln(12)

	if b.SpecialRequests != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, "Special requests: "+b.SpecialRequests, "", "", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Show this voucher and the QR code to your driver at pickup. Infants travel free.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("VOUCHER_%s_%s.pdf", utils.SafeFilenamePart(b.Reference), utils.SafeFilenamePart(b.LastName))
	return buf.Bytes(), filename, nil
}

func guestSummary(b models.BookingRecord) string {
	return fmt.Sprintf("%d adult(s), %d child(ren), %d infant(s)", b.Adults, b.Children, b.Infants)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
