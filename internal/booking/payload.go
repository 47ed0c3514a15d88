package booking

import (
	"strings"

	"safari/internal/domain/models"
	"safari/internal/utils"
)

// BuildRequest turns a validated draft into the booking API payload.
// WhatsApp falls back to the phone number when left blank, and add-ons that
// are no longer in the catalog are left out.
func BuildRequest(d Draft, catalog []models.Addon) models.CreateBookingRequest {
	known := addonIndex(catalog)
	lines := make([]models.AddonLine, 0, d.Addons.Len())
	for _, item := range d.Addons.Items() {
		if _, ok := known[item.AddonID]; !ok {
			continue
		}
		lines = append(lines, item)
	}

	phone := strings.TrimSpace(d.Contact.Phone)
	whatsapp := strings.TrimSpace(d.Contact.WhatsApp)
	if whatsapp == "" {
		whatsapp = phone
	}

	req := models.CreateBookingRequest{
		PackageID:       d.PackageID,
		DealID:          d.DealID,
		Adults:          d.Guests.Adults,
		Children:        d.Guests.Children,
		Infants:         d.Guests.Infants,
		FirstName:       strings.TrimSpace(d.Contact.FirstName),
		LastName:        strings.TrimSpace(d.Contact.LastName),
		Email:           strings.TrimSpace(d.Contact.Email),
		Phone:           phone,
		WhatsApp:        whatsapp,
		SpecialRequests: strings.TrimSpace(d.Contact.SpecialRequests),
		Addons:          lines,
	}
	if d.HasDate() {
		req.BookingDate = utils.FormatDate(d.Date)
	}
	return req
}
