package booking

import "time"

// Contact holds the lead guest details entered in the booking form.
type Contact struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	WhatsApp        string
	SpecialRequests string
}

// Draft is the not-yet-submitted booking held by an open dialog.
// It is never persisted.
type Draft struct {
	PackageID int64
	DealID    int64
	Date      time.Time
	Guests    GuestCounts
	Addons    AddonSelection
	Contact   Contact
}

func NewDraft(packageID int64) Draft {
	return Draft{PackageID: packageID, Guests: DefaultGuests()}
}

func (d Draft) HasDate() bool {
	return !d.Date.IsZero()
}

func (d Draft) HasDeal() bool {
	return d.DealID > 0
}

// SelectDate keeps only the calendar day of t.
func (d *Draft) SelectDate(t time.Time) {
	if t.IsZero() {
		d.Date = time.Time{}
		return
	}
	y, m, day := t.Date()
	d.Date = time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}

func (d Draft) Clone() Draft {
	c := d
	c.Addons = d.Addons.Clone()
	return c
}
