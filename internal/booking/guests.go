// Package booking holds the client-side booking engine: the draft a guest
// edits in the booking dialog, the price preview computed from it, and the
// single-flight submission of that draft to the booking API.
package booking

import (
	"fmt"
	"strings"
)

// Direction is a unit step applied to a counter.
type Direction int

const (
	Increment Direction = iota + 1
	Decrement
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "inc", "increment", "up":
		return Increment, nil
	case "-", "dec", "decrement", "down":
		return Decrement, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// GuestKind selects one of the three guest counters.
type GuestKind string

const (
	Adults   GuestKind = "adults"
	Children GuestKind = "children"
	Infants  GuestKind = "infants"
)

func ParseGuestKind(s string) (GuestKind, error) {
	switch k := GuestKind(strings.ToLower(strings.TrimSpace(s))); k {
	case Adults, Children, Infants:
		return k, nil
	}
	return "", fmt.Errorf("unknown guest kind %q", s)
}

// GuestCounts are the per-booking head counts. Adults never drop below 1.
type GuestCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// DefaultGuests is the state of a freshly opened booking dialog.
func DefaultGuests() GuestCounts {
	return GuestCounts{Adults: 1}
}

// NewGuestCounts clamps arbitrary numbers into the valid domain.
func NewGuestCounts(adults, children, infants int) GuestCounts {
	return GuestCounts{
		Adults:   max(adults, 1),
		Children: max(children, 0),
		Infants:  max(infants, 0),
	}
}

// Adjust moves one counter by a unit step. A decrement that would take adults
// below 1 is ignored. It reports whether the counts changed.
func (g *GuestCounts) Adjust(kind GuestKind, dir Direction) bool {
	var counter *int
	floor := 0
	switch kind {
	case Adults:
		counter, floor = &g.Adults, 1
	case Children:
		counter = &g.Children
	case Infants:
		counter = &g.Infants
	default:
		return false
	}

	switch dir {
	case Increment:
		*counter++
		return true
	case Decrement:
		if *counter-1 < floor {
			return false
		}
		*counter--
		return true
	}
	return false
}

// Payable is the number of guests charged the deal price. Infants travel free.
func (g GuestCounts) Payable() int {
	return g.Adults + g.Children
}
