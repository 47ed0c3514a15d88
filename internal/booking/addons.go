package booking

import (
	"sort"

	"safari/internal/domain/models"
)

// AddonSelection is a sparse addon id -> quantity map that never holds a
// zero or negative quantity. The zero value is an empty selection.
type AddonSelection struct {
	qty map[int64]int
}

// Adjust steps the quantity of one add-on and returns the new quantity.
// Reaching zero removes the entry.
func (s *AddonSelection) Adjust(addonID int64, dir Direction) int {
	cur := s.qty[addonID]
	switch dir {
	case Increment:
		cur++
	case Decrement:
		cur = max(cur-1, 0)
	default:
		return cur
	}
	s.Set(addonID, cur)
	return cur
}

// Set stores an explicit quantity; qty <= 0 removes the entry.
func (s *AddonSelection) Set(addonID int64, qty int) {
	if qty <= 0 {
		delete(s.qty, addonID)
		return
	}
	if s.qty == nil {
		s.qty = make(map[int64]int)
	}
	s.qty[addonID] = qty
}

func (s AddonSelection) Quantity(addonID int64) int {
	return s.qty[addonID]
}

func (s AddonSelection) Len() int {
	return len(s.qty)
}

// IDs returns the selected add-on ids in ascending order.
func (s AddonSelection) IDs() []int64 {
	ids := make([]int64, 0, len(s.qty))
	for id := range s.qty {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Items flattens the selection into request lines, ordered by add-on id.
func (s AddonSelection) Items() []models.AddonLine {
	out := make([]models.AddonLine, 0, len(s.qty))
	for _, id := range s.IDs() {
		out = append(out, models.AddonLine{AddonID: id, Quantity: s.qty[id]})
	}
	return out
}

// Clone returns an independent copy.
func (s AddonSelection) Clone() AddonSelection {
	var c AddonSelection
	for id, q := range s.qty {
		c.Set(id, q)
	}
	return c
}

// SelectionFromLines builds a selection from request lines, summing
// duplicates and dropping non-positive quantities.
func SelectionFromLines(lines []models.AddonLine) AddonSelection {
	var s AddonSelection
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		s.Set(l.AddonID, s.Quantity(l.AddonID)+l.Quantity)
	}
	return s
}
