// Package cart holds the ordered-but-unsubmitted selections for a session.
package cart

import (
	"slices"
	"sync"

	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/observe"
)

// Store keeps at most one line per item id, with quantity >= 1 for every
// present line. Lines preserve insertion order. All methods are safe for
// concurrent use; a presentation layer observes changes via Subscribe.
type Store struct {
	mu    sync.Mutex
	lines []domain.CartLine
	hub   *observe.Hub
}

func NewStore() *Store {
	return &Store{
		hub: observe.NewHub(),
	}
}

// Add inserts a new line with quantity 1, or increments the quantity of the
// existing line for the same item. The stored price is captured on the first
// add and left untouched by later adds.
func (s *Store) Add(item domain.CatalogItem) {
	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ItemID == item.ID {
			s.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, domain.CartLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: 1,
		})
	}
	s.mu.Unlock()

	s.hub.Notify()
}

// UpdateQuantity sets the quantity of an existing line. Quantities below 1
// and unknown item ids are no-ops: removal is the only path to absence.
func (s *Store) UpdateQuantity(itemID, quantity int64) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			changed = s.lines[i].Quantity != quantity
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.hub.Notify()
	}
}

// Remove deletes the line for itemID if present, no-op otherwise.
func (s *Store) Remove(itemID int64) {
	s.mu.Lock()
	removed := false
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			s.lines = slices.Delete(s.lines, i, i+1)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.hub.Notify()
	}
}

// Clear empties the cart. Used by a successful submission.
func (s *Store) Clear() {
	s.mu.Lock()
	cleared := len(s.lines) > 0
	s.lines = nil
	s.mu.Unlock()

	if cleared {
		s.hub.Notify()
	}
}

// Lines returns a value snapshot of the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.lines)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.lines)
}

// Total returns the sum of price x quantity over all lines, exact.
// The currency is taken from the first line; an empty cart totals to zero.
func (s *Store) Total() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.CartTotal(s.lines)
}

// Subscribe registers fn to run after every state-changing mutation.
// Guarded no-ops do not notify. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}
