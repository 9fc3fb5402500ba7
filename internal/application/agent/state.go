package agent

// State tracks which listing ids the agent has already acted on. It is
// passed explicitly into every allocation operation so passes stay
// testable in isolation; the sets only grow within a run.
type State struct {
	purchased map[string]bool
	listed    map[string]bool
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		purchased: make(map[string]bool),
		listed:    make(map[string]bool),
	}
}

// Purchased reports whether the id was already committed to purchase.
func (s *State) Purchased(id string) bool { return s.purchased[id] }

// MarkPurchased records a purchase commitment. At-most-once: marking an
// id twice has no effect.
func (s *State) MarkPurchased(id string) { s.purchased[id] = true }

// Listed reports whether the id was already relisted.
func (s *State) Listed(id string) bool { return s.listed[id] }

// MarkListed records a relisting.
func (s *State) MarkListed(id string) { s.listed[id] = true }

// PurchasedCount returns the number of ids ever marked purchased.
func (s *State) PurchasedCount() int { return len(s.purchased) }
