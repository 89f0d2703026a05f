// executor/ledger.go
package executor

import (
	"sync"

	"auto_lend_go_1/position"
)

// Ledger tracks every confirmed purchase and running totals per feature. It
// is the accounting core behind the mock executor: nothing here moves
// assets, it only remembers what was confirmed and when.
type Ledger struct {
	mu        sync.Mutex
	purchases []Purchase
	totals    map[position.Feature]uint64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		purchases: make([]Purchase, 0),
		totals:    make(map[position.Feature]uint64),
	}
}

// Record appends a confirmed purchase and updates the per-feature total.
func (l *Ledger) Record(p Purchase) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purchases = append(l.purchases, p)
	l.totals[p.Feature] += p.Amount
}

// History returns a copy of all recorded purchases in confirmation order.
func (l *Ledger) History() []Purchase {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Purchase, len(l.purchases))
	copy(out, l.purchases)
	return out
}

// TotalPurchased returns the cumulative confirmed amount for one feature.
func (l *Ledger) TotalPurchased(feature position.Feature) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.totals[feature]
}

// Count returns the number of confirmed purchases.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.purchases)
}
