package ledger

import (
	"strings"
	"sync"
)

// Record is one processed bill added to the session summary. CategoryLabel
// is the display label, e.g. "Electricity (july.pdf)".
type Record struct {
	CategoryLabel  string  `json:"category_label"`
	Consumer1Total float64 `json:"consumer1_total"`
	Consumer2Total float64 `json:"consumer2_total"`
}

// CategoryKey derives the grouping key from a record label: its first
// space-delimited token, so "Electricity (july.pdf)" groups under
// "Electricity". The summary display depends on this exact derivation.
func CategoryKey(label string) string {
	return strings.Split(label, " ")[0]
}

// GroupTotal is the summed totals for one category (or the grand total).
type GroupTotal struct {
	Category  string  `json:"category"`
	Consumer1 float64 `json:"consumer1"`
	Consumer2 float64 `json:"consumer2"`
	Combined  float64 `json:"combined"`
}

// Summary is the grouped view of the ledger plus a grand total across all
// groups.
type Summary struct {
	Groups     []GroupTotal `json:"groups"`
	GrandTotal GroupTotal   `json:"grand_total"`
}

// Ledger accumulates processed bill records for the lifetime of a session.
// It is safe for concurrent use. Nothing is persisted; a restart empties it.
type Ledger struct {
	mu      sync.RWMutex
	records []Record
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds a record to the end of the ledger.
func (l *Ledger) Append(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of all records in insertion order.
func (l *Ledger) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// RemoveAt drops every record whose position is in indices, preserving the
// relative order of the rest. Out-of-range indices are ignored.
func (l *Ledger) RemoveAt(indices []int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.records[:0]
	for i, r := range l.records {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	l.records = kept
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// GroupTotals groups records by category key and sums each consumer's
// totals, plus a grand total row across all groups. Groups appear in order
// of first appearance.
func (l *Ledger) GroupTotals() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var order []string
	byKey := make(map[string]*GroupTotal)

	for _, r := range l.records {
		key := CategoryKey(r.CategoryLabel)
		g, ok := byKey[key]
		if !ok {
			g = &GroupTotal{Category: key}
			byKey[key] = g
			order = append(order, key)
		}
		g.Consumer1 += r.Consumer1Total
		g.Consumer2 += r.Consumer2Total
	}

	summary := Summary{Groups: make([]GroupTotal, 0, len(order))}
	summary.GrandTotal.Category = "GRAND TOTAL"
	for _, key := range order {
		g := byKey[key]
		g.Combined = g.Consumer1 + g.Consumer2
		summary.Groups = append(summary.Groups, *g)
		summary.GrandTotal.Consumer1 += g.Consumer1
		summary.GrandTotal.Consumer2 += g.Consumer2
	}
	summary.GrandTotal.Combined = summary.GrandTotal.Consumer1 + summary.GrandTotal.Consumer2
	return summary
}
