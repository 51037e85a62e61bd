// Copyright (c) 2025 Neomantra Corp

package betfair

import "sort"

// minLadderCap is the initial capacity reserved for a ladder's backing
// slice on first use. Exchange price deltas are sparse — the observed
// working set per runner is typically under 20 active prices — so a
// sorted slice searched by binary search beats a tree at this size and
// gives cache-friendly iteration (spec §4.1).
const minLadderCap = 20

// PriceLadder is a sorted set of PriceSize entries, direction-parameterized:
// a back ladder sorts ascending by price, a lay ladder descending. It is
// mutated by sparse deltas: size==0 deletes, size!=0 on a present price
// overwrites, size!=0 on an absent price inserts at the sorted position.
type PriceLadder struct {
	dir     Direction
	entries []PriceSize
}

// NewPriceLadder returns an empty ladder for the given direction.
func NewPriceLadder(dir Direction) *PriceLadder {
	return &PriceLadder{dir: dir}
}

// Direction reports the ladder's sort direction.
func (l *PriceLadder) Direction() Direction { return l.dir }

// Len returns the number of entries currently in the ladder.
func (l *PriceLadder) Len() int { return len(l.entries) }

// Entries returns the ladder's entries in sorted order. The returned
// slice is owned by the ladder and must not be mutated by the caller.
func (l *PriceLadder) Entries() []PriceSize { return l.entries }

// Clear empties the ladder without releasing its backing capacity.
func (l *PriceLadder) Clear() {
	l.entries = l.entries[:0]
}

// less reports whether price a sorts before price b for this ladder's
// direction: ascending for back, descending for lay.
func (l *PriceLadder) less(a, b float64) bool {
	if l.dir == DirectionBack {
		return a < b
	}
	return a > b
}

// search returns the index at which price would sit if present, and
// whether it is actually present at that index.
func (l *PriceLadder) search(price float64) (int, bool) {
	idx := sort.Search(len(l.entries), func(i int) bool {
		return !l.less(l.entries[i].Price, price)
	})
	if idx < len(l.entries) && l.entries[idx].Price == price {
		return idx, true
	}
	return idx, false
}

// reserve grows the backing array's capacity to at least n, respecting
// the never-shrink policy: it never truncates existing capacity.
func (l *PriceLadder) reserve(n int) {
	if cap(l.entries) >= n {
		return
	}
	target := n
	if target < minLadderCap {
		target = minLadderCap
	}
	grown := make([]PriceSize, len(l.entries), target)
	copy(grown, l.entries)
	l.entries = grown
}

// applyOne applies a single (price, size) delta in place.
func (l *PriceLadder) applyOne(ps PriceSize) {
	idx, found := l.search(ps.Price)
	switch {
	case ps.Size == 0:
		if found {
			l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
		}
	case found:
		l.entries[idx].Size = ps.Size
	default:
		if cap(l.entries) == len(l.entries) {
			l.reserve(len(l.entries) + 1)
		}
		l.entries = append(l.entries, PriceSize{})
		copy(l.entries[idx+1:], l.entries[idx:])
		l.entries[idx] = ps
	}
}

// Apply consumes a sequence of PriceSize deltas from one JSON array,
// applying each in order; it is not atomic as a batch — later entries
// see the effects of earlier ones within the same call, so a duplicate
// price within a batch collapses to its last write (spec §4.1).
func (l *PriceLadder) Apply(deltas []PriceSize) {
	if len(deltas) == 0 {
		return
	}
	if cap(l.entries) < minLadderCap {
		l.reserve(minLadderCap)
	}
	for _, d := range deltas {
		l.applyOne(d)
	}
}

// Clone returns an independent copy of the ladder, used by the immutable
// variant when a shared ladder must be mutated without affecting earlier
// snapshots that still reference it.
func (l *PriceLadder) Clone() *PriceLadder {
	cloned := &PriceLadder{dir: l.dir, entries: make([]PriceSize, len(l.entries))}
	copy(cloned.entries, l.entries)
	return cloned
}
