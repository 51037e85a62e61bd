// Copyright (c) 2025 Neomantra Corp

// Package betfairimm is the copy-on-write twin of the root betfair
// package (spec §4.6): every update returns a new Market whose unchanged
// sub-structures — ladders, definitions, untouched runners — are shared
// by reference with the prior snapshot, so a consumer may retain any
// emitted snapshot indefinitely without it being mutated out from under
// them.
package betfairimm

import "github.com/larkspur-data/betfair-stream"

// applyLadderCOW applies deltas to l without mutating it: if deltas is
// empty the same *betfair.PriceLadder is returned (the sharing invariant,
// spec invariant 8); otherwise a clone is mutated and returned.
func applyLadderCOW(l *betfair.PriceLadder, deltas []betfair.PriceSize) *betfair.PriceLadder {
	if len(deltas) == 0 {
		return l
	}
	clone := l.Clone()
	clone.Apply(deltas)
	return clone
}
