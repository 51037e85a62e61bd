// Copyright (c) 2025 Neomantra Corp

package betfairimm

import "github.com/larkspur-data/betfair-stream"

// Registry owns the current *Market value for every market id seen by
// one input source. The registry slot is mutable — it always points at
// the latest Market — but the Market values themselves, once emitted in
// a Snapshot, are never mutated; the next update replaces the slot with
// a new value instead.
type Registry struct {
	markets []*Market
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (reg *Registry) find(id betfair.MarketID) int {
	for i, m := range reg.markets {
		if m.MarketID == id {
			return i
		}
	}
	return -1
}

// Get returns the current market for id, or nil.
func (reg *Registry) Get(id betfair.MarketID) *Market {
	if idx := reg.find(id); idx >= 0 {
		return reg.markets[idx]
	}
	return nil
}

// Markets returns every market currently tracked.
func (reg *Registry) Markets() []*Market {
	return reg.markets
}

// set installs newMarket as the current value for its id, appending if
// this is the first appearance.
func (reg *Registry) set(newMarket *Market) {
	if idx := reg.find(newMarket.MarketID); idx >= 0 {
		reg.markets[idx] = newMarket
		return
	}
	reg.markets = append(reg.markets, newMarket)
}

// remove drops a market that failed to complete its first frame.
func (reg *Registry) remove(id betfair.MarketID) {
	idx := reg.find(id)
	if idx < 0 {
		return
	}
	reg.markets = append(reg.markets[:idx], reg.markets[idx+1:]...)
}
