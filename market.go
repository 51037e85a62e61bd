// Copyright (c) 2025 Neomantra Corp

package betfair

import "sort"

// Market is one Betfair market's reconstructed state: its identity, its
// definition, and its ordered runner list (spec §3.6).
type Market struct {
	MarketID    MarketID
	Clk         Clk
	PublishTime uint64 // milliseconds since Unix epoch
	TotalMatched float64
	// Conflated records the MarketChange's `con` flag: the stream server
	// has coalesced updates for this market onto a slower conflation
	// interval. It holds the last `con` value seen for this market; a
	// change without `con` leaves it as it was.
	Conflated   bool
	Runners     []*RunnerBook
	Definition  *MarketDefinition
}

// NewMarket constructs a market with no definition yet. A definition
// must be applied before the market is considered complete (spec §4.5
// dispatch step 1).
func NewMarket(id MarketID) *Market {
	return &Market{MarketID: id, Runners: make([]*RunnerBook, 0, minLadderCap)}
}

// findRunner returns the index of the runner with the given key, or -1.
// The working set is small (typically <=20 runners), so a linear scan by
// (id, handicap) dominates a hash map's overhead (spec §4.4).
func (m *Market) findRunner(key RunnerKey) int {
	for i, r := range m.Runners {
		if r.Key.Equal(key) {
			return i
		}
	}
	return -1
}

// findOrCreateRunner returns the existing runner for key, or appends and
// returns a new one.
func (m *Market) findOrCreateRunner(key RunnerKey) *RunnerBook {
	if idx := m.findRunner(key); idx >= 0 {
		return m.Runners[idx]
	}
	r := NewRunnerBook(key)
	m.Runners = append(m.Runners, r)
	return r
}

// clearRunners clears every existing runner's EX/SP books and totals —
// the img=true handling of spec §4.5 step 2.
func (m *Market) clearRunners() {
	for _, r := range m.Runners {
		r.Clear()
	}
}

// applyRunnerDefs folds a marketDefinition's runner entries into the
// market's runner list, then — unless stableRunnerIndex is set —
// re-sorts the list by sort_priority (spec §4.4).
func (m *Market) applyRunnerDefs(defs []RunnerDef, stableRunnerIndex bool) error {
	for _, rd := range defs {
		r := m.findOrCreateRunner(rd.Key)
		if err := r.ApplyDefinition(rd); err != nil {
			return err
		}
	}
	if !stableRunnerIndex {
		sort.SliceStable(m.Runners, func(i, j int) bool {
			return m.Runners[i].SortPriority < m.Runners[j].SortPriority
		})
	}
	return nil
}

// recomputeTotalMatched sums every runner's total_matched, rounded to
// cents, under the cumulative_runner_tv policy (spec §4.5 step 4).
func (m *Market) recomputeTotalMatched() {
	var sum float64
	for _, r := range m.Runners {
		sum += r.TotalMatched
	}
	m.TotalMatched = roundCents(sum)
}
