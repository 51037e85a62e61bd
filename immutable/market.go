// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"sort"

	"github.com/larkspur-data/betfair-stream"
)

// Market is the copy-on-write counterpart of betfair.Market: every
// update produces a new *Market, sharing its Definition and any
// untouched *Runner with the prior value.
type Market struct {
	MarketID     betfair.MarketID
	Clk          betfair.Clk
	PublishTime  uint64
	TotalMatched float64
	// Conflated mirrors betfair.Market.Conflated: the MarketChange's
	// `con` flag, recognized-and-carried rather than ignored.
	Conflated    bool
	Runners      []*Runner
	Definition   *Definition
}

// NewMarket constructs a market with no definition yet.
func NewMarket(id betfair.MarketID) *Market {
	return &Market{MarketID: id}
}

func (m *Market) findRunner(key betfair.RunnerKey) int {
	for i, r := range m.Runners {
		if r.Key.Equal(key) {
			return i
		}
	}
	return -1
}

// clearedRunners returns a new Runners slice with every runner cleared
// (img=true handling). Each element is a new *Runner; the slice itself
// is always new since every element changed.
func clearedRunners(runners []*Runner) []*Runner {
	out := make([]*Runner, len(runners))
	for i, r := range runners {
		out[i] = r.clearedCOW()
	}
	return out
}

// applyRunnerDefsCOW folds marketDefinition.runners entries into the
// market's runner list. When defs is non-empty it always returns a new
// Runners slice, whether or not any runner was inserted, reordered or
// changed; with no defs it returns runners itself. Runners absent from
// defs are kept, not removed. Unchanged runners are carried over by
// reference.
func applyRunnerDefsCOW(runners []*Runner, defs []betfair.RunnerDef, stableRunnerIndex bool) ([]*Runner, error) {
	if len(defs) == 0 {
		return runners, nil
	}
	next := append([]*Runner(nil), runners...)
	for _, rd := range defs {
		idx := -1
		for i, r := range next {
			if r.Key.Equal(rd.Key) {
				idx = i
				break
			}
		}
		if idx < 0 {
			next = append(next, NewRunner(rd.Key))
			idx = len(next) - 1
		}
		updated, err := next[idx].ApplyDefinitionCOW(rd)
		if err != nil {
			return nil, err
		}
		next[idx] = updated
	}
	if !stableRunnerIndex {
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].SortPriority < next[j].SortPriority
		})
	}
	return next, nil
}

// recomputeTotalMatched sums every runner's total_matched, rounded to
// cents (spec §4.5 step 4).
func recomputeTotalMatched(runners []*Runner) float64 {
	var sum float64
	for _, r := range runners {
		sum += r.TotalMatched
	}
	return roundCents(sum)
}
