// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"github.com/larkspur-data/betfair-stream"
	"github.com/valyala/fastjson"
)

// ExBook mirrors betfair.ExBook: its three ladders are individually
// shared or cloned by applyLadderCOW.
type ExBook struct {
	AvailableToBack *betfair.PriceLadder
	AvailableToLay  *betfair.PriceLadder
	TradedVolume    *betfair.PriceLadder
}

func newExBook() ExBook {
	return ExBook{
		AvailableToBack: betfair.NewPriceLadder(betfair.DirectionLay),
		AvailableToLay:  betfair.NewPriceLadder(betfair.DirectionBack),
		TradedVolume:    betfair.NewPriceLadder(betfair.DirectionBack),
	}
}

// SPBook mirrors betfair.SPBook; see the root package's SPBook doc for
// the spb/spl naming-inversion note.
type SPBook struct {
	NearPrice          *float64
	FarPrice           *float64
	ActualSP           *float64
	BackStakeTaken     *betfair.PriceLadder
	LayLiabilityTaken  *betfair.PriceLadder
}

func newSPBook() SPBook {
	return SPBook{
		BackStakeTaken:    betfair.NewPriceLadder(betfair.DirectionBack),
		LayLiabilityTaken: betfair.NewPriceLadder(betfair.DirectionLay),
	}
}

// Runner is the copy-on-write counterpart of betfair.RunnerBook.
type Runner struct {
	Key betfair.RunnerKey

	Status           betfair.RunnerStatus
	Name             *string
	AdjustmentFactor *float64
	SortPriority     int
	RemovalDate      *betfair.DateTimeString
	LastPriceTraded  *float64
	TotalMatched     float64

	EX ExBook
	SP SPBook
}

// NewRunner constructs an empty runner for the given key.
func NewRunner(key betfair.RunnerKey) *Runner {
	return &Runner{
		Key:    key,
		Status: betfair.RunnerStatus_Active,
		EX:     newExBook(),
		SP:     newSPBook(),
	}
}

func (r *Runner) clearedEx() ExBook { return newExBook() }

// ApplyChangeCOW returns a Runner incorporating rc's changes. If rc
// carries no ladder/scalar changes at all, r itself is returned.
func (r *Runner) ApplyChangeCOW(rc *fastjson.Value, cumulativeTV bool) (*Runner, error) {
	next := *r
	changed := false

	if hc := rc.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		v, _ := hc.Float64()
		if !next.Key.HasHandicap || next.Key.Handicap != v {
			next.Key.Handicap = v
			next.Key.HasHandicap = true
			changed = true
		}
	}
	if atb := rc.Get("atb"); atb != nil {
		deltas, err := priceSizesFromJson(atb)
		if err != nil {
			return nil, err
		}
		newLadder := applyLadderCOW(next.EX.AvailableToBack, deltas)
		if newLadder != next.EX.AvailableToBack {
			next.EX.AvailableToBack = newLadder
			changed = true
		}
	}
	if atl := rc.Get("atl"); atl != nil {
		deltas, err := priceSizesFromJson(atl)
		if err != nil {
			return nil, err
		}
		newLadder := applyLadderCOW(next.EX.AvailableToLay, deltas)
		if newLadder != next.EX.AvailableToLay {
			next.EX.AvailableToLay = newLadder
			changed = true
		}
	}
	if trd := rc.Get("trd"); trd != nil {
		deltas, err := priceSizesFromJson(trd)
		if err != nil {
			return nil, err
		}
		newLadder := applyLadderCOW(next.EX.TradedVolume, deltas)
		if newLadder != next.EX.TradedVolume {
			next.EX.TradedVolume = newLadder
			changed = true
		}
		if cumulativeTV {
			var sum float64
			for _, ps := range next.EX.TradedVolume.Entries() {
				sum += ps.Size
			}
			tm := roundCents(sum)
			if tm != next.TotalMatched {
				next.TotalMatched = tm
				changed = true
			}
		}
	}
	// The wire's spb/spl naming is inverted relative to what it carries:
	// spb feeds lay-liability-taken and spl feeds back-stake-taken.
	if spb := rc.Get("spb"); spb != nil {
		deltas, err := priceSizesFromJson(spb)
		if err != nil {
			return nil, err
		}
		newLadder := applyLadderCOW(next.SP.LayLiabilityTaken, deltas)
		if newLadder != next.SP.LayLiabilityTaken {
			next.SP.LayLiabilityTaken = newLadder
			changed = true
		}
	}
	if spl := rc.Get("spl"); spl != nil {
		deltas, err := priceSizesFromJson(spl)
		if err != nil {
			return nil, err
		}
		newLadder := applyLadderCOW(next.SP.BackStakeTaken, deltas)
		if newLadder != next.SP.BackStakeTaken {
			next.SP.BackStakeTaken = newLadder
			changed = true
		}
	}
	if spn := rc.Get("spn"); spn != nil {
		v, err := floatFromJson(spn)
		if err != nil {
			return nil, err
		}
		if next.SP.NearPrice == nil || *next.SP.NearPrice != v {
			next.SP.NearPrice = &v
			changed = true
		}
	}
	if spf := rc.Get("spf"); spf != nil {
		v, err := floatFromJson(spf)
		if err != nil {
			return nil, err
		}
		if next.SP.FarPrice == nil || *next.SP.FarPrice != v {
			next.SP.FarPrice = &v
			changed = true
		}
	}
	if ltp := rc.Get("ltp"); ltp != nil {
		v, err := floatFromJson(ltp)
		if err != nil {
			return nil, err
		}
		if next.LastPriceTraded == nil || *next.LastPriceTraded != v {
			next.LastPriceTraded = &v
			changed = true
		}
	}
	if tv := rc.Get("tv"); tv != nil && !cumulativeTV {
		v, err := floatFromJson(tv)
		if err != nil {
			return nil, err
		}
		if v != next.TotalMatched {
			next.TotalMatched = v
			changed = true
		}
	}

	if !changed {
		return r, nil
	}
	return &next, nil
}

// ApplyDefinitionCOW folds one marketDefinition.runners entry into r.
func (r *Runner) ApplyDefinitionCOW(rd betfair.RunnerDef) (*Runner, error) {
	next := *r
	changed := false

	clearsEx := runnerStatusClearsEx(rd.Status)
	wasClearing := runnerStatusClearsEx(next.Status)
	if rd.Status != next.Status {
		next.Status = rd.Status
		changed = true
	}
	if clearsEx && !wasClearing {
		next.EX = next.clearedEx()
		changed = true
	}
	if rd.SortPriority != next.SortPriority {
		next.SortPriority = rd.SortPriority
		changed = true
	}
	if rd.Name != nil && (next.Name == nil || *next.Name != *rd.Name) {
		next.Name = rd.Name
		changed = true
	}
	if rd.AdjustmentFactor != nil && (next.AdjustmentFactor == nil || *next.AdjustmentFactor != *rd.AdjustmentFactor) {
		next.AdjustmentFactor = rd.AdjustmentFactor
		changed = true
	}
	if rd.Key.HasHandicap && (!next.Key.HasHandicap || next.Key.Handicap != rd.Key.Handicap) {
		next.Key.Handicap = rd.Key.Handicap
		next.Key.HasHandicap = true
		changed = true
	}
	if rd.RemovalDate != nil && (next.RemovalDate == nil || next.RemovalDate.Raw != *rd.RemovalDate) {
		parsed, err := parseDateTime(*rd.RemovalDate)
		if err != nil {
			return nil, err
		}
		next.RemovalDate = &parsed
		changed = true
	}
	if rd.Bsp != nil && (next.SP.ActualSP == nil || *next.SP.ActualSP != *rd.Bsp) {
		next.SP.ActualSP = rd.Bsp
		changed = true
	}

	if !changed {
		return r, nil
	}
	return &next, nil
}

// clearedCOW returns a Runner with EX, SP, total-matched and
// last-price-traded reset — used for img=true handling. Always returns a
// new value, since clearing is itself a change when the runner was not
// already empty.
func (r *Runner) clearedCOW() *Runner {
	next := *r
	next.EX = newExBook()
	next.SP = newSPBook()
	next.TotalMatched = 0
	next.LastPriceTraded = nil
	next.AdjustmentFactor = nil
	return &next
}

func runnerStatusClearsEx(status betfair.RunnerStatus) bool {
	return status == betfair.RunnerStatus_Removed || status == betfair.RunnerStatus_RemovedVacant
}
