// Copyright (c) 2025 Neomantra Corp

package betfair

import "github.com/valyala/fastjson"

// ExBook is a runner's exchange-traded ladders.
type ExBook struct {
	AvailableToBack *PriceLadder // lay-ordered
	AvailableToLay  *PriceLadder // back-ordered
	TradedVolume    *PriceLadder // back-ordered
}

func newExBook() ExBook {
	return ExBook{
		AvailableToBack: NewPriceLadder(DirectionLay),
		AvailableToLay:  NewPriceLadder(DirectionBack),
		TradedVolume:    NewPriceLadder(DirectionBack),
	}
}

func (b *ExBook) clear() {
	b.AvailableToBack.Clear()
	b.AvailableToLay.Clear()
	b.TradedVolume.Clear()
}

// SPBook is a runner's starting-price book.
type SPBook struct {
	NearPrice   *float64
	FarPrice    *float64
	ActualSP    *float64
	// BackStakeTaken is back-ordered; LayLiabilityTaken is lay-ordered.
	// The wire's field names are inverted from what they carry: spb feeds
	// LayLiabilityTaken and spl feeds BackStakeTaken.
	BackStakeTaken     *PriceLadder
	LayLiabilityTaken  *PriceLadder
}

func newSPBook() SPBook {
	return SPBook{
		BackStakeTaken:    NewPriceLadder(DirectionBack),
		LayLiabilityTaken: NewPriceLadder(DirectionLay),
	}
}

// RunnerBook is a single selection's complete state within a market.
type RunnerBook struct {
	Key RunnerKey

	Status           RunnerStatus
	Name             *string
	AdjustmentFactor *float64
	SortPriority     int
	RemovalDate      *DateTimeString
	LastPriceTraded  *float64
	TotalMatched     float64

	EX ExBook
	SP SPBook
}

// NewRunnerBook constructs an empty runner for the given key.
func NewRunnerBook(key RunnerKey) *RunnerBook {
	return &RunnerBook{
		Key:    key,
		Status: RunnerStatus_Active,
		EX:     newExBook(),
		SP:     newSPBook(),
	}
}

// Clear resets EX, SP, total-matched, last-price-traded and the
// adjustment factor; used by img=true handling. A runner transitioning
// to REMOVED goes through clearEx instead.
func (r *RunnerBook) Clear() {
	r.EX.clear()
	r.SP = newSPBook()
	r.TotalMatched = 0
	r.LastPriceTraded = nil
	r.AdjustmentFactor = nil
}

// clearEx clears only the exchange ladders, retaining the SP book — the
// behavior on a runner transitioning to REMOVED/REMOVED_VACANT.
func (r *RunnerBook) clearEx() {
	r.EX.clear()
}

// ApplyDefinition incorporates one entry from a marketDefinition's
// runners array (spec §4.2). On a transition into REMOVED/REMOVED_VACANT
// the EX ladders are cleared; the SP book is retained.
func (r *RunnerBook) ApplyDefinition(rd RunnerDef) error {
	if runnerStatusClearsEx(rd.Status) && !runnerStatusClearsEx(r.Status) {
		r.clearEx()
	}
	r.Status = rd.Status
	r.SortPriority = rd.SortPriority
	if rd.Name != nil {
		r.Name = rd.Name
	}
	if rd.AdjustmentFactor != nil {
		r.AdjustmentFactor = rd.AdjustmentFactor
	}
	if rd.Key.HasHandicap {
		r.Key.Handicap = rd.Key.Handicap
		r.Key.HasHandicap = true
	}
	if rd.RemovalDate != nil {
		if r.RemovalDate == nil {
			r.RemovalDate = &DateTimeString{}
		}
		if _, err := setDateTimeIfChanged(r.RemovalDate, *rd.RemovalDate); err != nil {
			return err
		}
	}
	if rd.Bsp != nil {
		r.SP.ActualSP = rd.Bsp
	}
	return nil
}

// ApplyChange incorporates a runner-change ("rc") object: fields present
// overwrite, fields absent are retained, ladder sub-fields apply per
// §4.1. cumulativeTV controls whether TotalMatched is recomputed from
// the traded-volume ladder (true) or set directly from the change's
// per-runner tv (false, when tv is present).
func (r *RunnerBook) ApplyChange(rc *fastjson.Value, cumulativeTV bool) error {
	if hc := rc.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		v, _ := hc.Float64()
		r.Key.Handicap = v
		r.Key.HasHandicap = true
	}
	if atb := rc.Get("atb"); atb != nil {
		deltas, err := priceSizesFromJson(atb)
		if err != nil {
			return err
		}
		r.EX.AvailableToBack.Apply(deltas)
	}
	if atl := rc.Get("atl"); atl != nil {
		deltas, err := priceSizesFromJson(atl)
		if err != nil {
			return err
		}
		r.EX.AvailableToLay.Apply(deltas)
	}
	if trd := rc.Get("trd"); trd != nil {
		deltas, err := priceSizesFromJson(trd)
		if err != nil {
			return err
		}
		r.EX.TradedVolume.Apply(deltas)
		if cumulativeTV {
			r.recomputeTotalMatched()
		}
	}
	// The wire's spb/spl naming is inverted relative to what it carries:
	// spb feeds lay-liability-taken and spl feeds back-stake-taken.
	if spb := rc.Get("spb"); spb != nil {
		deltas, err := priceSizesFromJson(spb)
		if err != nil {
			return err
		}
		r.SP.LayLiabilityTaken.Apply(deltas)
	}
	if spl := rc.Get("spl"); spl != nil {
		deltas, err := priceSizesFromJson(spl)
		if err != nil {
			return err
		}
		r.SP.BackStakeTaken.Apply(deltas)
	}
	if spn := rc.Get("spn"); spn != nil {
		v, err := floatFromJson(spn)
		if err != nil {
			return err
		}
		r.SP.NearPrice = &v
	}
	if spf := rc.Get("spf"); spf != nil {
		v, err := floatFromJson(spf)
		if err != nil {
			return err
		}
		r.SP.FarPrice = &v
	}
	if ltp := rc.Get("ltp"); ltp != nil {
		v, err := floatFromJson(ltp)
		if err != nil {
			return err
		}
		r.LastPriceTraded = &v
	}
	if tv := rc.Get("tv"); tv != nil && !cumulativeTV {
		v, err := floatFromJson(tv)
		if err != nil {
			return err
		}
		r.TotalMatched = v
	}
	return nil
}

// recomputeTotalMatched sums the traded-volume ladder, rounded to cents,
// per the cumulative_runner_tv policy (spec §4.2).
func (r *RunnerBook) recomputeTotalMatched() {
	var sum float64
	for _, ps := range r.EX.TradedVolume.Entries() {
		sum += ps.Size
	}
	r.TotalMatched = roundCents(sum)
}
