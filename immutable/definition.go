// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"github.com/larkspur-data/betfair-stream"
	"github.com/valyala/fastjson"
)

// Definition is the copy-on-write counterpart of betfair.MarketDefinition:
// the same ~35 fields (spec §3.5), but ApplyCOW never mutates a value
// reachable from a previously emitted snapshot. When an incoming
// definition object carries no actual changes, ApplyCOW returns the same
// *Definition pointer, which is what lets two consecutive snapshots
// share one definition (invariant 8).
type Definition struct {
	BetDelay              int
	BettingType           betfair.BettingType
	BspMarket             bool
	BspReconciled         bool
	Complete              bool
	CountryCode           string
	CrossMatching         bool
	DiscountAllowed       bool
	EachWayDivisor        *float64
	EventID               betfair.EventID
	EventName             *string
	EventTypeID           betfair.EventTypeID
	InPlay                bool
	MarketBaseRate        float64
	MarketTime            betfair.DateTimeString
	MarketType            string
	Name                  *string
	NumberOfActiveRunners int
	NumberOfWinners       int
	OpenDate              betfair.DateTimeString
	PersistenceEnabled    bool
	RaceType              *string
	Regulators            []string
	RunnersVoidable       bool
	SettledTime           *betfair.DateTimeString
	Status                betfair.MarketStatus
	SuspendTime           *betfair.DateTimeString
	Timezone              string
	TurnInPlayEnabled     bool
	Venue                 *string
	Version               int64
}

var requiredDefinitionFields = []string{
	"eventId", "eventTypeId", "betDelay", "status", "bettingType",
	"marketTime", "openDate", "version", "marketBaseRate",
	"numberOfActiveRunners", "numberOfWinners", "marketType",
}

// NewDefinition constructs a Definition from its first JSON appearance.
func NewDefinition(marketID betfair.MarketID, v *fastjson.Value) (*Definition, []betfair.RunnerDef, error) {
	for _, f := range requiredDefinitionFields {
		if v.Get(f) == nil {
			return nil, nil, &betfair.SchemaIncompleteError{MarketID: marketID, Field: f}
		}
	}
	d := &Definition{}
	changed, runnerDefs, err := d.diff(v)
	_ = changed // always true on creation
	if err != nil {
		return nil, nil, err
	}
	return d, runnerDefs, nil
}

// ApplyCOW returns a Definition incorporating v's changes. If nothing
// actually changed, d itself is returned — the caller must not assume a
// new allocation happened.
func (d *Definition) ApplyCOW(v *fastjson.Value) (*Definition, []betfair.RunnerDef, error) {
	next := *d
	changed, runnerDefs, err := next.diff(v)
	if err != nil {
		return nil, nil, err
	}
	if !changed {
		return d, runnerDefs, nil
	}
	return &next, runnerDefs, nil
}

// diff applies v's fields into d (a private working copy owned by the
// caller — either a fresh zero value or a shallow copy of a shared
// Definition) and reports whether anything changed. Pointer-valued
// fields are replaced wholesale rather than mutated through the existing
// pointer, since that pointer may still be reachable from an older,
// still-shared Definition.
func (d *Definition) diff(v *fastjson.Value) (bool, []betfair.RunnerDef, error) {
	changed := false

	if bd := v.Get("betDelay"); bd != nil {
		n, _ := bd.Int()
		if n != d.BetDelay {
			d.BetDelay = n
			changed = true
		}
	}
	if bt := v.GetStringBytes("bettingType"); bt != nil {
		nv := betfair.BettingType(bt)
		if nv != d.BettingType {
			d.BettingType = nv
			changed = true
		}
	}
	if b := v.Get("bspMarket"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.BspMarket {
			d.BspMarket = nv
			changed = true
		}
	}
	if b := v.Get("bspReconciled"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.BspReconciled {
			d.BspReconciled = nv
			changed = true
		}
	}
	if b := v.Get("complete"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.Complete {
			d.Complete = nv
			changed = true
		}
	}
	if cc := v.GetStringBytes("countryCode"); cc != nil {
		if string(cc) != d.CountryCode {
			d.CountryCode = string(cc)
			changed = true
		}
	}
	if b := v.Get("crossMatching"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.CrossMatching {
			d.CrossMatching = nv
			changed = true
		}
	}
	if b := v.Get("discountAllowed"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.DiscountAllowed {
			d.DiscountAllowed = nv
			changed = true
		}
	}
	if ewd := v.Get("eachWayDivisor"); ewd != nil && ewd.Type() == fastjson.TypeNumber {
		n, _ := ewd.Float64()
		if d.EachWayDivisor == nil || *d.EachWayDivisor != n {
			d.EachWayDivisor = &n
			changed = true
		}
	}
	if eid := v.Get("eventId"); eid != nil {
		n, err := intFromJson(eid)
		if err != nil {
			return false, nil, err
		}
		if betfair.EventID(n) != d.EventID {
			d.EventID = betfair.EventID(n)
			changed = true
		}
	}
	if en := v.GetStringBytes("eventName"); en != nil {
		if d.EventName == nil || *d.EventName != string(en) {
			s := string(en)
			d.EventName = &s
			changed = true
		}
	}
	if etid := v.Get("eventTypeId"); etid != nil {
		n, err := intFromJson(etid)
		if err != nil {
			return false, nil, err
		}
		if betfair.EventTypeID(n) != d.EventTypeID {
			d.EventTypeID = betfair.EventTypeID(n)
			changed = true
		}
	}
	if b := v.Get("inPlay"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.InPlay {
			d.InPlay = nv
			changed = true
		}
	}
	if mbr := v.Get("marketBaseRate"); mbr != nil {
		n, _ := mbr.Float64()
		if n != d.MarketBaseRate {
			d.MarketBaseRate = n
			changed = true
		}
	}
	if mt := v.GetStringBytes("marketTime"); mt != nil && string(mt) != d.MarketTime.Raw {
		parsed, err := parseDateTime(string(mt))
		if err != nil {
			return false, nil, err
		}
		d.MarketTime = parsed
		changed = true
	}
	if mty := v.GetStringBytes("marketType"); mty != nil && string(mty) != d.MarketType {
		d.MarketType = string(mty)
		changed = true
	}
	if n := v.GetStringBytes("name"); n != nil {
		if d.Name == nil || *d.Name != string(n) {
			s := string(n)
			d.Name = &s
			changed = true
		}
	}
	if nar := v.Get("numberOfActiveRunners"); nar != nil {
		n, _ := nar.Int()
		if n != d.NumberOfActiveRunners {
			d.NumberOfActiveRunners = n
			changed = true
		}
	}
	if now := v.Get("numberOfWinners"); now != nil {
		n, _ := now.Int()
		if n != d.NumberOfWinners {
			d.NumberOfWinners = n
			changed = true
		}
	}
	if od := v.GetStringBytes("openDate"); od != nil && string(od) != d.OpenDate.Raw {
		parsed, err := parseDateTime(string(od))
		if err != nil {
			return false, nil, err
		}
		d.OpenDate = parsed
		changed = true
	}
	if b := v.Get("persistenceEnabled"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.PersistenceEnabled {
			d.PersistenceEnabled = nv
			changed = true
		}
	}
	if rt := v.GetStringBytes("raceType"); rt != nil {
		if d.RaceType == nil || *d.RaceType != string(rt) {
			s := string(rt)
			d.RaceType = &s
			changed = true
		}
	}
	if regs := v.Get("regulators"); regs != nil {
		arr, err := regs.Array()
		if err != nil {
			return false, nil, err
		}
		newRegs := make([]string, len(arr))
		for i, r := range arr {
			s, _ := r.StringBytes()
			newRegs[i] = string(s)
		}
		if !stringSliceEqual(d.Regulators, newRegs) {
			d.Regulators = newRegs
			changed = true
		}
	}
	if b := v.Get("runnersVoidable"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.RunnersVoidable {
			d.RunnersVoidable = nv
			changed = true
		}
	}
	if st := v.GetStringBytes("settledTime"); st != nil {
		if d.SettledTime == nil || d.SettledTime.Raw != string(st) {
			parsed, err := parseDateTime(string(st))
			if err != nil {
				return false, nil, err
			}
			d.SettledTime = &parsed
			changed = true
		}
	}
	if status := v.GetStringBytes("status"); status != nil {
		nv := betfair.MarketStatus(status)
		if nv != d.Status {
			d.Status = nv
			changed = true
		}
	}
	if sust := v.GetStringBytes("suspendTime"); sust != nil {
		if d.SuspendTime == nil || d.SuspendTime.Raw != string(sust) {
			parsed, err := parseDateTime(string(sust))
			if err != nil {
				return false, nil, err
			}
			d.SuspendTime = &parsed
			changed = true
		}
	}
	if tz := v.GetStringBytes("timezone"); tz != nil && string(tz) != d.Timezone {
		d.Timezone = string(tz)
		changed = true
	}
	if b := v.Get("turnInPlayEnabled"); b != nil {
		nv := b.Type() == fastjson.TypeTrue
		if nv != d.TurnInPlayEnabled {
			d.TurnInPlayEnabled = nv
			changed = true
		}
	}
	if venue := v.GetStringBytes("venue"); venue != nil {
		if d.Venue == nil || *d.Venue != string(venue) {
			s := string(venue)
			d.Venue = &s
			changed = true
		}
	}
	if ver := v.Get("version"); ver != nil {
		n, _ := ver.Int64()
		if n != d.Version {
			d.Version = n
			changed = true
		}
	}

	var runnerDefs []betfair.RunnerDef
	if runners := v.Get("runners"); runners != nil {
		arr, err := runners.Array()
		if err != nil {
			return false, nil, err
		}
		runnerDefs = make([]betfair.RunnerDef, 0, len(arr)+2)
		for _, rv := range arr {
			rd, err := runnerDefFromJson(rv)
			if err != nil {
				return false, nil, err
			}
			runnerDefs = append(runnerDefs, rd)
		}
	}
	return changed, runnerDefs, nil
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func runnerDefFromJson(v *fastjson.Value) (betfair.RunnerDef, error) {
	id := v.Get("id")
	if id == nil {
		return betfair.RunnerDef{}, betfair.ErrMalformedFrame
	}
	idVal, _ := id.Int64()
	key := betfair.RunnerKey{ID: betfair.SelectionID(idVal)}
	if hc := v.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		f, _ := hc.Float64()
		key.Handicap = f
		key.HasHandicap = true
	}
	rd := betfair.RunnerDef{Key: key}
	if status := v.GetStringBytes("status"); status != nil {
		rd.Status = betfair.RunnerStatus(status)
	} else {
		rd.Status = betfair.RunnerStatus_Active
	}
	if sp := v.Get("sortPriority"); sp != nil {
		n, _ := sp.Int()
		rd.SortPriority = n
	}
	if name := v.GetStringBytes("name"); name != nil {
		s := string(name)
		rd.Name = &s
	}
	if af := v.Get("adjustmentFactor"); af != nil && af.Type() == fastjson.TypeNumber {
		f, _ := af.Float64()
		rd.AdjustmentFactor = &f
	}
	if bsp := v.Get("bsp"); bsp != nil {
		f, err := floatFromJson(bsp)
		if err != nil {
			return betfair.RunnerDef{}, err
		}
		rd.Bsp = &f
	}
	if removalDate := v.GetStringBytes("removalDate"); removalDate != nil {
		s := string(removalDate)
		rd.RemovalDate = &s
	}
	return rd, nil
}
