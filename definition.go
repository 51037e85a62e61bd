// Copyright (c) 2025 Neomantra Corp

package betfair

import "github.com/valyala/fastjson"

// RunnerDef is one entry of a marketDefinition's runners array, as read
// during MarketDefinition.Apply before being folded into a RunnerBook.
type RunnerDef struct {
	Key              RunnerKey
	Status           RunnerStatus
	SortPriority     int
	Name             *string
	AdjustmentFactor *float64
	Bsp              *float64
	RemovalDate      *string
}

// MarketDefinition is a market's scalar, mostly-static metadata (spec
// §3.5). All optional fields are nil pointers when absent on the wire.
type MarketDefinition struct {
	BetDelay               int
	BettingType            BettingType
	BspMarket              bool
	BspReconciled          bool
	Complete               bool
	CountryCode            string
	CrossMatching          bool
	DiscountAllowed        bool
	EachWayDivisor         *float64
	EventID                EventID
	EventName              *string
	EventTypeID            EventTypeID
	InPlay                 bool
	MarketBaseRate         float64
	MarketTime             DateTimeString
	MarketType             string
	Name                   *string
	NumberOfActiveRunners  int
	NumberOfWinners        int
	OpenDate               DateTimeString
	PersistenceEnabled     bool
	RaceType               *string
	Regulators             []string
	RunnersVoidable        bool
	SettledTime            *DateTimeString
	Status                 MarketStatus
	SuspendTime            *DateTimeString
	Timezone               string
	TurnInPlayEnabled      bool
	Venue                  *string
	Version                int64
}

var requiredDefinitionFields = []string{
	"eventId", "eventTypeId", "betDelay", "status", "bettingType",
	"marketTime", "openDate", "version", "marketBaseRate",
	"numberOfActiveRunners", "numberOfWinners", "marketType",
}

// NewMarketDefinition constructs a definition from its first JSON
// appearance. All fields listed in requiredDefinitionFields must be
// present; the first missing one is reported as a SchemaIncompleteError.
func NewMarketDefinition(marketID MarketID, v *fastjson.Value) (*MarketDefinition, []RunnerDef, error) {
	for _, f := range requiredDefinitionFields {
		if v.Get(f) == nil {
			return nil, nil, &SchemaIncompleteError{MarketID: marketID, Field: f}
		}
	}
	def := &MarketDefinition{}
	runnerDefs, err := def.apply(v)
	if err != nil {
		return nil, nil, err
	}
	return def, runnerDefs, nil
}

// Apply incorporates an incoming marketDefinition object into an
// existing definition, overwriting only fields present and changed
// (spec §4.3). It returns the runner-definition entries found in the
// "runners" array, for the caller to fold into the market's runner list.
func (d *MarketDefinition) Apply(v *fastjson.Value) ([]RunnerDef, error) {
	return d.apply(v)
}

func (d *MarketDefinition) apply(v *fastjson.Value) ([]RunnerDef, error) {
	if bd := v.Get("betDelay"); bd != nil {
		n, _ := bd.Int()
		d.BetDelay = n
	}
	if bt := v.GetStringBytes("bettingType"); bt != nil {
		d.BettingType = BettingType(bt)
	}
	if b := v.Get("bspMarket"); b != nil {
		d.BspMarket = b.Type() == fastjson.TypeTrue
	}
	if b := v.Get("bspReconciled"); b != nil {
		d.BspReconciled = b.Type() == fastjson.TypeTrue
	}
	if b := v.Get("complete"); b != nil {
		d.Complete = b.Type() == fastjson.TypeTrue
	}
	if cc := v.GetStringBytes("countryCode"); cc != nil {
		setStringIfChanged(&d.CountryCode, string(cc))
	}
	if b := v.Get("crossMatching"); b != nil {
		d.CrossMatching = b.Type() == fastjson.TypeTrue
	}
	if b := v.Get("discountAllowed"); b != nil {
		d.DiscountAllowed = b.Type() == fastjson.TypeTrue
	}
	if ewd := v.Get("eachWayDivisor"); ewd != nil && ewd.Type() == fastjson.TypeNumber {
		n, _ := ewd.Float64()
		d.EachWayDivisor = &n
	}
	if eid := v.Get("eventId"); eid != nil {
		n, err := intFromJson(eid)
		if err != nil {
			return nil, err
		}
		d.EventID = EventID(n)
	}
	if en := v.GetStringBytes("eventName"); en != nil {
		if d.EventName == nil {
			d.EventName = new(string)
		}
		setStringIfChanged(d.EventName, string(en))
	}
	if etid := v.Get("eventTypeId"); etid != nil {
		n, err := intFromJson(etid)
		if err != nil {
			return nil, err
		}
		d.EventTypeID = EventTypeID(n)
	}
	if b := v.Get("inPlay"); b != nil {
		d.InPlay = b.Type() == fastjson.TypeTrue
	}
	if mbr := v.Get("marketBaseRate"); mbr != nil {
		n, _ := mbr.Float64()
		d.MarketBaseRate = n
	}
	if mt := v.GetStringBytes("marketTime"); mt != nil {
		if _, err := setDateTimeIfChanged(&d.MarketTime, string(mt)); err != nil {
			return nil, err
		}
	}
	if mty := v.GetStringBytes("marketType"); mty != nil {
		setStringIfChanged(&d.MarketType, string(mty))
	}
	if n := v.GetStringBytes("name"); n != nil {
		if d.Name == nil {
			d.Name = new(string)
		}
		setStringIfChanged(d.Name, string(n))
	}
	if nar := v.Get("numberOfActiveRunners"); nar != nil {
		n, _ := nar.Int()
		d.NumberOfActiveRunners = n
	}
	if now := v.Get("numberOfWinners"); now != nil {
		n, _ := now.Int()
		d.NumberOfWinners = n
	}
	if od := v.GetStringBytes("openDate"); od != nil {
		if _, err := setDateTimeIfChanged(&d.OpenDate, string(od)); err != nil {
			return nil, err
		}
	}
	if b := v.Get("persistenceEnabled"); b != nil {
		d.PersistenceEnabled = b.Type() == fastjson.TypeTrue
	}
	if rt := v.GetStringBytes("raceType"); rt != nil {
		if d.RaceType == nil {
			d.RaceType = new(string)
		}
		setStringIfChanged(d.RaceType, string(rt))
	}
	if regs := v.Get("regulators"); regs != nil {
		arr, err := regs.Array()
		if err != nil {
			return nil, err
		}
		newRegs := make([]string, len(arr))
		for i, r := range arr {
			s, _ := r.StringBytes()
			newRegs[i] = string(s)
		}
		if !stringSliceEqual(d.Regulators, newRegs) {
			d.Regulators = newRegs
		}
	}
	if b := v.Get("runnersVoidable"); b != nil {
		d.RunnersVoidable = b.Type() == fastjson.TypeTrue
	}
	if st := v.GetStringBytes("settledTime"); st != nil {
		if d.SettledTime == nil {
			d.SettledTime = &DateTimeString{}
		}
		if _, err := setDateTimeIfChanged(d.SettledTime, string(st)); err != nil {
			return nil, err
		}
	}
	if status := v.GetStringBytes("status"); status != nil {
		d.Status = MarketStatus(status)
	}
	if sust := v.GetStringBytes("suspendTime"); sust != nil {
		if d.SuspendTime == nil {
			d.SuspendTime = &DateTimeString{}
		}
		if _, err := setDateTimeIfChanged(d.SuspendTime, string(sust)); err != nil {
			return nil, err
		}
	}
	if tz := v.GetStringBytes("timezone"); tz != nil {
		setStringIfChanged(&d.Timezone, string(tz))
	}
	if b := v.Get("turnInPlayEnabled"); b != nil {
		d.TurnInPlayEnabled = b.Type() == fastjson.TypeTrue
	}
	if venue := v.GetStringBytes("venue"); venue != nil {
		if d.Venue == nil {
			d.Venue = new(string)
		}
		setStringIfChanged(d.Venue, string(venue))
	}
	if ver := v.Get("version"); ver != nil {
		n, _ := ver.Int64()
		d.Version = n
	}

	var runnerDefs []RunnerDef
	if runners := v.Get("runners"); runners != nil {
		arr, err := runners.Array()
		if err != nil {
			return nil, err
		}
		runnerDefs = make([]RunnerDef, 0, len(arr)+2)
		for _, rv := range arr {
			rd, err := runnerDefFromJson(rv)
			if err != nil {
				return nil, err
			}
			runnerDefs = append(runnerDefs, rd)
		}
	}
	return runnerDefs, nil
}

func runnerDefFromJson(v *fastjson.Value) (RunnerDef, error) {
	id := v.Get("id")
	if id == nil {
		return RunnerDef{}, ErrMalformedFrame
	}
	idVal, _ := id.Int64()
	key := RunnerKey{ID: SelectionID(idVal)}
	if hc := v.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		f, _ := hc.Float64()
		key.Handicap = f
		key.HasHandicap = true
	}
	rd := RunnerDef{Key: key}
	if status := v.GetStringBytes("status"); status != nil {
		rd.Status = RunnerStatus(status)
	} else {
		rd.Status = RunnerStatus_Active
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
			return RunnerDef{}, err
		}
		rd.Bsp = &f
	}
	if removalDate := v.GetStringBytes("removalDate"); removalDate != nil {
		s := string(removalDate)
		rd.RemovalDate = &s
	}
	return rd, nil
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
