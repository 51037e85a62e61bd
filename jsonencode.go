// Copyright (c) 2025 Neomantra Corp

package betfair

import (
	"github.com/segmentio/encoding/json"
)

// These wire-shaped structs mirror the JSON field reference of spec §6.2
// exactly, so that encoding one and decoding it back through Decoder
// reproduces an equivalent Market — the round-trip law of spec §8. They
// exist purely for re-encoding; the Decoder itself never builds or
// consumes these types; it reads fastjson.Value directly off the wire.

type wireFrame struct {
	Op  string           `json:"op"`
	Pt  uint64           `json:"pt"`
	Clk string           `json:"clk"`
	Mc  []wireMarketChange `json:"mc"`
}

type wireMarketChange struct {
	ID               MarketID          `json:"id"`
	Img              bool              `json:"img"`
	MarketDefinition *wireDefinition   `json:"marketDefinition,omitempty"`
	Rc               []wireRunnerChange `json:"rc,omitempty"`
	Tv               *float64          `json:"tv,omitempty"`
	Con              bool              `json:"con,omitempty"`
}

type wireRunnerDef struct {
	ID               SelectionID `json:"id"`
	Hc               *float64    `json:"hc,omitempty"`
	AdjustmentFactor *float64    `json:"adjustmentFactor,omitempty"`
	Status           RunnerStatus `json:"status"`
	SortPriority     int         `json:"sortPriority"`
	Name             *string     `json:"name,omitempty"`
	Bsp              *float64    `json:"bsp,omitempty"`
	RemovalDate      *string     `json:"removalDate,omitempty"`
}

type wireDefinition struct {
	BetDelay              int             `json:"betDelay"`
	BettingType           BettingType     `json:"bettingType"`
	BspMarket             bool            `json:"bspMarket"`
	BspReconciled         bool            `json:"bspReconciled"`
	Complete              bool            `json:"complete"`
	CountryCode           string          `json:"countryCode,omitempty"`
	CrossMatching         bool            `json:"crossMatching"`
	DiscountAllowed       bool            `json:"discountAllowed"`
	EachWayDivisor        *float64        `json:"eachWayDivisor,omitempty"`
	EventID               EventID         `json:"eventId"`
	EventName             *string         `json:"eventName,omitempty"`
	EventTypeID           EventTypeID     `json:"eventTypeId"`
	InPlay                bool            `json:"inPlay"`
	MarketBaseRate        float64         `json:"marketBaseRate"`
	MarketTime            string          `json:"marketTime"`
	MarketType            string          `json:"marketType,omitempty"`
	Name                  *string         `json:"name,omitempty"`
	NumberOfActiveRunners int             `json:"numberOfActiveRunners"`
	NumberOfWinners       int             `json:"numberOfWinners"`
	OpenDate              string          `json:"openDate"`
	PersistenceEnabled    bool            `json:"persistenceEnabled"`
	RaceType              *string         `json:"raceType,omitempty"`
	Regulators            []string        `json:"regulators,omitempty"`
	RunnersVoidable       bool            `json:"runnersVoidable"`
	SettledTime           *string         `json:"settledTime,omitempty"`
	Status                MarketStatus    `json:"status"`
	SuspendTime           *string         `json:"suspendTime,omitempty"`
	Timezone              string          `json:"timezone,omitempty"`
	TurnInPlayEnabled     bool            `json:"turnInPlayEnabled"`
	Venue                 *string         `json:"venue,omitempty"`
	Version               int64           `json:"version"`
	Runners               []wireRunnerDef `json:"runners,omitempty"`
}

type wireRunnerChange struct {
	ID  SelectionID  `json:"id"`
	Hc  *float64     `json:"hc,omitempty"`
	Atb [][2]float64 `json:"atb,omitempty"`
	Atl [][2]float64 `json:"atl,omitempty"`
	Trd [][2]float64 `json:"trd,omitempty"`
	Spb [][2]float64 `json:"spb,omitempty"`
	Spl [][2]float64 `json:"spl,omitempty"`
	Spn *float64     `json:"spn,omitempty"`
	Spf *float64     `json:"spf,omitempty"`
	Ltp *float64     `json:"ltp,omitempty"`
	Tv  *float64     `json:"tv,omitempty"`
}

func ladderToWire(l *PriceLadder) [][2]float64 {
	entries := l.Entries()
	if len(entries) == 0 {
		return nil
	}
	out := make([][2]float64, len(entries))
	for i, e := range entries {
		out[i] = [2]float64{e.Price, e.Size}
	}
	return out
}

// EncodeMarketAsImageFrame re-encodes a reconstructed Market as a
// single-market `img:true` frame: decoding this frame from empty state
// reproduces an equivalent Market, which is the round-trip property
// tested in §8.
func EncodeMarketAsImageFrame(m *Market) ([]byte, error) {
	def := m.Definition
	wd := &wireDefinition{
		BetDelay:              def.BetDelay,
		BettingType:           def.BettingType,
		BspMarket:             def.BspMarket,
		BspReconciled:         def.BspReconciled,
		Complete:              def.Complete,
		CountryCode:           def.CountryCode,
		CrossMatching:         def.CrossMatching,
		DiscountAllowed:       def.DiscountAllowed,
		EachWayDivisor:        def.EachWayDivisor,
		EventID:               def.EventID,
		EventName:             def.EventName,
		EventTypeID:           def.EventTypeID,
		InPlay:                def.InPlay,
		MarketBaseRate:        def.MarketBaseRate,
		MarketTime:            def.MarketTime.Raw,
		MarketType:            def.MarketType,
		Name:                  def.Name,
		NumberOfActiveRunners: def.NumberOfActiveRunners,
		NumberOfWinners:       def.NumberOfWinners,
		OpenDate:              def.OpenDate.Raw,
		PersistenceEnabled:    def.PersistenceEnabled,
		RaceType:              def.RaceType,
		Regulators:            def.Regulators,
		RunnersVoidable:       def.RunnersVoidable,
		Status:                def.Status,
		Timezone:              def.Timezone,
		TurnInPlayEnabled:     def.TurnInPlayEnabled,
		Venue:                 def.Venue,
		Version:               def.Version,
	}
	if def.SettledTime != nil {
		wd.SettledTime = &def.SettledTime.Raw
	}
	if def.SuspendTime != nil {
		wd.SuspendTime = &def.SuspendTime.Raw
	}

	wd.Runners = make([]wireRunnerDef, len(m.Runners))
	rc := make([]wireRunnerChange, len(m.Runners))
	for i, r := range m.Runners {
		var hc *float64
		if r.Key.HasHandicap {
			h := r.Key.Handicap
			hc = &h
		}
		var removalDate *string
		if r.RemovalDate != nil {
			removalDate = &r.RemovalDate.Raw
		}
		runnerTV := r.TotalMatched
		wd.Runners[i] = wireRunnerDef{
			ID:               r.Key.ID,
			Hc:               hc,
			AdjustmentFactor: r.AdjustmentFactor,
			Status:           r.Status,
			SortPriority:     r.SortPriority,
			Name:             r.Name,
			Bsp:              r.SP.ActualSP,
			RemovalDate:      removalDate,
		}
		rc[i] = wireRunnerChange{
			ID:  r.Key.ID,
			Hc:  hc,
			Atb: ladderToWire(r.EX.AvailableToBack),
			Atl: ladderToWire(r.EX.AvailableToLay),
			Trd: ladderToWire(r.EX.TradedVolume),
			Spb: ladderToWire(r.SP.LayLiabilityTaken),
			Spl: ladderToWire(r.SP.BackStakeTaken),
			Spn: r.SP.NearPrice,
			Spf: r.SP.FarPrice,
			Ltp: r.LastPriceTraded,
			Tv:  &runnerTV,
		}
	}

	tv := m.TotalMatched
	frame := wireFrame{
		Op:  "mcm",
		Pt:  m.PublishTime,
		Clk: string(m.Clk),
		Mc: []wireMarketChange{{
			ID:               m.MarketID,
			Img:              true,
			MarketDefinition: wd,
			Rc:               rc,
			Tv:               &tv,
			Con:              m.Conflated,
		}},
	}
	return json.Marshal(frame)
}
