// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"io"

	"github.com/larkspur-data/betfair-stream"
	"github.com/valyala/fastjson"
)

// Decoder is the copy-on-write twin of betfair.Decoder: same dispatch
// (spec §4.5), but every touched market is replaced in the Registry by a
// newly constructed value instead of being mutated in place.
type Decoder struct {
	cfg      betfair.Config
	scanner  *frameScanner
	registry *Registry
}

// NewDecoder constructs a Decoder reading NDJSON frames from r.
func NewDecoder(r io.Reader, path string, cfg betfair.Config) *Decoder {
	return &Decoder{cfg: cfg, scanner: newFrameScanner(r, path), registry: NewRegistry()}
}

// Registry exposes the decoder's registry.
func (d *Decoder) Registry() *Registry { return d.registry }

// Next decodes and folds the next frame, returning the snapshot of
// markets it touched, or (nil, nil) on clean EOF.
func (d *Decoder) Next() (*Snapshot, error) {
	frame, err := d.scanner.next()
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, nil
	}

	pt := uint64(0)
	var clk betfair.Clk
	hasPt, hasClk := false, false
	if ptVal := frame.Get("pt"); ptVal != nil {
		n, _ := ptVal.Uint64()
		pt = n
		hasPt = true
	}
	if clkVal := frame.GetStringBytes("clk"); clkVal != nil {
		clk = betfair.Clk(clkVal)
		hasClk = true
	}

	mc := frame.Get("mc")
	if mc == nil {
		return &Snapshot{PublishTime: pt, Clk: clk}, nil
	}
	changes, err := mc.Array()
	if err != nil {
		return nil, &betfair.ParseError{Path: d.scanner.path, Pos: d.scanner.lineNo, Err: err}
	}

	touched := make([]*Market, 0, len(changes))
	for _, change := range changes {
		market, skipErr := d.applyMarketChange(change)
		if skipErr != nil {
			continue
		}
		if hasPt {
			market.PublishTime = pt
		}
		if hasClk {
			market.Clk = clk
		}
		d.registry.set(market)
		touched = append(touched, market)
	}
	return &Snapshot{PublishTime: pt, Clk: clk, Markets: touched}, nil
}

func (d *Decoder) applyMarketChange(change *fastjson.Value) (*Market, error) {
	idBytes := change.GetStringBytes("id")
	if idBytes == nil {
		return nil, betfair.ErrMissingMarketID
	}
	id := betfair.MarketID(idBytes)

	existing := d.registry.Get(id)
	defVal := change.Get("marketDefinition")

	if existing == nil && defVal == nil {
		return nil, &betfair.SchemaIncompleteError{MarketID: id}
	}

	var market Market
	if existing != nil {
		market = *existing
		market.Runners = append([]*Runner(nil), existing.Runners...)
	} else {
		market = Market{MarketID: id}
	}

	if img := change.Get("img"); img != nil && img.Type() == fastjson.TypeTrue {
		market.Runners = clearedRunners(market.Runners)
	}

	if con := change.Get("con"); con != nil {
		market.Conflated = con.Type() == fastjson.TypeTrue
	}

	if defVal != nil {
		var runnerDefs []betfair.RunnerDef
		var err error
		if market.Definition == nil {
			market.Definition, runnerDefs, err = NewDefinition(id, defVal)
		} else {
			market.Definition, runnerDefs, err = market.Definition.ApplyCOW(defVal)
		}
		if err != nil {
			return nil, err
		}
		market.Runners, err = applyRunnerDefsCOW(market.Runners, runnerDefs, d.cfg.StableRunnerIndex)
		if err != nil {
			return nil, err
		}
	}

	if market.Definition == nil {
		return nil, &betfair.SchemaIncompleteError{MarketID: id}
	}

	if rc := change.Get("rc"); rc != nil {
		entries, err := rc.Array()
		if err != nil {
			return nil, &betfair.ParseError{Path: d.scanner.path, Pos: d.scanner.lineNo, Err: err}
		}
		for _, rcEntry := range entries {
			key, err := runnerKeyFromChange(rcEntry)
			if err != nil {
				return nil, err
			}
			idx := market.findRunner(key)
			if idx < 0 {
				market.Runners = append(market.Runners, NewRunner(key))
				idx = len(market.Runners) - 1
			}
			updated, err := market.Runners[idx].ApplyChangeCOW(rcEntry, d.cfg.CumulativeRunnerTV)
			if err != nil {
				return nil, err
			}
			market.Runners[idx] = updated
		}
		if d.cfg.CumulativeRunnerTV {
			market.TotalMatched = recomputeTotalMatched(market.Runners)
		}
	}

	if tvVal := change.Get("tv"); tvVal != nil && !d.cfg.CumulativeRunnerTV {
		tv, err := floatFromJson(tvVal)
		if err != nil {
			return nil, err
		}
		market.TotalMatched = tv
	}

	return &market, nil
}

func runnerKeyFromChange(rc *fastjson.Value) (betfair.RunnerKey, error) {
	id := rc.Get("id")
	if id == nil {
		return betfair.RunnerKey{}, betfair.ErrMalformedFrame
	}
	idVal, _ := id.Int64()
	key := betfair.RunnerKey{ID: betfair.SelectionID(idVal)}
	if hc := rc.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		f, _ := hc.Float64()
		key.Handicap = f
		key.HasHandicap = true
	}
	return key, nil
}
