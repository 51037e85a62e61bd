// Copyright (c) 2025 Neomantra Corp

package betfair

import (
	"io"

	"github.com/valyala/fastjson"
)

// Decoder is the streaming JSON folder at the center of this package: it
// consumes a sequence of `{op:"mcm", pt, clk, mc:[...]}` frames and
// dispatches each MarketChange into a Registry it owns exclusively,
// emitting one Snapshot per frame containing only the markets that frame
// touched (spec §4.5). The Decoder never logs. Parse and I/O errors are
// returned to the caller; a MarketChange that fails to apply is left out
// of the frame's snapshot and its error is not reported to the caller.
type Decoder struct {
	cfg      Config
	scanner  *frameScanner
	registry *Registry
}

// NewDecoder constructs a Decoder reading NDJSON frames from r. path is
// a diagnostic label (typically the source file name) carried on any
// ParseError/IoError this Decoder produces.
func NewDecoder(r io.Reader, path string, cfg Config) *Decoder {
	return &Decoder{
		cfg:      cfg,
		scanner:  newFrameScanner(r, path),
		registry: NewRegistry(),
	}
}

// Registry exposes the decoder's market registry, e.g. for a consumer
// that wants to inspect markets untouched by the most recent frame.
func (d *Decoder) Registry() *Registry { return d.registry }

// Next decodes and folds the next frame, returning the snapshot of
// markets it touched. It returns (nil, nil) on clean end of input. On a
// parse error it returns (nil, err) and the stream is considered
// terminated for this file (spec §7's per-file Parse isolation is the
// driver's responsibility: catch this error, log it, and move to the
// next file). An error while applying one MarketChange within a frame
// (a SchemaIncompleteError or any other) does not abort the frame: the
// offending MarketChange is skipped without its error being returned, and
// the remaining markets in the same frame are still processed and returned.
func (d *Decoder) Next() (*Snapshot, error) {
	frame, err := d.scanner.next()
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, nil
	}

	pt, clk, hasPt, hasClk := uint64(0), Clk(""), false, false
	if ptVal := frame.Get("pt"); ptVal != nil {
		n, _ := ptVal.Uint64()
		pt = n
		hasPt = true
	}
	if clkVal := frame.GetStringBytes("clk"); clkVal != nil {
		clk = Clk(clkVal)
		hasClk = true
	}

	mc := frame.Get("mc")
	if mc == nil {
		return &Snapshot{PublishTime: pt, Clk: clk}, nil
	}
	changes, err := mc.Array()
	if err != nil {
		return nil, &ParseError{Path: d.scanner.path, Pos: d.scanner.lineNo, Err: err}
	}

	touched := make([]*Market, 0, len(changes))
	for _, change := range changes {
		market, skipErr := d.applyMarketChange(change, pt)
		if skipErr != nil {
			// A failed MarketChange is a per-market skip, not a per-file
			// failure: surface nothing for this entry and continue.
			continue
		}
		if hasPt {
			market.PublishTime = pt
		}
		if hasClk {
			market.Clk = clk
		}
		touched = append(touched, market)
	}
	return &Snapshot{PublishTime: pt, Clk: clk, Markets: touched}, nil
}

// applyMarketChange dispatches one MarketChange object per spec §4.5
// steps 1-5.
func (d *Decoder) applyMarketChange(change *fastjson.Value, _ uint64) (*Market, error) {
	idBytes := change.GetStringBytes("id")
	if idBytes == nil {
		return nil, ErrMissingMarketID
	}
	id := MarketID(idBytes)

	market, created := d.registry.getOrCreate(id)
	defVal := change.Get("marketDefinition")

	if created && defVal == nil {
		// Remove the half-created market: a fresh market requires a
		// definition on its first frame.
		d.removeMarket(id)
		return nil, &SchemaIncompleteError{MarketID: id}
	}

	isImage := false
	if img := change.Get("img"); img != nil {
		isImage = img.Type() == fastjson.TypeTrue
	}
	if isImage {
		market.clearRunners()
	}

	if con := change.Get("con"); con != nil {
		market.Conflated = con.Type() == fastjson.TypeTrue
	}

	if defVal != nil {
		var runnerDefs []RunnerDef
		var err error
		if market.Definition == nil {
			market.Definition, runnerDefs, err = NewMarketDefinition(id, defVal)
		} else {
			runnerDefs, err = market.Definition.Apply(defVal)
		}
		if err != nil {
			if created {
				d.removeMarket(id)
			}
			return nil, err
		}
		if err := market.applyRunnerDefs(runnerDefs, d.cfg.StableRunnerIndex); err != nil {
			return nil, err
		}
	}

	if market.Definition == nil {
		d.removeMarket(id)
		return nil, &SchemaIncompleteError{MarketID: id}
	}

	if rc := change.Get("rc"); rc != nil {
		entries, err := rc.Array()
		if err != nil {
			return nil, &ParseError{Path: d.scanner.path, Pos: d.scanner.lineNo, Err: err}
		}
		for _, rcEntry := range entries {
			key, err := runnerKeyFromChange(rcEntry)
			if err != nil {
				return nil, err
			}
			runner := market.findOrCreateRunner(key)
			if err := runner.ApplyChange(rcEntry, d.cfg.CumulativeRunnerTV); err != nil {
				return nil, err
			}
		}
		if d.cfg.CumulativeRunnerTV {
			market.recomputeTotalMatched()
		}
	}

	if tvVal := change.Get("tv"); tvVal != nil && !d.cfg.CumulativeRunnerTV {
		tv, err := floatFromJson(tvVal)
		if err != nil {
			return nil, err
		}
		if d.cfg.Mutable {
			market.TotalMatched += tv
		} else {
			market.TotalMatched = tv
		}
	}

	return market, nil
}

func runnerKeyFromChange(rc *fastjson.Value) (RunnerKey, error) {
	id := rc.Get("id")
	if id == nil {
		return RunnerKey{}, ErrMalformedFrame
	}
	idVal, _ := id.Int64()
	key := RunnerKey{ID: SelectionID(idVal)}
	if hc := rc.Get("hc"); hc != nil && hc.Type() == fastjson.TypeNumber {
		f, _ := hc.Float64()
		key.Handicap = f
		key.HasHandicap = true
	}
	return key, nil
}

// removeMarket drops a market that failed to complete its first frame,
// so a later frame supplying a definition starts it cleanly.
func (d *Decoder) removeMarket(id MarketID) {
	idx := d.registry.find(id)
	if idx < 0 {
		return
	}
	reg := d.registry
	reg.markets = append(reg.markets[:idx], reg.markets[idx+1:]...)
}
