// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"math"
	"strconv"

	"github.com/larkspur-data/betfair-stream"
	"github.com/relvacode/iso8601"
	"github.com/valyala/fastjson"
)

// floatFromJson and intFromJson mirror the root package's helpers of the
// same name: the two variants are concrete sibling types (spec §9,
// "implement as two concrete types... not as runtime dispatch"), so the
// small leaf-level JSON coercions are duplicated rather than shared
// across a package boundary that would otherwise force the mutable and
// immutable decoders to agree on an unrelated internal API.

func floatFromJson(v *fastjson.Value) (float64, error) {
	if v == nil {
		return 0, betfair.ErrMalformedLadderEntry
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return 0, err
		}
		switch string(s) {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		default:
			return strconv.ParseFloat(string(s), 64)
		}
	default:
		return 0, betfair.ErrMalformedLadderEntry
	}
}

func intFromJson(v *fastjson.Value) (int64, error) {
	switch v.Type() {
	case fastjson.TypeNumber:
		return v.Int64()
	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(string(s), 10, 64)
	default:
		return 0, betfair.ErrMalformedFrame
	}
}

func priceSizesFromJson(v *fastjson.Value) ([]betfair.PriceSize, error) {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nil, nil
	}
	arr, err := v.Array()
	if err != nil {
		return nil, err
	}
	out := make([]betfair.PriceSize, 0, len(arr))
	for _, e := range arr {
		var ps betfair.PriceSize
		switch e.Type() {
		case fastjson.TypeArray:
			pair, err := e.Array()
			if err != nil || len(pair) != 2 {
				return nil, betfair.ErrMalformedLadderEntry
			}
			price, err := floatFromJson(pair[0])
			if err != nil {
				return nil, err
			}
			size, err := floatFromJson(pair[1])
			if err != nil {
				return nil, err
			}
			ps = betfair.PriceSize{Price: price, Size: size}
		case fastjson.TypeObject:
			price, err := floatFromJson(e.Get("price"))
			if err != nil {
				return nil, err
			}
			size, err := floatFromJson(e.Get("size"))
			if err != nil {
				return nil, err
			}
			ps = betfair.PriceSize{Price: price, Size: size}
		default:
			return nil, betfair.ErrMalformedLadderEntry
		}
		out = append(out, ps)
	}
	return out, nil
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

func parseDateTime(raw string) (betfair.DateTimeString, error) {
	t, err := iso8601.ParseString(raw)
	if err != nil {
		return betfair.DateTimeString{}, err
	}
	return betfair.DateTimeString{Raw: raw, Parsed: t}, nil
}
