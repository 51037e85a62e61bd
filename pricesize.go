// Copyright (c) 2025 Neomantra Corp

package betfair

import (
	"math"
	"strconv"

	"github.com/valyala/fastjson"
)

// PriceSize is a single (price, size) entry in a price ladder. Ordering
// within a ladder is by Price alone; Size is the payload.
type PriceSize struct {
	Price float64
	Size  float64
}

// priceSizeFromJson decodes one ladder entry, which arrives either as a
// two-element array `[price, size]` or an object `{"price":.., "size":..}`.
// Either field may be a JSON number or one of the strings "NaN"/"Infinity"/
// "-Infinity" that Betfair emits for unpriced or unbounded entries.
func priceSizeFromJson(v *fastjson.Value) (PriceSize, error) {
	switch v.Type() {
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return PriceSize{}, err
		}
		if len(arr) != 2 {
			return PriceSize{}, ErrMalformedLadderEntry
		}
		price, err := floatFromJson(arr[0])
		if err != nil {
			return PriceSize{}, err
		}
		size, err := floatFromJson(arr[1])
		if err != nil {
			return PriceSize{}, err
		}
		return PriceSize{Price: price, Size: size}, nil
	case fastjson.TypeObject:
		price, err := floatFromJson(v.Get("price"))
		if err != nil {
			return PriceSize{}, err
		}
		size, err := floatFromJson(v.Get("size"))
		if err != nil {
			return PriceSize{}, err
		}
		return PriceSize{Price: price, Size: size}, nil
	default:
		return PriceSize{}, ErrMalformedLadderEntry
	}
}

// floatFromJson accepts a JSON number, or a JSON string spelling "NaN",
// "Infinity", or "-Infinity" (Betfair's encoding for the unrepresentable
// float values at the edges of starting-price books).
func floatFromJson(v *fastjson.Value) (float64, error) {
	if v == nil {
		return 0, ErrMalformedLadderEntry
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
		return 0, ErrMalformedLadderEntry
	}
}

// priceSizesFromJson decodes a whole ladder delta array.
func priceSizesFromJson(v *fastjson.Value) ([]PriceSize, error) {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nil, nil
	}
	arr, err := v.Array()
	if err != nil {
		return nil, err
	}
	out := make([]PriceSize, 0, len(arr))
	for _, e := range arr {
		ps, err := priceSizeFromJson(e)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, nil
}

// intFromJson accepts a JSON number or a JSON string of digits — Betfair
// encodes eventId and eventTypeId as strings on the wire despite them
// being numeric identifiers.
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
		return 0, ErrMalformedFrame
	}
}

// roundCents rounds a monetary float to two decimal places, the
// convention Betfair uses for total-matched sums.
func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
