// Copyright (c) 2025 Neomantra Corp

package betfairimm

import "github.com/larkspur-data/betfair-stream"

// Snapshot is a frame's emission: the markets that frame touched, as
// independently-valid *Market values. Unlike the mutable package's
// Snapshot, these are safe to retain across any number of later
// Decoder.Next calls — a retained Market is never mutated after it is
// handed to the caller; the next update to that market id installs a new
// *Market in the Registry instead.
type Snapshot struct {
	PublishTime uint64
	Clk         betfair.Clk
	Markets     []*Market
}
