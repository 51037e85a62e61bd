// Copyright (c) 2025 Neomantra Corp

package betfair

// Snapshot is what the Decoder emits per frame: exactly the markets
// touched by that frame (spec §4.5), in the order their MarketChange
// entries appeared. Untouched markets remain live in the registry but
// are not part of the emission.
//
// In the mutable variant, the *Market values referenced here are the
// same instances held by the Registry: a consumer that retains a
// Snapshot across the next call to Decoder.Next will observe the next
// frame's mutations reflected in place. The immutable package's
// Snapshot instead holds independently-valid Market values.
type Snapshot struct {
	PublishTime uint64
	Clk         Clk
	Markets     []*Market
}
