// Copyright (c) 2025 Neomantra Corp

package betfair

import "os"

// Config selects the decoder's behavior policies (spec §4.5).
type Config struct {
	// CumulativeRunnerTV: when true, market-level tv is ignored and
	// per-runner total_matched is recomputed from the traded-volume
	// ladder; the market's total_matched is derived by summation. When
	// false, a runner change's tv sets that runner's total_matched, and a
	// market-level tv is added to the market's total_matched by this
	// package's Decoder when Mutable is set, or replaces it otherwise (the
	// immutable package's Decoder always replaces it).
	CumulativeRunnerTV bool

	// StableRunnerIndex: when true, runners keep first-seen insertion
	// order. When false, they are resorted by sort_priority each time a
	// definition arrives.
	StableRunnerIndex bool

	// Mutable selects the mutable representation variant when used by a
	// caller that constructs either this package's Decoder or the
	// immutable package's Decoder based on the flag. This package's Decoder
	// also reads it to choose between adding and replacing market-level tv.
	Mutable bool

	// SessionToken and AppKey authenticate against the live stream
	// (spec §6.3); they are not used by the core decoder itself.
	SessionToken string
	AppKey       string
}

// DefaultConfig mirrors Betfair's live-stream default encoding: tv
// accumulates rather than being recomputed, and runner order is stable.
func DefaultConfig() Config {
	return Config{
		CumulativeRunnerTV: false,
		StableRunnerIndex:  true,
		Mutable:            true,
	}
}

// SetFromEnv fills SessionToken and AppKey from BETFAIR_SESSION_TOKEN and
// BETFAIR_APP_KEY if they are set, matching the teacher's
// LiveConfig.SetFromEnv convention for Databento's API key envvars.
func (c *Config) SetFromEnv() {
	if v := os.Getenv("BETFAIR_SESSION_TOKEN"); v != "" {
		c.SessionToken = v
	}
	if v := os.Getenv("BETFAIR_APP_KEY"); v != "" {
		c.AppKey = v
	}
}
