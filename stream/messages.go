// Copyright (c) 2025 Neomantra Corp

// Package stream is the live-TLS source collaborator described in
// spec §6.3: it speaks Betfair's newline-terminated JSON protocol over a
// TLS connection and hands the resulting byte stream to the core
// decoder as a plain io.Reader. The core never imports this package.
package stream

import "github.com/segmentio/encoding/json"

// ConnectionMessage is the server's first frame on a new connection.
type ConnectionMessage struct {
	Op                   string `json:"op"`
	ConnectionID         string `json:"connectionId"`
	ConnectionsAvailable int    `json:"connectionsAvailable"`
}

// AuthenticationMessage is the client's login request.
type AuthenticationMessage struct {
	Op      string `json:"op"`
	ID      int    `json:"id,omitempty"`
	Session string `json:"session"`
	AppKey  string `json:"appKey"`
}

// StatusMessage is the server's reply to authentication, a subscription,
// or a heartbeat.
type StatusMessage struct {
	Op                   string `json:"op"`
	ID                   int    `json:"id,omitempty"`
	StatusCode           string `json:"statusCode"`
	ErrorCode            string `json:"errorCode,omitempty"`
	ErrorMessage         string `json:"errorMessage,omitempty"`
	ConnectionClosed     bool   `json:"connectionClosed,omitempty"`
	ConnectionsAvailable int    `json:"connectionsAvailable,omitempty"`
}

// StatusCodeSuccess and StatusCodeFailure are StatusMessage.StatusCode's
// two possible values.
const (
	StatusCodeSuccess = "SUCCESS"
	StatusCodeFailure = "FAILURE"
)

// MarketFilter selects which markets a MarketSubscriptionMessage covers.
// Only the fields this client exercises are modeled; unrecognized filter
// fields the real API accepts are intentionally left unset rather than
// half-implemented.
type MarketFilter struct {
	MarketIds        []string `json:"marketIds,omitempty"`
	EventTypeIds     []string `json:"eventTypeIds,omitempty"`
	EventIds         []string `json:"eventIds,omitempty"`
	BettingTypes     []string `json:"bettingTypes,omitempty"`
	MarketCountries  []string `json:"marketCountries,omitempty"`
	TurnInPlayEnabled *bool   `json:"turnInPlayEnabled,omitempty"`
}

// MarketDataFilter selects which fields the server includes on each
// market change (e.g. EX_BEST_OFFERS, SP_TRADED).
type MarketDataFilter struct {
	Fields       []string `json:"fields,omitempty"`
	LadderLevels int      `json:"ladderLevels,omitempty"`
}

// MarketSubscriptionMessage requests market-change updates.
type MarketSubscriptionMessage struct {
	Op                string            `json:"op"`
	ID                int               `json:"id,omitempty"`
	MarketFilter      MarketFilter      `json:"marketFilter"`
	MarketDataFilter  MarketDataFilter  `json:"marketDataFilter,omitempty"`
	Clk               string            `json:"clk,omitempty"`
	InitialClk        string            `json:"initialClk,omitempty"`
	ConflateMs        int               `json:"conflateMs,omitempty"`
	HeartbeatMs       int               `json:"heartbeatMs,omitempty"`
}

// HeartbeatMessage keeps the connection alive between subscriptions.
type HeartbeatMessage struct {
	Op string `json:"op"`
	ID int    `json:"id,omitempty"`
}

func encodeLine(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
