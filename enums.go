// Copyright (c) 2025 Neomantra Corp

package betfair

// RunnerStatus is a runner's current state within a market.
type RunnerStatus string

const (
	RunnerStatus_Active        RunnerStatus = "ACTIVE"
	RunnerStatus_Removed       RunnerStatus = "REMOVED"
	RunnerStatus_RemovedVacant RunnerStatus = "REMOVED_VACANT"
	RunnerStatus_Winner        RunnerStatus = "WINNER"
	RunnerStatus_Placed        RunnerStatus = "PLACED"
	RunnerStatus_Loser         RunnerStatus = "LOSER"
	RunnerStatus_Hidden        RunnerStatus = "HIDDEN"
)

// BettingType distinguishes odds markets from line/range/handicap markets.
type BettingType string

const (
	BettingType_Odds             BettingType = "ODDS"
	BettingType_Line             BettingType = "LINE"
	BettingType_Range            BettingType = "RANGE"
	BettingType_AsianHandicapDC  BettingType = "ASIAN_HANDICAP_DOUBLE_LINE"
	BettingType_AsianHandicapSC  BettingType = "ASIAN_HANDICAP_SINGLE_LINE"
	BettingType_FixedOdds        BettingType = "FIXED_ODDS"
)

// MarketStatus is the lifecycle state of a market as a whole.
type MarketStatus string

const (
	MarketStatus_Inactive  MarketStatus = "INACTIVE"
	MarketStatus_Open      MarketStatus = "OPEN"
	MarketStatus_Suspended MarketStatus = "SUSPENDED"
	MarketStatus_Closed    MarketStatus = "CLOSED"
)

// Direction is a price ladder's sort order, which differs by which book
// the ladder represents (see spec §3.3).
type Direction uint8

const (
	// DirectionBack sorts ascending by price: available-to-lay,
	// traded-volume, and SP back-stake-taken ladders.
	DirectionBack Direction = iota
	// DirectionLay sorts descending by price: available-to-back and SP
	// lay-liability-taken ladders.
	DirectionLay
)

func (d Direction) String() string {
	if d == DirectionBack {
		return "back"
	}
	return "lay"
}

// StreamErrorCode enumerates the `errorCode` values the live stream's
// StatusMessage may carry on a non-SUCCESS status.
type StreamErrorCode string

const (
	StreamError_InvalidInput               StreamErrorCode = "INVALID_INPUT"
	StreamError_Timeout                    StreamErrorCode = "TIMEOUT"
	StreamError_NoAppKey                   StreamErrorCode = "NO_APP_KEY"
	StreamError_InvalidAppKey              StreamErrorCode = "INVALID_APP_KEY"
	StreamError_NoSession                  StreamErrorCode = "NO_SESSION"
	StreamError_InvalidSessionInformation   StreamErrorCode = "INVALID_SESSION_INFORMATION"
	StreamError_NotAuthorized              StreamErrorCode = "NOT_AUTHORIZED"
	StreamError_MaxConnectionLimitExceeded StreamErrorCode = "MAX_CONNECTION_LIMIT_EXCEEDED"
	StreamError_TooManyRequests            StreamErrorCode = "TOO_MANY_REQUESTS"
	StreamError_SubscriptionLimitExceeded  StreamErrorCode = "SUBSCRIPTION_LIMIT_EXCEEDED"
	StreamError_InvalidClock               StreamErrorCode = "INVALID_CLOCK"
	StreamError_UnexpectedError            StreamErrorCode = "UNEXPECTED_ERROR"
	StreamError_ConnectionFailed            StreamErrorCode = "CONNECTION_FAILED"
)

// runnerStatusClearsEx reports whether a runner status transition clears
// the EX (exchange) ladders, retaining the SP book (spec §3.4).
func runnerStatusClearsEx(status RunnerStatus) bool {
	return status == RunnerStatus_Removed || status == RunnerStatus_RemovedVacant
}
