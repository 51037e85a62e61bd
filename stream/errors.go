// Copyright (c) 2025 Neomantra Corp

package stream

import (
	"github.com/larkspur-data/betfair-stream"
)

// errorFromStatus turns a non-SUCCESS StatusMessage into the core
// package's typed StreamError, so a consumer handles a live-protocol
// failure the same way as any other decoder-surfaced error (spec §7).
func errorFromStatus(msg StatusMessage) error {
	return &betfair.StreamError{
		Code:    betfair.StreamErrorCode(msg.ErrorCode),
		Message: msg.ErrorMessage,
	}
}
