// Copyright (c) 2025 Neomantra Corp

package betfair

import (
	"time"

	"github.com/relvacode/iso8601"
)

// DateTimeString holds an RFC-3339 datetime field as Betfair sends it:
// the raw 24-char string, verbatim, plus its parsed form. Equality is
// defined on the original string, not the parsed time, matching §3.1.
type DateTimeString struct {
	Raw    string
	Parsed time.Time
}

// setDateTimeIfChanged parses newRaw into *field only when it differs
// from the field's current raw string, avoiding the iso8601 parse cost
// on the common case of an unchanged timestamp arriving again on a later
// definition diff (spec §4.3). Returns whether the field changed.
func setDateTimeIfChanged(field *DateTimeString, newRaw string) (bool, error) {
	if field.Raw == newRaw {
		return false, nil
	}
	t, err := iso8601.ParseString(newRaw)
	if err != nil {
		return false, err
	}
	field.Raw = newRaw
	field.Parsed = t
	return true, nil
}

// setStringIfChanged applies the same "set-if-changed" discipline (from
// original_source's StringSetExtNeq) to any plain string field, not just
// datetimes: it reports whether *field actually changed. The immutable
// package does its own comparisons and does not call it.
func setStringIfChanged(field *string, newVal string) bool {
	if *field == newVal {
		return false
	}
	*field = newVal
	return true
}
