// Copyright (c) 2025 Neomantra Corp

package export

import (
	"bufio"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/larkspur-data/betfair-stream"
)

// JSONWriter writes one newline-terminated JSON object per Snapshot, the
// simplest possible export sink for a caller that wants the decoded
// state back out without standing up DuckDB.
type JSONWriter struct {
	w *bufio.Writer
}

// NewJSONWriter wraps dest in a buffered NDJSON sink.
func NewJSONWriter(dest io.Writer) *JSONWriter {
	return &JSONWriter{w: bufio.NewWriter(dest)}
}

// WriteSnapshot marshals snap and appends a trailing newline.
func (j *JSONWriter) WriteSnapshot(snap *betfair.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

// Flush flushes any buffered output to the underlying writer.
func (j *JSONWriter) Flush() error {
	return j.w.Flush()
}
