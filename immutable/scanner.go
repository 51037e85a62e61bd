// Copyright (c) 2025 Neomantra Corp

package betfairimm

import (
	"bufio"
	"io"

	"github.com/larkspur-data/betfair-stream"
	"github.com/valyala/fastjson"
)

// frameScanner mirrors the root package's scanner: one reused
// fastjson.Parser across frames, reset rather than rebuilt per line.
type frameScanner struct {
	scanner *bufio.Scanner
	parser  fastjson.Parser
	path    string
	lineNo  int
}

func newFrameScanner(r io.Reader, path string) *frameScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &frameScanner{scanner: s, path: path}
}

func (fs *frameScanner) next() (*fastjson.Value, error) {
	for fs.scanner.Scan() {
		fs.lineNo++
		line := fs.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		v, err := fs.parser.ParseBytes(line)
		if err != nil {
			return nil, &betfair.ParseError{Path: fs.path, Pos: fs.lineNo, Err: err}
		}
		return v, nil
	}
	if err := fs.scanner.Err(); err != nil {
		return nil, &betfair.IoError{Path: fs.path, Err: err}
	}
	return nil, nil
}
