// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/tui"
	"github.com/larkspur-data/betfair-stream/source"
)

func main() {
	var showHelp bool
	pflag.BoolVarP(&showHelp, "help", "h", false, "show help")
	pflag.Parse()

	if showHelp || pflag.NArg() == 0 {
		fmt.Fprintf(os.Stdout, "usage: %s file\n\n", os.Args[0])
		pflag.PrintDefaults()
		if showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	path := pflag.Arg(0)
	entries, err := source.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening %s: %s\n", path, err.Error())
		os.Exit(1)
	}

	ch := make(chan tui.SnapshotMsg, 8)
	go decodeInto(entries, ch)

	if err := tui.Run(tui.Config{SnapshotCh: ch}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func decodeInto(entries []source.Entry, ch chan<- tui.SnapshotMsg) {
	defer close(ch)
	for _, entry := range entries {
		dec := betfair.NewDecoder(entry.Reader, entry.Name, betfair.DefaultConfig())
		for {
			snap, err := dec.Next()
			if err != nil {
				ch <- tui.SnapshotMsg{Err: err}
				entry.Close()
				return
			}
			if snap == nil {
				break
			}
			ch <- tui.SnapshotMsg{Registry: dec.Registry()}
		}
		entry.Close()
	}
}
