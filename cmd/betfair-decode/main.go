// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/export"
	"github.com/larkspur-data/betfair-stream/source"
)

type config struct {
	CumulativeRunnerTV bool
	StableRunnerIndex  bool
	JSONOut            string
	Verbose            bool
}

func main() {
	var cfg config
	var showHelp bool

	pflag.BoolVar(&cfg.CumulativeRunnerTV, "cumulative-runner-tv", false, "recompute runner total-matched from traded-volume ladder instead of accumulating tv deltas")
	pflag.BoolVar(&cfg.StableRunnerIndex, "stable-runner-index", true, "keep runners in first-seen order instead of re-sorting by sort_priority")
	pflag.StringVarP(&cfg.JSONOut, "json-out", "o", "", "write decoded snapshots as NDJSON to this file ('-' for stdout)")
	pflag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "show help")
	pflag.Parse()

	if showHelp || pflag.NArg() == 0 {
		fmt.Fprintf(os.Stdout, "usage: %s [opts] file...\n\n", os.Args[0])
		pflag.PrintDefaults()
		if showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, pflag.Args(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(cfg config, paths []string, logger *slog.Logger) error {
	var jsonWriter *export.JSONWriter
	if cfg.JSONOut != "" {
		out := os.Stdout
		if cfg.JSONOut != "-" {
			f, err := os.Create(cfg.JSONOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", cfg.JSONOut, err)
			}
			defer f.Close()
			out = f
		}
		jsonWriter = export.NewJSONWriter(out)
		defer jsonWriter.Flush()
	}

	decodeCfg := betfair.DefaultConfig()
	decodeCfg.CumulativeRunnerTV = cfg.CumulativeRunnerTV
	decodeCfg.StableRunnerIndex = cfg.StableRunnerIndex

	var totalFrames, totalMarkets int
	for _, path := range paths {
		entries, err := source.Open(path)
		if err != nil {
			logger.Warn("failed to open", "path", path, "error", err)
			continue
		}
		for _, entry := range entries {
			frames, markets, err := decodeEntry(entry, decodeCfg, jsonWriter, logger)
			entry.Close()
			if err != nil {
				logger.Warn("failed to decode", "path", path, "entry", entry.Name, "error", err)
				continue
			}
			totalFrames += frames
			totalMarkets += markets
		}
	}

	logger.Info("decode complete", "frames", totalFrames, "markets_touched", totalMarkets)
	fmt.Printf("decoded %s frames across %s market touches\n", humanize.Comma(int64(totalFrames)), humanize.Comma(int64(totalMarkets)))
	return nil
}

func decodeEntry(entry source.Entry, cfg betfair.Config, jsonWriter *export.JSONWriter, logger *slog.Logger) (frames int, markets int, err error) {
	dec := betfair.NewDecoder(entry.Reader, entry.Name, cfg)
	for {
		snap, err := dec.Next()
		if err != nil {
			return frames, markets, err
		}
		if snap == nil {
			return frames, markets, nil
		}
		frames++
		markets += len(snap.Markets)
		if jsonWriter != nil {
			if err := jsonWriter.WriteSnapshot(snap); err != nil {
				return frames, markets, fmt.Errorf("writing snapshot: %w", err)
			}
		}
	}
}
