// Copyright (c) 2025 Neomantra Corp
//
// NOTE: this connects to Betfair's production stream gateway and
// requires a valid session token and application key.
//

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/export"
	"github.com/larkspur-data/betfair-stream/stream"
)

type config struct {
	MarketIDs   string
	EventTypeID string
	JSONOut     string
	Wizard      bool
	Verbose     bool
}

func main() {
	var cfg config
	var showHelp bool

	pflag.StringVar(&cfg.MarketIDs, "market-ids", "", "comma-separated market ids to subscribe to")
	pflag.StringVar(&cfg.EventTypeID, "event-type-id", "", "event type id to subscribe to (alternative to --market-ids)")
	pflag.StringVarP(&cfg.JSONOut, "json-out", "o", "-", "write decoded snapshots as NDJSON to this file ('-' for stdout)")
	pflag.BoolVarP(&cfg.Wizard, "wizard", "w", false, "prompt interactively for the subscription filter instead of using flags")
	pflag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "show help")
	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if cfg.Wizard {
		if err := runWizard(&cfg); err != nil {
			fmt.Fprintf(os.Stderr, "wizard error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if cfg.MarketIDs == "" && cfg.EventTypeID == "" {
		fmt.Fprintf(os.Stderr, "requires --market-ids, --event-type-id, or --wizard\n")
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

// runWizard interactively gathers the subscription filter, following the
// confirm-before-acting idiom of the teacher's historic-data CLI.
func runWizard(cfg *config) error {
	var useEventType bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative("By event type").
				Negative("By market ids").
				Title("Subscribe by event type or explicit market ids?").
				Value(&useEventType),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if useEventType {
		input := huh.NewInput().Title("Event type id").Value(&cfg.EventTypeID)
		return huh.NewForm(huh.NewGroup(input)).Run()
	}
	input := huh.NewInput().Title("Market ids (comma-separated)").Value(&cfg.MarketIDs)
	return huh.NewForm(huh.NewGroup(input)).Run()
}

func run(cfg config, logger *slog.Logger) error {
	var streamCfg stream.Config
	streamCfg.Logger = logger
	streamCfg.Verbose = cfg.Verbose
	if err := streamCfg.SetFromEnv(); err != nil {
		return err
	}

	client, err := stream.NewClient(streamCfg)
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	defer client.Close()

	if err := client.Authenticate(); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	filter := stream.MarketFilter{}
	if cfg.MarketIDs != "" {
		filter.MarketIds = strings.Split(cfg.MarketIDs, ",")
	}
	if cfg.EventTypeID != "" {
		filter.EventTypeIds = []string{cfg.EventTypeID}
	}
	dataFilter := stream.MarketDataFilter{Fields: []string{"EX_BEST_OFFERS", "EX_TRADED", "SP_TRADED", "SP_PROJECTED"}}

	if err := client.Subscribe(filter, dataFilter); err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}

	var jsonWriter *export.JSONWriter
	out := os.Stdout
	if cfg.JSONOut != "" && cfg.JSONOut != "-" {
		f, err := os.Create(cfg.JSONOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", cfg.JSONOut, err)
		}
		defer f.Close()
		out = f
	}
	jsonWriter = export.NewJSONWriter(out)
	defer jsonWriter.Flush()

	decodeCfg := betfair.DefaultConfig()
	dec := betfair.NewDecoder(client.Reader(), "live", decodeCfg)
	for {
		snap, err := dec.Next()
		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
		if snap == nil {
			return nil
		}
		if err := jsonWriter.WriteSnapshot(snap); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		jsonWriter.Flush()
	}
}
