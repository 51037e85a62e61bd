// Copyright (c) 2025 Neomantra Corp
//
// betfair-mcp decodes one local file into a registry, then
// serves that registry (plus an optional export cache) as MCP tools
// over stdio so an LLM client can query market state directly.
//

package main

import (
	"fmt"
	"log/slog"
	"os"

	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/pflag"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/export"
	"github.com/larkspur-data/betfair-stream/internal/mcpserve"
	"github.com/larkspur-data/betfair-stream/source"
)

const (
	serverName    = "betfair-mcp"
	serverVersion = "0.0.1"

	serverInstructions = `betfair-mcp exposes a decoded Betfair market registry as MCP tools.

Use list_markets to see what's loaded, get_market for one market's full state, and query_cache/list_cache/clear_cache to work with the exported parquet cache via DuckDB SQL.`
)

func main() {
	var cacheDir string
	var useSSE bool
	var sseHostPort string
	var showHelp bool

	pflag.StringVar(&cacheDir, "cache-dir", "", "export cache directory for query_cache/list_cache/clear_cache (optional)")
	pflag.BoolVar(&useSSE, "sse", false, "use SSE transport instead of STDIO")
	pflag.StringVar(&sseHostPort, "port", ":8890", "host:port for SSE transport")
	pflag.BoolVarP(&showHelp, "help", "h", false, "show help")
	pflag.Parse()

	if showHelp || pflag.NArg() == 0 {
		fmt.Fprintf(os.Stdout, "usage: %s [opts] file\n\n", os.Args[0])
		pflag.PrintDefaults()
		if showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	registry, err := decodeFile(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}

	var store *export.Store
	if cacheDir != "" {
		store = export.NewStore(cacheDir, logger)
		if err := store.InitCache(); err != nil {
			fmt.Fprintf(os.Stderr, "error: initializing cache: %s\n", err.Error())
			os.Exit(1)
		}
		defer store.Close()
	}

	srv := mcpserve.NewServer(registry, store, logger)

	mcpServer := mcp_server.NewMCPServer(serverName, serverVersion,
		mcp_server.WithRecovery(),
		mcp_server.WithInstructions(serverInstructions),
	)
	srv.RegisterTools(mcpServer)

	if useSSE {
		sseServer := mcp_server.NewSSEServer(mcpServer)
		logger.Info("MCP SSE server started", "hostPort", sseHostPort)
		if err := sseServer.Start(sseHostPort); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
			os.Exit(1)
		}
		return
	}

	logger.Info("MCP STDIO server started")
	if err := mcp_server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

// decodeFile drains every entry of path (a single file, or every member of
// an archive) through its own decoder and returns the last entry's registry,
// since a Decoder owns one registry for its own reader's lifetime and has no
// way to accept an existing one. A path with a single stream file, the
// common case for this tool, yields exactly the registry callers expect.
func decodeFile(path string) (*betfair.Registry, error) {
	entries, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if len(entries) == 0 {
		return betfair.NewRegistry(), nil
	}

	var registry *betfair.Registry
	for _, entry := range entries {
		dec := betfair.NewDecoder(entry.Reader, entry.Name, betfair.DefaultConfig())
		for {
			snap, err := dec.Next()
			if err != nil {
				entry.Close()
				return nil, fmt.Errorf("decoding %s (%s): %w", path, entry.Name, err)
			}
			if snap == nil {
				break
			}
		}
		entry.Close()
		registry = dec.Registry()
	}
	return registry, nil
}
