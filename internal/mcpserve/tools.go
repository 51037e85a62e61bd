// Copyright (c) 2025 Neomantra Corp

package mcpserve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcp_server "github.com/mark3labs/mcp-go/server"

	"github.com/larkspur-data/betfair-stream"
)

// RegisterTools registers every tool this server exposes.
func (s *Server) RegisterTools(mcpServer *mcp_server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_markets",
			mcp.WithDescription("Lists every market currently held by the decode registry, with its status and runner count."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.listMarketsHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_market",
			mcp.WithDescription("Returns the full reconstructed state of one market: its definition, runners, and each runner's exchange and starting-price books."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("market_id",
				mcp.Required(),
				mcp.Description("Market id, e.g. 1.234567890"),
			),
		),
		s.getMarketHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("query_cache",
			mcp.WithDescription("Runs a SQL query against the exported parquet cache's `runners` view using DuckDB. Returns results as CSV."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("SQL query to execute, e.g. 'SELECT market_id, count(*) FROM runners GROUP BY market_id'"),
			),
		),
		s.queryCacheHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_cache",
			mcp.WithDescription("Lists every parquet file currently in the export cache, with its size."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.listCacheHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("clear_cache",
			mcp.WithDescription("Removes every parquet file from the export cache."),
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
		),
		s.clearCacheHandler,
	)
}

func (s *Server) listMarketsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return mcp.NewToolResultError("no registry attached to this server"), nil
	}

	type marketSummary struct {
		MarketID    string `json:"market_id"`
		Status      string `json:"status,omitempty"`
		RunnerCount int    `json:"runner_count"`
		Conflated   bool   `json:"conflated"`
	}
	var summaries []marketSummary
	for _, m := range s.registry.Markets() {
		summary := marketSummary{MarketID: string(m.MarketID), RunnerCount: len(m.Runners), Conflated: m.Conflated}
		if m.Definition != nil {
			summary.Status = string(m.Definition.Status)
		}
		summaries = append(summaries, summary)
	}

	jbytes, err := json.Marshal(summaries)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal market list: %s", err), nil
	}
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) getMarketHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	marketID, err := request.RequireString("market_id")
	if err != nil {
		return mcp.NewToolResultError("market_id must be set"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		return mcp.NewToolResultError("no registry attached to this server"), nil
	}

	market := s.registry.Get(betfair.MarketID(marketID))
	if market == nil {
		return mcp.NewToolResultErrorf("market %q not found", marketID), nil
	}

	jbytes, err := json.Marshal(market)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal market: %s", err), nil
	}
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) queryCacheHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sqlStr, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql must be set"), nil
	}
	if s.store == nil {
		return mcp.NewToolResultError("no export cache configured"), nil
	}

	result, err := s.store.Query(sqlStr)
	if err != nil {
		return mcp.NewToolResultErrorf("query failed: %s", err), nil
	}
	s.logger.Info("query_cache", "sql", sqlStr)
	return mcp.NewToolResultText(result), nil
}

func (s *Server) listCacheHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("no export cache configured"), nil
	}
	files, err := s.store.ListFiles()
	if err != nil {
		return mcp.NewToolResultErrorf("failed to list cache: %s", err), nil
	}

	jbytes, err := json.Marshal(files)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal cache listing: %s", err), nil
	}
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) clearCacheHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("no export cache configured"), nil
	}
	removed, err := s.store.ClearCache()
	if err != nil {
		return mcp.NewToolResultErrorf("failed to clear cache: %s", err), nil
	}
	s.logger.Info("clear_cache", "removed", removed)
	return mcp.NewToolResultText(fmt.Sprintf("Removed %d cached file(s)", removed)), nil
}
