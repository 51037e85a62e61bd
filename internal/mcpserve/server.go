// Copyright (c) 2025 Neomantra Corp

// Package mcpserve exposes a decoded market registry and an export
// store as Model Context Protocol tools, the same bridge-an-LLM-to-our-
// domain role the teacher's internal/mcp_data plays for Databento's
// historical API — except every tool here is local and free: there is
// no billed upstream call to guard against.
package mcpserve

import (
	"log/slog"
	"sync"

	"github.com/larkspur-data/betfair-stream"
	"github.com/larkspur-data/betfair-stream/internal/export"
)

// Server holds the state MCP tool handlers act on: the live registry a
// decode session is populating, and an export store for columnar
// queries over what has been written out so far.
type Server struct {
	mu       sync.Mutex
	registry *betfair.Registry
	store    *export.Store
	logger   *slog.Logger
}

// NewServer constructs a Server. store may be nil if no export cache was
// configured, in which case query_cache/list_cache/clear_cache report an
// error rather than panicking.
func NewServer(registry *betfair.Registry, store *export.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, store: store, logger: logger}
}

// SetRegistry swaps the registry a running server answers queries
// against.
func (s *Server) SetRegistry(registry *betfair.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = registry
}
