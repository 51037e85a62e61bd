// Copyright (c) 2025 Neomantra Corp

package source

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultQueueCapacity is the bounded queue size between the unpacking
// worker pool and the single-threaded decoder consumer (spec §5: "a
// bounded queue, capacity ~30-50").
const DefaultQueueCapacity = 40

// DefaultMaxConcurrentUnpacks caps how many paths are opened and
// decompressed/unpacked at once.
const DefaultMaxConcurrentUnpacks = 8

// Pool unpacks a set of paths concurrently on a bounded worker pool and
// feeds the resulting Entry values to a bounded channel, providing the
// producer/consumer back-pressure spec §5 requires: when the channel is
// full, producers block rather than unbounded buffering.
type Pool struct {
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewPool constructs a Pool allowing up to maxConcurrent simultaneous
// unpack operations. maxConcurrent <= 0 selects DefaultMaxConcurrentUnpacks.
func NewPool(maxConcurrent int, logger *slog.Logger) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUnpacks
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(maxConcurrent)), logger: logger}
}

// Run unpacks every path in paths concurrently, sending each resulting
// Entry to the returned channel as it becomes available, and closes the
// channel once every path has been processed (or ctx is cancelled). Per
// spec §7's archive-level Io policy, a path that fails to open logs one
// structured record and the pool continues with the rest — it is never
// fatal to the whole run.
func (p *Pool) Run(ctx context.Context, paths []string) <-chan Entry {
	out := make(chan Entry, DefaultQueueCapacity)

	go func() {
		defer close(out)
		g, gctx := errgroup.WithContext(ctx)
		for _, path := range paths {
			path := path
			if err := p.sem.Acquire(gctx, 1); err != nil {
				// Context cancelled: stop launching new work.
				break
			}
			g.Go(func() error {
				defer p.sem.Release(1)
				entries, err := Open(path)
				if err != nil {
					p.logger.Error("failed to open input", "path", path, "error", err.Error())
					return nil
				}
				for _, e := range entries {
					select {
					case out <- e:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				return nil
			})
		}
		// Errors are already logged per-path above; Wait only drains
		// the group so every launched goroutine finishes before out
		// closes.
		_ = g.Wait()
	}()

	return out
}
