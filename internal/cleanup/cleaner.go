package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/akopian/portfolio/internal/shell"
)

// Pruner drops stale in-memory state. The memory submit limiter is one.
type Pruner interface {
	Prune() int
}

// Cleaner handles periodic removal of idle shells
type Cleaner struct {
	registry *shell.Registry
	pruner   Pruner
	interval time.Duration
	idleTTL  time.Duration
}

// NewCleaner creates a new cleanup worker. pruner may be nil.
func NewCleaner(registry *shell.Registry, pruner Pruner, interval, idleTTL time.Duration) *Cleaner {
	if interval <= 0 {
		interval = time.Minute
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}

	return &Cleaner{
		registry: registry,
		pruner:   pruner,
		interval: interval,
		idleTTL:  idleTTL,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval, "idle_ttl", c.idleTTL)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

// Cleanup removes idle shells once and returns how many it removed
func (c *Cleaner) Cleanup() int {
	slog.Debug("running cleanup cycle")

	removed := 0
	for _, sh := range c.registry.Expired(c.idleTTL) {
		if err := c.registry.Delete(sh.ID); err != nil {
			// Deleted concurrently by its owner
			slog.Debug("idle shell already gone", "id", sh.ID)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("idle shells removed", "count", removed, "remaining", c.registry.Len())
	}

	if c.pruner != nil {
		if n := c.pruner.Prune(); n > 0 {
			slog.Debug("submit windows pruned", "count", n)
		}
	}

	return removed
}
