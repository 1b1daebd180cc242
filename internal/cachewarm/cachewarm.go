// Package cachewarm periodically reloads the cached catalog and commission
// data so browsers rarely pay for a cold remote lookup.
package cachewarm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ironbid/internal/redis/cache"
	"ironbid/internal/services/catalog"
	"ironbid/internal/services/commission"
)

const runTimeout = 30 * time.Second

// Run warms the cache immediately and then on every tick until ctx ends.
// A non-positive interval disables warming.
func Run(ctx context.Context, every time.Duration, c *cache.Cache, cat catalog.ICatalogService, com commission.ICommissionService) {
	if every <= 0 {
		return
	}
	tk := time.NewTicker(every)
	go func() {
		defer tk.Stop()
		warmOnce(ctx, c, cat, com)
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				warmOnce(ctx, c, cat, com)
			}
		}
	}()
}

func warmOnce(ctx context.Context, c *cache.Cache, cat catalog.ICatalogService, com commission.ICommissionService) {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	// 1. top level: drop and reload in one go
	if err := c.Invalidate(ctx, "categories:parents", "categories:parents:images", "commission"); err != nil {
		zap.L().Warn("cachewarm.invalidate", zap.Error(err))
		return
	}
	parents := cat.Parents(ctx)
	cat.ParentsWithImages(ctx)
	com.Current(ctx)

	// 2. children of every parent
	keys := make([]string, 0, len(parents))
	for _, p := range parents {
		keys = append(keys, "categories:"+p.Slug+":children")
	}
	if err := c.Invalidate(ctx, keys...); err != nil {
		zap.L().Warn("cachewarm.invalidate_children", zap.Error(err))
		return
	}
	children := 0
	for _, p := range parents {
		children += len(cat.Children(ctx, p.Slug))
	}

	zap.L().Debug("cachewarm.done", zap.Int("parents", len(parents)), zap.Int("children", children))
}
