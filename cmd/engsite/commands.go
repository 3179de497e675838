package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"engsite/internal/config"
	"engsite/internal/export"
	"engsite/internal/knowledge"
	"engsite/internal/store"
	"engsite/internal/warmer"
)

var errUsage = errors.New("usage")

// warmTimeout bounds a single warm-up run.
const warmTimeout = 30 * time.Second

type commands struct {
	svc      *knowledge.Service
	cacheLog *store.CacheLogStore
	cfg      *config.Config
	logger   *zap.Logger
	out      io.Writer
}

func dispatch(ctx context.Context, c *commands, args []string) error {
	name, rest := args[0], args[1:]
	switch name {
	case "seed":
		n := c.svc.Invalidate(ctx, "all", nil, "seed")
		return c.print(map[string]int{"keys_deleted": n})
	case "handbook":
		return c.page(c.svc.Handbook(ctx))
	case "lesson":
		if err := need(rest, 1, "lesson <slug>"); err != nil {
			return err
		}
		return c.page(c.svc.Lesson(ctx, rest[0]))
	case "categories":
		if err := need(rest, 1, "categories <section>"); err != nil {
			return err
		}
		return c.page(c.svc.Categories(ctx, rest[0]))
	case "listing":
		if err := need(rest, 2, "listing <section> <category>"); err != nil {
			return err
		}
		return c.page(c.svc.CategoryListing(ctx, rest[0], rest[1]))
	case "article":
		if err := need(rest, 3, "article <section> <category> <slug>"); err != nil {
			return err
		}
		return c.page(c.svc.Article(ctx, rest[0], rest[1], rest[2]))
	case "quiz":
		if err := need(rest, 2, "quiz <category> <slug>"); err != nil {
			return err
		}
		return c.page(c.svc.Quiz(ctx, rest[0], rest[1]))
	case "home":
		return c.page(c.svc.Home(ctx))
	case "invalidate":
		scope := "all"
		if len(rest) > 0 {
			scope = rest[0]
		}
		n := c.svc.Invalidate(ctx, scope, nil, "manual")
		return c.print(map[string]int{"keys_deleted": n})
	case "cache-log":
		limit := 20
		if len(rest) > 0 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("%w: cache-log limit must be a positive integer", errUsage)
			}
			limit = n
		}
		entries, err := c.cacheLog.RecentEntries(ctx, limit)
		if err != nil {
			return err
		}
		return c.print(entries)
	case "warm":
		if len(rest) == 0 {
			return c.warm(ctx, c.cfg.CacheTTL/2)
		}
		every, err := time.ParseDuration(rest[0])
		if err != nil {
			return fmt.Errorf("%w: warm interval: %v", errUsage, err)
		}
		if every <= 0 {
			return fmt.Errorf("%w: warm interval must be positive", errUsage)
		}
		return c.warm(ctx, every)
	case "export":
		if err := need(rest, 1, "export <file.xlsx>"); err != nil {
			return err
		}
		return c.export(ctx, rest[0])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func need(args []string, n int, form string) error {
	if len(args) < n {
		return fmt.Errorf("%w: %s", errUsage, form)
	}
	return nil
}

// page prints a view model, or returns the error that prevented building it.
func (c *commands) page(v any, err error) error {
	if err != nil {
		return err
	}
	return c.print(v)
}

func (c *commands) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (c *commands) warm(ctx context.Context, every time.Duration) error {
	w := warmer.New(c.svc, warmTimeout, c.logger)
	if err := w.Start(every); err != nil {
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

func (c *commands) export(ctx context.Context, path string) error {
	hb, err := c.svc.Handbook(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteHandbook(f, hb); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	c.logger.Info("handbook exported", zap.String("path", path), zap.Int("topics", len(hb.Topics)))
	return nil
}
