// Package main is the maintenance entrypoint of the engsite knowledge base.
// It loads configuration, connects to PostgreSQL and Valkey, applies
// migrations, and runs one subcommand that either prints a page view model
// as JSON or maintains the stored content.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"engsite/internal/cache"
	"engsite/internal/config"
	"engsite/internal/database"
	"engsite/internal/hierarchy"
	"engsite/internal/knowledge"
	"engsite/internal/logging"
	"engsite/internal/metrics"
	"engsite/internal/models"
	"engsite/internal/store"
)

const usageText = `usage: engsite [-metrics] <command> [args]

commands:
  migrate                               apply pending migrations and exit
  seed                                  load development content if the database is empty
  handbook                              print the handbook index
  lesson <slug>                         print a handbook lesson
  categories <section>                  print the categories of a section
  listing <section> <category>          print the items of a category
  article <section> <category> <slug>   print an article
  quiz <category> <slug>                print a quiz
  home                                  print the homepage feeds
  invalidate [scope]                    drop cached pages (handbook, a section, or all)
  cache-log [limit]                     print recent cache invalidations
  warm [interval]                       keep the page cache warm until interrupted
  export <file.xlsx>                    write the handbook index to a spreadsheet

sections: topics, phrasebook, articles, quizzes, handbook
`

func main() {
	showMetrics := flag.Bool("metrics", false, "print Prometheus metrics to stderr after the command")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, *showMetrics, args)
	stop()

	if err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync()
		os.Exit(exitCode(err))
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, showMetrics bool, args []string) error {
	db, err := database.Connect(cfg.DSN(), logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if args[0] == "migrate" {
		return nil
	}

	// Development databases are seeded on every start; seeding is a no-op
	// once content exists.
	if cfg.IsDev() || args[0] == "seed" {
		if err := database.Seed(db, logger); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	deps := knowledge.Deps{
		Categories: store.NewCategoryStore(db),
		Articles:   store.NewArticleStore(db),
		Quizzes:    store.NewQuizStore(db),
		Resolver:   hierarchy.NewResolver(store.NewPartitionStore(db), logger, hierarchy.WithSkipHook(m.Skipped)),
	}
	cacheLog := store.NewCacheLogStore(db, logger)
	deps.CacheLog = cacheLog

	// The page cache is optional: without Valkey every page is built from
	// the database.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, logger)
	if err != nil {
		logger.Warn("valkey unavailable, running without page cache", zap.Error(err))
	} else {
		defer valkeyClient.Close()
		deps.Cache = cache.NewContentCache(valkeyClient, cfg.CacheTTL, logger)
	}

	svc := knowledge.NewService(deps, logger,
		knowledge.WithMediaURL(cfg.MediaURL),
		knowledge.WithFeedSizes(knowledge.FeedSizes{
			Pool:  cfg.FeedPoolSize,
			Size:  cfg.FeedSize,
			Large: cfg.LargeFeedSize,
		}),
		knowledge.WithMetrics(m),
	)

	cmdErr := dispatch(ctx, &commands{svc: svc, cacheLog: cacheLog, cfg: cfg, logger: logger, out: os.Stdout}, args)

	if showMetrics {
		m.RecordDBPoolStats(db.Stats())
		if err := metrics.WriteText(os.Stderr, reg); err != nil {
			logger.Warn("failed to write metrics", zap.Error(err))
		}
	}
	return cmdErr
}

// exitCode maps an error to the process exit status: 2 for bad usage,
// 3 for missing content, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, models.ErrNotFound):
		return 3
	default:
		return 1
	}
}
