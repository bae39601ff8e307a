// Package main is the entry point of the Grimes Money Adventure API.
//
// The server wires the session store, the optional text generation service,
// the event bus, the background sweeper and the HTTP API, then runs until it
// receives SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grimes-money/money-adventure/config"
	"github.com/grimes-money/money-adventure/internal/application/command"
	"github.com/grimes-money/money-adventure/internal/application/generator"
	"github.com/grimes-money/money-adventure/internal/application/query"
	"github.com/grimes-money/money-adventure/internal/domain/session"
	"github.com/grimes-money/money-adventure/internal/infrastructure/external/openai"
	"github.com/grimes-money/money-adventure/internal/infrastructure/messaging"
	"github.com/grimes-money/money-adventure/internal/infrastructure/metrics"
	"github.com/grimes-money/money-adventure/internal/infrastructure/persistence/memory"
	"github.com/grimes-money/money-adventure/internal/infrastructure/persistence/redis"
	"github.com/grimes-money/money-adventure/internal/infrastructure/scheduler"
	"github.com/grimes-money/money-adventure/internal/infrastructure/scheduler/jobs"
	httpapi "github.com/grimes-money/money-adventure/internal/interface/http"
	"github.com/grimes-money/money-adventure/internal/interface/http/handlers"
	"github.com/grimes-money/money-adventure/pkg/circuitbreaker"
	"github.com/grimes-money/money-adventure/pkg/logger"
	"github.com/grimes-money/money-adventure/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting Grimes Money Adventure",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("timezone", cfg.App.Location.String()),
		logger.String("session_store", cfg.Session.Store),
	)

	clock := timeutil.SystemClock()
	m := metrics.New()

	// ─────────────────────────────────────────────────────────────────────────
	// 2. Session store
	// ─────────────────────────────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, clock, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. Text generation (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		completer generator.Completer
		breaker   *circuitbreaker.CircuitBreaker
	)
	if cfg.Generation.Enabled() {
		clientCfg := openai.ConfigFrom(cfg.Generation)
		clientCfg.Logger = log
		clientCfg.OnBreakerChange = func(_ string, _, to circuitbreaker.State) {
			m.SetBreakerOpen(to == circuitbreaker.StateOpen)
		}
		client, err := openai.NewClient(clientCfg)
		if err != nil {
			return fmt.Errorf("failed to create generation client: %w", err)
		}
		completer = client
		breaker = client.Breaker()
		log.Info("text generation enabled", logger.String("model", cfg.Generation.Model))
	} else {
		log.Info("text generation disabled, using local fallbacks")
	}

	genOpts := generator.Options{
		Completer: completer,
		Features:  cfg.Features,
		Timeout:   cfg.Generation.Timeout,
		Rand:      generator.NewRand(cfg.App.RandomSeed),
		Logger:    log,
		OnOutcome: m.ObserveGeneration,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. Event bus
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultConfig()
	busCfg.Logger = log
	bus := messaging.NewEventBus(busCfg)
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn("event bus close failed", logger.Err(err))
		}
	}()
	if err := bus.SubscribeAll(m.HandleEvent); err != nil {
		return fmt.Errorf("failed to subscribe metrics: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. Scheduler
	// ─────────────────────────────────────────────────────────────────────────
	sched, err := scheduler.New(scheduler.Config{
		JobTimeout: cfg.Scheduler.JobTimeout,
		Location:   cfg.App.Location,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if cfg.Scheduler.Enabled {
		sweep := jobs.NewSweepSessionsJob(store, m, clock, log)
		if err := sched.Every(cfg.Scheduler.SweepInterval, sweep); err != nil {
			return fmt.Errorf("failed to schedule sweep: %w", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				log.Warn("scheduler stop failed", logger.Err(err))
			}
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. Application services
	// ─────────────────────────────────────────────────────────────────────────
	commands := command.NewService(command.Config{
		Store:     store,
		Publisher: bus,
		Names:     generator.NewNameGenerator(genOpts),
		Ads:       generator.NewAdContentGenerator(genOpts),
		Ideas:     generator.NewIdeaGenerator(genOpts),
		Rand:      genOpts.Rand,
		Clock:     clock,
		Logger:    log,
	})

	stats := query.StatsSources{
		Events: func() interface{} { return bus.Metrics().Snapshot() },
		Jobs:   func() interface{} { return sched.LastRuns() },
	}
	if breaker != nil {
		stats.Breaker = func() string { return breaker.State().String() }
	}
	queries := query.NewService(query.Config{
		Store:    store,
		Clock:    clock,
		Location: cfg.App.Location,
		Stats:    stats,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("session_store", handlers.PingCheck(store))
	if stats.Breaker != nil {
		health.AddOptionalCheck("generation", handlers.StateCheck(stats.Breaker, circuitbreaker.StateOpen.String()))
	}

	deps := httpapi.Dependencies{
		Commands: commands,
		Queries:  queries,
		Health:   health,
		Features: cfg.Features,
		Logger:   log,
		Version:  cfg.App.Version,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = m
		deps.MetricsHandler = m.Handler()
	}
	server := httpapi.NewServer(cfg.HTTP, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("Grimes Money Adventure is running", logger.String("http_address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			log.Error("http server error", logger.Err(err))
			return err
		}
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
		logger.Duration("uptime", server.Uptime()),
	)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}
	log.Info("shutdown completed")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	if cfg.Observability.LogFormat == "console" || cfg.IsDevelopment() {
		opts.Encoding = "console"
	}
	opts.AddCaller = cfg.App.Debug
	return logger.New(opts).With(logger.String("app", cfg.App.Name))
}

// openStore builds the configured session store. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, clock timeutil.Clock, log *logger.Logger) (session.Store, func(), error) {
	if cfg.Session.Store != config.StoreRedis {
		return memory.NewSessionStore(cfg.Session.TTL, clock), func() {}, nil
	}

	log.Info("connecting to Redis")
	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	store := redis.NewSessionStore(client, cfg.Redis.KeyPrefix, cfg.Session.TTL, cfg.Session.MaxUpdateRetries)
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("redis close failed", logger.Err(err))
		}
	}
	log.Info("redis session store ready", logger.String("prefix", cfg.Redis.KeyPrefix))
	return store, closeFn, nil
}
