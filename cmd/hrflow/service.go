package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	backend "github.com/redis/go-redis/v9"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/internal/config"
	"github.com/peoplehub/hrflow/internal/hr"
	"github.com/peoplehub/hrflow/internal/logging"
	"github.com/peoplehub/hrflow/pkg/adapters/memory"
	redisadapter "github.com/peoplehub/hrflow/pkg/adapters/redis"
	"github.com/peoplehub/hrflow/pkg/observability"
	"github.com/peoplehub/hrflow/pkg/persistence/middleware"
	"github.com/peoplehub/hrflow/pkg/ports"
)

// buildService wires the full stack from config: the seeded HR backend,
// the session store (memory or Redis), metrics, and audit logging.
// The returned cleanup closes the Redis client when one was opened.
func buildService(cfg config.Config) (*hrflow.Service, *prometheus.Registry, func(), error) {
	logger := logging.New(cfg.SlogLevel())
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	hooks := observability.Merge(metrics.Hooks(), observability.AuditHooks(logger))

	hrBackend := hr.Seed()

	opts := []hrflow.Option{
		hrflow.WithLogger(logger),
		hrflow.WithLifecycleHooks(hooks),
		hrflow.WithDefaultLocale(cfg.DefaultLocale),
		hrflow.WithDedupWindow(cfg.DedupWindow),
		hrflow.WithBackendTimeout(cfg.BackendTimeout),
		hrflow.WithBalanceReader(hrBackend),
		hrflow.WithPayslipReader(hrBackend),
		hrflow.WithTicketReader(hrBackend),
	}

	var store ports.SessionStore = memory.NewStore()
	cleanup := func() {}
	if cfg.RedisURL != "" {
		redisOpts, err := backend.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := backend.NewClient(redisOpts)
		store = redisadapter.NewFromClient(client)
		locker := redisadapter.NewLocker(client, "hrflow:lock:")

		opts = append(opts,
			hrflow.WithDistributedLocker(locker),
			hrflow.WithLockTTL(cfg.LockTTL),
		)
		cleanup = func() { _ = client.Close() }
		logger.Info("using redis session store", "url", cfg.RedisURL)
	}

	// Masking runs before encryption so the sealed record never holds
	// unmasked free text.
	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.PIIPatterns))
		logger.Info("pii masking enabled", "patterns", len(cfg.PIIPatterns))
	}
	if cfg.EncryptionKey != "" {
		if len(cfg.EncryptionKey) != 32 {
			cleanup()
			return nil, nil, nil, fmt.Errorf("HRFLOW_ENCRYPTION_KEY must be 32 bytes, got %d", len(cfg.EncryptionKey))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: []byte(cfg.EncryptionKey),
		}))
		logger.Info("session encryption enabled")
	}
	opts = append(opts, hrflow.WithSessionStore(middleware.Chain(store, mws...)))

	svc, err := hrflow.New(hrBackend, hrBackend, opts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, registry, cleanup, nil
}
