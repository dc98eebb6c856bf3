package persistence

import (
	"context"
	"time"

	"github.com/Songmu/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/config"
)

// Postgres holds the dashboard's connection pool. A zero Postgres means the
// service runs without a database; repositories are then never built and
// only health and metrics routes are served.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres opens the pool and waits for the database, pinging up to
// cfg.ConnectRetries extra times.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; running without a database")
		return &Postgres{}, nil
	}

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	attempts, err := waitReady(ctx, pool, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("connected to postgres", zap.Int("attempts", attempts), zap.Int32("max_conns", poolCfg.MaxConns))
	return &Postgres{Pool: pool}, nil
}

func poolConfig(cfg config.PostgresConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}
	return poolCfg, nil
}

func waitReady(ctx context.Context, pool *pgxpool.Pool, cfg config.PostgresConfig, logger *zap.Logger) (int, error) {
	attempt := 0
	err := retry.Retry(uint(cfg.ConnectRetries)+1, cfg.ConnectRetryInterval, func() error {
		attempt++
		err := pool.Ping(ctx)
		if err != nil {
			logger.Warn("postgres not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
	return attempt, err
}

func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

// PoolHandle returns the pool, or nil when no database is configured.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}

// Ping backs the readiness check.
func (p *Postgres) Ping(ctx context.Context) error {
	if p.PoolHandle() == nil {
		return errNotConfigured("postgres")
	}
	return p.Pool.Ping(ctx)
}
