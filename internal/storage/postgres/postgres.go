// Package postgres provides the PostgreSQL level catalog using pgx v5.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/smclevel/internal/config"
)

// Pool owns the catalog's pgx connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the catalog database described by cfg and returns
// once it answers a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Levels returns a LevelRepository sharing this pool.
func (p *Pool) Levels() *LevelRepository {
	return NewLevelRepository(p.pool)
}

// Close closes every connection. Repositories from Levels are unusable afterwards.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the raw pool for migrations and tests.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
