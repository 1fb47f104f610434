package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/envirosync/envirosync-backend/internal/common/logger"
)

func NewPool(log *logger.Logger, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second
	cfg.ConnConfig.RuntimeParams = map[string]string{
		"application_name": "envirosync",
	}

	const maxAttempts = 10
	const delay = time.Second

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pool, err = pgxpool.ConnectConfig(context.Background(), cfg)
		if err == nil {
			log.Infof("database connection pool initialized: max=%d, min=%d", cfg.MaxConns, cfg.MinConns)
			return pool, nil
		}

		log.Warnf("failed to connect to database (attempt %d/%d): %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(delay)
		}
	}

	return nil, err
}
