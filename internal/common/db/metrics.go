package db

import (
	"errors"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/envirosync/envirosync-backend/internal/observability/metrics"
)

// MeasureQuery records the duration of a named query; call it on success paths.
func MeasureQuery(query string, start time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// HandleExecError records metrics for an exec-style query and passes the error through.
func HandleExecError(err error, query string, start time.Time) error {
	if err != nil {
		metrics.DBErrorsTotal.WithLabelValues(query).Inc()
		return err
	}
	MeasureQuery(query, start)
	return nil
}

// HandleQueryError maps pgx.ErrNoRows to notFound (when non-nil) and records
// metrics; any other error counts as a database failure.
func HandleQueryError(err error, notFound error, query string, start time.Time) error {
	if err == nil {
		MeasureQuery(query, start)
		return nil
	}
	if notFound != nil && errors.Is(err, pgx.ErrNoRows) {
		MeasureQuery(query, start)
		return notFound
	}
	metrics.DBErrorsTotal.WithLabelValues(query).Inc()
	return err
}
