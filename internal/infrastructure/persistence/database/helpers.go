// Package database provides database helper functions
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/pkg/config"
)

// TimeLayout is the fixed-width UTC layout timestamps are stored in, so
// that text ordering matches time ordering on every driver.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp. Values written by SQLite defaults
// ("2006-01-02 15:04:05") are accepted too.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// NullString maps "" to NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Placeholders returns "?, ?, ?" for n arguments.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// VerifyConnection runs a round-trip query on the pool. Startup uses it to
// confirm a hosted Turso database answers, the health endpoint on every call.
func (db *DB) VerifyConnection(ctx context.Context, logger *logging.ChanneledLogger) error {
	start := time.Now()

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		logger.Database().Error("Connection check failed", "backend", db.ConnectionInfo(), "error", err.Error())
		return fmt.Errorf("connection check failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("unexpected connection check result: %d", result)
	}

	duration := time.Since(start)
	logger.Database().Debug("Connection check passed", "backend", db.ConnectionInfo(), "duration", duration)
	CheckAndLogSlowQuery(logger, "CONNECTION_CHECK", duration)
	return nil
}

// CheckAndLogSlowQuery checks if a query duration exceeds threshold
// and logs it using the slow query channel if it does
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	threshold := config.SlowQueryThreshold

	// Seeding and schema work get more room
	if strings.HasPrefix(query, "BULK_") {
		threshold *= 3
	}

	if duration > threshold {
		logger.LogSlowQuery(query, duration)
	}
}
