package user

import (
	"context"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLSessionRepository keeps the ids of signed-out tokens until they expire.
type SQLSessionRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLSessionRepository creates a new instance of the repository.
func NewSQLSessionRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLSessionRepository {
	return &SQLSessionRepository{db: db, logger: logger}
}

// Revoke records a token id. Revoking twice is harmless.
func (r *SQLSessionRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	const query = `INSERT OR IGNORE INTO revoked_sessions (token_id, expires_at) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, tokenID, database.FormatTime(expiresAt)); err != nil {
		r.logger.Database().Error("Session revoke failed", "error", err.Error())
		return err
	}
	return nil
}

// IsRevoked reports whether the token id was signed out.
func (r *SQLSessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM revoked_sessions WHERE token_id = ?)`

	var revoked bool
	if err := r.db.QueryRowContext(ctx, query, tokenID).Scan(&revoked); err != nil {
		r.logger.Database().Error("Session revocation lookup failed", "error", err.Error())
		return false, err
	}
	return revoked, nil
}

// PurgeExpired drops revocations whose tokens have expired anyway.
func (r *SQLSessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM revoked_sessions WHERE expires_at < ?`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, database.FormatTime(now))
	if err != nil {
		r.logger.Database().Error("Session purge failed", "error", err.Error())
		return 0, err
	}
	n, _ := res.RowsAffected()
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return n, nil
}
