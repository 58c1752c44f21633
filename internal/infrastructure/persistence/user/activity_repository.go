package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/engagement"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLActivityRepository counts the likes and comments a member has made.
type SQLActivityRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewSQLActivityRepository creates a new instance of the repository.
func NewSQLActivityRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLActivityRepository {
	return &SQLActivityRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// GetActivityCounters returns the member's raw counters. Likes given to
// content and posts count, as do comments written. Account age is whole
// days since the profile was created. An unknown member has zero activity.
func (r *SQLActivityRepository) GetActivityCounters(ctx context.Context, userID string) (engagement.Activity, error) {
	const query = `
		SELECT p.created_at,
		       (SELECT COUNT(*) FROM content_likes WHERE user_id = p.id),
		       (SELECT COUNT(*) FROM post_likes WHERE user_id = p.id),
		       (SELECT COUNT(*) FROM comments WHERE author_id = p.id)
		FROM user_profiles p
		WHERE p.id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading activity counters", "userId", userID)

	var (
		created  string
		activity engagement.Activity
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&created,
		&activity.ContentLikeCount,
		&activity.PostLikeCount,
		&activity.CommentCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engagement.Activity{}, nil
		}
		r.logger.Database().Error("Failed to load activity counters", "error", err.Error(), "userId", userID)
		return engagement.Activity{}, fmt.Errorf("failed to load activity counters: %w", err)
	}

	createdAt, err := database.ParseTime(created)
	if err != nil {
		return engagement.Activity{}, err
	}
	if days := int(r.now().Sub(createdAt).Hours() / 24); days > 0 {
		activity.AccountAgeDays = days
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return activity, nil
}
