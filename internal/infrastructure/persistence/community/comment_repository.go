package community

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/community"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLCommentRepository is the SQL-based implementation of the CommentRepository.
type SQLCommentRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLCommentRepository creates a new instance of the repository.
func NewSQLCommentRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLCommentRepository {
	return &SQLCommentRepository{db: db, logger: logger}
}

// ListForPost returns a post's comments oldest first with author snapshots.
func (r *SQLCommentRepository) ListForPost(ctx context.Context, postID string) ([]*community.Comment, error) {
	const query = `
		SELECT c.id, c.post_id, c.author_id, a.name, a.avatar_url, a.role, c.body, c.created_at
		FROM comments c
		JOIN user_profiles a ON a.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		r.logger.Database().Error("Failed to list comments", "error", err.Error(), "postId", postID)
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*community.Comment
	for rows.Next() {
		var (
			c       community.Comment
			created string
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Author.Name, &c.Author.AvatarURL,
			&c.Author.Role, &c.Body, &created); err != nil {
			return nil, err
		}
		c.Author.ID = c.AuthorID
		if c.CreatedAt, err = database.ParseTime(created); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return comments, nil
}

// Store inserts the comment and increments the post's comments_count.
func (r *SQLCommentRepository) Store(ctx context.Context, c *community.Comment) error {
	start := time.Now()
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments (id, post_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.PostID, c.AuthorID, c.Body, database.FormatTime(c.CreatedAt)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE posts SET comments_count = comments_count + 1 WHERE id = ?`, c.PostID)
		return err
	})
	if err != nil {
		r.logger.Database().Error("Comment insert failed", "error", err.Error(), "postId", c.PostID)
		return fmt.Errorf("failed to store comment: %w", err)
	}

	r.logger.Database().Info("Comment insert completed", "id", c.ID, "postId", c.PostID, "duration", time.Since(start))
	return nil
}
