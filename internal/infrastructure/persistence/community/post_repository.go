// Package community provides the SQL-based post and comment repositories.
package community

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/community"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLPostRepository is the SQL-based implementation of the PostRepository.
type SQLPostRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLPostRepository creates a new instance of the repository.
func NewSQLPostRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLPostRepository {
	return &SQLPostRepository{db: db, logger: logger}
}

// postSelect joins the author snapshot and the linked content item.
const postSelect = `
	SELECT p.id, p.author_id, a.name, a.avatar_url, a.role,
	       p.title, p.body, p.image_url, p.content_id,
	       c.title, c.type, c.cover_image_url, c.file_url,
	       p.likes_count, p.comments_count, p.created_at
	FROM posts p
	JOIN user_profiles a ON a.id = p.author_id
	LEFT JOIN content c ON c.id = p.content_id`

// ListRecent returns posts newest first.
func (r *SQLPostRepository) ListRecent(ctx context.Context, limit int) ([]*community.Post, error) {
	query := postSelect + ` ORDER BY p.created_at DESC, p.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to list posts", "error", err.Error())
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*community.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Debug("Posts listed", "count", len(posts), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return posts, nil
}

// FindByID returns one post, or nil when it does not exist.
func (r *SQLPostRepository) FindByID(ctx context.Context, id string) (*community.Post, error) {
	query := postSelect + ` WHERE p.id = ?`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load post", "error", err.Error(), "id", id)
		return nil, err
	}
	return post, nil
}

// Store inserts a new post with zeroed counters.
func (r *SQLPostRepository) Store(ctx context.Context, post *community.Post) error {
	const query = `
		INSERT INTO posts (id, author_id, title, body, image_url, content_id, likes_count, comments_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?)`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Body,
		database.NullString(post.ImageURL),
		database.NullString(post.ContentID),
		database.FormatTime(post.CreatedAt),
	)
	if err != nil {
		r.logger.Database().Error("Post insert failed", "error", err.Error(), "id", post.ID)
		return err
	}

	r.logger.Database().Info("Post insert completed", "id", post.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// Delete removes the post, its likes and its comments.
func (r *SQLPostRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM post_likes WHERE post_id = ?`,
			`DELETE FROM comments WHERE post_id = ?`,
			`DELETE FROM posts WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Database().Error("Post delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	r.logger.Database().Info("Post deleted", "id", id, "duration", time.Since(start))
	return nil
}

// ToggleLike flips the member's like and keeps likes_count in step.
func (r *SQLPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	var (
		liked bool
		likes int
	)

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM post_likes WHERE user_id = ? AND post_id = ?)`,
			userID, postID).Scan(&exists); err != nil {
			return err
		}

		if exists {
			if _, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE user_id = ? AND post_id = ?`, userID, postID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes_count = MAX(likes_count - 1, 0) WHERE id = ?`, postID); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO post_likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
				userID, postID, database.FormatTime(time.Now())); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes_count = likes_count + 1 WHERE id = ?`, postID); err != nil {
				return err
			}
		}
		liked = !exists

		return tx.QueryRowContext(ctx, `SELECT likes_count FROM posts WHERE id = ?`, postID).Scan(&likes)
	})
	if err != nil {
		r.logger.Database().Error("Post like toggle failed", "error", err.Error(), "postId", postID)
		return false, 0, fmt.Errorf("failed to toggle post like: %w", err)
	}
	return liked, likes, nil
}

// LikedBy reports which of the posts the member has liked.
func (r *SQLPostRepository) LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return out, nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = ? AND post_id IN (` +
		database.Placeholders(len(postIDs)) + `)`
	args := make([]any, 0, len(postIDs)+1)
	args = append(args, userID)
	for _, id := range postIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to load post likes", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*community.Post, error) {
	var (
		p                            community.Post
		image, contentID             sql.NullString
		cTitle, cType, cCover, cFile sql.NullString
		created                      string
	)
	if err := s.Scan(
		&p.ID, &p.AuthorID, &p.Author.Name, &p.Author.AvatarURL, &p.Author.Role,
		&p.Title, &p.Body, &image, &contentID,
		&cTitle, &cType, &cCover, &cFile,
		&p.LikesCount, &p.CommentsCount, &created,
	); err != nil {
		return nil, err
	}

	p.Author.ID = p.AuthorID
	p.ImageURL = image.String
	p.ContentID = contentID.String
	if contentID.Valid && cTitle.Valid {
		p.LinkedContent = &community.LinkedContent{
			ID:        contentID.String,
			Title:     cTitle.String,
			Type:      cType.String,
			Thumbnail: cCover.String,
			FileURL:   cFile.String,
		}
	}

	createdAt, err := database.ParseTime(created)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt
	return &p, nil
}
