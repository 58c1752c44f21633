// Package content provides the SQL-backed media content repository.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

type ContentRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

func NewContentRepository(db *database.DB, logger *logging.ChanneledLogger) *ContentRepository {
	return &ContentRepository{
		db:     db,
		logger: logger,
	}
}

const contentColumns = `id, title, type, description, file_url, cover_image_url, tags, likes, is_active, created_at`

// ListActive returns active items newest first.
func (r *ContentRepository) ListActive(ctx context.Context) ([]*content.Item, error) {
	const query = `SELECT ` + contentColumns + ` FROM content WHERE is_active = 1 ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Failed to list content", "error", err.Error())
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	var items []*content.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Debug("Content listed", "count", len(items), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return items, nil
}

// FindByID returns one item, or nil when it does not exist.
func (r *ContentRepository) FindByID(ctx context.Context, id string) (*content.Item, error) {
	const query = `SELECT ` + contentColumns + ` FROM content WHERE id = ?`

	start := time.Now()
	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load content", "error", err.Error(), "id", id)
		return nil, err
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return item, nil
}

// FindByIDs loads items keyed by id; missing ids are absent from the map.
func (r *ContentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*content.Item, error) {
	out := make(map[string]*content.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + contentColumns + ` FROM content WHERE id IN (` + database.Placeholders(len(ids)) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to load content by ids", "error", err.Error(), "count", len(ids))
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out[item.ID] = item
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return out, rows.Err()
}

// Upsert inserts the item or refreshes its descriptive fields. The like
// counter is left alone on update.
func (r *ContentRepository) Upsert(ctx context.Context, item *content.Item) error {
	const query = `
		INSERT INTO content (` + contentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			description = excluded.description,
			file_url = excluded.file_url,
			cover_image_url = excluded.cover_image_url,
			tags = excluded.tags,
			is_active = excluded.is_active`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		string(item.Type),
		item.Description,
		item.FileURL,
		item.CoverImageURL,
		strings.Join(item.Tags, ","),
		item.Likes,
		item.IsActive,
		database.FormatTime(item.CreatedAt),
	)
	if err != nil {
		r.logger.Database().Error("Content upsert failed", "error", err.Error(), "id", item.ID)
		return err
	}
	return nil
}

// ToggleLike inserts or deletes the member's like and adjusts the counter in
// the same transaction.
func (r *ContentRepository) ToggleLike(ctx context.Context, contentID, userID string) (bool, int, error) {
	var (
		liked bool
		likes int
	)

	start := time.Now()
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM content_likes WHERE user_id = ? AND content_id = ?)`,
			userID, contentID).Scan(&exists); err != nil {
			return err
		}

		if exists {
			if _, err := tx.ExecContext(ctx, `DELETE FROM content_likes WHERE user_id = ? AND content_id = ?`, userID, contentID); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE content SET likes = MAX(likes - 1, 0) WHERE id = ?`, contentID); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO content_likes (user_id, content_id, created_at) VALUES (?, ?, ?)`,
				userID, contentID, database.FormatTime(time.Now())); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE content SET likes = likes + 1 WHERE id = ?`, contentID); err != nil {
				return err
			}
		}
		liked = !exists

		return tx.QueryRowContext(ctx, `SELECT likes FROM content WHERE id = ?`, contentID).Scan(&likes)
	})
	if err != nil {
		r.logger.Database().Error("Content like toggle failed", "error", err.Error(), "contentId", contentID)
		return false, 0, fmt.Errorf("failed to toggle content like: %w", err)
	}

	r.logger.Database().Debug("Content like toggled", "contentId", contentID, "liked", liked, "likes", likes)
	database.CheckAndLogSlowQuery(r.logger, "CONTENT_LIKE_TOGGLE", time.Since(start))
	return liked, likes, nil
}

// LikedBy reports which of the items the member has liked.
func (r *ContentRepository) LikedBy(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(contentIDs))
	if userID == "" || len(contentIDs) == 0 {
		return out, nil
	}

	query := `SELECT content_id FROM content_likes WHERE user_id = ? AND content_id IN (` +
		database.Placeholders(len(contentIDs)) + `)`
	args := make([]any, 0, len(contentIDs)+1)
	args = append(args, userID)
	for _, id := range contentIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to load content likes", "error", err.Error())
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

func scanItem(s scanner) (*content.Item, error) {
	var (
		item      content.Item
		mediaType string
		tags      string
		created   string
	)
	if err := s.Scan(&item.ID, &item.Title, &mediaType, &item.Description, &item.FileURL,
		&item.CoverImageURL, &tags, &item.Likes, &item.IsActive, &created); err != nil {
		return nil, err
	}
	item.Type = content.MediaType(mediaType)
	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}
	createdAt, err := database.ParseTime(created)
	if err != nil {
		return nil, err
	}
	item.CreatedAt = createdAt
	return &item, nil
}
