package content

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	repo := NewContentRepository(db, logging.NewDiscardLogger())

	stamp := database.FormatTime(time.Now())
	_, err := db.ExecContext(ctx, `INSERT INTO user_profiles (id, email, password_hash, name, created_at, updated_at)
		VALUES ('u1', 'a@x.io', 'h', 'Ari', ?, ?)`, stamp, stamp)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.Upsert(ctx, &content.Item{ID: "old", Title: "Old", Type: content.MediaVideo, FileURL: "/o.mp4", Tags: []string{"behind-scenes"}, IsActive: true, CreatedAt: now.Add(-30 * 24 * time.Hour)}))
	require.NoError(t, repo.Upsert(ctx, &content.Item{ID: "new", Title: "New", Type: content.MediaAudio, FileURL: "/n.mp3", IsActive: true, CreatedAt: now}))
	require.NoError(t, repo.Upsert(ctx, &content.Item{ID: "hidden", Title: "Hidden", Type: content.MediaImage, FileURL: "/h.png", IsActive: false, CreatedAt: now}))

	items, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, content.CategoryBehindScenes, items[1].Category())
	assert.Equal(t, []string{"behind-scenes"}, items[1].Tags)

	liked, likes, err := repo.ToggleLike(ctx, "new", "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	// upsert keeps the counter
	require.NoError(t, repo.Upsert(ctx, &content.Item{ID: "new", Title: "New!", Type: content.MediaAudio, FileURL: "/n.mp3", IsActive: true, CreatedAt: now}))
	got, err := repo.FindByID(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "New!", got.Title)
	assert.Equal(t, 1, got.Likes)

	likedBy, err := repo.LikedBy(ctx, "u1", []string{"new", "old"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"new": true}, likedBy)

	liked, likes, err = repo.ToggleLike(ctx, "new", "u1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)

	byID, err := repo.FindByIDs(ctx, []string{"old", "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	missing, err := repo.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
