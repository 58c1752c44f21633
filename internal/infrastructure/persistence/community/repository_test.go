package community

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/community"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMembers(t *testing.T, db *database.DB) {
	t.Helper()
	stamp := database.FormatTime(time.Now())
	for _, stmt := range []string{
		`INSERT INTO user_profiles (id, email, password_hash, name, role, created_at, updated_at)
		 VALUES ('u1', 'a@x.io', 'h', 'Ari', 'user', '` + stamp + `', '` + stamp + `')`,
		`INSERT INTO user_profiles (id, email, password_hash, name, role, created_at, updated_at)
		 VALUES ('staff', 'b@x.io', 'h', 'Bo', 'admin', '` + stamp + `', '` + stamp + `')`,
		`INSERT INTO content (id, title, type, file_url, cover_image_url, created_at)
		 VALUES ('c1', 'Night Drive', 'audio', '/f.mp3', '/c.jpg', '` + stamp + `')`,
	} {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	seedMembers(t, db)
	logger := logging.NewDiscardLogger()
	posts := NewSQLPostRepository(db, logger)
	comments := NewSQLCommentRepository(db, logger)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, posts.Store(ctx, &community.Post{ID: "p1", AuthorID: "u1", Title: "First", Body: "hello", CreatedAt: base}))
	require.NoError(t, posts.Store(ctx, &community.Post{ID: "p2", AuthorID: "staff", Title: "News", Body: "tour", ContentID: "c1", CreatedAt: base.Add(time.Minute)}))

	list, err := posts.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p2", list[0].ID)
	assert.True(t, list[0].IsAnnouncement())
	require.NotNil(t, list[0].LinkedContent)
	assert.Equal(t, "Night Drive", list[0].LinkedContent.Title)
	assert.False(t, list[1].IsAnnouncement())
	assert.Nil(t, list[1].LinkedContent)

	limited, err := posts.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	liked, likes, err := posts.ToggleLike(ctx, "p1", "staff")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likes)

	likedBy, err := posts.LikedBy(ctx, "staff", []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true}, likedBy)

	liked, likes, err = posts.ToggleLike(ctx, "p1", "staff")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likes)

	require.NoError(t, comments.Store(ctx, &community.Comment{ID: "m2", PostID: "p1", AuthorID: "staff", Body: "second", CreatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, comments.Store(ctx, &community.Comment{ID: "m1", PostID: "p1", AuthorID: "u1", Body: "first", CreatedAt: base.Add(time.Minute)}))

	thread, err := comments.ListForPost(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "m1", thread[0].ID)
	assert.Equal(t, "Ari", thread[0].Author.Name)

	p1, err := posts.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, p1.CommentsCount)

	_, _, err = posts.ToggleLike(ctx, "p1", "u1")
	require.NoError(t, err)
	require.NoError(t, posts.Delete(ctx, "p1"))

	gone, err := posts.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	thread, err = comments.ListForPost(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, thread)

	var likeRows int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_likes WHERE post_id = 'p1'`).Scan(&likeRows))
	assert.Zero(t, likeRows)
}
