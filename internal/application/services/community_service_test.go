package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/community"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	communityrepo "github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/community"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.member("author@example.com")
	f.addContent("c1", content.MediaVideo, time.Now())

	view, err := f.community.CreatePost(ctx, author, CreatePostInput{
		Title:     "  First drop ",
		Body:      "Listen to this",
		ImageData: "data:image/png;base64,AAAA",
		ContentID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, "First drop", view.Title)
	assert.Equal(t, "/media/images/posts/"+author.ID+".png", view.ImageURL)
	assert.Equal(t, author.ID, view.Author.ID)
	require.NotNil(t, view.LinkedContent)
	assert.Equal(t, "c1", view.LinkedContent.ID)
	assert.True(t, view.CanDelete)
	assert.False(t, view.IsAnnouncement)
	assert.Equal(t, []string{messaging.EventPostCreated}, f.publisher.types())

	posts, err := f.community.ListPosts(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].CanDelete)
}

type failingPosts struct {
	community.PostRepository
}

func (failingPosts) Store(ctx context.Context, post *community.Post) error {
	return errors.New("disk full")
}

func TestCreatePostStoreFailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	author := f.member("author@example.com")
	f.images.deleteErr = errors.New("permission denied")

	var buf bytes.Buffer
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{Writer: &buf, JSONFormat: true, DefaultLevel: slog.LevelInfo})
	require.NoError(t, err)
	svc := NewCommunityService(
		failingPosts{communityrepo.NewSQLPostRepository(f.db, logger)},
		communityrepo.NewSQLCommentRepository(f.db, logger),
		f.items, f.images, f.publisher, logger)

	_, err = svc.CreatePost(context.Background(), author, CreatePostInput{
		Title:     "Lost",
		Body:      "Never stored",
		ImageData: "data:image/png;base64,AAAA",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{"/media/images/posts/" + author.ID + ".png"}, f.images.deleted)
	assert.Contains(t, buf.String(), `"operation":"delete_post_image"`)
	assert.Contains(t, buf.String(), "permission denied")
	assert.Empty(t, f.publisher.types())
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.member("author@example.com")

	cases := map[string]CreatePostInput{
		"missing title":   {Body: "b"},
		"blank body":      {Title: "t", Body: "   "},
		"long title":      {Title: strings.Repeat("x", MaxPostTitleLength+1), Body: "b"},
		"long body":       {Title: "t", Body: strings.Repeat("x", MaxPostBodyLength+1)},
		"unknown content": {Title: "t", Body: "b", ContentID: "nope"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.community.CreatePost(ctx, author, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	f.images.err = errors.New("bad image")
	_, err := f.community.CreatePost(ctx, author, CreatePostInput{Title: "t", Body: "b", ImageData: "data:x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.publisher.types())
}

func TestAnnouncementsComeFromStaff(t *testing.T) {
	f := newFixture(t)
	admin := f.admin("admin@example.com")

	view, err := f.community.CreatePost(context.Background(), admin, CreatePostInput{Title: "News", Body: "Tour dates"})
	require.NoError(t, err)
	assert.True(t, view.IsAnnouncement)
}

func TestDeletePostPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.member("author@example.com")
	stranger := f.member("stranger@example.com")
	admin := f.admin("admin@example.com")

	post, err := f.community.CreatePost(ctx, author, CreatePostInput{Title: "t", Body: "b", ImageData: "data:image/png;base64,AAAA"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.community.DeletePost(ctx, stranger, post.ID), ErrForbidden)
	require.NoError(t, f.community.DeletePost(ctx, admin, post.ID))
	assert.Equal(t, []string{post.ImageURL}, f.images.deleted)
	assert.ErrorIs(t, f.community.DeletePost(ctx, author, post.ID), ErrNotFound)

	own, err := f.community.CreatePost(ctx, author, CreatePostInput{Title: "t", Body: "b"})
	require.NoError(t, err)
	require.NoError(t, f.community.DeletePost(ctx, author, own.ID))

	assert.Equal(t, []string{
		messaging.EventPostCreated, messaging.EventPostDeleted,
		messaging.EventPostCreated, messaging.EventPostDeleted,
	}, f.publisher.types())
}

func TestPostLikesAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.member("author@example.com")
	fan := f.member("fan@example.com")

	post, err := f.community.CreatePost(ctx, author, CreatePostInput{Title: "t", Body: "b"})
	require.NoError(t, err)

	comments, err := f.community.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)

	res, err := f.community.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, Likes: 1}, *res)

	_, err = f.community.AddComment(ctx, fan, post.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.community.AddComment(ctx, fan, post.ID, strings.Repeat("y", MaxCommentLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	comment, err := f.community.AddComment(ctx, fan, post.ID, " great track ")
	require.NoError(t, err)
	assert.Equal(t, "great track", comment.Body)
	assert.Equal(t, fan.ID, comment.Author.ID)

	comments, err = f.community.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)

	posts, err := f.community.ListPosts(ctx, fan, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].UserHasLiked)
	assert.Equal(t, 1, posts[0].LikesCount)
	assert.Equal(t, 1, posts[0].CommentsCount)

	_, err = f.community.ToggleLike(ctx, fan.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.community.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.community.AddComment(ctx, fan, "missing", "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{
		messaging.EventPostCreated, messaging.EventPostLiked, messaging.EventCommentCreated,
	}, f.publisher.types())
}
