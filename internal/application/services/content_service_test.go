package services

import (
	"context"
	"testing"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentListAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	f.addContent("beat", content.MediaAudio, now.Add(-30*24*time.Hour))
	f.addContent("free", content.MediaAudio, now.Add(-2*24*time.Hour), "freestyle")
	f.addContent("bts", content.MediaVideo, now.Add(-time.Hour), "behind-scenes")

	cards, err := f.content.List(ctx, "", "all")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "bts", cards[0].ID)
	assert.Equal(t, content.CategoryBehindScenes, cards[0].Category)
	assert.True(t, cards[0].IsNew)
	assert.False(t, cards[2].IsNew)
	assert.Equal(t, content.DefaultThumbnail, cards[2].CoverImageURL)

	beats, err := f.content.List(ctx, "", content.CategoryFreestyles)
	require.NoError(t, err)
	require.Len(t, beats, 1)
	assert.Equal(t, "free", beats[0].ID)

	none, err := f.content.List(ctx, "", "podcasts")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContentFeatured(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	featured, err := f.content.Featured(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, featured)

	f.addContent("old", content.MediaVideo, time.Now().Add(-48*time.Hour))
	f.addContent("fresh", content.MediaVideo, time.Now().Add(-time.Hour))
	featured, err = f.content.Featured(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.Equal(t, "fresh", featured.ID)
}

func TestContentToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fan := f.member("fan@example.com")
	f.addContent("c1", content.MediaAudio, time.Now())

	res, err := f.content.ToggleLike(ctx, fan.ID, "c1")
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, Likes: 1}, *res)

	cards, err := f.content.List(ctx, fan.ID, "")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.True(t, cards[0].UserHasLiked)
	assert.Equal(t, 1, cards[0].Likes)

	res, err = f.content.ToggleLike(ctx, fan.ID, "c1")
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, Likes: 0}, *res)

	_, err = f.content.ToggleLike(ctx, fan.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
