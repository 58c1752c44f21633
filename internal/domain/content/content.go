// Package content defines the media items members browse and like.
package content

import (
	"context"
	"time"
)

// MediaType is the kind of media an item carries.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaImage MediaType = "image"
)

// Listing categories derived from media type and tags.
const (
	CategoryBeats        = "beats"
	CategoryFreestyles   = "freestyles"
	CategoryBehindScenes = "behind-scenes"
	CategoryVisuals      = "visuals"
)

// NewWindow is how long after creation an item is flagged new.
const NewWindow = 7 * 24 * time.Hour

// DefaultThumbnail is used when an item has no cover image.
const DefaultThumbnail = "https://images.pexels.com/photos/1190297/pexels-photo-1190297.jpeg"

// Item is a published media item.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          MediaType `json:"type"`
	Description   string    `json:"description"`
	FileURL       string    `json:"url"`
	CoverImageURL string    `json:"thumbnail"`
	Tags          []string  `json:"tags"`
	Likes         int       `json:"likes"`
	IsActive      bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Category derives the listing category from the media type and tags.
func (i *Item) Category() string {
	switch i.Type {
	case MediaAudio:
		if i.hasTag("freestyle") {
			return CategoryFreestyles
		}
		return CategoryBeats
	case MediaVideo:
		if i.hasTag("behind-scenes") {
			return CategoryBehindScenes
		}
		return CategoryVisuals
	default:
		return CategoryVisuals
	}
}

// IsNew reports whether the item was created within NewWindow of now.
func (i *Item) IsNew(now time.Time) bool {
	return now.Sub(i.CreatedAt) <= NewWindow
}

// Thumbnail returns the cover image or the default.
func (i *Item) Thumbnail() string {
	if i.CoverImageURL == "" {
		return DefaultThumbnail
	}
	return i.CoverImageURL
}

func (i *Item) hasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Repository defines persistence for media items and their likes.
type Repository interface {
	ListActive(ctx context.Context) ([]*Item, error)
	FindByID(ctx context.Context, id string) (*Item, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*Item, error)
	Upsert(ctx context.Context, item *Item) error
	// ToggleLike flips the member's like and keeps the item's counter in step.
	// It returns the new liked state and counter.
	ToggleLike(ctx context.Context, contentID, userID string) (liked bool, likes int, err error)
	LikedBy(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error)
}
