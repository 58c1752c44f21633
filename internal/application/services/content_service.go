package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
)

// ContentCard is a media item as shown to one member.
type ContentCard struct {
	content.Item
	Category     string `json:"category"`
	IsNew        bool   `json:"isNew"`
	UserHasLiked bool   `json:"userHasLiked"`
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// ContentService lists media content and toggles likes.
type ContentService struct {
	items  content.Repository
	logger *logging.ChanneledLogger
	now    func() time.Time
}

// NewContentService creates a new content service
func NewContentService(items content.Repository, logger *logging.ChanneledLogger) *ContentService {
	return &ContentService{items: items, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns active items newest first, optionally narrowed to one
// category ("" and "all" keep everything).
func (s *ContentService) List(ctx context.Context, userID, category string) ([]ContentCard, error) {
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}

	filtered := make([]*content.Item, 0, len(items))
	for _, item := range items {
		if category == "" || category == "all" || item.Category() == category {
			filtered = append(filtered, item)
		}
	}
	return s.cards(ctx, userID, filtered)
}

// Featured returns the newest active item, or nil when there is none.
func (s *ContentService) Featured(ctx context.Context, userID string) (*ContentCard, error) {
	items, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	cards, err := s.cards(ctx, userID, items[:1])
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

// ToggleLike likes or unlikes an item for the member.
func (s *ContentService) ToggleLike(ctx context.Context, userID, contentID string) (*LikeResult, error) {
	item, err := s.items.FindByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if item == nil || !item.IsActive {
		return nil, ErrNotFound
	}

	liked, likes, err := s.items.ToggleLike(ctx, contentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	s.logger.WithContext(logging.ChannelContent, ctx).Info("Content like toggled", "contentId", contentID, "userId", userID, "liked", liked)
	return &LikeResult{Liked: liked, Likes: likes}, nil
}

func (s *ContentService) cards(ctx context.Context, userID string, items []*content.Item) ([]ContentCard, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	liked := map[string]bool{}
	if userID != "" && len(ids) > 0 {
		var err error
		if liked, err = s.items.LikedBy(ctx, userID, ids); err != nil {
			return nil, fmt.Errorf("failed to load likes: %w", err)
		}
	}

	now := s.now()
	cards := make([]ContentCard, len(items))
	for i, item := range items {
		card := ContentCard{
			Item:         *item,
			Category:     item.Category(),
			IsNew:        item.IsNew(now),
			UserHasLiked: liked[item.ID],
		}
		card.CoverImageURL = item.Thumbnail()
		cards[i] = card
	}
	return cards, nil
}
