package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/community"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/content"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/security"
)

// Post and comment limits.
const (
	MaxPostTitleLength = 200
	MaxPostBodyLength  = 5000
	MaxCommentLength   = 2000
	DefaultFeedLimit   = 50
)

// PostImageStore saves and removes post images.
type PostImageStore interface {
	ProcessPostImage(data, ownerID string) (*media.StoredImage, error)
	DeletePostImage(url string) error
}

// PostView is a post as shown to one member.
type PostView struct {
	community.Post
	IsAnnouncement bool `json:"isAnnouncement"`
	UserHasLiked   bool `json:"userHasLiked"`
	CanDelete      bool `json:"canDelete"`
}

// CreatePostInput is a new post submission. ImageData is an optional
// base64 data URL.
type CreatePostInput struct {
	Title     string `json:"title"`
	Body      string `json:"content"`
	ImageData string `json:"image"`
	ContentID string `json:"contentId"`
}

// CommunityService runs the member feed.
type CommunityService struct {
	posts     community.PostRepository
	comments  community.CommentRepository
	items     content.Repository
	images    PostImageStore
	publisher messaging.Publisher
	logger    *logging.ChanneledLogger
	now       func() time.Time
}

// NewCommunityService creates a new community service. publisher may be nil.
func NewCommunityService(posts community.PostRepository, comments community.CommentRepository, items content.Repository, images PostImageStore, publisher messaging.Publisher, logger *logging.ChanneledLogger) *CommunityService {
	return &CommunityService{
		posts:     posts,
		comments:  comments,
		items:     items,
		images:    images,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListPosts returns posts newest first as seen by viewer. limit <= 0 uses
// DefaultFeedLimit.
func (s *CommunityService) ListPosts(ctx context.Context, viewer *user.Profile, limit int) ([]PostView, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	posts, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return s.views(ctx, viewer, posts)
}

// CreatePost validates and stores a post, uploading its image first.
func (s *CommunityService) CreatePost(ctx context.Context, author *user.Profile, in CreatePostInput) (*PostView, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	if title == "" || body == "" {
		return nil, invalid("title and content are required")
	}
	if utf8.RuneCountInString(title) > MaxPostTitleLength {
		return nil, invalid("title must be at most %d characters", MaxPostTitleLength)
	}
	if utf8.RuneCountInString(body) > MaxPostBodyLength {
		return nil, invalid("content must be at most %d characters", MaxPostBodyLength)
	}

	contentID := strings.TrimSpace(in.ContentID)
	if contentID != "" {
		item, err := s.items.FindByID(ctx, contentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load linked content: %w", err)
		}
		if item == nil {
			return nil, invalid("linked content does not exist")
		}
	}

	post := &community.Post{
		ID:        security.GenerateULID(),
		AuthorID:  author.ID,
		Title:     title,
		Body:      body,
		ContentID: contentID,
		CreatedAt: s.now(),
	}

	if in.ImageData != "" {
		stored, err := s.images.ProcessPostImage(in.ImageData, author.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		post.ImageURL = stored.URL
	}

	if err := s.posts.Store(ctx, post); err != nil {
		if post.ImageURL != "" {
			if derr := s.images.DeletePostImage(post.ImageURL); derr != nil {
				s.logger.LogError(logging.ChannelCommunity, "delete_post_image", derr, map[string]any{"postId": post.ID, "imageUrl": post.ImageURL})
			}
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	saved, err := s.posts.FindByID(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload post: %w", err)
	}
	if saved == nil {
		return nil, ErrNotFound
	}

	s.logger.WithContext(logging.ChannelCommunity, ctx).Info("Post created", "postId", post.ID, "authorId", author.ID, "hasImage", post.ImageURL != "")
	s.publish(messaging.EventPostCreated, post.ID, author.ID, saved)

	views, err := s.views(ctx, author, []*community.Post{saved})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeletePost removes a post. Only its author or an admin may do so.
func (s *CommunityService) DeletePost(ctx context.Context, actor *user.Profile, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return ErrNotFound
	}
	if !post.CanDelete(actor) {
		s.logger.WithContext(logging.ChannelCommunity, ctx).Warn("Post delete refused", "postId", postID, "actorId", actor.ID)
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	if post.ImageURL != "" {
		if err := s.images.DeletePostImage(post.ImageURL); err != nil {
			s.logger.LogError(logging.ChannelCommunity, "delete_post_image", err, map[string]any{"postId": postID})
		}
	}

	s.logger.WithContext(logging.ChannelCommunity, ctx).Info("Post deleted", "postId", postID, "actorId", actor.ID)
	s.publish(messaging.EventPostDeleted, postID, actor.ID, nil)
	return nil
}

// ToggleLike likes or unlikes a post for the member.
func (s *CommunityService) ToggleLike(ctx context.Context, userID, postID string) (*LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	liked, likes, err := s.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	result := &LikeResult{Liked: liked, Likes: likes}
	s.publish(messaging.EventPostLiked, postID, userID, map[string]int{"likesCount": likes})
	return result, nil
}

// ListComments returns a post's comments oldest first.
func (s *CommunityService) ListComments(ctx context.Context, postID string) ([]*community.Comment, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	comments, err := s.comments.ListForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if comments == nil {
		comments = []*community.Comment{}
	}
	return comments, nil
}

// AddComment stores a trimmed, non-empty comment.
func (s *CommunityService) AddComment(ctx context.Context, author *user.Profile, postID, body string) (*community.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("comment cannot be empty")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return nil, invalid("comment must be at most %d characters", MaxCommentLength)
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	comment := &community.Comment{
		ID:       security.GenerateULID(),
		PostID:   postID,
		AuthorID: author.ID,
		Author: user.Author{
			ID:        author.ID,
			Name:      author.Name,
			AvatarURL: author.AvatarURL,
			Role:      author.Role,
		},
		Body:      body,
		CreatedAt: s.now(),
	}
	if err := s.comments.Store(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.logger.WithContext(logging.ChannelCommunity, ctx).Info("Comment created", "postId", postID, "commentId", comment.ID)
	s.publish(messaging.EventCommentCreated, postID, author.ID, comment)
	return comment, nil
}

func (s *CommunityService) views(ctx context.Context, viewer *user.Profile, posts []*community.Post) ([]PostView, error) {
	liked := map[string]bool{}
	if viewer != nil && len(posts) > 0 {
		ids := make([]string, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}
		var err error
		if liked, err = s.posts.LikedBy(ctx, viewer.ID, ids); err != nil {
			return nil, fmt.Errorf("failed to load likes: %w", err)
		}
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{
			Post:           *p,
			IsAnnouncement: p.IsAnnouncement(),
			UserHasLiked:   liked[p.ID],
			CanDelete:      p.CanDelete(viewer),
		}
	}
	return views, nil
}

func (s *CommunityService) publish(eventType, postID, actorID string, payload any) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(messaging.FeedEvent{
		Type:    eventType,
		PostID:  postID,
		ActorID: actorID,
		Payload: payload,
	})
}
