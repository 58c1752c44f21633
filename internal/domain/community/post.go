// Package community defines the member feed: posts, comments, and likes.
package community

import (
	"context"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
)

// LinkedContent is the media item a post points at.
type LinkedContent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Thumbnail string `json:"thumbnail,omitempty"`
	FileURL   string `json:"fileUrl"`
}

// Post is a feed entry. LikesCount and CommentsCount are denormalized
// counters kept in step by the repository.
type Post struct {
	ID            string         `json:"id"`
	AuthorID      string         `json:"-"`
	Author        user.Author    `json:"author"`
	Title         string         `json:"title"`
	Body          string         `json:"content"`
	ImageURL      string         `json:"image,omitempty"`
	ContentID     string         `json:"contentId,omitempty"`
	LinkedContent *LinkedContent `json:"linkedContent,omitempty"`
	LikesCount    int            `json:"likesCount"`
	CommentsCount int            `json:"commentsCount"`
	CreatedAt     time.Time      `json:"timestamp"`
}

// IsAnnouncement reports whether the author posts with staff authority.
func (p *Post) IsAnnouncement() bool {
	return p.Author.Role == user.RoleAdmin || p.Author.Role == user.RoleStaff
}

// CanDelete reports whether the member may remove the post.
func (p *Post) CanDelete(actor *user.Profile) bool {
	if actor == nil {
		return false
	}
	return actor.ID == p.AuthorID || actor.Role == user.RoleAdmin
}

// Comment is a reply on a post.
type Comment struct {
	ID        string      `json:"id"`
	PostID    string      `json:"postId"`
	AuthorID  string      `json:"-"`
	Author    user.Author `json:"author"`
	Body      string      `json:"content"`
	CreatedAt time.Time   `json:"timestamp"`
}

// PostRepository defines persistence for posts and their likes.
type PostRepository interface {
	// ListRecent returns posts newest first; limit <= 0 means no limit.
	ListRecent(ctx context.Context, limit int) ([]*Post, error)
	FindByID(ctx context.Context, id string) (*Post, error)
	Store(ctx context.Context, post *Post) error
	// Delete removes the post together with its likes and comments.
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likes int, err error)
	LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// CommentRepository defines persistence for comments.
type CommentRepository interface {
	// ListForPost returns comments oldest first.
	ListForPost(ctx context.Context, postID string) ([]*Comment, error)
	// Store inserts the comment and increments the post's comment counter.
	Store(ctx context.Context, comment *Comment) error
}
