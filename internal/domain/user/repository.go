// Package user defines member profiles, their activity counters, and the
// interfaces for persisting them. These repositories abstract the data
// persistence details so the services stay decoupled from the database.
package user

import (
	"context"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/engagement"
)

// Roles a profile may hold.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// PlaceholderName is given to new profiles until onboarding sets a real one.
const PlaceholderName = "New User"

// Profile represents an authenticated member.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatarUrl"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NeedsOnboarding reports whether the member still carries the placeholder name.
func (p *Profile) NeedsOnboarding() bool {
	return p.Name == "" || p.Name == PlaceholderName
}

// IsStaff reports whether the member posts announcements.
func (p *Profile) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleStaff
}

// Author is the public snapshot of a profile attached to posts and comments.
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
	Role      string `json:"-"`
}

// ProfileRepository defines the operations for persisting Profile entities.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Store(ctx context.Context, profile *Profile) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

// ActivityRepository reads the raw counters the engagement score is built from.
type ActivityRepository interface {
	GetActivityCounters(ctx context.Context, userID string) (engagement.Activity, error)
}

// SessionRepository tracks signed-out session tokens until they expire.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
