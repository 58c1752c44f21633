// Package services provides application-level orchestration services
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/security"
)

// Account rules.
const (
	MinPasswordLength = 6
	MaxNameLength     = 50
	MinNameLength     = 2
)

// AuthConfig carries the token and profile defaults.
type AuthConfig struct {
	JWTSecret     string
	SessionTTL    time.Duration
	DefaultAvatar string
}

// AuthService handles sign up, sign in, sessions and onboarding
type AuthService struct {
	profiles user.ProfileRepository
	sessions user.SessionRepository
	mailer   email.Service
	cfg      AuthConfig
	logger   *logging.ChanneledLogger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(profiles user.ProfileRepository, sessions user.SessionRepository, mailer email.Service, cfg AuthConfig, logger *logging.ChanneledLogger) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		profiles: profiles,
		sessions: sessions,
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token           string        `json:"token"`
	ExpiresAt       time.Time     `json:"expiresAt"`
	Profile         *user.Profile `json:"profile"`
	NeedsOnboarding bool          `json:"needsOnboarding"`
}

// SignUp registers a member and opens a session. The welcome email is best
// effort: a send failure is logged and the sign-up still succeeds.
func (a *AuthService) SignUp(ctx context.Context, emailAddr, password, confirm string) (*AuthResult, error) {
	emailAddr, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, invalid("password must be at least %d characters", MinPasswordLength)
	}
	if password != confirm {
		return nil, invalid("passwords do not match")
	}

	existing, err := a.profiles.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		a.logger.LogAuthOperation("signup", existing.ID, false, map[string]any{"reason": "email_taken"})
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := a.now()
	profile := &user.Profile{
		ID:           security.GenerateULID(),
		Email:        emailAddr,
		Name:         user.PlaceholderName,
		AvatarURL:    a.cfg.DefaultAvatar,
		Role:         user.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.profiles.Store(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if a.mailer != nil {
		if err := a.mailer.SendWelcomeEmail(profile.Email, ""); err != nil {
			a.logger.LogError(logging.ChannelAuth, "welcome_email", err, map[string]any{"userId": profile.ID})
		}
	}

	a.logger.LogAuthOperation("signup", profile.ID, true, nil)
	return a.issue(profile)
}

// SignIn verifies credentials and opens a session.
func (a *AuthService) SignIn(ctx context.Context, emailAddr, password string) (*AuthResult, error) {
	emailAddr, err := normalizeEmail(emailAddr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := a.profiles.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil || !security.CheckPassword(profile.PasswordHash, password) {
		a.logger.LogAuthOperation("signin", "", false, nil)
		return nil, ErrInvalidCredentials
	}

	a.logger.LogAuthOperation("signin", profile.ID, true, nil)
	return a.issue(profile)
}

// SignOut revokes the session token. Tokens that are already invalid are
// ignored.
func (a *AuthService) SignOut(ctx context.Context, token string) error {
	session, err := a.parse(token)
	if err != nil {
		return nil
	}
	if err := a.sessions.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	a.logger.LogAuthOperation("signout", session.UserID, true, nil)
	return nil
}

// CurrentSession validates a token and returns its session. Any invalid,
// expired or revoked token yields ErrUnauthorized.
func (a *AuthService) CurrentSession(ctx context.Context, token string) (*security.SessionClaims, error) {
	session, err := a.parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	revoked, err := a.sessions.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if revoked {
		return nil, ErrUnauthorized
	}
	return session, nil
}

// CurrentProfile resolves the token to the member's profile.
func (a *AuthService) CurrentProfile(ctx context.Context, token string) (*user.Profile, error) {
	session, err := a.CurrentSession(ctx, token)
	if err != nil {
		return nil, err
	}
	profile, err := a.profiles.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthorized
	}
	return profile, nil
}

// CompleteOnboarding sets the member's display name.
func (a *AuthService) CompleteOnboarding(ctx context.Context, userID, name string) (*user.Profile, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinNameLength || n > MaxNameLength {
		return nil, invalid("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	}
	if strings.EqualFold(name, user.PlaceholderName) {
		return nil, invalid("please choose a display name")
	}

	profile, err := a.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	if err := a.profiles.UpdateName(ctx, userID, name); err != nil {
		return nil, fmt.Errorf("failed to update name: %w", err)
	}

	profile.Name = name
	a.logger.WithContext(logging.ChannelAuth, ctx).Info("Onboarding completed", "userId", userID)
	return profile, nil
}

func (a *AuthService) issue(profile *user.Profile) (*AuthResult, error) {
	token, session, err := security.GenerateSessionToken(profile.ID, profile.Role, a.cfg.JWTSecret, a.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:           token,
		ExpiresAt:       session.ExpiresAt,
		Profile:         profile,
		NeedsOnboarding: profile.NeedsOnboarding(),
	}, nil
}

func (a *AuthService) parse(token string) (*security.SessionClaims, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}
	claims, err := security.ValidateJWT(token, a.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return security.GetSessionFromClaims(claims)
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("a valid email address is required")
	}
	return s, nil
}
