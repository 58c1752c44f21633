package services

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/engagement"
	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
)

// AvatarStore saves an uploaded avatar and returns its URL.
type AvatarStore interface {
	ProcessAvatar(data, userID string) (string, error)
}

// ProfileView is a member's profile with derived fan progression.
type ProfileView struct {
	Profile         *user.Profile       `json:"profile"`
	Activity        engagement.Activity `json:"activity"`
	Engagement      engagement.Result   `json:"engagement"`
	LevelName       string              `json:"levelName"`
	ProgressPercent int                 `json:"progressPercent"`
	NeedsOnboarding bool                `json:"needsOnboarding"`
}

// ProfileService assembles profile views and handles avatar uploads.
type ProfileService struct {
	profiles user.ProfileRepository
	activity user.ActivityRepository
	avatars  AvatarStore
	logger   *logging.ChanneledLogger
}

// NewProfileService creates a new profile service
func NewProfileService(profiles user.ProfileRepository, activity user.ActivityRepository, avatars AvatarStore, logger *logging.ChanneledLogger) *ProfileService {
	return &ProfileService{profiles: profiles, activity: activity, avatars: avatars, logger: logger}
}

// GetProfile loads the profile and recomputes the fan level from the
// current counters.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	activity, err := s.activity.GetActivityCounters(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}
	activity = clampActivity(activity)

	result := engagement.Compute(activity)
	metrics.ObserveFanLevel(result.FanLevel)

	return &ProfileView{
		Profile:         profile,
		Activity:        activity,
		Engagement:      result,
		LevelName:       engagement.LevelName(result.FanLevel),
		ProgressPercent: result.Progress(),
		NeedsOnboarding: profile.NeedsOnboarding(),
	}, nil
}

// UploadAvatar stores a new avatar image and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID, data string) (*user.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	url, err := s.avatars.ProcessAvatar(data, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.profiles.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	profile.AvatarURL = url
	s.logger.WithContext(logging.ChannelAuth, ctx).Info("Avatar updated", "userId", userID)
	return profile, nil
}

func clampActivity(a engagement.Activity) engagement.Activity {
	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		return n
	}
	return engagement.Activity{
		AccountAgeDays:   clamp(a.AccountAgeDays),
		ContentLikeCount: clamp(a.ContentLikeCount),
		PostLikeCount:    clamp(a.PostLikeCount),
		CommentCount:     clamp(a.CommentCount),
	}
}
