// Package user provides the concrete SQL-based implementations of
// the user domain repositories (Profile, Activity, Session).
package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/domain/user"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/persistence/database"
)

// SQLProfileRepository is the SQL-based implementation of the ProfileRepository.
type SQLProfileRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProfileRepository creates a new instance of the repository.
func NewSQLProfileRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProfileRepository {
	return &SQLProfileRepository{
		db:     db,
		logger: logger,
	}
}

const profileColumns = `id, email, password_hash, name, avatar_url, role, created_at, updated_at`

// FindByID retrieves a Profile by its unique identifier.
func (r *SQLProfileRepository) FindByID(ctx context.Context, id string) (*user.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading profile by ID", "id", id)

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Database().Debug("Profile not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load profile by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return profile, nil
}

// FindByEmail retrieves a Profile by email address.
func (r *SQLProfileRepository) FindByEmail(ctx context.Context, email string) (*user.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM user_profiles WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading profile by email")

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load profile by email", "error", err.Error())
		return nil, err
	}

	r.logger.Database().Info("Profile loaded by email", "profileId", profile.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return profile, nil
}

// Store saves a new Profile.
func (r *SQLProfileRepository) Store(ctx context.Context, p *user.Profile) error {
	const query = `INSERT INTO user_profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing profile insert", "id", p.ID)

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Email,
		p.PasswordHash,
		p.Name,
		p.AvatarURL,
		p.Role,
		database.FormatTime(p.CreatedAt),
		database.FormatTime(p.UpdatedAt),
	)
	if err != nil {
		r.logger.Database().Error("Profile insert failed", "error", err.Error(), "id", p.ID)
		return err
	}

	r.logger.Database().Info("Profile insert completed", "id", p.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

// UpdateName sets the display name.
func (r *SQLProfileRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.updateField(ctx, `UPDATE user_profiles SET name = ?, updated_at = ? WHERE id = ?`, id, name)
}

// UpdateAvatar sets the avatar URL.
func (r *SQLProfileRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.updateField(ctx, `UPDATE user_profiles SET avatar_url = ?, updated_at = ? WHERE id = ?`, id, avatarURL)
}

func (r *SQLProfileRepository) updateField(ctx context.Context, query, id, value string) error {
	start := time.Now()
	r.logger.Database().Debug("Executing profile update", "id", id)

	if _, err := r.db.ExecContext(ctx, query, value, database.FormatTime(time.Now()), id); err != nil {
		r.logger.Database().Error("Profile update failed", "error", err.Error(), "id", id)
		return err
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

func scanProfile(row *sql.Row) (*user.Profile, error) {
	var (
		p                user.Profile
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.AvatarURL, &p.Role, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = database.ParseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}
