package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-forecast/internal/forecast"
	"github.com/Dan9191/finance-forecast/internal/models"
)

// ErrUserNotFound is returned when no user matches a lookup
var ErrUserNotFound = errors.New("user not found")

const sqlDateLayout = "2006-01-02"

var _ forecast.Store = (*Repository)(nil)

// Repository provides database operations
type Repository struct {
	db  *sql.DB
	loc *time.Location
}

// NewRepository initializes a new repository. DATE columns are
// returned as midnight in loc.
func NewRepository(db *sql.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	var defaultProfile sql.NullInt64
	query := `
		SELECT id, username, email, password_hash, default_profile_id, created_at
		FROM finance.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &defaultProfile, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.DefaultProfileID = defaultProfile.Int64
	return user, nil
}

// ProfileSettings returns the forecast settings of a profile, or nil
// when the profile does not exist
func (r *Repository) ProfileSettings(ctx context.Context, profileID int64) (*models.ProfileSettings, error) {
	settings := &models.ProfileSettings{}
	query := `
		SELECT id, COALESCE(business_days_config, '')
		FROM finance.profiles
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, profileID).Scan(&settings.ProfileID, &settings.BusinessDaysConfig)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile settings: %w", err)
	}
	return settings, nil
}

// DigestRecipients lists profiles that opted into the monthly digest
func (r *Repository) DigestRecipients(ctx context.Context) ([]models.DigestRecipient, error) {
	query := `
		SELECT p.id, p.name, u.username, u.email
		FROM finance.profiles p
		JOIN finance.users u ON u.id = p.user_id
		WHERE p.digest_enabled
		ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest recipients: %w", err)
	}
	defer rows.Close()

	var recipients []models.DigestRecipient
	for rows.Next() {
		var rc models.DigestRecipient
		if err := rows.Scan(&rc.ProfileID, &rc.ProfileName, &rc.Username, &rc.Email); err != nil {
			return nil, fmt.Errorf("failed to scan digest recipient: %w", err)
		}
		recipients = append(recipients, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list digest recipients: %w", err)
	}
	return recipients, nil
}

func (r *Repository) asDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.loc)
}

func sqlDate(t time.Time) string {
	return t.Format(sqlDateLayout)
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
