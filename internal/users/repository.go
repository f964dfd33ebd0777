package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `user_id, email, telegram_ids, created_at, updated_at`

func (r *Repository) EnsureProfile(ctx context.Context, userID string, email *string) (*Profile, error) {
	query := `
		INSERT INTO user_profiles (user_id, email)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET email = COALESCE(EXCLUDED.email, user_profiles.email),
			updated_at = NOW()
		RETURNING ` + profileColumns

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, userID, email); err != nil {
		return nil, fmt.Errorf("upsert user profile %s: %w", userID, err)
	}
	return &p, nil
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id = $1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile %s: %w", userID, err)
	}
	return &p, nil
}

func (r *Repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID); err != nil {
		return false, fmt.Errorf("check admin %s: %w", userID, err)
	}
	return ok, nil
}

func (r *Repository) AddTelegramID(ctx context.Context, userID string, telegramID int64) (pq.Int64Array, error) {
	query := `
		UPDATE user_profiles
		SET telegram_ids = array_append(COALESCE(telegram_ids, '{}'), $2),
			updated_at = NOW()
		WHERE user_id = $1
		AND NOT ($2 = ANY(COALESCE(telegram_ids, '{}')))
		RETURNING telegram_ids
	`

	var ids pq.Int64Array
	err := r.db.GetContext(ctx, &ids, query, userID, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			current, getErr := r.GetProfile(ctx, userID)
			if getErr != nil {
				return nil, getErr
			}
			if current == nil {
				return nil, fmt.Errorf("user profile %s not found while adding telegram id", userID)
			}
			return current.TelegramIDs, nil
		}
		return nil, fmt.Errorf("add telegram id %d to %s: %w", telegramID, userID, err)
	}
	return ids, nil
}

func (r *Repository) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE $1 = ANY(telegram_ids) LIMIT 1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, telegramID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile by telegram id %d: %w", telegramID, err)
	}
	return &p, nil
}
