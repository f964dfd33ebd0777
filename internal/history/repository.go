package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AppendRecord(ctx context.Context, rec Record) error {
	return r.insert(ctx, "generation_history", rec)
}

func (r *Repository) AddFavorite(ctx context.Context, rec Record) error {
	return r.insert(ctx, "favorites", rec)
}

func (r *Repository) insert(ctx context.Context, table string, rec Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, type, prompt, result, model, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
	`, table)

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, string(rec.Type), rec.Prompt, rec.Result, rec.Model, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// AppendSummary appends s to the profile array and keeps only the newest max entries.
func (r *Repository) AppendSummary(ctx context.Context, userID string, s Summary, max int) error {
	entry, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	query := `
		INSERT INTO user_profiles (user_id, generation_history)
		VALUES ($1, jsonb_build_array($2::jsonb))
		ON CONFLICT (user_id) DO UPDATE SET
			generation_history = (
				SELECT COALESCE(jsonb_agg(entry ORDER BY position), '[]'::jsonb)
				FROM (
					SELECT entry, position
					FROM jsonb_array_elements(user_profiles.generation_history || jsonb_build_array($2::jsonb))
						WITH ORDINALITY AS items(entry, position)
					ORDER BY position DESC
					LIMIT $3
				) newest
			),
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, string(entry), max); err != nil {
		return fmt.Errorf("append generation summary: %w", err)
	}
	return nil
}

func (r *Repository) Recent(ctx context.Context, userID string, t Type, limit int) ([]Record, error) {
	query := `
		SELECT id, user_id, type, prompt, result, COALESCE(model, '') AS model, created_at
		FROM generation_history
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	var recs []Record
	if err := r.db.SelectContext(ctx, &recs, query, userID, string(t), limit); err != nil {
		return nil, fmt.Errorf("load recent generations: %w", err)
	}
	return recs, nil
}

func (r *Repository) Summaries(ctx context.Context, userID string) ([]Summary, error) {
	query := `SELECT generation_history FROM user_profiles WHERE user_id = $1`

	var raw []byte
	if err := r.db.GetContext(ctx, &raw, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("load generation summaries: %w", err)
	}

	var out []Summary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode generation summaries: %w", err)
	}
	return out, nil
}
