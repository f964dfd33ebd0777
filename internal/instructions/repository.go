package instructions

import (
	"context"
	"database/sql"
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

func (r *Repository) Get(ctx context.Context) (Instructions, error) {
	query := `
		SELECT main_instructions, personality, capabilities, limitations, updated_by, updated_at
		FROM system_instructions
		WHERE id = 1
	`
	var ins Instructions
	err := r.db.GetContext(ctx, &ins, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Instructions{}, ErrNotFound
		}
		return Instructions{}, fmt.Errorf("load system instructions: %w", err)
	}
	return ins, nil
}

// Save replaces the current instructions and appends the revision in one transaction.
func (r *Repository) Save(ctx context.Context, ins Instructions, rev Revision) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin instructions transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO system_instructions (id, main_instructions, personality, capabilities, limitations, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			main_instructions = EXCLUDED.main_instructions,
			personality = EXCLUDED.personality,
			capabilities = EXCLUDED.capabilities,
			limitations = EXCLUDED.limitations,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert,
		ins.MainInstructions, ins.Personality, ins.Capabilities, ins.Limitations, ins.UpdatedBy, ins.UpdatedAt); err != nil {
		return fmt.Errorf("save system instructions: %w", err)
	}

	insertRevision := `
		INSERT INTO system_instructions_revisions (id, main_instructions, personality, capabilities, limitations, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, insertRevision,
		rev.ID, rev.MainInstructions, rev.Personality, rev.Capabilities, rev.Limitations, rev.UpdatedBy, rev.CreatedAt); err != nil {
		return fmt.Errorf("save instructions revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit instructions transaction: %w", err)
	}
	return nil
}

func (r *Repository) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	query := `
		SELECT id, main_instructions, personality, capabilities, limitations, updated_by, created_at
		FROM system_instructions_revisions
		ORDER BY created_at DESC
		LIMIT $1
	`
	var revs []Revision
	if err := r.db.SelectContext(ctx, &revs, query, limit); err != nil {
		return nil, fmt.Errorf("load instructions revisions: %w", err)
	}
	return revs, nil
}

func (r *Repository) Revision(ctx context.Context, id string) (Revision, error) {
	query := `
		SELECT id, main_instructions, personality, capabilities, limitations, updated_by, created_at
		FROM system_instructions_revisions
		WHERE id = $1
	`
	var rev Revision
	if err := r.db.GetContext(ctx, &rev, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Revision{}, ErrRevisionNotFound
		}
		return Revision{}, fmt.Errorf("load instructions revision %s: %w", id, err)
	}
	return rev, nil
}
