package conversations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) SaveTurn(ctx context.Context, turn Turn) error {
	query := `
		INSERT INTO conversations (id, user_id, user_message, ai_response, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, turn.ID, turn.UserID, turn.UserMessage, turn.AIResponse, turn.OccurredAt)
	if err != nil {
		return fmt.Errorf("save conversation turn: %w", err)
	}

	return nil
}

// RecentTurns returns up to limit turns for the user, newest first.
func (r *Repository) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	query := `
		SELECT id, user_id, user_message, ai_response, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var turns []Turn
	err := r.db.SelectContext(ctx, &turns, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent conversation turns: %w", err)
	}

	logrus.Debugf("Loaded %d conversation turns for user %s", len(turns), userID)
	return turns, nil
}
