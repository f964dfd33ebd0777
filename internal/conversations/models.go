package conversations

import (
	"time"
)

// Turn is one stored exchange between a user and the assistant.
type Turn struct {
	ID          string    `db:"id" json:"id" firestore:"-"`
	UserID      string    `db:"user_id" json:"user_id" firestore:"-"`
	UserMessage string    `db:"user_message" json:"user_message" firestore:"userMessage"`
	AIResponse  string    `db:"ai_response" json:"ai_response" firestore:"aiResponse"`
	OccurredAt  time.Time `db:"created_at" json:"occurred_at" firestore:"timestamp"`
}
