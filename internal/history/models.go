package history

import (
	"time"
	"unicode/utf8"
)

type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
)

func (t Type) Valid() bool {
	return t == TypeText || t == TypeImage
}

const (
	summaryPromptLimit = 50
	// MaxSummaries bounds the summary array kept on a user profile.
	MaxSummaries = 100
)

// Result is the outcome of one successful generation, before persistence.
type Result struct {
	Type       Type
	Prompt     string
	Result     string
	Model      string
	OccurredAt time.Time
}

// Record is a persisted history or favorites entry.
type Record struct {
	ID        string    `db:"id" json:"id" firestore:"-"`
	UserID    string    `db:"user_id" json:"-" firestore:"-"`
	Type      Type      `db:"type" json:"type" firestore:"type"`
	Prompt    string    `db:"prompt" json:"prompt" firestore:"prompt"`
	Result    string    `db:"result" json:"result" firestore:"result"`
	Model     string    `db:"model" json:"model,omitempty" firestore:"model,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"timestamp" firestore:"timestamp"`
}

// Summary is the short entry appended to the profile's generation history.
type Summary struct {
	Type       Type      `json:"type" firestore:"type"`
	Prompt     string    `json:"prompt" firestore:"prompt"`
	OccurredAt time.Time `json:"timestamp" firestore:"timestamp"`
}

// Summarize cuts prompt to its first 50 characters and marks the cut with "...".
func Summarize(prompt string) string {
	if utf8.RuneCountInString(prompt) <= summaryPromptLimit {
		return prompt
	}
	return string([]rune(prompt)[:summaryPromptLimit]) + "..."
}
