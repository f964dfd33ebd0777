package users

import (
	"time"

	"github.com/lib/pq"
)

// Profile is the service-side record of a user authenticated by the external
// identity provider. UserID is that provider's subject.
type Profile struct {
	UserID      string        `db:"user_id" json:"user_id" firestore:"-"`
	Email       *string       `db:"email" json:"email,omitempty" firestore:"email"`
	TelegramIDs pq.Int64Array `db:"telegram_ids" json:"telegram_ids,omitempty" firestore:"telegramIds"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at" firestore:"updatedAt"`
}
