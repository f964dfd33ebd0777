package conversations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is implemented by Repository and FirestoreRepository.
type Store interface {
	SaveTurn(ctx context.Context, turn Turn) error
	RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// AppendTurn records a finished exchange so later generations can use it as context.
func (s *Service) AppendTurn(ctx context.Context, userID, userMessage, aiResponse string) (Turn, error) {
	turn := Turn{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserMessage: userMessage,
		AIResponse:  aiResponse,
		OccurredAt:  s.now().UTC(),
	}
	logrus.Debugf("Saving conversation turn %s for user %s", turn.ID, userID)
	if err := s.store.SaveTurn(ctx, turn); err != nil {
		return Turn{}, err
	}
	return turn, nil
}

// RecentTurns returns at most limit turns, newest first, in store order.
func (s *Service) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.store.RecentTurns(ctx, userID, limit)
}
