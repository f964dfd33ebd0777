package conversations

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// FirestoreRepository keeps turns under users/{uid}/conversations.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) collection(userID string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(userID).Collection("conversations")
}

func (r *FirestoreRepository) SaveTurn(ctx context.Context, turn Turn) error {
	_, err := r.collection(turn.UserID).Doc(turn.ID).Set(ctx, turn)
	if err != nil {
		return fmt.Errorf("save conversation turn: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	docs, err := r.collection(userID).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("load recent conversation turns: %w", err)
	}

	turns := make([]Turn, 0, len(docs))
	for _, doc := range docs {
		var turn Turn
		if err := doc.DataTo(&turn); err != nil {
			return nil, fmt.Errorf("decode conversation %s: %w", doc.Ref.ID, err)
		}
		turn.ID = doc.Ref.ID
		turn.UserID = userID
		turns = append(turns, turn)
	}
	return turns, nil
}
