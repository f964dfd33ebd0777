package history

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores entries under users/{uid}/history and
// users/{uid}/favorites and the summary array on users/{uid}.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

type profileSummaries struct {
	GenerationHistory []Summary `firestore:"generationHistory"`
}

func (r *FirestoreRepository) user(userID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(userID)
}

func (r *FirestoreRepository) AppendRecord(ctx context.Context, rec Record) error {
	if _, err := r.user(rec.UserID).Collection("history").Doc(rec.ID).Set(ctx, rec); err != nil {
		return fmt.Errorf("save history record: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) AddFavorite(ctx context.Context, rec Record) error {
	if _, err := r.user(rec.UserID).Collection("favorites").Doc(rec.ID).Set(ctx, rec); err != nil {
		return fmt.Errorf("save favorite: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) AppendSummary(ctx context.Context, userID string, s Summary, max int) error {
	ref := r.user(userID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current profileSummaries
		snap, err := tx.Get(ref)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			if err := snap.DataTo(&current); err != nil {
				return err
			}
		}

		entries := append(current.GenerationHistory, s)
		if len(entries) > max {
			entries = entries[len(entries)-max:]
		}
		return tx.Set(ref, map[string]interface{}{"generationHistory": entries}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("append generation summary: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) Recent(ctx context.Context, userID string, t Type, limit int) ([]Record, error) {
	docs, err := r.user(userID).Collection("history").
		Where("type", "==", string(t)).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("load recent generations: %w", err)
	}

	recs := make([]Record, 0, len(docs))
	for _, doc := range docs {
		var rec Record
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode history record %s: %w", doc.Ref.ID, err)
		}
		rec.ID = doc.Ref.ID
		rec.UserID = userID
		recs = append(recs, rec)
	}
	return recs, nil
}

func (r *FirestoreRepository) Summaries(ctx context.Context, userID string) ([]Summary, error) {
	snap, err := r.user(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return []Summary{}, nil
		}
		return nil, fmt.Errorf("load generation summaries: %w", err)
	}

	var p profileSummaries
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode generation summaries: %w", err)
	}
	return p.GenerationHistory, nil
}
