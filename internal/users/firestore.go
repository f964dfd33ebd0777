package users

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/lib/pq"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository keeps profiles in users/{uid} and admin markers in admins/{uid}.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func decodeProfile(snap *firestore.DocumentSnapshot) (*Profile, error) {
	var p Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode user profile %s: %w", snap.Ref.ID, err)
	}
	p.UserID = snap.Ref.ID
	return &p, nil
}

func (r *FirestoreRepository) EnsureProfile(ctx context.Context, userID string, email *string) (*Profile, error) {
	ref := r.client.Collection("users").Doc(userID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			now := time.Now().UTC()
			return tx.Create(ref, Profile{Email: email, TelegramIDs: pq.Int64Array{}, CreatedAt: now, UpdatedAt: now})
		}
		if err != nil {
			return err
		}
		if email == nil {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "email", Value: *email},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user profile %s: %w", userID, err)
	}
	return r.GetProfile(ctx, userID)
}

func (r *FirestoreRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	snap, err := r.client.Collection("users").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile %s: %w", userID, err)
	}
	return decodeProfile(snap)
}

func (r *FirestoreRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	snap, err := r.client.Collection("admins").Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("check admin %s: %w", userID, err)
	}
	return snap.Exists(), nil
}

func (r *FirestoreRepository) AddTelegramID(ctx context.Context, userID string, telegramID int64) (pq.Int64Array, error) {
	ref := r.client.Collection("users").Doc(userID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "telegramIds", Value: firestore.ArrayUnion(telegramID)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return nil, fmt.Errorf("add telegram id %d to %s: %w", telegramID, userID, err)
	}
	p, err := r.GetProfile(ctx, userID)
	if err != nil || p == nil {
		return nil, err
	}
	return p.TelegramIDs, nil
}

func (r *FirestoreRepository) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*Profile, error) {
	docs, err := r.client.Collection("users").
		Where("telegramIds", "array-contains", telegramID).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("get user profile by telegram id %d: %w", telegramID, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return decodeProfile(docs[0])
}
