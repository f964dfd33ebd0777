package instructions

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository reads system/instructions and the instructionsHistory collection.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) doc() *firestore.DocumentRef {
	return r.client.Collection("system").Doc("instructions")
}

func (r *FirestoreRepository) history() *firestore.CollectionRef {
	return r.client.Collection("system").Doc("instructions").Collection("instructionsHistory")
}

func (r *FirestoreRepository) Get(ctx context.Context) (Instructions, error) {
	snap, err := r.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Instructions{}, ErrNotFound
		}
		return Instructions{}, fmt.Errorf("load system instructions: %w", err)
	}

	var ins Instructions
	if err := snap.DataTo(&ins); err != nil {
		return Instructions{}, fmt.Errorf("decode system instructions: %w", err)
	}
	return ins, nil
}

func (r *FirestoreRepository) Save(ctx context.Context, ins Instructions, rev Revision) error {
	batch := r.client.Batch()
	batch.Set(r.doc(), ins)
	batch.Set(r.history().Doc(rev.ID), rev)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("save system instructions: %w", err)
	}
	return nil
}

func (r *FirestoreRepository) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	docs, err := r.history().OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("load instructions revisions: %w", err)
	}

	revs := make([]Revision, 0, len(docs))
	for _, doc := range docs {
		var rev Revision
		if err := doc.DataTo(&rev); err != nil {
			return nil, fmt.Errorf("decode instructions revision %s: %w", doc.Ref.ID, err)
		}
		rev.ID = doc.Ref.ID
		revs = append(revs, rev)
	}
	return revs, nil
}

func (r *FirestoreRepository) Revision(ctx context.Context, id string) (Revision, error) {
	snap, err := r.history().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Revision{}, ErrRevisionNotFound
		}
		return Revision{}, fmt.Errorf("load instructions revision %s: %w", id, err)
	}

	var rev Revision
	if err := snap.DataTo(&rev); err != nil {
		return Revision{}, fmt.Errorf("decode instructions revision %s: %w", id, err)
	}
	rev.ID = id
	return rev, nil
}
