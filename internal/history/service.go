package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"genstudio/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRecentLimit = 5

var ErrInvalidType = errors.New("history: unknown generation type")

// Store is implemented by Repository and FirestoreRepository.
type Store interface {
	AppendRecord(ctx context.Context, rec Record) error
	AppendSummary(ctx context.Context, userID string, s Summary, max int) error
	AddFavorite(ctx context.Context, rec Record) error
	Recent(ctx context.Context, userID string, t Type, limit int) ([]Record, error)
	Summaries(ctx context.Context, userID string) ([]Summary, error)
}

type Writer struct {
	store   Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewWriter(store Store, m *metrics.Metrics) *Writer {
	return &Writer{
		store:   store,
		metrics: m,
		now:     time.Now,
	}
}

func (w *Writer) newRecord(userID string, r Result) Record {
	at := r.OccurredAt
	if at.IsZero() {
		at = w.now()
	}
	return Record{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      r.Type,
		Prompt:    r.Prompt,
		Result:    r.Result,
		Model:     r.Model,
		CreatedAt: at.UTC(),
	}
}

// Record appends r to the user's history and its summary to the profile.
// Both writes are attempted even if the first fails; any failures are joined.
func (w *Writer) Record(ctx context.Context, userID string, r Result) error {
	rec := w.newRecord(userID, r)

	var errs []error
	if err := w.store.AppendRecord(ctx, rec); err != nil {
		w.metrics.PersistenceFailed("history")
		errs = append(errs, fmt.Errorf("history record: %w", err))
	}

	summary := Summary{
		Type:       rec.Type,
		Prompt:     Summarize(rec.Prompt),
		OccurredAt: rec.CreatedAt,
	}
	if err := w.store.AppendSummary(ctx, userID, summary, MaxSummaries); err != nil {
		w.metrics.PersistenceFailed("summary")
		errs = append(errs, fmt.Errorf("history summary: %w", err))
	}

	if len(errs) == 0 {
		logrus.Debugf("Recorded %s generation %s for user %s", rec.Type, rec.ID, userID)
	}
	return errors.Join(errs...)
}

func (w *Writer) SaveFavorite(ctx context.Context, userID string, r Result) (Record, error) {
	if !r.Type.Valid() {
		return Record{}, ErrInvalidType
	}
	rec := w.newRecord(userID, r)
	if err := w.store.AddFavorite(ctx, rec); err != nil {
		logrus.Errorf("Failed to save favorite for user %s: %v", userID, err)
		w.metrics.PersistenceFailed("favorites")
		return Record{}, err
	}
	return rec, nil
}

// Recent returns the newest generations of type t; limit <= 0 means 5.
func (w *Writer) Recent(ctx context.Context, userID string, t Type, limit int) ([]Record, error) {
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return w.store.Recent(ctx, userID, t, limit)
}

func (w *Writer) Summaries(ctx context.Context, userID string) ([]Summary, error) {
	return w.store.Summaries(ctx, userID)
}
