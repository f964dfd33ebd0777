package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"genstudio/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStore struct {
	records   []Record
	favorites []Record
	summaries map[string][]Summary

	recordErr  error
	summaryErr error

	recentType  Type
	recentLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{summaries: map[string][]Summary{}}
}

func (f *fakeStore) AppendRecord(_ context.Context, rec Record) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) AppendSummary(_ context.Context, userID string, s Summary, max int) error {
	if f.summaryErr != nil {
		return f.summaryErr
	}
	entries := append(f.summaries[userID], s)
	if len(entries) > max {
		entries = entries[len(entries)-max:]
	}
	f.summaries[userID] = entries
	return nil
}

func (f *fakeStore) AddFavorite(_ context.Context, rec Record) error {
	f.favorites = append(f.favorites, rec)
	return nil
}

func (f *fakeStore) Recent(_ context.Context, _ string, t Type, limit int) ([]Record, error) {
	f.recentType = t
	f.recentLimit = limit
	return f.records, nil
}

func (f *fakeStore) Summaries(_ context.Context, userID string) ([]Summary, error) {
	return f.summaries[userID], nil
}

func TestRecordWritesHistoryAndSummary(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	prompt := "Write a long story about a lighthouse keeper who befriends a whale"

	err := w.Record(context.Background(), "u1", Result{Type: TypeText, Prompt: prompt, Result: "Once...", OccurredAt: at})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(store.records) != 1 {
		t.Fatalf("records = %d, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.ID == "" || rec.UserID != "u1" || rec.Prompt != prompt || !rec.CreatedAt.Equal(at) {
		t.Errorf("unexpected record: %+v", rec)
	}

	sums := store.summaries["u1"]
	if len(sums) != 1 {
		t.Fatalf("summaries = %d, want 1", len(sums))
	}
	if sums[0].Prompt != Summarize(prompt) || sums[0].Type != TypeText {
		t.Errorf("unexpected summary: %+v", sums[0])
	}
}

func TestRecordAttemptsBothWrites(t *testing.T) {
	store := newFakeStore()
	store.recordErr = errors.New("history down")
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	w := NewWriter(store, m)

	err := w.Record(context.Background(), "u1", Result{Type: TypeImage, Prompt: "cat"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, store.recordErr) {
		t.Errorf("error %v does not wrap history failure", err)
	}
	if len(store.summaries["u1"]) != 1 {
		t.Error("summary write skipped after history failure")
	}
	if got := testutil.ToFloat64(m.PersistenceFailuresTotal.WithLabelValues("history")); got != 1 {
		t.Errorf("history failures = %v, want 1", got)
	}
}

func TestRecordJoinsBothFailures(t *testing.T) {
	store := newFakeStore()
	store.recordErr = errors.New("history down")
	store.summaryErr = errors.New("profile down")
	w := NewWriter(store, nil)

	err := w.Record(context.Background(), "u1", Result{Type: TypeText, Prompt: "p"})
	if !errors.Is(err, store.recordErr) || !errors.Is(err, store.summaryErr) {
		t.Errorf("joined error = %v", err)
	}
}

func TestSummaryArrayIsBounded(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)
	ctx := context.Background()

	for i := 0; i < MaxSummaries+5; i++ {
		if err := w.Record(ctx, "u1", Result{Type: TypeText, Prompt: "p"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(store.summaries["u1"]); got != MaxSummaries {
		t.Errorf("summaries = %d, want %d", got, MaxSummaries)
	}
}

func TestRecentDefaultsAndValidation(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)
	ctx := context.Background()

	if _, err := w.Recent(ctx, "u1", TypeImage, 0); err != nil {
		t.Fatal(err)
	}
	if store.recentLimit != 5 || store.recentType != TypeImage {
		t.Errorf("Recent called with %s/%d", store.recentType, store.recentLimit)
	}

	if _, err := w.Recent(ctx, "u1", Type("video"), 5); !errors.Is(err, ErrInvalidType) {
		t.Errorf("err = %v, want ErrInvalidType", err)
	}
}

func TestSaveFavorite(t *testing.T) {
	store := newFakeStore()
	w := NewWriter(store, nil)

	rec, err := w.SaveFavorite(context.Background(), "u1", Result{Type: TypeText, Prompt: "p", Result: "r"})
	if err != nil {
		t.Fatal(err)
	}
	if len(store.favorites) != 1 || store.favorites[0].ID != rec.ID {
		t.Errorf("favorites = %+v", store.favorites)
	}
	if len(store.records) != 0 {
		t.Error("favorite must not be written to history")
	}
}
