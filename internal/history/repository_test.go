package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestRepositoryAppendRecord(t *testing.T) {
	repo, mock := newMockRepository(t)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO generation_history`).
		WithArgs("r1", "u1", "image", "cat", "https://img", "flux", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AppendRecord(context.Background(), Record{
		ID: "r1", UserID: "u1", Type: TypeImage, Prompt: "cat", Result: "https://img", Model: "flux", CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("AppendRecord: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepositoryAppendSummaryBoundsArray(t *testing.T) {
	repo, mock := newMockRepository(t)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO user_profiles .* LIMIT \$3`).
		WithArgs("u1", `{"type":"text","prompt":"hi","timestamp":"2026-05-01T09:00:00Z"}`, MaxSummaries).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AppendSummary(context.Background(), "u1", Summary{Type: TypeText, Prompt: "hi", OccurredAt: at}, MaxSummaries)
	if err != nil {
		t.Fatalf("AppendSummary: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRepositorySummaries(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT generation_history FROM user_profiles`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"generation_history"}).
			AddRow([]byte(`[{"type":"image","prompt":"cat","timestamp":"2026-05-01T09:00:00Z"}]`)))

	sums, err := repo.Summaries(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(sums) != 1 || sums[0].Type != TypeImage || sums[0].Prompt != "cat" {
		t.Errorf("summaries = %+v", sums)
	}
}

func TestRepositorySummariesMissingProfile(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT generation_history`).WillReturnError(sql.ErrNoRows)

	sums, err := repo.Summaries(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(sums) != 0 {
		t.Errorf("summaries = %+v, want empty", sums)
	}
}

func TestRepositoryRecent(t *testing.T) {
	repo, mock := newMockRepository(t)
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM generation_history\s+WHERE user_id = \$1 AND type = \$2`).
		WithArgs("u1", "text", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "prompt", "result", "model", "created_at"}).
			AddRow("r1", "u1", "text", "p", "r", "", at))

	recs, err := repo.Recent(context.Background(), "u1", TypeText, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 || recs[0].Type != TypeText || recs[0].Result != "r" {
		t.Errorf("records = %+v", recs)
	}
}
