package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func TestReflectionRepoUpsertOverwrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewReflectionRepo(db, testutil.Logger(t))

	userID := uuid.New()
	pageID := uuid.New()
	now := time.Now().UTC()

	if got, err := repo.GetByUserAndPageID(ctx, tx, userID, pageID); err != nil || got != nil {
		t.Fatalf("GetByUserAndPageID miss: err=%v row=%+v", err, got)
	}

	first := &progress.Reflection{
		ID:        uuid.New(),
		UserID:    userID,
		PageID:    pageID,
		Text:      "loops click now",
		WordCount: progress.CountWords("loops click now"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second := &progress.Reflection{
		ID:        uuid.New(),
		UserID:    userID,
		PageID:    pageID,
		Text:      "actually range loops still confuse me",
		WordCount: progress.CountWords("actually range loops still confuse me"),
		CreatedAt: now.Add(time.Minute),
		UpdatedAt: now.Add(time.Minute),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}

	got, err := repo.GetByUserAndPageID(ctx, tx, userID, pageID)
	if err != nil {
		t.Fatalf("GetByUserAndPageID: %v", err)
	}
	if got == nil || got.Text != second.Text || got.WordCount != 6 {
		t.Fatalf("overwritten row: %+v", got)
	}
	// Upsert keeps the original row id; only one row exists per (user, page).
	if got.ID != first.ID {
		t.Fatalf("row id changed on overwrite: first=%s got=%s", first.ID, got.ID)
	}
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"  spaced   out  words ", 3},
		{"tabs\tand\nnewlines count", 4},
	}
	for _, tc := range cases {
		if got := progress.CountWords(tc.in); got != tc.want {
			t.Fatalf("CountWords(%q): got=%d want=%d", tc.in, got, tc.want)
		}
	}
}
