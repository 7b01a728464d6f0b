package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func TestUserProgressRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewUserProgressRepo(db, testutil.Logger(t))

	userID := uuid.New()
	pageA, pageB, pageC := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()

	rows := []*progress.UserProgress{
		{ID: uuid.New(), UserID: userID, PageID: pageA, Status: progress.StatusCompleted, XPEarned: 10, CompletedAt: &now, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), UserID: userID, PageID: pageB, Status: progress.StatusInProgress, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByUserAndPageID(ctx, tx, userID, pageA)
	if err != nil {
		t.Fatalf("GetByUserAndPageID: %v", err)
	}
	if got == nil || got.XPEarned != 10 || got.Status != progress.StatusCompleted {
		t.Fatalf("GetByUserAndPageID row: %+v", got)
	}

	if got, err := repo.GetByUserAndPageID(ctx, tx, userID, pageC); err != nil || got != nil {
		t.Fatalf("GetByUserAndPageID miss: err=%v row=%+v", err, got)
	}

	if all, err := repo.ListByUserID(ctx, tx, userID); err != nil || len(all) != 2 {
		t.Fatalf("ListByUserID: err=%v len=%d", err, len(all))
	}

	subset, err := repo.ListByUserAndPageIDs(ctx, tx, userID, []uuid.UUID{pageA, pageC})
	if err != nil || len(subset) != 1 {
		t.Fatalf("ListByUserAndPageIDs: err=%v len=%d", err, len(subset))
	}
	if empty, err := repo.ListByUserAndPageIDs(ctx, tx, userID, nil); err != nil || len(empty) != 0 {
		t.Fatalf("ListByUserAndPageIDs empty ids: err=%v len=%d", err, len(empty))
	}

	// Only completed rows count toward XP or the completed page set.
	completedIDs, err := repo.ListCompletedPageIDs(ctx, tx, userID)
	if err != nil || len(completedIDs) != 1 || completedIDs[0] != pageA {
		t.Fatalf("ListCompletedPageIDs: err=%v ids=%v", err, completedIDs)
	}
	if sum, err := repo.SumCompletedXP(ctx, tx, userID); err != nil || sum != 10 {
		t.Fatalf("SumCompletedXP: err=%v sum=%d", err, sum)
	}

	completedAt := now.Add(time.Minute)
	if err := repo.MarkCompleted(ctx, tx, rows[1].ID, 5, completedAt); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if sum, err := repo.SumCompletedXP(ctx, tx, userID); err != nil || sum != 15 {
		t.Fatalf("SumCompletedXP after MarkCompleted: err=%v sum=%d", err, sum)
	}

	userIDs, err := repo.ListDistinctUserIDs(ctx, tx)
	if err != nil {
		t.Fatalf("ListDistinctUserIDs: %v", err)
	}
	found := false
	for _, id := range userIDs {
		if id == userID {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("ListDistinctUserIDs missing seeded user")
	}
}

func TestUserProgressRepoSumForUnknownUserIsZero(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserProgressRepo(db, testutil.Logger(t))
	sum, err := repo.SumCompletedXP(context.Background(), tx, uuid.New())
	if err != nil || sum != 0 {
		t.Fatalf("SumCompletedXP unknown user: err=%v sum=%d", err, sum)
	}
}
