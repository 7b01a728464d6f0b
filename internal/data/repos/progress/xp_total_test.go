package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
)

func TestUserXPTotalRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewUserXPTotalRepo(db, testutil.Logger(t))

	userID := uuid.New()

	if got, err := repo.GetByUserID(ctx, tx, userID); err != nil || got != nil {
		t.Fatalf("GetByUserID before EnsureRow: err=%v row=%+v", err, got)
	}

	if err := repo.EnsureRow(ctx, tx, userID); err != nil {
		t.Fatalf("EnsureRow: %v", err)
	}
	// EnsureRow is idempotent.
	if err := repo.EnsureRow(ctx, tx, userID); err != nil {
		t.Fatalf("EnsureRow repeat: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got == nil || got.TotalXP != 0 {
		t.Fatalf("fresh total row: %+v", got)
	}

	locked, err := repo.LockByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("LockByUserID: %v", err)
	}
	if locked == nil || locked.UserID != userID {
		t.Fatalf("locked row: %+v", locked)
	}

	at := time.Now().UTC()
	if err := repo.UpdateTotal(ctx, tx, userID, 40, at); err != nil {
		t.Fatalf("UpdateTotal: %v", err)
	}
	got, err = repo.GetByUserID(ctx, tx, userID)
	if err != nil || got == nil || got.TotalXP != 40 {
		t.Fatalf("total after update: err=%v row=%+v", err, got)
	}
}
