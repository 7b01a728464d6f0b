package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func TestQuizAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	userID := uuid.New()
	pageID := uuid.New()
	quizID := uuid.New()
	now := time.Now().UTC()

	if n, err := repo.GetMaxAttemptNumber(ctx, tx, userID, quizID); err != nil || n != 0 {
		t.Fatalf("GetMaxAttemptNumber empty: err=%v n=%d", err, n)
	}

	attempts := []*progress.QuizAttempt{
		{ID: uuid.New(), UserID: userID, PageID: pageID, QuizContentID: quizID, SelectedOptionID: "a", IsCorrect: false, AttemptNumber: 1, CreatedAt: now},
		{ID: uuid.New(), UserID: userID, PageID: pageID, QuizContentID: quizID, SelectedOptionID: "b", IsCorrect: true, AttemptNumber: 2, CreatedAt: now.Add(time.Second)},
	}
	if _, err := repo.Create(ctx, tx, attempts); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if n, err := repo.GetMaxAttemptNumber(ctx, tx, userID, quizID); err != nil || n != 2 {
		t.Fatalf("GetMaxAttemptNumber: err=%v n=%d", err, n)
	}

	rows, err := repo.ListByUserAndQuizContentID(ctx, tx, userID, quizID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserAndQuizContentID: err=%v len=%d", err, len(rows))
	}
	if rows[0].AttemptNumber != 1 || rows[1].AttemptNumber != 2 {
		t.Fatalf("attempts not ordered by number: %d, %d", rows[0].AttemptNumber, rows[1].AttemptNumber)
	}

	if rows, err := repo.ListByUserAndPageID(ctx, tx, userID, pageID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserAndPageID: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByUserAndQuizContentID(ctx, tx, uuid.New(), quizID); err != nil || len(rows) != 0 {
		t.Fatalf("ListByUserAndQuizContentID other user: err=%v len=%d", err, len(rows))
	}
}

func TestQuizAttemptRepoDuplicateNumberRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuizAttemptRepo(db, testutil.Logger(t))

	userID := uuid.New()
	pageID := uuid.New()
	quizID := uuid.New()
	now := time.Now().UTC()

	first := &progress.QuizAttempt{ID: uuid.New(), UserID: userID, PageID: pageID, QuizContentID: quizID, SelectedOptionID: "a", AttemptNumber: 1, CreatedAt: now}
	if _, err := repo.Create(ctx, tx, []*progress.QuizAttempt{first}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &progress.QuizAttempt{ID: uuid.New(), UserID: userID, PageID: pageID, QuizContentID: quizID, SelectedOptionID: "b", AttemptNumber: 1, CreatedAt: now}
	if _, err := repo.Create(ctx, tx, []*progress.QuizAttempt{dup}); err == nil {
		t.Fatalf("expected unique index to reject duplicate attempt number")
	}
}
