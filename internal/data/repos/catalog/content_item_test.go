package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
)

func TestContentItemRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewContentItemRepo(db, testutil.Logger(t))

	topic := testutil.SeedTopic(t, ctx, tx, "contenttest-"+uuid.NewString(), 9400)
	module := testutil.SeedModule(t, ctx, tx, topic.ID, 0)
	page := testutil.SeedPage(t, ctx, tx, module.ID, 0, 5)

	quiz := testutil.SeedQuizItem(t, ctx, tx, page.ID, catalog.QuizPayload{
		Question: "q",
		Options: []catalog.QuizOption{
			{ID: "a", Text: "x", Correct: true},
			{ID: "b", Text: "y"},
		},
	})
	quiz.SortOrder = 1
	if err := tx.WithContext(ctx).Save(quiz).Error; err != nil {
		t.Fatalf("reorder quiz item: %v", err)
	}
	scene := &catalog.ContentItem{ID: uuid.New(), PageID: page.ID, Kind: catalog.KindScene, SortOrder: 0, Payload: datatypes.JSON(`{"md":"intro"}`)}
	if err := tx.WithContext(ctx).Create(scene).Error; err != nil {
		t.Fatalf("seed scene item: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, quiz.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Kind != catalog.KindQuiz {
		t.Fatalf("GetByID row: %+v", got)
	}
	if miss, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || miss != nil {
		t.Fatalf("GetByID miss: err=%v row=%+v", err, miss)
	}

	items, err := repo.ListByPageID(ctx, tx, page.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("ListByPageID: err=%v len=%d", err, len(items))
	}
	if items[0].ID != scene.ID || items[1].ID != quiz.ID {
		t.Fatalf("ListByPageID not ordered by sort_order")
	}
}
