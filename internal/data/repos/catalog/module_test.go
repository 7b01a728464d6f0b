package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
)

func TestModuleRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewModuleRepo(db, testutil.Logger(t))

	topic := testutil.SeedTopic(t, ctx, tx, "modtest-"+uuid.NewString(), 9200)
	other := testutil.SeedTopic(t, ctx, tx, "modtest-"+uuid.NewString(), 9201)

	intro := testutil.SeedModule(t, ctx, tx, topic.ID, 0)
	advanced := testutil.SeedSequentialModule(t, ctx, tx, topic.ID, 1)
	gated := testutil.SeedThresholdModule(t, ctx, tx, other.ID, 0, 100)

	got, err := repo.GetByID(ctx, tx, intro.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.TopicID != topic.ID {
		t.Fatalf("GetByID row: %+v", got)
	}

	prev, err := repo.GetByTopicAndSortOrder(ctx, tx, topic.ID, 0)
	if err != nil {
		t.Fatalf("GetByTopicAndSortOrder: %v", err)
	}
	if prev == nil || prev.ID != intro.ID {
		t.Fatalf("GetByTopicAndSortOrder row: %+v", prev)
	}
	if miss, err := repo.GetByTopicAndSortOrder(ctx, tx, topic.ID, 7); err != nil || miss != nil {
		t.Fatalf("GetByTopicAndSortOrder miss: err=%v row=%+v", err, miss)
	}

	inTopic, err := repo.ListByTopicID(ctx, tx, topic.ID)
	if err != nil || len(inTopic) != 2 {
		t.Fatalf("ListByTopicID: err=%v len=%d", err, len(inTopic))
	}
	if inTopic[0].ID != intro.ID || inTopic[1].ID != advanced.ID {
		t.Fatalf("ListByTopicID not ordered by sort_order")
	}

	across, err := repo.ListByTopicIDs(ctx, tx, []uuid.UUID{topic.ID, other.ID})
	if err != nil || len(across) != 3 {
		t.Fatalf("ListByTopicIDs: err=%v len=%d", err, len(across))
	}
	if empty, err := repo.ListByTopicIDs(ctx, tx, nil); err != nil || len(empty) != 0 {
		t.Fatalf("ListByTopicIDs empty ids: err=%v len=%d", err, len(empty))
	}

	thresholds, err := repo.ListByUnlockPolicy(ctx, tx, catalog.PolicyXPThreshold)
	if err != nil {
		t.Fatalf("ListByUnlockPolicy: %v", err)
	}
	found := false
	for _, m := range thresholds {
		if m.ID == gated.ID {
			found = true
		}
		if m.UnlockPolicy != catalog.PolicyXPThreshold {
			t.Fatalf("ListByUnlockPolicy returned policy %q", m.UnlockPolicy)
		}
	}
	if !found {
		t.Fatalf("ListByUnlockPolicy missing seeded module")
	}
}
