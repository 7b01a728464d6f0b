package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, sortOrder int) *catalog.Topic {
	tb.Helper()
	t := &catalog.Topic{
		ID:           uuid.New(),
		Slug:         slug,
		Title:        slug,
		SortOrder:    sortOrder,
		UnlockPolicy: catalog.PolicyFree,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder int) *catalog.Module {
	tb.Helper()
	return seedModule(tb, ctx, tx, &catalog.Module{
		TopicID:      topicID,
		SortOrder:    sortOrder,
		UnlockPolicy: catalog.PolicyFree,
	})
}

func SeedThresholdModule(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder, threshold int) *catalog.Module {
	tb.Helper()
	return seedModule(tb, ctx, tx, &catalog.Module{
		TopicID:      topicID,
		SortOrder:    sortOrder,
		UnlockPolicy: catalog.PolicyXPThreshold,
		UnlockValue:  threshold,
	})
}

func SeedSequentialModule(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder int) *catalog.Module {
	tb.Helper()
	return seedModule(tb, ctx, tx, &catalog.Module{
		TopicID:      topicID,
		SortOrder:    sortOrder,
		UnlockPolicy: catalog.PolicySequential,
	})
}

func SeedPrereqModule(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder int, prereqID uuid.UUID) *catalog.Module {
	tb.Helper()
	return seedModule(tb, ctx, tx, &catalog.Module{
		TopicID:              topicID,
		SortOrder:            sortOrder,
		UnlockPolicy:         catalog.PolicyPrerequisite,
		PrerequisiteModuleID: &prereqID,
	})
}

func seedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, m *catalog.Module) *catalog.Module {
	tb.Helper()
	m.ID = uuid.New()
	if m.Title == "" {
		m.Title = "module"
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedPage(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, sortOrder, xp int) *catalog.Page {
	tb.Helper()
	p := &catalog.Page{
		ID:        uuid.New(),
		ModuleID:  moduleID,
		Title:     "page",
		SortOrder: sortOrder,
		XPValue:   xp,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed page: %v", err)
	}
	return p
}

func SeedQuizItem(tb testing.TB, ctx context.Context, tx *gorm.DB, pageID uuid.UUID, payload catalog.QuizPayload) *catalog.ContentItem {
	tb.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		tb.Fatalf("marshal quiz payload: %v", err)
	}
	item := &catalog.ContentItem{
		ID:      uuid.New(),
		PageID:  pageID,
		Kind:    catalog.KindQuiz,
		Payload: datatypes.JSON(raw),
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed quiz item: %v", err)
	}
	return item
}

func SeedCompletedPage(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID, xp int) *progress.UserProgress {
	tb.Helper()
	now := time.Now().UTC()
	row := &progress.UserProgress{
		ID:          uuid.New(),
		UserID:      userID,
		PageID:      pageID,
		Status:      progress.StatusCompleted,
		XPEarned:    xp,
		CompletedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed completed page: %v", err)
	}
	return row
}

func SeedInProgressPage(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) *progress.UserProgress {
	tb.Helper()
	row := &progress.UserProgress{
		ID:     uuid.New(),
		UserID: userID,
		PageID: pageID,
		Status: progress.StatusInProgress,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed in-progress page: %v", err)
	}
	return row
}
