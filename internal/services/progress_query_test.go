package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

func modulePage(xp int) *catalog.Page {
	return &catalog.Page{ID: uuid.New(), XPValue: xp}
}

func completedRow(pageID uuid.UUID, xp int) *progress.UserProgress {
	return &progress.UserProgress{ID: uuid.New(), UserID: uuid.New(), PageID: pageID, Status: progress.StatusCompleted, XPEarned: xp}
}

func TestComputeModuleProgress_PercentRoundsToOneDecimal(t *testing.T) {
	moduleID := uuid.New()
	pages := []*catalog.Page{modulePage(10), modulePage(10), modulePage(10)}

	out := computeModuleProgress(moduleID, pages, []*progress.UserProgress{completedRow(pages[0].ID, 10)})
	if out.TotalPages != 3 || out.CompletedPages != 1 {
		t.Fatalf("counts: %+v", out)
	}
	if out.Percent == nil || *out.Percent != 33.3 {
		t.Fatalf("percent: %v", out.Percent)
	}
	if out.IsComplete {
		t.Fatalf("one of three pages should not be complete")
	}

	out = computeModuleProgress(moduleID, pages, []*progress.UserProgress{
		completedRow(pages[0].ID, 10), completedRow(pages[1].ID, 10),
	})
	if out.Percent == nil || *out.Percent != 66.7 {
		t.Fatalf("percent: %v", out.Percent)
	}
}

func TestComputeModuleProgress_SumsAvailableAndEarnedXP(t *testing.T) {
	moduleID := uuid.New()
	pages := []*catalog.Page{modulePage(10), modulePage(15), modulePage(25)}

	out := computeModuleProgress(moduleID, pages, []*progress.UserProgress{
		completedRow(pages[0].ID, 10), completedRow(pages[1].ID, 15),
	})
	if out.XPAvailable != 50 {
		t.Fatalf("xp_available: got %d, want 50", out.XPAvailable)
	}
	if out.XPEarned != 25 {
		t.Fatalf("xp_earned: got %d, want 25", out.XPEarned)
	}
}

func TestComputeModuleProgress_AllPagesComplete(t *testing.T) {
	moduleID := uuid.New()
	pages := []*catalog.Page{modulePage(20), modulePage(20)}

	out := computeModuleProgress(moduleID, pages, []*progress.UserProgress{
		completedRow(pages[0].ID, 20), completedRow(pages[1].ID, 20),
	})
	if out.Percent == nil || *out.Percent != 100.0 {
		t.Fatalf("percent: %v", out.Percent)
	}
	if !out.IsComplete {
		t.Fatalf("expected complete")
	}
	if out.XPEarned != out.XPAvailable || out.XPEarned != 40 {
		t.Fatalf("xp: earned %d, available %d", out.XPEarned, out.XPAvailable)
	}
}

func TestComputeModuleProgress_ZeroPagesHasNilPercent(t *testing.T) {
	out := computeModuleProgress(uuid.New(), nil, nil)
	if out.Percent != nil {
		t.Fatalf("expected nil percent for a pageless module, got %v", *out.Percent)
	}
	if out.IsComplete {
		t.Fatalf("a pageless module is never complete")
	}
	if out.TotalPages != 0 || out.CompletedPages != 0 || out.XPAvailable != 0 || out.XPEarned != 0 {
		t.Fatalf("counts: %+v", out)
	}
}

func TestComputeModuleProgress_IgnoresForeignAndIncompleteRows(t *testing.T) {
	moduleID := uuid.New()
	pages := []*catalog.Page{modulePage(10), modulePage(10)}

	inProgress := &progress.UserProgress{ID: uuid.New(), PageID: pages[0].ID, Status: progress.StatusInProgress}
	foreign := completedRow(uuid.New(), 99)

	out := computeModuleProgress(moduleID, pages, []*progress.UserProgress{inProgress, foreign})
	if out.CompletedPages != 0 || out.XPEarned != 0 {
		t.Fatalf("in_progress and out-of-module rows must not count: %+v", out)
	}
	if out.XPAvailable != 20 {
		t.Fatalf("xp_available: got %d, want 20", out.XPAvailable)
	}
	if out.Percent == nil || *out.Percent != 0.0 {
		t.Fatalf("percent: %v", out.Percent)
	}
}
