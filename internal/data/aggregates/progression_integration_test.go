package aggregates

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	repotest "github.com/lumenlearn/progression-backend/internal/data/repos/testutil"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

type progressionTestEnv struct {
	db       *gorm.DB
	agg      domainagg.ProgressionAggregate
	progress progressrepo.UserProgressRepo
	totals   progressrepo.UserXPTotalRepo
	attempts progressrepo.QuizAttemptRepo
}

func newProgressionTestEnv(t *testing.T) progressionTestEnv {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	pr := progressrepo.NewUserProgressRepo(db, log)
	totals := progressrepo.NewUserXPTotalRepo(db, log)
	attempts := progressrepo.NewQuizAttemptRepo(db, log)

	agg := NewProgressionAggregate(ProgressionAggregateDeps{
		Base: BaseDeps{
			DB:     db,
			Log:    log,
			Runner: NewGormTxRunner(db),
		},
		Pages:    catalogrepo.NewPageRepo(db, log),
		Modules:  catalogrepo.NewModuleRepo(db, log),
		Content:  catalogrepo.NewContentItemRepo(db, log),
		Progress: pr,
		Totals:   totals,
		Attempts: attempts,
	})

	return progressionTestEnv{db: db, agg: agg, progress: pr, totals: totals, attempts: attempts}
}

// seedModule creates a topic with one module and n pages worth xpEach.
// Rows are committed, so cleanup is explicit.
func seedModule(t *testing.T, ctx context.Context, db *gorm.DB, policy catalog.UnlockPolicy, unlockValue, n, xpEach int) (*catalog.Module, []*catalog.Page) {
	t.Helper()

	topic := repotest.SeedTopic(t, ctx, db, "t-"+uuid.NewString(), 0)
	var module *catalog.Module
	if policy == catalog.PolicyXPThreshold {
		module = repotest.SeedThresholdModule(t, ctx, db, topic.ID, 0, unlockValue)
	} else {
		module = repotest.SeedModule(t, ctx, db, topic.ID, 0)
	}
	pages := make([]*catalog.Page, 0, n)
	for i := 0; i < n; i++ {
		pages = append(pages, repotest.SeedPage(t, ctx, db, module.ID, i, xpEach))
	}

	t.Cleanup(func() {
		_ = db.WithContext(ctx).Where("module_id = ?", module.ID).Delete(&catalog.Page{}).Error
		_ = db.WithContext(ctx).Where("id = ?", module.ID).Delete(&catalog.Module{}).Error
		_ = db.WithContext(ctx).Where("id = ?", topic.ID).Delete(&catalog.Topic{}).Error
	})
	return module, pages
}

func cleanupUser(t *testing.T, ctx context.Context, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	t.Cleanup(func() {
		_ = db.WithContext(ctx).Where("user_id = ?", userID).Delete(&progress.QuizAttempt{}).Error
		_ = db.WithContext(ctx).Where("user_id = ?", userID).Delete(&progress.UserProgress{}).Error
		_ = db.WithContext(ctx).Where("user_id = ?", userID).Delete(&progress.UserXPTotal{}).Error
	})
}

func TestProgressionCompletePageAwardsOnceOnRepeat(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 10)
	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	first, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pages[0].ID})
	if err != nil {
		t.Fatalf("CompletePage: %v", err)
	}
	if first.AlreadyCompleted {
		t.Fatalf("first completion flagged as repeat")
	}
	if first.XPEarned != 10 || first.NewTotalXP != 10 {
		t.Fatalf("first completion award: xp=%d total=%d", first.XPEarned, first.NewTotalXP)
	}

	second, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pages[0].ID})
	if err != nil {
		t.Fatalf("repeat CompletePage: %v", err)
	}
	if !second.AlreadyCompleted {
		t.Fatalf("repeat completion not flagged")
	}
	if second.XPEarned != first.XPEarned || second.NewTotalXP != first.NewTotalXP {
		t.Fatalf("repeat changed the award: first=%+v second=%+v", first, second)
	}

	total, err := env.totals.GetByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if total == nil || total.TotalXP != 10 {
		t.Fatalf("materialized total after repeat: got=%+v", total)
	}
}

func TestProgressionCompletePageConcurrentSamePage(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 25)
	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	const workers = 8
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pages[0].ID})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent CompletePage: %v", err)
	}

	sum, err := env.progress.SumCompletedXP(ctx, nil, userID)
	if err != nil {
		t.Fatalf("SumCompletedXP: %v", err)
	}
	if sum != 25 {
		t.Fatalf("xp awarded more than once: sum=%d", sum)
	}
	total, err := env.totals.GetByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if total == nil || total.TotalXP != 25 {
		t.Fatalf("materialized total drifted: got=%+v", total)
	}
}

func TestProgressionCompletePageConcurrentDistinctPages(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 6, 10)
	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	var g errgroup.Group
	for _, p := range pages {
		pageID := p.ID
		g.Go(func() error {
			_, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pageID})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent CompletePage: %v", err)
	}

	total, err := env.totals.GetByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if total == nil || total.TotalXP != 60 {
		t.Fatalf("total after 6 distinct completions: got=%+v want 60", total)
	}
}

func TestProgressionCompletePageReportsThresholdUnlocks(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 15)
	locked, _ := seedModule(t, ctx, env.db, catalog.PolicyXPThreshold, 15, 2, 5)
	outOfReach, _ := seedModule(t, ctx, env.db, catalog.PolicyXPThreshold, 1000, 1, 5)

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	res, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pages[0].ID})
	if err != nil {
		t.Fatalf("CompletePage: %v", err)
	}
	if res.NewTotalXP != 15 {
		t.Fatalf("total: got=%d want=15", res.NewTotalXP)
	}

	found := false
	for _, id := range res.UnlockedModuleIDs {
		if id == outOfReach.ID {
			t.Fatalf("module above threshold reported unlocked")
		}
		if id == locked.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("threshold module missing from unlocked ids: %v", res.UnlockedModuleIDs)
	}
}

func TestProgressionCompletePageUnknownPage(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	_, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func seedQuizItem(t *testing.T, ctx context.Context, db *gorm.DB, pageID uuid.UUID, payload catalog.QuizPayload) *catalog.ContentItem {
	t.Helper()
	item := repotest.SeedQuizItem(t, ctx, db, pageID, payload)
	t.Cleanup(func() {
		_ = db.WithContext(ctx).Where("id = ?", item.ID).Delete(&catalog.ContentItem{}).Error
	})
	return item
}

var validQuizPayload = catalog.QuizPayload{
	Question: "Which clause filters rows?",
	Options: []catalog.QuizOption{
		{ID: "a", Text: "WHERE", Correct: true},
		{ID: "b", Text: "ORDER BY"},
	},
	Explanation: "WHERE filters before aggregation.",
}

func TestProgressionSubmitQuizAnswerJudgesAndSequences(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 10)
	item := seedQuizItem(t, ctx, env.db, pages[0].ID, validQuizPayload)

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	wrong, err := env.agg.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
		UserID:           userID,
		PageID:           pages[0].ID,
		QuizContentID:    item.ID,
		SelectedOptionID: "b",
	})
	if err != nil {
		t.Fatalf("SubmitQuizAnswer: %v", err)
	}
	if wrong.IsCorrect {
		t.Fatalf("wrong answer judged correct")
	}
	if wrong.CorrectOptionID != "a" {
		t.Fatalf("correct option id: got=%q", wrong.CorrectOptionID)
	}
	if wrong.AttemptNumber != 1 {
		t.Fatalf("first attempt number: got=%d", wrong.AttemptNumber)
	}
	if wrong.Explanation == "" {
		t.Fatalf("explanation not carried through")
	}

	right, err := env.agg.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
		UserID:           userID,
		PageID:           pages[0].ID,
		QuizContentID:    item.ID,
		SelectedOptionID: "a",
	})
	if err != nil {
		t.Fatalf("SubmitQuizAnswer: %v", err)
	}
	if !right.IsCorrect || right.AttemptNumber != 2 {
		t.Fatalf("second attempt: %+v", right)
	}
}

func TestProgressionSubmitQuizAnswerConcurrentGaplessNumbers(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 10)
	item := seedQuizItem(t, ctx, env.db, pages[0].ID, validQuizPayload)

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	// Well past the internal retry bound: every submission must succeed,
	// not just win a unique-index retry round.
	const workers = 12
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := env.agg.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
				UserID:           userID,
				PageID:           pages[0].ID,
				QuizContentID:    item.ID,
				SelectedOptionID: "a",
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent SubmitQuizAnswer: %v", err)
	}

	rows, err := env.attempts.ListByUserAndQuizContentID(ctx, nil, userID, item.ID)
	if err != nil {
		t.Fatalf("ListByUserAndQuizContentID: %v", err)
	}
	if len(rows) != workers {
		t.Fatalf("attempt count: got=%d want=%d", len(rows), workers)
	}
	numbers := make([]int, 0, len(rows))
	for _, r := range rows {
		numbers = append(numbers, r.AttemptNumber)
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		if n != i+1 {
			t.Fatalf("attempt numbers not gapless: %v", numbers)
		}
	}
}

func TestProgressionSubmitQuizAnswerRejectsWrongPage(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 2, 10)
	item := seedQuizItem(t, ctx, env.db, pages[0].ID, validQuizPayload)

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	_, err := env.agg.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
		UserID:           userID,
		PageID:           pages[1].ID,
		QuizContentID:    item.ID,
		SelectedOptionID: "a",
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProgressionSubmitQuizAnswerSurfacesContentDefect(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 10)
	item := seedQuizItem(t, ctx, env.db, pages[0].ID, catalog.QuizPayload{
		Question: "q",
		Options: []catalog.QuizOption{
			{ID: "a", Text: "x"},
			{ID: "b", Text: "y"},
		},
	})

	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	_, err := env.agg.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
		UserID:           userID,
		PageID:           pages[0].ID,
		QuizContentID:    item.ID,
		SelectedOptionID: "a",
	})
	if !domainagg.IsCode(err, domainagg.CodeContent) {
		t.Fatalf("expected content_error, got %v", err)
	}
}

func TestProgressionCompletePageDefaultsCompletedAt(t *testing.T) {
	env := newProgressionTestEnv(t)
	ctx := context.Background()

	_, pages := seedModule(t, ctx, env.db, catalog.PolicyFree, 0, 1, 5)
	userID := uuid.New()
	cleanupUser(t, ctx, env.db, userID)

	before := time.Now().UTC().Add(-time.Minute)
	if _, err := env.agg.CompletePage(ctx, domainagg.CompletePageInput{UserID: userID, PageID: pages[0].ID}); err != nil {
		t.Fatalf("CompletePage: %v", err)
	}

	row, err := env.progress.GetByUserAndPageID(ctx, nil, userID, pages[0].ID)
	if err != nil {
		t.Fatalf("GetByUserAndPageID: %v", err)
	}
	if row == nil || row.CompletedAt == nil || row.CompletedAt.Before(before) {
		t.Fatalf("completed_at not defaulted: %+v", row)
	}
}
