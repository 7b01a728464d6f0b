package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
	"github.com/lumenlearn/progression-backend/internal/pkg/dbctx"
)

// maxWriteAttempts bounds the internal retry of serialization conflicts.
// Conflicts past the bound surface as internal errors, never as conflicts.
const maxWriteAttempts = 3

type ProgressionAggregateDeps struct {
	Base BaseDeps

	Pages    catalogrepo.PageRepo
	Modules  catalogrepo.ModuleRepo
	Content  catalogrepo.ContentItemRepo
	Progress progressrepo.UserProgressRepo
	Totals   progressrepo.UserXPTotalRepo
	Attempts progressrepo.QuizAttemptRepo
}

type progressionAggregate struct {
	deps ProgressionAggregateDeps
}

func NewProgressionAggregate(deps ProgressionAggregateDeps) domainagg.ProgressionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &progressionAggregate{deps: deps}
}

func (a *progressionAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressionAggregateContract
}

// CompletePage records a page completion and recomputes the user's XP total
// inside one transaction. The user's xp_total row is locked FOR UPDATE
// first, so duplicate concurrent completions serialize: the loser of the
// race observes the completed row and never re-awards XP.
func (a *progressionAggregate) CompletePage(ctx context.Context, in domainagg.CompletePageInput) (domainagg.CompletePageResult, error) {
	const op = "Progression.CompletePage"
	var out domainagg.CompletePageResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.PageID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing page_id", nil)
	}
	if a.deps.Pages == nil || a.deps.Modules == nil || a.deps.Progress == nil || a.deps.Totals == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progression aggregate repos not configured", nil)
	}

	completedAt := in.CompletedAt.UTC()
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	err := a.writeWithRetry(ctx, op, func(dbc dbctx.Context) error {
		page, err := a.deps.Pages.GetByID(dbc.Ctx, dbc.Tx, in.PageID)
		if err != nil {
			return err
		}
		if page == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("page not found: %s", in.PageID.String()), nil)
		}

		if err := a.deps.Totals.EnsureRow(dbc.Ctx, dbc.Tx, in.UserID); err != nil {
			return err
		}
		if _, err := a.deps.Totals.LockByUserID(dbc.Ctx, dbc.Tx, in.UserID); err != nil {
			return err
		}

		row, err := a.deps.Progress.GetByUserAndPageID(dbc.Ctx, dbc.Tx, in.UserID, page.ID)
		if err != nil {
			return err
		}

		xpEarned := page.XPValue
		alreadyCompleted := row != nil && row.Status == progress.StatusCompleted
		switch {
		case alreadyCompleted:
			// Idempotency gate: return the frozen award, write nothing.
			xpEarned = row.XPEarned
		case row != nil:
			if err := a.deps.Progress.MarkCompleted(dbc.Ctx, dbc.Tx, row.ID, xpEarned, completedAt); err != nil {
				return err
			}
		default:
			fresh := &progress.UserProgress{
				ID:          uuid.New(),
				UserID:      in.UserID,
				PageID:      page.ID,
				Status:      progress.StatusCompleted,
				XPEarned:    xpEarned,
				CompletedAt: &completedAt,
				CreatedAt:   completedAt,
				UpdatedAt:   completedAt,
			}
			if _, err := a.deps.Progress.Create(dbc.Ctx, dbc.Tx, []*progress.UserProgress{fresh}); err != nil {
				return err
			}
		}

		newTotal, err := a.deps.Progress.SumCompletedXP(dbc.Ctx, dbc.Tx, in.UserID)
		if err != nil {
			return err
		}
		if err := a.deps.Totals.UpdateTotal(dbc.Ctx, dbc.Tx, in.UserID, newTotal, completedAt); err != nil {
			return err
		}

		unlocked, err := a.thresholdUnlockedUntouched(dbc, in.UserID, newTotal)
		if err != nil {
			return err
		}

		out = domainagg.CompletePageResult{
			PageID:            page.ID,
			ModuleID:          page.ModuleID,
			XPEarned:          xpEarned,
			NewTotalXP:        newTotal,
			UnlockedModuleIDs: unlocked,
			AlreadyCompleted:  alreadyCompleted,
		}
		return nil
	})
	return out, err
}

// thresholdUnlockedUntouched lists xp_threshold modules whose threshold the
// new total satisfies and on whose pages the user has no progress row at
// all. Deliberately narrow: prerequisite/sequential transitions and
// partially-started modules are not reported.
func (a *progressionAggregate) thresholdUnlockedUntouched(dbc dbctx.Context, userID uuid.UUID, totalXP int) ([]uuid.UUID, error) {
	candidates, err := a.deps.Modules.ListByUnlockPolicy(dbc.Ctx, dbc.Tx, catalog.PolicyXPThreshold)
	if err != nil {
		return nil, err
	}
	eligible := candidates[:0]
	var moduleIDs []uuid.UUID
	for _, m := range candidates {
		if m.UnlockValue <= totalXP {
			eligible = append(eligible, m)
			moduleIDs = append(moduleIDs, m.ID)
		}
	}
	if len(eligible) == 0 {
		return []uuid.UUID{}, nil
	}

	pages, err := a.deps.Pages.ListByModuleIDs(dbc.Ctx, dbc.Tx, moduleIDs)
	if err != nil {
		return nil, err
	}
	pagesByModule := make(map[uuid.UUID][]uuid.UUID, len(eligible))
	var allPageIDs []uuid.UUID
	for _, p := range pages {
		pagesByModule[p.ModuleID] = append(pagesByModule[p.ModuleID], p.ID)
		allPageIDs = append(allPageIDs, p.ID)
	}

	touched := make(map[uuid.UUID]struct{})
	rows, err := a.deps.Progress.ListByUserAndPageIDs(dbc.Ctx, dbc.Tx, userID, allPageIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		touched[r.PageID] = struct{}{}
	}

	unlocked := []uuid.UUID{}
	for _, m := range eligible {
		started := false
		for _, pageID := range pagesByModule[m.ID] {
			if _, ok := touched[pageID]; ok {
				started = true
				break
			}
		}
		if !started {
			unlocked = append(unlocked, m.ID)
		}
	}
	return unlocked, nil
}

// SubmitQuizAnswer judges a submission against catalog data and appends the
// attempt with the next per-(user, quiz) attempt number. The user's xp_total
// row is locked FOR UPDATE before the max-number read, so concurrent
// submissions serialize and each observes the previous winner's row; the
// unique (user_id, quiz_content_id, attempt_number) index is the backstop.
func (a *progressionAggregate) SubmitQuizAnswer(ctx context.Context, in domainagg.SubmitQuizAnswerInput) (domainagg.SubmitQuizAnswerResult, error) {
	const op = "Progression.SubmitQuizAnswer"
	var out domainagg.SubmitQuizAnswerResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.PageID == uuid.Nil || in.QuizContentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing page_id or quiz_content_id", nil)
	}
	if strings.TrimSpace(in.SelectedOptionID) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing selected_option_id", nil)
	}
	if a.deps.Content == nil || a.deps.Attempts == nil || a.deps.Totals == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "progression aggregate repos not configured", nil)
	}

	submittedAt := in.SubmittedAt.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	err := a.writeWithRetry(ctx, op, func(dbc dbctx.Context) error {
		item, err := a.deps.Content.GetByID(dbc.Ctx, dbc.Tx, in.QuizContentID)
		if err != nil {
			return err
		}
		if item == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("quiz content not found: %s", in.QuizContentID.String()), nil)
		}
		if item.PageID != in.PageID {
			return ValidationError("quiz content does not belong to page")
		}

		payload, err := catalog.ParseQuizPayload(item)
		if err != nil {
			return err
		}
		correct := payload.CorrectOption()
		isCorrect := in.SelectedOptionID == correct.ID

		// Serialize number assignment on the user's xp_total row. Without
		// this, N colliding submissions resolve one per unique-index retry
		// round and can exhaust the retry bound.
		if err := a.deps.Totals.EnsureRow(dbc.Ctx, dbc.Tx, in.UserID); err != nil {
			return err
		}
		if _, err := a.deps.Totals.LockByUserID(dbc.Ctx, dbc.Tx, in.UserID); err != nil {
			return err
		}

		maxNumber, err := a.deps.Attempts.GetMaxAttemptNumber(dbc.Ctx, dbc.Tx, in.UserID, in.QuizContentID)
		if err != nil {
			return err
		}

		attempt := &progress.QuizAttempt{
			ID:               uuid.New(),
			UserID:           in.UserID,
			PageID:           in.PageID,
			QuizContentID:    in.QuizContentID,
			SelectedOptionID: in.SelectedOptionID,
			IsCorrect:        isCorrect,
			AttemptNumber:    maxNumber + 1,
			CreatedAt:        submittedAt,
		}
		if _, err := a.deps.Attempts.Create(dbc.Ctx, dbc.Tx, []*progress.QuizAttempt{attempt}); err != nil {
			return err
		}

		out = domainagg.SubmitQuizAnswerResult{
			AttemptID:       attempt.ID,
			AttemptNumber:   attempt.AttemptNumber,
			IsCorrect:       isCorrect,
			CorrectOptionID: correct.ID,
			Explanation:     payload.Explanation,
		}
		return nil
	})
	return out, err
}

// writeWithRetry re-runs the transaction on conflict/retryable outcomes so
// internal serialization races never reach callers.
func (a *progressionAggregate) writeWithRetry(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = executeWrite(ctx, a.deps.Base, op, fn)
		if err == nil {
			return nil
		}
		if !domainagg.IsCode(err, domainagg.CodeConflict) && !domainagg.IsCode(err, domainagg.CodeRetryable) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return domainagg.NewError(domainagg.CodeInternal, op, "write did not converge after retries", err)
}
