package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ProgressionAggregateContract = Contract{
	Name:             "Progression.ProgressionAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns exactly-once XP award per page completion and gapless per-(user, quiz) attempt sequencing.",
}

// ProgressionAggregate owns the two progression writes with real
// concurrency hazards: page completion (XP awarded exactly once, total
// recomputed transactionally) and quiz attempt sequencing (attempt numbers
// 1..N with no gaps or duplicates under concurrent submissions).
//
// Write method failures return *aggregates.Error; conflict/retryable codes
// are resolved internally and never reach callers.
type ProgressionAggregate interface {
	Aggregate

	CompletePage(ctx context.Context, in CompletePageInput) (CompletePageResult, error)
	SubmitQuizAnswer(ctx context.Context, in SubmitQuizAnswerInput) (SubmitQuizAnswerResult, error)
}

type CompletePageInput struct {
	UserID uuid.UUID
	PageID uuid.UUID
	// CompletedAt defaults to now when zero.
	CompletedAt time.Time
}

type CompletePageResult struct {
	PageID     uuid.UUID
	ModuleID   uuid.UUID
	XPEarned   int
	NewTotalXP int
	// UnlockedModuleIDs lists xp_threshold modules whose threshold the new
	// total satisfies and that the user has not touched at all. Prerequisite
	// and sequential transitions are deliberately not reported here.
	UnlockedModuleIDs []uuid.UUID
	// AlreadyCompleted is true when this call was an idempotent repeat.
	AlreadyCompleted bool
}

type SubmitQuizAnswerInput struct {
	UserID           uuid.UUID
	PageID           uuid.UUID
	QuizContentID    uuid.UUID
	SelectedOptionID string
	// SubmittedAt defaults to now when zero.
	SubmittedAt time.Time
}

type SubmitQuizAnswerResult struct {
	AttemptID       uuid.UUID
	AttemptNumber   int
	IsCorrect       bool
	CorrectOptionID string
	Explanation     string
}
