package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"

	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

// QuizService records graded answers through the progression aggregate and
// exposes the per-user attempt history.
type QuizService interface {
	SubmitAnswer(ctx context.Context, userID, pageID, quizContentID uuid.UUID, selectedOptionID string) (domainagg.SubmitQuizAnswerResult, error)
	ListAttempts(ctx context.Context, userID, quizContentID uuid.UUID) ([]*progress.QuizAttempt, error)
}

type quizService struct {
	log         *logger.Logger
	progression domainagg.ProgressionAggregate
	attempts    progressrepo.QuizAttemptRepo
}

func NewQuizService(log *logger.Logger, progression domainagg.ProgressionAggregate, attempts progressrepo.QuizAttemptRepo) QuizService {
	return &quizService{
		log:         log.With("service", "QuizService"),
		progression: progression,
		attempts:    attempts,
	}
}

func (s *quizService) SubmitAnswer(ctx context.Context, userID, pageID, quizContentID uuid.UUID, selectedOptionID string) (domainagg.SubmitQuizAnswerResult, error) {
	res, err := s.progression.SubmitQuizAnswer(ctx, domainagg.SubmitQuizAnswerInput{
		UserID:           userID,
		PageID:           pageID,
		QuizContentID:    quizContentID,
		SelectedOptionID: selectedOptionID,
	})
	if err != nil {
		return domainagg.SubmitQuizAnswerResult{}, err
	}

	if m := observability.Current(); m != nil {
		m.IncQuizAnswered(res.IsCorrect)
	}
	s.log.Info("quiz answer recorded",
		"user_id", userID,
		"quiz_content_id", quizContentID,
		"attempt_number", res.AttemptNumber,
		"is_correct", res.IsCorrect,
	)
	return res, nil
}

func (s *quizService) ListAttempts(ctx context.Context, userID, quizContentID uuid.UUID) ([]*progress.QuizAttempt, error) {
	return s.attempts.ListByUserAndQuizContentID(ctx, nil, userID, quizContentID)
}
