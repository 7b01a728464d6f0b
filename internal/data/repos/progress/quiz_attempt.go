package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/progress"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type QuizAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*progress.QuizAttempt) ([]*progress.QuizAttempt, error)
	GetMaxAttemptNumber(ctx context.Context, tx *gorm.DB, userID, quizContentID uuid.UUID) (int, error)
	ListByUserAndQuizContentID(ctx context.Context, tx *gorm.DB, userID, quizContentID uuid.UUID) ([]*progress.QuizAttempt, error)
	ListByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) ([]*progress.QuizAttempt, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*progress.QuizAttempt) ([]*progress.QuizAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(attempts) == 0 {
		return []*progress.QuizAttempt{}, nil
	}
	if err := t.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *quizAttemptRepo) GetMaxAttemptNumber(ctx context.Context, tx *gorm.DB, userID, quizContentID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || quizContentID == uuid.Nil {
		return 0, nil
	}
	var max int
	if err := t.WithContext(ctx).
		Model(&progress.QuizAttempt{}).
		Select("COALESCE(MAX(attempt_number), 0)").
		Where("user_id = ? AND quiz_content_id = ?", userID, quizContentID).
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *quizAttemptRepo) ListByUserAndQuizContentID(ctx context.Context, tx *gorm.DB, userID, quizContentID uuid.UUID) ([]*progress.QuizAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*progress.QuizAttempt
	if userID == uuid.Nil || quizContentID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ? AND quiz_content_id = ?", userID, quizContentID).
		Order("attempt_number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *quizAttemptRepo) ListByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) ([]*progress.QuizAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*progress.QuizAttempt
	if userID == uuid.Nil || pageID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ? AND page_id = ?", userID, pageID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
