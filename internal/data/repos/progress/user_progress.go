package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/progress"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type UserProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*progress.UserProgress) ([]*progress.UserProgress, error)
	GetByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) (*progress.UserProgress, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*progress.UserProgress, error)
	ListByUserAndPageIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pageIDs []uuid.UUID) ([]*progress.UserProgress, error)
	ListCompletedPageIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	SumCompletedXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	ListDistinctUserIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, xpEarned int, completedAt time.Time) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

func (r *userProgressRepo) Create(ctx context.Context, tx *gorm.DB, rows []*progress.UserProgress) ([]*progress.UserProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*progress.UserProgress{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepo) GetByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) (*progress.UserProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || pageID == uuid.Nil {
		return nil, nil
	}
	var row progress.UserProgress
	if err := t.WithContext(ctx).
		Where("user_id = ? AND page_id = ?", userID, pageID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userProgressRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*progress.UserProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*progress.UserProgress
	if userID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepo) ListByUserAndPageIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pageIDs []uuid.UUID) ([]*progress.UserProgress, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*progress.UserProgress
	if userID == uuid.Nil || len(pageIDs) == 0 {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ? AND page_id IN ?", userID, pageIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userProgressRepo) ListCompletedPageIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if userID == uuid.Nil {
		return ids, nil
	}
	if err := t.WithContext(ctx).
		Model(&progress.UserProgress{}).
		Where("user_id = ? AND status = ?", userID, progress.StatusCompleted).
		Pluck("page_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userProgressRepo) SumCompletedXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return 0, nil
	}
	var sum int
	if err := t.WithContext(ctx).
		Model(&progress.UserProgress{}).
		Select("COALESCE(SUM(xp_earned), 0)").
		Where("user_id = ? AND status = ?", userID, progress.StatusCompleted).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *userProgressRepo) ListDistinctUserIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var ids []uuid.UUID
	if err := t.WithContext(ctx).
		Model(&progress.UserProgress{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userProgressRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, xpEarned int, completedAt time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&progress.UserProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       progress.StatusCompleted,
			"xp_earned":    xpEarned,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		}).Error
}
