package progress

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumenlearn/progression-backend/internal/domain/progress"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type ReflectionRepo interface {
	// Upsert inserts or overwrites the single reflection for (user, page).
	Upsert(ctx context.Context, tx *gorm.DB, row *progress.Reflection) error
	GetByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) (*progress.Reflection, error)
}

type reflectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionRepo {
	return &reflectionRepo{db: db, log: baseLog.With("repo", "ReflectionRepo")}
}

func (r *reflectionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *progress.Reflection) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.PageID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "page_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"text",
				"word_count",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *reflectionRepo) GetByUserAndPageID(ctx context.Context, tx *gorm.DB, userID, pageID uuid.UUID) (*progress.Reflection, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || pageID == uuid.Nil {
		return nil, nil
	}
	var row progress.Reflection
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
