package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumenlearn/progression-backend/internal/domain/progress"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type UserXPTotalRepo interface {
	// EnsureRow creates the user's total row with 0 XP when absent.
	EnsureRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	// LockByUserID takes a FOR UPDATE lock on the user's total row. Callers
	// must hold a transaction; the lock serializes per-user progression writes.
	LockByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progress.UserXPTotal, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progress.UserXPTotal, error)
	UpdateTotal(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalXP int, at time.Time) error
}

type userXPTotalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserXPTotalRepo(db *gorm.DB, baseLog *logger.Logger) UserXPTotalRepo {
	return &userXPTotalRepo{db: db, log: baseLog.With("repo", "UserXPTotalRepo")}
}

func (r *userXPTotalRepo) EnsureRow(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	row := &progress.UserXPTotal{UserID: userID, TotalXP: 0, UpdatedAt: time.Now().UTC()}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *userXPTotalRepo) LockByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progress.UserXPTotal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row progress.UserXPTotal
	err := t.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userXPTotalRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*progress.UserXPTotal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var row progress.UserXPTotal
	if err := t.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userXPTotalRepo) UpdateTotal(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalXP int, at time.Time) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&progress.UserXPTotal{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"total_xp":   totalXP,
			"updated_at": at,
		}).Error
}
