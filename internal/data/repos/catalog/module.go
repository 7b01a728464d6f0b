package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type ModuleRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Module, error)
	GetByTopicAndSortOrder(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder int) (*catalog.Module, error)
	ListByTopicID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) ([]*catalog.Module, error)
	ListByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*catalog.Module, error)
	ListByUnlockPolicy(ctx context.Context, tx *gorm.DB, policy catalog.UnlockPolicy) ([]*catalog.Module, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row catalog.Module
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *moduleRepo) GetByTopicAndSortOrder(ctx context.Context, tx *gorm.DB, topicID uuid.UUID, sortOrder int) (*catalog.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if topicID == uuid.Nil {
		return nil, nil
	}
	var row catalog.Module
	if err := t.WithContext(ctx).
		Where("topic_id = ? AND sort_order = ?", topicID, sortOrder).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *moduleRepo) ListByTopicID(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) ([]*catalog.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Module
	if topicID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *moduleRepo) ListByTopicIDs(ctx context.Context, tx *gorm.DB, topicIDs []uuid.UUID) ([]*catalog.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Module
	if len(topicIDs) == 0 {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("topic_id IN ?", topicIDs).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *moduleRepo) ListByUnlockPolicy(ctx context.Context, tx *gorm.DB, policy catalog.UnlockPolicy) ([]*catalog.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Module
	if policy == "" {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("unlock_policy = ?", policy).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
