package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type PageRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Page, error)
	ListByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*catalog.Page, error)
	ListByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*catalog.Page, error)
}

type pageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPageRepo(db *gorm.DB, baseLog *logger.Logger) PageRepo {
	return &pageRepo{db: db, log: baseLog.With("repo", "PageRepo")}
}

func (r *pageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.Page, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row catalog.Page
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *pageRepo) ListByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*catalog.Page, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Page
	if moduleID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pageRepo) ListByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*catalog.Page, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.Page
	if len(moduleIDs) == 0 {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
