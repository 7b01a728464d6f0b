package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

type ContentItemRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.ContentItem, error)
	ListByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]*catalog.ContentItem, error)
}

type contentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
	return &contentItemRepo{db: db, log: baseLog.With("repo", "ContentItemRepo")}
}

func (r *contentItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*catalog.ContentItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row catalog.ContentItem
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contentItemRepo) ListByPageID(ctx context.Context, tx *gorm.DB, pageID uuid.UUID) ([]*catalog.ContentItem, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*catalog.ContentItem
	if pageID == uuid.Nil {
		return rows, nil
	}
	if err := t.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
