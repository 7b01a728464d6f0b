package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/platform/logger"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
)

// CatalogService serves the published content tree. The catalog is
// read-only at runtime; authoring happens out of band.
type CatalogService interface {
	ListTopics(ctx context.Context) ([]*catalog.Topic, error)
	GetTopic(ctx context.Context, topicID uuid.UUID) (*catalog.Topic, error)
	ListModules(ctx context.Context, topicID uuid.UUID) ([]*catalog.Module, error)
	GetModule(ctx context.Context, moduleID uuid.UUID) (*catalog.Module, error)
	ListPages(ctx context.Context, moduleID uuid.UUID) ([]*catalog.Page, error)
	GetPage(ctx context.Context, pageID uuid.UUID) (*catalog.Page, error)
	ListContentItems(ctx context.Context, pageID uuid.UUID) ([]*catalog.ContentItem, error)
}

type catalogService struct {
	log     *logger.Logger
	topics  catalogrepo.TopicRepo
	modules catalogrepo.ModuleRepo
	pages   catalogrepo.PageRepo
	content catalogrepo.ContentItemRepo
}

func NewCatalogService(
	log *logger.Logger,
	topics catalogrepo.TopicRepo,
	modules catalogrepo.ModuleRepo,
	pages catalogrepo.PageRepo,
	content catalogrepo.ContentItemRepo,
) CatalogService {
	return &catalogService{
		log:     log.With("service", "CatalogService"),
		topics:  topics,
		modules: modules,
		pages:   pages,
		content: content,
	}
}

func (s *catalogService) ListTopics(ctx context.Context) ([]*catalog.Topic, error) {
	return s.topics.ListOrdered(ctx, nil)
}

func (s *catalogService) GetTopic(ctx context.Context, topicID uuid.UUID) (*catalog.Topic, error) {
	const op = "Catalog.GetTopic"
	t, err := s.topics.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("topic not found: %s", topicID.String()), nil)
	}
	return t, nil
}

func (s *catalogService) ListModules(ctx context.Context, topicID uuid.UUID) ([]*catalog.Module, error) {
	const op = "Catalog.ListModules"
	t, err := s.topics.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("topic not found: %s", topicID.String()), nil)
	}
	return s.modules.ListByTopicID(ctx, nil, topicID)
}

func (s *catalogService) GetModule(ctx context.Context, moduleID uuid.UUID) (*catalog.Module, error) {
	const op = "Catalog.GetModule"
	m, err := s.modules.GetByID(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("module not found: %s", moduleID.String()), nil)
	}
	return m, nil
}

func (s *catalogService) ListPages(ctx context.Context, moduleID uuid.UUID) ([]*catalog.Page, error) {
	const op = "Catalog.ListPages"
	m, err := s.modules.GetByID(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("module not found: %s", moduleID.String()), nil)
	}
	return s.pages.ListByModuleID(ctx, nil, moduleID)
}

func (s *catalogService) GetPage(ctx context.Context, pageID uuid.UUID) (*catalog.Page, error) {
	const op = "Catalog.GetPage"
	p, err := s.pages.GetByID(ctx, nil, pageID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("page not found: %s", pageID.String()), nil)
	}
	return p, nil
}

func (s *catalogService) ListContentItems(ctx context.Context, pageID uuid.UUID) ([]*catalog.ContentItem, error) {
	const op = "Catalog.ListContentItems"
	p, err := s.pages.GetByID(ctx, nil, pageID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("page not found: %s", pageID.String()), nil)
	}
	return s.content.ListByPageID(ctx, nil, pageID)
}
