package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

// ReflectionService stores the single free-text reflection per (user, page).
// Saving is an overwrite; word count is recomputed server-side on every save.
type ReflectionService interface {
	Save(ctx context.Context, userID, pageID uuid.UUID, text string) (*progress.Reflection, error)
	Get(ctx context.Context, userID, pageID uuid.UUID) (*progress.Reflection, error)
}

type reflectionService struct {
	log         *logger.Logger
	pages       catalogrepo.PageRepo
	reflections progressrepo.ReflectionRepo
}

func NewReflectionService(log *logger.Logger, pages catalogrepo.PageRepo, reflections progressrepo.ReflectionRepo) ReflectionService {
	return &reflectionService{
		log:         log.With("service", "ReflectionService"),
		pages:       pages,
		reflections: reflections,
	}
}

func (s *reflectionService) Save(ctx context.Context, userID, pageID uuid.UUID, text string) (*progress.Reflection, error) {
	const op = "Reflection.Save"
	if userID == uuid.Nil || pageID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "userID and pageID are required", nil)
	}
	page, err := s.pages.GetByID(ctx, nil, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("page not found: %s", pageID.String()), nil)
	}

	now := time.Now().UTC()
	row := &progress.Reflection{
		ID:        uuid.New(),
		UserID:    userID,
		PageID:    pageID,
		Text:      text,
		WordCount: progress.CountWords(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reflections.Upsert(ctx, nil, row); err != nil {
		return nil, err
	}

	// Overwrite keeps the original row ID; re-read the stored row.
	stored, err := s.reflections.GetByUserAndPageID(ctx, nil, userID, pageID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "reflection missing after upsert", nil)
	}
	if m := observability.Current(); m != nil {
		m.IncReflectionSaved()
	}
	return stored, nil
}

func (s *reflectionService) Get(ctx context.Context, userID, pageID uuid.UUID) (*progress.Reflection, error) {
	const op = "Reflection.Get"
	row, err := s.reflections.GetByUserAndPageID(ctx, nil, userID, pageID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("no reflection for page %s", pageID.String()), nil)
	}
	return row, nil
}
