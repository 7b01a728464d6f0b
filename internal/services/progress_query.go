package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/platform/logger"
	"github.com/lumenlearn/progression-backend/internal/platform/redisx"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/domain/progress"
)

// ModuleProgress is the dashboard rollup for one user and module.
type ModuleProgress struct {
	ModuleID       uuid.UUID `json:"module_id"`
	TotalPages     int       `json:"total_pages"`
	CompletedPages int       `json:"completed_pages"`
	// Percent is nil for modules with no pages: "no progress to measure"
	// is distinct from 0% progress.
	Percent     *float64 `json:"percent"`
	XPAvailable int      `json:"xp_available"`
	XPEarned    int      `json:"xp_earned"`
	IsComplete  bool     `json:"is_complete"`
}

// UserXP is the authoritative XP view for one user.
type UserXP struct {
	UserID  uuid.UUID `json:"user_id"`
	TotalXP int       `json:"total_xp"`
}

// ProgressQueryService serves dashboard reads. The Redis cache in front is
// best-effort; Postgres stays the source of truth.
type ProgressQueryService interface {
	GetModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ModuleProgress, error)
	GetUserTotalXP(ctx context.Context, userID uuid.UUID) (*UserXP, error)
	ListPageProgress(ctx context.Context, userID uuid.UUID) ([]*progress.UserProgress, error)
}

type progressQueryService struct {
	log      *logger.Logger
	modules  catalogrepo.ModuleRepo
	pages    catalogrepo.PageRepo
	progress progressrepo.UserProgressRepo
	cache    *redisx.Cache
}

func NewProgressQueryService(
	log *logger.Logger,
	modules catalogrepo.ModuleRepo,
	pages catalogrepo.PageRepo,
	progressRepo progressrepo.UserProgressRepo,
	cache *redisx.Cache,
) ProgressQueryService {
	return &progressQueryService{
		log:      log.With("service", "ProgressQueryService"),
		modules:  modules,
		pages:    pages,
		progress: progressRepo,
		cache:    cache,
	}
}

func (s *progressQueryService) GetModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ModuleProgress, error) {
	const op = "ProgressQuery.GetModuleProgress"
	key := redisx.ModuleProgressKey(userID.String(), moduleID.String())
	var cached ModuleProgress
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redisx.ErrCacheMiss) {
		s.log.Warn("cache read failed", "key", key, "error", err)
	}

	m, err := s.modules.GetByID(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("module not found: %s", moduleID.String()), nil)
	}
	pages, err := s.pages.ListByModuleID(ctx, nil, moduleID)
	if err != nil {
		return nil, err
	}
	pageIDs := make([]uuid.UUID, 0, len(pages))
	for _, p := range pages {
		pageIDs = append(pageIDs, p.ID)
	}
	rows, err := s.progress.ListByUserAndPageIDs(ctx, nil, userID, pageIDs)
	if err != nil {
		return nil, err
	}

	out := computeModuleProgress(moduleID, pages, rows)
	if err := s.cache.Set(ctx, key, out); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
	return out, nil
}

func (s *progressQueryService) GetUserTotalXP(ctx context.Context, userID uuid.UUID) (*UserXP, error) {
	key := redisx.UserXPKey(userID.String())
	var cached UserXP
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redisx.ErrCacheMiss) {
		s.log.Warn("cache read failed", "key", key, "error", err)
	}

	// XP is derived from completed progress rows, never from the
	// materialized total, so a stale user_xp_total row cannot leak here.
	total, err := s.progress.SumCompletedXP(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	out := &UserXP{UserID: userID, TotalXP: total}
	if err := s.cache.Set(ctx, key, out); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
	return out, nil
}

func (s *progressQueryService) ListPageProgress(ctx context.Context, userID uuid.UUID) ([]*progress.UserProgress, error) {
	return s.progress.ListByUserID(ctx, nil, userID)
}

func computeModuleProgress(moduleID uuid.UUID, pages []*catalog.Page, rows []*progress.UserProgress) *ModuleProgress {
	inModule := make(map[uuid.UUID]struct{}, len(pages))
	xpAvailable := 0
	for _, p := range pages {
		inModule[p.ID] = struct{}{}
		xpAvailable += p.XPValue
	}
	completed := 0
	xpEarned := 0
	for _, row := range rows {
		if row.Status != progress.StatusCompleted {
			continue
		}
		if _, ok := inModule[row.PageID]; ok {
			completed++
			xpEarned += row.XPEarned
		}
	}
	out := &ModuleProgress{
		ModuleID:       moduleID,
		TotalPages:     len(pages),
		CompletedPages: completed,
		XPAvailable:    xpAvailable,
		XPEarned:       xpEarned,
	}
	if len(pages) > 0 {
		pct := math.Round(float64(completed)/float64(len(pages))*1000) / 10
		out.Percent = &pct
		out.IsComplete = completed == len(pages)
	}
	return out
}
