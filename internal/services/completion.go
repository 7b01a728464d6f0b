package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumenlearn/progression-backend/internal/observability"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
	"github.com/lumenlearn/progression-backend/internal/platform/redisx"

	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
)

// CompletionService fronts the progression aggregate's CompletePage write
// and keeps the Redis read cache coherent with it.
type CompletionService interface {
	CompletePage(ctx context.Context, userID, pageID uuid.UUID) (domainagg.CompletePageResult, error)
}

type completionService struct {
	log         *logger.Logger
	progression domainagg.ProgressionAggregate
	cache       *redisx.Cache
}

func NewCompletionService(log *logger.Logger, progression domainagg.ProgressionAggregate, cache *redisx.Cache) CompletionService {
	return &completionService{
		log:         log.With("service", "CompletionService"),
		progression: progression,
		cache:       cache,
	}
}

func (s *completionService) CompletePage(ctx context.Context, userID, pageID uuid.UUID) (domainagg.CompletePageResult, error) {
	res, err := s.progression.CompletePage(ctx, domainagg.CompletePageInput{
		UserID: userID,
		PageID: pageID,
	})
	if err != nil {
		return domainagg.CompletePageResult{}, err
	}

	if m := observability.Current(); m != nil {
		m.IncPageCompleted(res.AlreadyCompleted)
		m.AddModulesUnlocked(len(res.UnlockedModuleIDs))
	}

	// Stale rollups are tolerable; a failed invalidation only shortens
	// cache accuracy until TTL expiry.
	if !res.AlreadyCompleted {
		keys := []string{
			redisx.UserXPKey(userID.String()),
			redisx.ModuleProgressKey(userID.String(), res.ModuleID.String()),
		}
		if err := s.cache.Delete(ctx, keys...); err != nil {
			s.log.Warn("cache invalidation failed", "user_id", userID, "page_id", pageID, "error", err)
		}
	}

	s.log.Info("page completed",
		"user_id", userID,
		"page_id", pageID,
		"xp_earned", res.XPEarned,
		"new_total_xp", res.NewTotalXP,
		"already_completed", res.AlreadyCompleted,
		"unlocked_modules", len(res.UnlockedModuleIDs),
	)
	return res, nil
}
