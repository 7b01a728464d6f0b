package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/lumenlearn/progression-backend/internal/data/repos/catalog"
	progressrepo "github.com/lumenlearn/progression-backend/internal/data/repos/progress"
	domainagg "github.com/lumenlearn/progression-backend/internal/domain/aggregates"
	"github.com/lumenlearn/progression-backend/internal/domain/catalog"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

// UnlockService answers unlock queries by assembling a progress snapshot
// and delegating the decision to the pure catalog resolver. Reads are
// lock-free and tolerate eventual consistency with in-flight completions.
type UnlockService interface {
	IsModuleUnlocked(ctx context.Context, userID, moduleID uuid.UUID) (bool, error)
	IsTopicUnlocked(ctx context.Context, userID, topicID uuid.UUID) (bool, error)
	// TopicUnlockMap resolves every module of a topic against one snapshot.
	TopicUnlockMap(ctx context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]bool, error)
}

type unlockService struct {
	db       *gorm.DB
	log      *logger.Logger
	topics   catalogrepo.TopicRepo
	modules  catalogrepo.ModuleRepo
	pages    catalogrepo.PageRepo
	progress progressrepo.UserProgressRepo
}

func NewUnlockService(
	db *gorm.DB,
	log *logger.Logger,
	topics catalogrepo.TopicRepo,
	modules catalogrepo.ModuleRepo,
	pages catalogrepo.PageRepo,
	progress progressrepo.UserProgressRepo,
) UnlockService {
	return &unlockService{
		db:       db,
		log:      log.With("service", "UnlockService"),
		topics:   topics,
		modules:  modules,
		pages:    pages,
		progress: progress,
	}
}

func (s *unlockService) IsModuleUnlocked(ctx context.Context, userID, moduleID uuid.UUID) (bool, error) {
	const op = "Unlock.IsModuleUnlocked"
	m, err := s.modules.GetByID(ctx, nil, moduleID)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("module not found: %s", moduleID.String()), nil)
	}

	snap, err := s.userSnapshot(ctx, userID)
	if err != nil {
		return false, err
	}

	if m.PrerequisiteModuleID != nil {
		if err := s.addModulePages(ctx, snap, *m.PrerequisiteModuleID); err != nil {
			return false, err
		}
	}
	if m.SortOrder > 0 {
		prev, err := s.modules.GetByTopicAndSortOrder(ctx, nil, m.TopicID, m.SortOrder-1)
		if err != nil {
			return false, err
		}
		if prev != nil {
			snap.PrevSiblingID = &prev.ID
			if err := s.addModulePages(ctx, snap, prev.ID); err != nil {
				return false, err
			}
		}
	}

	return catalog.IsUnlocked(moduleNode(m), *snap), nil
}

func (s *unlockService) IsTopicUnlocked(ctx context.Context, userID, topicID uuid.UUID) (bool, error) {
	const op = "Unlock.IsTopicUnlocked"
	t, err := s.topics.GetByID(ctx, nil, topicID)
	if err != nil {
		return false, err
	}
	if t == nil {
		return false, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("topic not found: %s", topicID.String()), nil)
	}

	snap, err := s.userSnapshot(ctx, userID)
	if err != nil {
		return false, err
	}

	if t.PrerequisiteTopicID != nil {
		if err := s.addTopicPages(ctx, snap, *t.PrerequisiteTopicID); err != nil {
			return false, err
		}
	}
	if t.SortOrder > 0 {
		prev, err := s.topics.GetBySortOrder(ctx, nil, t.SortOrder-1)
		if err != nil {
			return false, err
		}
		if prev != nil {
			snap.PrevSiblingID = &prev.ID
			if err := s.addTopicPages(ctx, snap, prev.ID); err != nil {
				return false, err
			}
		}
	}

	return catalog.IsUnlocked(topicNode(t), *snap), nil
}

func (s *unlockService) TopicUnlockMap(ctx context.Context, userID, topicID uuid.UUID) (map[uuid.UUID]bool, error) {
	const op = "Unlock.TopicUnlockMap"
	t, err := s.topics.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("topic not found: %s", topicID.String()), nil)
	}

	modules, err := s.modules.ListByTopicID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	snap, err := s.userSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	bySortOrder := make(map[int]*catalog.Module, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
		bySortOrder[m.SortOrder] = m
	}
	pages, err := s.pages.ListByModuleIDs(ctx, nil, moduleIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		snap.NodePages[p.ModuleID] = append(snap.NodePages[p.ModuleID], p.ID)
	}

	// Prerequisite edges may point outside this topic; fetch those too.
	for _, m := range modules {
		if m.PrerequisiteModuleID == nil {
			continue
		}
		if _, ok := snap.NodePages[*m.PrerequisiteModuleID]; !ok {
			if err := s.addModulePages(ctx, snap, *m.PrerequisiteModuleID); err != nil {
				return nil, err
			}
		}
	}

	out := make(map[uuid.UUID]bool, len(modules))
	for _, m := range modules {
		nodeSnap := *snap
		nodeSnap.PrevSiblingID = nil
		if prev, ok := bySortOrder[m.SortOrder-1]; ok && m.SortOrder > 0 {
			nodeSnap.PrevSiblingID = &prev.ID
		}
		out[m.ID] = catalog.IsUnlocked(moduleNode(m), nodeSnap)
	}
	return out, nil
}

func (s *unlockService) userSnapshot(ctx context.Context, userID uuid.UUID) (*catalog.Snapshot, error) {
	completedIDs, err := s.progress.ListCompletedPageIDs(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	totalXP, err := s.progress.SumCompletedXP(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uuid.UUID]struct{}, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = struct{}{}
	}
	return &catalog.Snapshot{
		TotalXP:        totalXP,
		CompletedPages: completed,
		NodePages:      map[uuid.UUID][]uuid.UUID{},
	}, nil
}

func (s *unlockService) addModulePages(ctx context.Context, snap *catalog.Snapshot, moduleID uuid.UUID) error {
	pages, err := s.pages.ListByModuleID(ctx, nil, moduleID)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	snap.NodePages[moduleID] = ids
	return nil
}

func (s *unlockService) addTopicPages(ctx context.Context, snap *catalog.Snapshot, topicID uuid.UUID) error {
	modules, err := s.modules.ListByTopicID(ctx, nil, topicID)
	if err != nil {
		return err
	}
	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	pages, err := s.pages.ListByModuleIDs(ctx, nil, moduleIDs)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	snap.NodePages[topicID] = ids
	return nil
}

func moduleNode(m *catalog.Module) catalog.Node {
	return catalog.Node{
		ID:             m.ID,
		Policy:         m.UnlockPolicy,
		UnlockValue:    m.UnlockValue,
		PrerequisiteID: m.PrerequisiteModuleID,
		SortOrder:      m.SortOrder,
	}
}

func topicNode(t *catalog.Topic) catalog.Node {
	return catalog.Node{
		ID:             t.ID,
		Policy:         t.UnlockPolicy,
		UnlockValue:    t.UnlockValue,
		PrerequisiteID: t.PrerequisiteTopicID,
		SortOrder:      t.SortOrder,
	}
}
