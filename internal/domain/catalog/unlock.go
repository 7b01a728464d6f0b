package catalog

import "github.com/google/uuid"

// UnlockPolicy is the closed set of rules gating access to a module or
// topic. Values outside this set resolve to locked.
type UnlockPolicy string

const (
	PolicyFree         UnlockPolicy = "free"
	PolicyXPThreshold  UnlockPolicy = "xp_threshold"
	PolicyPrerequisite UnlockPolicy = "prerequisite"
	PolicySequential   UnlockPolicy = "sequential"
)

// Node is the policy-relevant projection of a module or topic.
type Node struct {
	ID             uuid.UUID
	Policy         UnlockPolicy
	UnlockValue    int
	PrerequisiteID *uuid.UUID
	SortOrder      int
}

// Snapshot is a user's progress state at evaluation time. Callers fetch it
// once and may evaluate any number of nodes against it concurrently.
type Snapshot struct {
	// TotalXP is the user's XP sum over completed pages.
	TotalXP int
	// CompletedPages holds the ids of every page the user has completed.
	CompletedPages map[uuid.UUID]struct{}
	// NodePages maps a node id to the ids of the pages belonging to it.
	// Only nodes referenced by a prerequisite edge or as the previous
	// sibling need an entry.
	NodePages map[uuid.UUID][]uuid.UUID
	// PrevSiblingID is the id of the sibling node at SortOrder-1 within the
	// same parent, or nil when the evaluated node is the first sibling.
	PrevSiblingID *uuid.UUID
}

// IsUnlocked resolves a node's unlock state against a progress snapshot.
// It is pure: no side effects, safe for concurrent use.
func IsUnlocked(node Node, snap Snapshot) bool {
	switch node.Policy {
	case PolicyFree:
		return true
	case PolicyXPThreshold:
		return snap.TotalXP >= node.UnlockValue
	case PolicyPrerequisite:
		if node.PrerequisiteID == nil {
			return true
		}
		return allPagesCompleted(snap, *node.PrerequisiteID)
	case PolicySequential:
		if snap.PrevSiblingID == nil {
			return true
		}
		return allPagesCompleted(snap, *snap.PrevSiblingID)
	default:
		// Unrecognized policy fails closed.
		return false
	}
}

func allPagesCompleted(snap Snapshot, nodeID uuid.UUID) bool {
	for _, pageID := range snap.NodePages[nodeID] {
		if _, ok := snap.CompletedPages[pageID]; !ok {
			return false
		}
	}
	return true
}
