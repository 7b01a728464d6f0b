package catalog

import (
	"testing"

	"github.com/google/uuid"
)

func pagesOf(ids ...uuid.UUID) []uuid.UUID { return ids }

func completed(ids ...uuid.UUID) map[uuid.UUID]struct{} {
	m := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func TestIsUnlocked_FreeAlwaysUnlocked(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: PolicyFree}
	if !IsUnlocked(node, Snapshot{}) {
		t.Fatalf("expected free node unlocked with empty snapshot")
	}
}

func TestIsUnlocked_XPThresholdBoundary(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: PolicyXPThreshold, UnlockValue: 50}

	if IsUnlocked(node, Snapshot{TotalXP: 49}) {
		t.Fatalf("expected locked at 49 xp against threshold 50")
	}
	if !IsUnlocked(node, Snapshot{TotalXP: 50}) {
		t.Fatalf("expected unlocked at exactly the threshold")
	}
	if !IsUnlocked(node, Snapshot{TotalXP: 51}) {
		t.Fatalf("expected unlocked above the threshold")
	}
}

func TestIsUnlocked_XPThresholdZeroValue(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: PolicyXPThreshold, UnlockValue: 0}
	if !IsUnlocked(node, Snapshot{TotalXP: 0}) {
		t.Fatalf("expected threshold 0 unlocked for a fresh user")
	}
}

func TestIsUnlocked_PrerequisiteRequiresAllPages(t *testing.T) {
	prereqID := uuid.New()
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()
	node := Node{ID: uuid.New(), Policy: PolicyPrerequisite, PrerequisiteID: &prereqID}

	snap := Snapshot{
		CompletedPages: completed(p1, p2),
		NodePages:      map[uuid.UUID][]uuid.UUID{prereqID: pagesOf(p1, p2, p3)},
	}
	if IsUnlocked(node, snap) {
		t.Fatalf("expected locked with one prerequisite page incomplete")
	}

	snap.CompletedPages = completed(p1, p2, p3)
	if !IsUnlocked(node, snap) {
		t.Fatalf("expected unlocked with every prerequisite page complete")
	}
}

func TestIsUnlocked_PrerequisiteNilEdgeUnlocks(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: PolicyPrerequisite, PrerequisiteID: nil}
	if !IsUnlocked(node, Snapshot{}) {
		t.Fatalf("expected prerequisite node without an edge to unlock")
	}
}

func TestIsUnlocked_PrerequisiteWithNoPagesUnlocks(t *testing.T) {
	prereqID := uuid.New()
	node := Node{ID: uuid.New(), Policy: PolicyPrerequisite, PrerequisiteID: &prereqID}

	snap := Snapshot{NodePages: map[uuid.UUID][]uuid.UUID{prereqID: nil}}
	if !IsUnlocked(node, snap) {
		t.Fatalf("expected a pageless prerequisite to count as satisfied")
	}
}

func TestIsUnlocked_SequentialFirstSiblingUnlocked(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: PolicySequential, SortOrder: 0}
	if !IsUnlocked(node, Snapshot{PrevSiblingID: nil}) {
		t.Fatalf("expected the first sibling to be unlocked")
	}
}

func TestIsUnlocked_SequentialGatedOnPreviousSibling(t *testing.T) {
	prevID := uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	node := Node{ID: uuid.New(), Policy: PolicySequential, SortOrder: 1}

	snap := Snapshot{
		PrevSiblingID:  &prevID,
		CompletedPages: completed(p1),
		NodePages:      map[uuid.UUID][]uuid.UUID{prevID: pagesOf(p1, p2)},
	}
	if IsUnlocked(node, snap) {
		t.Fatalf("expected locked while the previous sibling is partially complete")
	}

	snap.CompletedPages = completed(p1, p2)
	if !IsUnlocked(node, snap) {
		t.Fatalf("expected unlocked after finishing the previous sibling")
	}
}

func TestIsUnlocked_UnknownPolicyFailsClosed(t *testing.T) {
	node := Node{ID: uuid.New(), Policy: UnlockPolicy("invite_only")}
	if IsUnlocked(node, Snapshot{TotalXP: 1 << 20}) {
		t.Fatalf("expected an unrecognized policy to resolve locked")
	}
}
