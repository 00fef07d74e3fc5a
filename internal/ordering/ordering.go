// Package ordering defines what a correctly ordered container is: every
// element of a parent (cards of a list, lists of a board) holds a distinct
// integer position, positions start at 0 and have no gaps, and display
// order is always "sort ascending by position". Stored positions can drift
// (concurrent writers may leave duplicates or gaps), so every routine here
// treats the stored position as a hint and produces a dense assignment.
package ordering

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Ref is one element of an ordered container.
type Ref struct {
	ID        uuid.UUID
	Position  int
	CreatedAt time.Time
}

// Sort orders refs for display: position ascending, ties broken by
// creation time and then by ID. The tie-break makes the order total and
// stable within one read even when stored positions collide.
func Sort(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Position != refs[j].Position {
			return refs[i].Position < refs[j].Position
		}
		if !refs[i].CreatedAt.Equal(refs[j].CreatedAt) {
			return refs[i].CreatedAt.Before(refs[j].CreatedAt)
		}
		return refs[i].ID.String() < refs[j].ID.String()
	})
}

// Normalize returns the dense 0-based position for every ref after
// sorting. This is the single resequencing routine used by create, delete
// and move paths.
func Normalize(refs []Ref) map[uuid.UUID]int {
	sorted := make([]Ref, len(refs))
	copy(sorted, refs)
	Sort(sorted)

	positions := make(map[uuid.UUID]int, len(sorted))
	for i, ref := range sorted {
		positions[ref.ID] = i
	}
	return positions
}

// Place splices moved into the container at the requested index and
// returns the dense assignment for every element including the moved one.
// If moved is already present in refs it is repositioned rather than
// duplicated. The requested index is clamped: negative values prepend,
// values past the end append. Existing members at or after the index
// shift down, so the moved element always lands exactly at the clamped
// index.
func Place(refs []Ref, moved Ref, index int) map[uuid.UUID]int {
	rest := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != moved.ID {
			rest = append(rest, ref)
		}
	}
	Sort(rest)

	if index < 0 {
		index = 0
	}
	if index > len(rest) {
		index = len(rest)
	}

	positions := make(map[uuid.UUID]int, len(rest)+1)
	for i, ref := range rest {
		if i < index {
			positions[ref.ID] = i
		} else {
			positions[ref.ID] = i + 1
		}
	}
	positions[moved.ID] = index
	return positions
}

// IsDense reports whether positions form exactly {0..n-1} with no
// duplicates.
func IsDense(refs []Ref) bool {
	seen := make(map[int]bool, len(refs))
	for _, ref := range refs {
		if ref.Position < 0 || ref.Position >= len(refs) || seen[ref.Position] {
			return false
		}
		seen[ref.Position] = true
	}
	return true
}
