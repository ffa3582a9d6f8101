// Package quota holds the plan-based resource limits applied at creation
// time. The rules here are pure; enforcement is done atomically by the
// stores so concurrent creates cannot race past a limit.
package quota

import "github.com/wolfeidau/notable/internal/models"

// FreePlanNoteLimit is the maximum number of notes a free tenant may hold.
const FreePlanNoteLimit = 3

// Unlimited means no quota applies.
const Unlimited = 0

// NoteLimit returns the note cap for a plan, or Unlimited.
func NoteLimit(plan models.Plan) int {
	if plan == models.PlanPro {
		return Unlimited
	}
	return FreePlanNoteLimit
}

// CanCreateNote reports whether a tenant on the given plan with the given
// current note count may create another note.
func CanCreateNote(plan models.Plan, currentCount int) bool {
	limit := NoteLimit(plan)
	return limit == Unlimited || currentCount < limit
}
