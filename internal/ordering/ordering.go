// Package ordering plans order-value changes for tasks that share an
// ordering group. A group is (project, status reference) for project tasks
// and (personal sentinel, status name, assignee) for personal tasks.
//
// Two distinct operations exist and are deliberately kept apart: PlanShift
// moves a task to an explicit order value and closes the gap by shifting the
// siblings it passes over, while PlanSwap moves a task to a display index by
// exchanging order values with the current occupant of that index. Their
// results differ whenever a move spans more than one position, and both
// behaviors are load-bearing for clients.
//
// Planning is pure; callers apply the resulting changes inside a single
// database transaction so multi-row moves commit atomically.
package ordering

import (
	"errors"
	"sort"
)

// ErrNotInGroup is returned when the moving task is not part of the group
// handed to the planner.
var ErrNotInGroup = errors.New("task not found in ordering group")

// Sibling is a task's membership in an ordering group.
type Sibling struct {
	ID    int64
	Order int
}

// Change assigns a new order value to one task.
type Change struct {
	ID    int64
	Order int
}

// PlanShift plans the sibling adjustments for a direct order reassignment
// from oldOrder to newOrder. The siblings slice must exclude the moving task
// and contain every other member of the destination group.
//
// Moving up (new < old) shifts siblings in [new, old) down by one position
// (order value +1); moving down (new > old) shifts siblings in (old, new] up
// by one (order value -1). Siblings outside the interval are untouched, and
// the vacated group is never compacted when the move crossed groups.
func PlanShift(siblings []Sibling, oldOrder, newOrder int) []Change {
	if newOrder == oldOrder {
		return nil
	}

	var changes []Change
	if newOrder < oldOrder {
		for _, s := range siblings {
			if s.Order >= newOrder && s.Order < oldOrder {
				changes = append(changes, Change{ID: s.ID, Order: s.Order + 1})
			}
		}
	} else {
		for _, s := range siblings {
			if s.Order > oldOrder && s.Order <= newOrder {
				changes = append(changes, Change{ID: s.ID, Order: s.Order - 1})
			}
		}
	}
	return changes
}

// Swap is the pair of writes produced by PlanSwap.
type Swap struct {
	Moving    Change
	Displaced Change
}

// PlanSwap plans a reposition of taskID to newIndex within its group. The
// group slice must include the moving task. Members are ranked by order
// value ascending with ids breaking ties, so duplicate order values still
// yield a stable display sequence.
//
// newIndex is clamped into [0, len(group)-1]. A move to the task's current
// index returns (nil, nil): a deliberate no-op. Otherwise the moving task
// and the task currently occupying the destination index exchange order
// values; no other member changes.
func PlanSwap(group []Sibling, taskID int64, newIndex int) (*Swap, error) {
	if len(group) == 0 {
		return nil, ErrNotInGroup
	}

	ranked := make([]Sibling, len(group))
	copy(ranked, group)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Order != ranked[j].Order {
			return ranked[i].Order < ranked[j].Order
		}
		return ranked[i].ID < ranked[j].ID
	})

	oldIndex := -1
	for i, s := range ranked {
		if s.ID == taskID {
			oldIndex = i
			break
		}
	}
	if oldIndex == -1 {
		return nil, ErrNotInGroup
	}

	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(ranked) {
		newIndex = len(ranked) - 1
	}

	if newIndex == oldIndex {
		return nil, nil
	}

	target := ranked[newIndex]
	return &Swap{
		Moving:    Change{ID: taskID, Order: target.Order},
		Displaced: Change{ID: target.ID, Order: ranked[oldIndex].Order},
	}, nil
}
