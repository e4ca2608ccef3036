package board

import (
	"slices"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// PositionWrite is one position assignment issued by a commit
type PositionWrite struct {
	TaskID   string
	Status   string
	Position int
}

// dropPlan is the outcome of releasing the active task over a target
type dropPlan struct {
	from         string // stored status of the active task
	to           string // destination column key
	statusChange bool

	// source is the renumbered origin group when the task left its column
	source []*models.Task
	// destination is the new ordering of the group that now holds the task
	destination []*models.Task
	sourceKey   string
}

// resolveTarget returns the column key a target points into, or "" when it
// points at nothing the board knows about.
func resolveTarget(columns []*models.Column, tasks []*models.Task, target *Target) string {
	if target == nil {
		return ""
	}
	switch target.Kind {
	case TargetTask:
		for _, t := range tasks {
			if t.ID == target.ID {
				return resolveStatus(columns, t.Status)
			}
		}
	case TargetColumn:
		for _, c := range columns {
			if c.Key == target.ID {
				return c.Key
			}
		}
	}
	return ""
}

// planDrop computes the orderings that result from dropping active onto
// target. ok is false when the drop changes nothing.
func planDrop(columns []*models.Column, tasks []*models.Task, active *models.Task, target *Target) (dropPlan, bool) {
	if active == nil || target == nil {
		return dropPlan{}, false
	}
	if target.Kind == TargetTask && target.ID == active.ID {
		return dropPlan{}, false
	}

	destKey := resolveTarget(columns, tasks, target)
	if destKey == "" {
		return dropPlan{}, false
	}

	groups := GroupTasks(columns, tasks)
	srcKey := resolveStatus(columns, active.Status)
	srcTasks := groupFor(groups, srcKey)
	destTasks := groupFor(groups, destKey)

	p := dropPlan{
		from:         active.Status,
		to:           destKey,
		statusChange: active.Status != destKey,
		sourceKey:    srcKey,
	}

	if srcKey == destKey {
		from := indexOf(srcTasks, active.ID)
		to := len(srcTasks) - 1
		if target.Kind == TargetTask {
			to = indexOf(srcTasks, target.ID)
		}
		p.destination = arrayMove(srcTasks, from, to)

		if !p.statusChange && sameOrder(p.destination, srcTasks) && isContiguous(srcTasks) {
			return dropPlan{}, false
		}
		return p, true
	}

	p.source = removeTask(srcTasks, active.ID)
	at := len(destTasks)
	if target.Kind == TargetTask {
		at = indexOf(destTasks, target.ID)
	}
	p.destination = slices.Insert(slices.Clone(destTasks), at, active)
	return p, true
}

// writes assigns ranks 0..n-1 to the affected groups: source group first,
// then the destination group, each in ascending position order.
func (p dropPlan) writes() []PositionWrite {
	writes := make([]PositionWrite, 0, len(p.source)+len(p.destination))
	for i, t := range p.source {
		writes = append(writes, PositionWrite{TaskID: t.ID, Status: p.sourceKey, Position: i})
	}
	for i, t := range p.destination {
		writes = append(writes, PositionWrite{TaskID: t.ID, Status: p.to, Position: i})
	}
	return writes
}

// arrayMove returns a copy of items with the element at from moved to index to
func arrayMove(items []*models.Task, from, to int) []*models.Task {
	out := slices.Clone(items)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

func removeTask(tasks []*models.Task, id string) []*models.Task {
	return slices.DeleteFunc(slices.Clone(tasks), func(t *models.Task) bool { return t.ID == id })
}

func sameOrder(a, b []*models.Task) bool {
	return slices.EqualFunc(a, b, func(x, y *models.Task) bool { return x.ID == y.ID })
}
