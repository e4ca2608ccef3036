package board

import (
	"cmp"
	"slices"

	"github.com/thenoetrevino/opsboard/internal/models"
)

// Group is one column with its tasks in display order
type Group struct {
	Column *models.Column
	Tasks  []*models.Task
}

// resolveStatus returns the key of the column a status renders under.
// Unknown statuses render in the first column; with no columns there is nowhere to render.
func resolveStatus(columns []*models.Column, status string) string {
	for _, c := range columns {
		if c.Key == status {
			return status
		}
	}
	if len(columns) == 0 {
		return ""
	}
	return columns[0].Key
}

// GroupTasks partitions tasks into one group per column, in column order.
// Each group is sorted by position; equal positions keep their load order.
// A task whose status matches no column lands in the first group and only there.
func GroupTasks(columns []*models.Column, tasks []*models.Task) []Group {
	groups := make([]Group, len(columns))
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		groups[i] = Group{Column: c, Tasks: []*models.Task{}}
		if _, dup := index[c.Key]; !dup {
			index[c.Key] = i
		}
	}
	if len(columns) == 0 {
		return groups
	}

	for _, t := range tasks {
		i, ok := index[t.Status]
		if !ok {
			i = 0
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Tasks, func(a, b *models.Task) int {
			return cmp.Compare(a.Position, b.Position)
		})
	}
	return groups
}

// groupFor returns the ordered tasks rendered under key
func groupFor(groups []Group, key string) []*models.Task {
	for _, g := range groups {
		if g.Column.Key == key {
			return g.Tasks
		}
	}
	return nil
}

// isContiguous reports whether an ordered group already holds ranks 0..n-1
func isContiguous(tasks []*models.Task) bool {
	for i, t := range tasks {
		if t.Position != i {
			return false
		}
	}
	return true
}

func indexOf(tasks []*models.Task, id string) int {
	return slices.IndexFunc(tasks, func(t *models.Task) bool { return t.ID == id })
}
