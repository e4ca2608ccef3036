package board

import "fmt"

// State is the phase of the current drag gesture
type State int

const (
	Idle State = iota
	Dragging
	HoverResolved
	Committing
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case HoverResolved:
		return "hover_resolved"
	case Committing:
		return "committing"
	case RolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var allowedTransitions = map[State][]State{
	Idle:          {Dragging},
	Dragging:      {HoverResolved, Idle},
	HoverResolved: {HoverResolved, Committing, Idle},
	Committing:    {Idle, RolledBack},
	RolledBack:    {Idle},
}

func isAllowedTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TargetKind says what a pointer is over
type TargetKind int

const (
	TargetTask TargetKind = iota
	TargetColumn
)

// Target is the element under the pointer. For TargetTask, ID is a task id;
// for TargetColumn, ID is a column key.
type Target struct {
	Kind TargetKind
	ID   string
}

// OnTask targets another task card
func OnTask(taskID string) *Target {
	return &Target{Kind: TargetTask, ID: taskID}
}

// OnColumn targets a column drop-zone by key
func OnColumn(key string) *Target {
	return &Target{Kind: TargetColumn, ID: key}
}

// gesture is the transient state of one pick-up/hover/release interaction
type gesture struct {
	state          State
	activeID       string
	originStatus   string
	originPosition int
	highlight      string
}

func (g *gesture) transition(to State) error {
	if !isAllowedTransition(g.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.state, to)
	}
	g.state = to
	return nil
}

// clear drops everything scoped to the gesture
func (g *gesture) clear() {
	g.activeID = ""
	g.originStatus = ""
	g.originPosition = 0
	g.highlight = ""
}
