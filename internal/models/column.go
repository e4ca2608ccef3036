package models

// MaxColumnsPerBoard caps how many columns a single board may hold.
const MaxColumnsPerBoard = 10

// Column is a board-scoped status bucket (e.g. "To Do").
// Tasks reference a column through its Key, never through its ID.
type Column struct {
	ID       string
	Key      string // Stable status value stored on tasks
	BoardID  string
	Position int // Display order within the board
	Name     string
	Icon     string
	Color    string // Hex color code (e.g. "#7D56F4")
}

// ColumnMetadata holds the caller-supplied fields of a column.
type ColumnMetadata struct {
	Key   string
	Name  string
	Icon  string
	Color string
}

// DefaultColumns are seeded into every new board, in display order.
// The first one doubles as the fallback status when a column is deleted.
var DefaultColumns = []ColumnMetadata{
	{Key: "inbox", Name: "Inbox", Icon: "inbox", Color: "#6B7280"},
	{Key: "todo", Name: "To Do", Icon: "circle", Color: "#3B82F6"},
	{Key: "doing", Name: "Doing", Icon: "clock", Color: "#F59E0B"},
	{Key: "done", Name: "Done", Icon: "check", Color: "#10B981"},
}

// Metadata returns the caller-editable fields of the column
func (c *Column) Metadata() ColumnMetadata {
	return ColumnMetadata{Key: c.Key, Name: c.Name, Icon: c.Icon, Color: c.Color}
}

// GetID returns the column ID
func (c *Column) GetID() string { return c.ID }
