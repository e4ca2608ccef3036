package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thenoetrevino/opsboard/internal/config"
	"github.com/thenoetrevino/opsboard/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Status:", "Due:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Description"

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style

	theme config.Theme
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes all CLI styles with the given theme.
// Missing colors are filled from the theme's preset.
func Init(t config.Theme) {
	t.ApplyDefaults()
	theme = t

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Success))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Error))

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Warning))
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// BoldColoredText renders bold text with a hex color
func BoldColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderColumnHeader renders "Name (key) count" in the column's color.
// Columns without a color use the theme accent.
func RenderColumnHeader(col *models.Column, count int) string {
	color := col.Color
	if color == "" {
		color = theme.Accent
	}
	name := col.Name
	if col.Icon != "" {
		name = "[" + col.Icon + "] " + name
	}
	return BoldColoredText(name, color) + " " +
		SubtitleStyle.Render(fmt.Sprintf("(%s) %d", col.Key, count))
}

// RenderTaskLine renders one task row of a column listing.
// Format: "  0. Title  @assignee  due 2024-01-02"
func RenderTaskLine(task *models.Task) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %d. %s", task.Position, ValueStyle.Render(task.Title)))
	if task.AssigneeName != "" {
		b.WriteString("  " + SubtitleStyle.Render("@"+task.AssigneeName))
	}
	if task.DueDate != nil {
		b.WriteString("  " + SubtitleStyle.Render("due "+task.DueDate.Format("2006-01-02")))
	}
	return b.String()
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
