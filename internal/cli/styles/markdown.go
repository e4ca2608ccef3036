package styles

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Cache Glamour renderers by width to avoid expensive re-creation
var rendererCache sync.Map // map[int]*glamour.TermRenderer

func getRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	rendererCache.Store(width, renderer)
	return renderer, nil
}

// RenderDescription renders a markdown task description.
// The raw text is returned if rendering fails.
func RenderDescription(description string, width int) string {
	if strings.TrimSpace(description) == "" {
		return SubtitleStyle.Italic(true).Render("No description")
	}

	renderer, err := getRenderer(width)
	if err != nil {
		return description
	}
	rendered, err := renderer.Render(description)
	if err != nil {
		return description
	}
	return strings.TrimSpace(rendered)
}
