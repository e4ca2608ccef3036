package column

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength = 50
	maxKeyLength  = 32
)

var (
	keyPattern   = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	slugStrip    = regexp.MustCompile(`[^a-z0-9]+`)
)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateColor(color string) error {
	if color != "" && !colorPattern.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

// Slugify derives a column key from a display name: "In Review!" -> "in-review"
func Slugify(name string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxKeyLength {
		slug = strings.TrimRight(slug[:maxKeyLength], "-")
	}
	return slug
}

// ValidKey reports whether key can identify a column
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}
