package config

// Theme defines the colors of human-readable CLI output
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent  string `yaml:"accent"`
	Title   string `yaml:"title"`
	Subtle  string `yaml:"subtle"` // Muted/placeholder text
	Normal  string `yaml:"normal"`
	Success string `yaml:"success"`
	Warning string `yaml:"warning"`
	Error   string `yaml:"error"`
}

// DefaultTheme is the purple theme
func DefaultTheme() Theme {
	return Theme{
		Preset:  "default",
		Accent:  "#874BFD",
		Title:   "#D75FD7",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF5F5F",
	}
}

// MonochromeTheme is black and white
func MonochromeTheme() Theme {
	return Theme{
		Preset:  "monochrome",
		Accent:  "#FFFFFF",
		Title:   "#FFFFFF",
		Subtle:  "#585858",
		Normal:  "#D0D0D0",
		Success: "#FFFFFF",
		Warning: "#FFFFFF",
		Error:   "#FFFFFF",
	}
}

// PresetTheme returns a preset by name, falling back to the default
func PresetTheme(name string) Theme {
	if name == "monochrome" {
		return MonochromeTheme()
	}
	return DefaultTheme()
}

// ApplyDefaults fills in missing colors from the preset
func (t *Theme) ApplyDefaults() {
	preset := PresetTheme(t.Preset)
	if t.Preset == "" {
		t.Preset = preset.Preset
	}
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&t.Accent, preset.Accent)
	fill(&t.Title, preset.Title)
	fill(&t.Subtle, preset.Subtle)
	fill(&t.Normal, preset.Normal)
	fill(&t.Success, preset.Success)
	fill(&t.Warning, preset.Warning)
	fill(&t.Error, preset.Error)
}

// MergeFrom overrides colors with the non-empty values of other
func (t *Theme) MergeFrom(other Theme) {
	override := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	override(&t.Preset, other.Preset)
	override(&t.Accent, other.Accent)
	override(&t.Title, other.Title)
	override(&t.Subtle, other.Subtle)
	override(&t.Normal, other.Normal)
	override(&t.Success, other.Success)
	override(&t.Warning, other.Warning)
	override(&t.Error, other.Error)
}
