package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names
const (
	ThemeCareer     = "careerpilot"
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// StyleConfig returns the glamour style for a built-in theme name. The
// careerpilot style is derived from the dark style: headings lose their
// "##" markers so generated CVs read like documents, and accents follow
// the active TUI theme.
func StyleConfig(name string) (ansi.StyleConfig, bool) {
	switch name {
	case ThemeCareer:
		return careerStyle(GetTUITheme()), true
	case ThemeDark:
		return styles.DarkStyleConfig, true
	case ThemeLight:
		return styles.LightStyleConfig, true
	case ThemeTokyoNight:
		return styles.TokyoNightStyleConfig, true
	case ThemeDracula:
		return styles.DraculaStyleConfig, true
	case ThemeNoTTY:
		return styles.NoTTYStyleConfig, true
	case ThemeASCII:
		return styles.ASCIIStyleConfig, true
	default:
		return ansi.StyleConfig{}, false
	}
}

// IsBuiltinStyle reports whether style names a built-in theme rather than a JSON file path
func IsBuiltinStyle(style string) bool {
	_, ok := StyleConfig(style)
	return ok
}

func careerStyle(theme TUITheme) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	text := string(theme.Text)
	bold := true

	cfg.Document.Color = &text
	cfg.H1.Prefix = ""
	cfg.H1.Suffix = ""
	cfg.H1.BackgroundColor = nil
	cfg.H1.Color = &primary
	cfg.H1.Bold = &bold
	cfg.H2.Prefix = ""
	cfg.H2.Color = &primary
	cfg.H3.Prefix = ""
	cfg.H3.Color = &secondary
	cfg.H4.Prefix = ""
	cfg.H5.Prefix = ""
	cfg.H6.Prefix = ""
	cfg.Link.Color = &secondary

	return cfg
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the built-in markdown themes
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeCareer, Description: "Document layout in the TUI colors (default)"},
		{Name: ThemeDark, Description: "Glamour dark theme"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
