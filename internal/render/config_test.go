package render

import (
	"testing"

	"github.com/diogo/careerpilot/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	defer SetTUITheme("tokyonight")
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = ThemeDracula
	cfg.Markdown.EnableEmoji = false
	cfg.TUITheme = "nord"

	opts := OptionsFromConfig(cfg)

	if opts.Style != ThemeDracula {
		t.Errorf("Style = %s, want dracula", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("TUI theme = %s, want nord", GetTUITheme().Name)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "light")

	opts := OptionsFromConfig(config.DefaultConfig())
	if opts.Style != "light" {
		t.Errorf("Style = %s, want light from GLAMOUR_STYLE", opts.Style)
	}
}
