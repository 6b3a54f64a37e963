package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/careerpilot/internal/config"
	"github.com/diogo/careerpilot/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewChoice
)

// GeminiModels lists the models offered in the config menu
var GeminiModels = []string{
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-2.0-flash",
	"gemini-2.5-flash",
}

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// configItem is one row of the settings menu. Toggles flip a boolean;
// choice items open a sub-menu over choices().
type configItem struct {
	label   string
	value   func(config.Config) string
	toggle  func(*config.Config) bool
	choices func() []string
	apply   func(*config.Config, string)
}

func (it configItem) isToggle() bool { return it.toggle != nil }
func (it configItem) isChoice() bool { return it.choices != nil }

func configItems() []configItem {
	return []configItem{
		{
			label:  "Verbose Logging",
			toggle: func(c *config.Config) bool { c.Verbose = !c.Verbose; return c.Verbose },
		},
		{
			label:  "Copy to Clipboard",
			toggle: func(c *config.Config) bool { c.CopyToClipboard = !c.CopyToClipboard; return c.CopyToClipboard },
		},
		{
			label:   "Markdown Theme",
			value:   func(c config.Config) string { return orDefault(c.Markdown.Style, render.ThemeCareer) },
			choices: render.ThemeNames,
			apply:   func(c *config.Config, v string) { c.Markdown.Style = v },
		},
		{
			label:   "TUI Theme",
			value:   func(c config.Config) string { return orDefault(c.TUITheme, "tokyonight") },
			choices: render.TUIThemeNames,
			apply: func(c *config.Config, v string) {
				c.TUITheme = v
				render.SetTUITheme(v)
				UpdateTheme()
			},
		},
		{
			label:   "Gemini Model",
			value:   func(c config.Config) string { return c.Server.GeminiModel },
			choices: func() []string { return GeminiModels },
			apply:   func(c *config.Config, v string) { c.Server.GeminiModel = v },
		},
		{
			label: "Profile Store",
			value: func(c config.Config) string { return c.Server.ProfileStore },
			choices: func() []string {
				return []string{config.StoreSQLite, config.StorePostgres, config.StoreMemory, config.StoreDisabled}
			},
			apply: func(c *config.Config, v string) { c.Server.ProfileStore = v },
		},
		{label: "Exit"},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config    config.Config
	configDir string
	save      func(config.Config) error
	items     []configItem

	// Navigation
	view         configView
	cursor       int
	choiceCursor int

	// Feedback
	feedback        string
	feedbackErr     bool
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates the config menu over the config file
func NewConfigModel() ConfigModel {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return NewConfigModelWith(cfg, config.SaveConfig)
}

// NewConfigModelWith creates the menu over cfg, persisting through save
func NewConfigModelWith(cfg config.Config, save func(config.Config) error) ConfigModel {
	configDir, _ := config.GetConfigDir()

	if cfg.TUITheme != "" {
		render.SetTUITheme(cfg.TUITheme)
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configDir:       configDir,
		save:            save,
		items:           configItems(),
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the active cursor by delta, wrapping around
func (m *ConfigModel) move(delta int) {
	if m.view == viewChoice {
		n := len(m.items[m.cursor].choices())
		if n > 0 {
			m.choiceCursor = (m.choiceCursor + delta + n) % n
		}
		return
	}
	n := len(m.items)
	m.cursor = (m.cursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	item := m.items[m.cursor]

	if m.view == viewChoice {
		choice := item.choices()[m.choiceCursor]
		item.apply(&m.config, choice)
		m.view = viewMain
		return m.persist(fmt.Sprintf("%s set to %s", item.label, choice))
	}

	switch {
	case item.isToggle():
		state := "disabled"
		if item.toggle(&m.config) {
			state = "enabled"
		}
		return m.persist(fmt.Sprintf("%s %s", item.label, state))

	case item.isChoice():
		m.view = viewChoice
		m.choiceCursor = 0
		current := item.value(m.config)
		for i, c := range item.choices() {
			if c == current {
				m.choiceCursor = i
				break
			}
		}
		return m, nil

	default:
		return m, tea.Quit
	}
}

func (m ConfigModel) persist(feedback string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
	} else {
		m.feedback = feedback
		m.feedbackErr = false
	}
	return m, clearFeedback(m.feedbackTimeout)
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{
		configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration")),
		configPanelStyle.Width(contentWidth).Render(m.renderPaths()),
	}

	var settings string
	if m.view == viewChoice {
		settings = m.renderChoices()
	} else {
		settings = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, configStatusErrorStyle.Render("✗ "+m.feedback))
		} else {
			sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
		}
	}

	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}
	sections = append(sections, renderStatusBar(contentWidth, []shortcut{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) renderPaths() string {
	dbPath := m.config.Server.SQLitePath
	if dbPath == "" {
		dbPath = m.configDir + "/profile.db"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config:    %s", configPathStyle.Render(m.configDir+"/config.json")),
		fmt.Sprintf("   Downloads: %s", configPathStyle.Render(m.config.DownloadDir)),
		fmt.Sprintf("   Profile:   %s", configPathStyle.Render(dbPath)),
		fmt.Sprintf("   API:       %s", configValueStyle.Render(m.config.APIURL)),
	)
}

func menuLine(selected bool) (string, lipgloss.Style) {
	if selected {
		return configCursorStyle.Render("▸ "), configMenuSelectedStyle
	}
	return "  ", configMenuItemStyle
}

// renderMainMenu renders the settings list with current values aligned
func (m ConfigModel) renderMainMenu() string {
	width := 0
	for _, it := range m.items {
		if len(it.label) > width {
			width = len(it.label)
		}
	}

	lines := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, it := range m.items {
		cursor, style := menuLine(m.cursor == i)
		if !it.isToggle() && !it.isChoice() {
			lines = append(lines, "", cursor+style.Render(it.label))
			continue
		}

		var value string
		if it.isToggle() {
			probe := m.config
			// toggle flips the probe, so the current value is the inverse
			value = renderBoolValue(!it.toggle(&probe))
		} else {
			value = configValueStyle.Render(it.value(m.config))
		}
		pad := strings.Repeat(" ", width-len(it.label)+4)
		lines = append(lines, cursor+style.Render(it.label)+pad+value)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderChoices renders the sub-menu of the selected item
func (m ConfigModel) renderChoices() string {
	item := m.items[m.cursor]
	current := item.value(m.config)

	lines := []string{configSectionTitleStyle.Render("🎨 Select " + item.label), ""}
	for i, c := range item.choices() {
		cursor, style := menuLine(m.choiceCursor == i)
		marker := ""
		if c == current {
			marker = configStatusOkStyle.Render(" (current)")
		}
		lines = append(lines, cursor+style.Render(c)+marker)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBoolValue renders a boolean value with appropriate styling
func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// RunConfig starts the config TUI
func RunConfig() error {
	p := tea.NewProgram(
		NewConfigModel(),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
