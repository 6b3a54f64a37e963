package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/careerpilot/internal/api"
	"github.com/diogo/careerpilot/internal/copilot"
	"github.com/diogo/careerpilot/internal/export"
	"github.com/diogo/careerpilot/internal/models"
	"github.com/diogo/careerpilot/internal/render"
)

// CopyFeedbackDuration is how long "Copied" stays visible after the last copy
const CopyFeedbackDuration = 2000 * time.Millisecond

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	chatReplyMsg struct {
		reply models.ChatReply
		err   error
	}
	documentMsg struct {
		doc models.Document
		err error
	}
	// copyResetMsg carries the copy sequence number it was scheduled for;
	// only the latest copy may clear the feedback.
	copyResetMsg struct {
		seq int
	}
	savedMsg struct {
		label string
		path  string
		err   error
	}
)

// Options configures the shell
type Options struct {
	// DownloadDir receives the TXT and PDF downloads
	DownloadDir string
	// Render configures markdown rendering of bot messages and documents
	Render render.Options
	// Clipboard writes text to the system clipboard
	Clipboard func(string) error
}

// Model is the co-pilot shell: the profile chat until the profile is
// complete, then the job description and document view.
type Model struct {
	client    api.CopilotClientInterface
	ctrl      *copilot.Controller
	generator *copilot.Generator
	opts      Options

	// UI components
	viewport  viewport.Model
	chatInput textarea.Model
	jobInput  textarea.Model
	output    viewport.Model
	spinner   spinner.Model

	// complete is owned by the shell and handed to the views that need it.
	// It flips once, when the controller reports completion.
	complete bool

	// Generation and download slots
	generating bool
	pdfPending bool
	document   models.Document
	hasDoc     bool

	copied  bool
	copySeq int
	notice  string

	ready          bool
	err            error
	animationFrame int

	// Dimensions
	width  int
	height int
}

func newTextarea(placeholder string, height int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(height)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle
	return ta
}

// NewModel creates the shell over client
func NewModel(client api.CopilotClientInterface, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Render.Style == "" {
		opts.Render = render.DefaultOptions()
	}

	chatInput := newTextarea("Type your answer here...", 2)
	chatInput.CharLimit = 4000
	chatInput.Focus()

	jobInput := newTextarea("Paste the job description here...", 5)
	jobInput.CharLimit = 0

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:    client,
		ctrl:      copilot.NewController(),
		generator: copilot.NewGenerator(client),
		opts:      opts,
		chatInput: chatInput,
		jobInput:  jobInput,
		spinner:   s,
	}
}

// Init starts the conversation with the opening request
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		animationTick(),
		m.startConversation(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// startConversation sends the empty transcript exactly once
func (m Model) startConversation() tea.Cmd {
	history, err := m.ctrl.Start()
	if err != nil {
		return nil
	}
	return m.sendChat(history)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if m.complete {
			if handled, next, cmd := m.handleJobKey(msg); handled {
				return next, cmd
			}
		} else if msg.String() == "enter" {
			return m.submitChat()
		}

	case chatReplyMsg:
		if msg.err != nil {
			_ = m.ctrl.Fail(msg.err)
		} else {
			_ = m.ctrl.Receive(msg.reply)
		}
		if m.ctrl.Complete() && !m.complete {
			m.enterJobView()
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case documentMsg:
		m.generating = false
		if msg.err == nil {
			m.document = msg.doc
			m.hasDoc = true
		}
		m.updateOutput()

	case savedMsg:
		if msg.label == "PDF" {
			m.pdfPending = false
		}
		if msg.err != nil {
			m.err = msg.err
			m.notice = ""
		} else {
			m.err = nil
			m.notice = fmt.Sprintf("%s saved to %s", msg.label, msg.path)
		}

	case copyResetMsg:
		if msg.seq == m.copySeq {
			m.copied = false
		}

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.busy() {
			m.animationFrame++
		}
		cmds = append(cmds, animationTick())
	}

	// Only key messages reach the text inputs so escape sequences don't leak
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.complete {
			m.jobInput, cmd = m.jobInput.Update(keyMsg)
			cmds = append(cmds, cmd)
			m.output, cmd = m.output.Update(msg)
			cmds = append(cmds, cmd)
		} else if m.ctrl.CanSubmit() {
			m.chatInput, cmd = m.chatInput.Update(keyMsg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.complete {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) busy() bool {
	return m.ctrl.Pending() || m.generating || m.pdfPending
}

// submitChat sends the chat input when the controller accepts it
func (m Model) submitChat() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.chatInput.Value())
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	history, err := m.ctrl.Submit(input)
	if err != nil {
		// Empty input or a reply still pending: nothing is sent.
		return m, nil
	}

	m.chatInput.Reset()
	m.err = nil
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.sendChat(history), m.spinner.Tick)
}

// handleJobKey runs the job view shortcuts. Disabled shortcuts are
// swallowed so they never reach the textarea.
func (m Model) handleJobKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		next, cmd := m.generate(models.KindCV)
		return true, next, cmd
	case "ctrl+l":
		next, cmd := m.generate(models.KindCoverLetter)
		return true, next, cmd
	case "ctrl+y":
		next, cmd := m.copyDocument()
		return true, next, cmd
	case "ctrl+t":
		next, cmd := m.saveText()
		return true, next, cmd
	case "ctrl+p":
		next, cmd := m.savePDF()
		return true, next, cmd
	}
	return false, m, nil
}

// CanGenerate reports whether the generation triggers are enabled
func (m Model) CanGenerate() bool {
	return m.complete && !m.generating && m.generator.CanGenerate(m.jobInput.Value())
}

// CanExport reports whether copy and download are enabled
func (m Model) CanExport() bool {
	return m.hasDoc && m.document.Content != "" && !m.generating
}

func (m Model) generate(kind models.DocumentKind) (tea.Model, tea.Cmd) {
	if !m.CanGenerate() {
		return m, nil
	}

	// The previous document is discarded as soon as a new one is requested.
	m.generating = true
	m.hasDoc = false
	m.document = models.Document{Kind: kind}
	m.copied = false
	m.notice = ""
	m.err = nil
	m.animationFrame = 0
	m.updateOutput()

	gen := m.generator
	jobDescription := m.jobInput.Value()
	return m, tea.Batch(
		func() tea.Msg {
			doc, err := gen.Generate(kind, jobDescription)
			return documentMsg{doc: doc, err: err}
		},
		m.spinner.Tick,
	)
}

func (m Model) copyDocument() (tea.Model, tea.Cmd) {
	if !m.CanExport() {
		return m, nil
	}
	if err := m.opts.Clipboard(m.document.Content); err != nil {
		m.err = fmt.Errorf("failed to copy to clipboard: %w", err)
		return m, nil
	}

	m.copySeq++
	m.copied = true
	seq := m.copySeq
	return m, tea.Tick(CopyFeedbackDuration, func(time.Time) tea.Msg {
		return copyResetMsg{seq: seq}
	})
}

func (m Model) saveText() (tea.Model, tea.Cmd) {
	if !m.CanExport() {
		return m, nil
	}
	dir, content := m.opts.DownloadDir, m.document.Content
	return m, func() tea.Msg {
		path, err := export.SaveText(dir, content)
		return savedMsg{label: "Text", path: path, err: err}
	}
}

func (m Model) savePDF() (tea.Model, tea.Cmd) {
	if !m.CanExport() || m.pdfPending {
		return m, nil
	}
	m.pdfPending = true
	m.notice = ""

	client, dir, content := m.client, m.opts.DownloadDir, m.document.Content
	return m, tea.Batch(
		func() tea.Msg {
			data, err := client.RenderPDF(content)
			if err != nil {
				return savedMsg{label: "PDF", err: err}
			}
			path, err := export.SavePDF(dir, data)
			return savedMsg{label: "PDF", path: path, err: err}
		},
		m.spinner.Tick,
	)
}

// enterJobView replaces the chat view for the rest of the session
func (m *Model) enterJobView() {
	m.complete = true
	m.chatInput.Blur()
	m.jobInput.Focus()
	m.layout()
}

// sendChat creates a command that sends the transcript to the chat endpoint
func (m Model) sendChat(history []models.ChatMessage) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.Chat(history)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// layout sizes the components for the current view and window
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentWidth := m.width - 4

	headerHeight := 4
	statusHeight := 2

	chatHeight := m.height - headerHeight - 7 - statusHeight - 2
	if chatHeight < 5 {
		chatHeight = 5
	}

	// banner + job input panel + trigger row + output borders
	outputHeight := m.height - headerHeight - 5 - 9 - 2 - 3 - statusHeight
	if outputHeight < 4 {
		outputHeight = 4
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, chatHeight)
		m.output = viewport.New(contentWidth-4, outputHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = chatHeight
		m.output.Width = contentWidth - 4
		m.output.Height = outputHeight
	}
	m.chatInput.SetWidth(contentWidth - 4)
	m.jobInput.SetWidth(contentWidth - 4)

	m.updateViewport()
	m.updateOutput()
}

// updateViewport refreshes the transcript with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.ctrl.Transcript() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Sender == models.SenderUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Co-pilot")
			rendered := render.MarkdownOrPlain(msg.Text, m.opts.Render.WithWidth(bubbleWidth-4))
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// updateOutput refreshes the document panel
func (m *Model) updateOutput() {
	if !m.ready {
		return
	}
	switch {
	case m.generating, !m.hasDoc:
		m.output.SetContent("")
	case m.document.Failed:
		m.output.SetContent(outputFailedStyle.Render(m.document.Content))
	default:
		m.output.SetContent(render.MarkdownOrPlain(m.document.Content, m.opts.Render.WithWidth(m.output.Width)))
	}
	m.output.GotoTop()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	sections := []string{renderHeader(contentWidth, m.complete, m.ctrl.Transcript())}

	if m.complete {
		sections = append(sections, m.jobView(contentWidth)...)
	} else {
		sections = append(sections, m.chatView(contentWidth)...)
	}

	sections = append(sections, renderStatusBar(contentWidth, m.shortcuts()))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the title and where the user is in the flow
func renderHeader(width int, complete bool, transcript []models.ChatMessage) string {
	stage := "Building your profile"
	if complete {
		stage = "Profile complete"
	} else if n := countUserTurns(transcript); n > 0 {
		stage = fmt.Sprintf("Building your profile • %d answer(s)", n)
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ AI Career Co-pilot"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(stage),
	)
	return headerStyle.Width(width).Render(content)
}

func countUserTurns(transcript []models.ChatMessage) int {
	n := 0
	for _, msg := range transcript {
		if msg.Sender == models.SenderUser {
			n++
		}
	}
	return n
}

func (m Model) chatView(width int) []string {
	var messages string
	if len(m.ctrl.Transcript()) == 0 {
		messages = m.renderWelcome()
	} else {
		messages = m.viewport.View()
	}
	panel := messagesAreaStyle.Width(width).Height(m.viewport.Height).Render(messages)

	var input string
	if m.ctrl.Pending() {
		input = m.renderLoading("Co-pilot is typing")
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.chatInput.View(),
		)
	}
	return []string{panel, inputPanelStyle.Width(width).Render(input)}
}

func (m Model) jobView(width int) []string {
	final := MsgProfileReady
	if last, ok := m.ctrl.LastBotMessage(); ok {
		final = last.Text
	}
	banner := bannerStyle.Width(width).MaxHeight(5).Render(lipgloss.JoinVertical(lipgloss.Left,
		bannerTitleStyle.Render("✔ Profile complete"),
		subtitleStyle.Render(final),
	))

	jobPanel := inputPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		inputLabelStyle.Render("Job description"),
		m.jobInput.View(),
	))

	return []string{banner, jobPanel, m.renderTriggers(), m.renderOutput(width)}
}

// MsgProfileReady is shown in the banner if the final reply had no text
const MsgProfileReady = "Your profile is ready. Paste a job description to get started."

func (m Model) renderTriggers() string {
	button := func(label string, enabled bool) string {
		if enabled {
			return triggerStyle.Render(label)
		}
		return triggerDisabledStyle.Render(label)
	}
	canGen := m.CanGenerate()
	canExport := m.CanExport()

	row := []string{
		button("^R Generate CV", canGen),
		" ",
		button("^L Generate Cover Letter", canGen),
		"   ",
		button("^Y Copy", canExport),
		" ",
		button("^T Save .txt", canExport),
		" ",
		button("^P Save .pdf", canExport && !m.pdfPending),
	}
	if m.copied {
		row = append(row, "  ", feedbackStyle.Render("Copied"))
	} else if m.pdfPending {
		row = append(row, "  ", m.spinner.View()+hintStyle.Render(" rendering PDF"))
	} else if m.notice != "" {
		row = append(row, "  ", hintStyle.Render(m.notice))
	}
	return lipgloss.NewStyle().MarginTop(1).Render(lipgloss.JoinHorizontal(lipgloss.Center, row...))
}

func (m Model) renderOutput(width int) string {
	var content string
	switch {
	case m.generating:
		content = m.renderLoading(fmt.Sprintf("Writing your %s", m.document.Kind.Label()))
	case !m.hasDoc:
		content = outputPlaceholderStyle.Render("Your generated CV or cover letter will appear here.")
	default:
		content = m.output.View()
	}
	title := inputLabelStyle.Render("Document")
	if m.hasDoc {
		title = inputLabelStyle.Render(m.document.Kind.Label())
	}
	return outputPanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderWelcome renders the screen shown before the first reply arrives
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		welcomeTitleStyle.Width(width).Render("AI Career Co-pilot"),
		hintStyle.Width(width).Align(lipgloss.Center).Render("Let's get your profile ready"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoading renders the animated pending indicator
func (m Model) renderLoading(label string) string {
	frame := m.animationFrame
	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}
	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + label + " ")
	return m.spinner.View() + text + dots
}

type shortcut struct {
	key  string
	desc string
}

func (m Model) shortcuts() []shortcut {
	if m.complete {
		return []shortcut{
			{"^R/^L", "Generate"},
			{"^Y", "Copy"},
			{"^T/^P", "Save"},
			{"PgUp/PgDn", "Scroll"},
			{"Esc", "Quit"},
		}
	}
	return []shortcut{
		{"Enter", "Send"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}
}

// renderStatusBar renders the bottom status bar with shortcuts
func renderStatusBar(width int, shortcuts []shortcut) string {
	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}
	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// Run starts the shell. Setting CAREERPILOT_DEBUG writes bubbletea's log to
// careerpilot-debug.log in the working directory.
func Run(client api.CopilotClientInterface, opts Options) error {
	if os.Getenv("CAREERPILOT_DEBUG") != "" {
		f, err := tea.LogToFile("careerpilot-debug.log", "careerpilot")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	}

	p := tea.NewProgram(
		NewModel(client, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
