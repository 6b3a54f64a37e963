package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/careerpilot/internal/api"
	apierrors "github.com/diogo/careerpilot/internal/errors"
	"github.com/diogo/careerpilot/internal/models"
)

var ctrlKeys = map[string]tea.KeyType{
	"ctrl+r": tea.KeyCtrlR,
	"ctrl+l": tea.KeyCtrlL,
	"ctrl+y": tea.KeyCtrlY,
	"ctrl+t": tea.KeyCtrlT,
	"ctrl+p": tea.KeyCtrlP,
}

// runCmd executes cmd and flattens batches. Commands that do not return
// promptly (tea.Tick timers) are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(250 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds the IO results produced by cmd back into the model until
// nothing is left in flight.
func settle(m Model, cmd tea.Cmd) Model {
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case chatReplyMsg, documentMsg, savedMsg:
			next, c := m.Update(msg)
			m = settle(next.(Model), c)
		}
	}
	return m
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func pressKey(m Model, k string) (Model, tea.Cmd) {
	if t, ok := ctrlKeys[k]; ok {
		return send(m, tea.KeyMsg{Type: t})
	}
	return send(m, key(k))
}

type clipboardRecorder struct {
	texts []string
	err   error
}

func (c *clipboardRecorder) write(s string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, s)
	return nil
}

// newStartedModel returns a sized model whose opening request has resolved
func newStartedModel(t *testing.T, mock *api.MockClient) (Model, *clipboardRecorder) {
	t.Helper()
	clip := &clipboardRecorder{}
	m := NewModel(mock, Options{DownloadDir: t.TempDir(), Clipboard: clip.write})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 50})
	m = settle(m, m.startConversation())
	return m, clip
}

// newCompleteModel returns a model already in the job view
func newCompleteModel(t *testing.T, mock *api.MockClient) (Model, *clipboardRecorder) {
	t.Helper()
	mock.ChatReplies = []models.ChatReply{models.ReplyWithText("Thank you, your profile is complete.", true)}
	m, clip := newStartedModel(t, mock)
	if !m.complete {
		t.Fatal("model should be in the job view")
	}
	return m, clip
}

func withJobDescription(m Model, jd string) Model {
	m.jobInput.SetValue(jd)
	return m
}

func TestModel_OpeningRequest(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("Hello, what is your full name?", false)}}
	m, _ := newStartedModel(t, mock)

	if mock.ChatCalls() != 1 {
		t.Fatalf("chat calls = %d, want 1", mock.ChatCalls())
	}
	if got := len(mock.ChatHistories[0]); got != 0 {
		t.Errorf("opening request should send an empty transcript, got %d messages", got)
	}
	transcript := m.ctrl.Transcript()
	if len(transcript) != 1 || transcript[0].Sender != models.SenderBot {
		t.Fatalf("transcript = %+v", transcript)
	}
	if !m.ctrl.CanSubmit() {
		t.Error("user input should be accepted after the greeting")
	}
}

func TestModel_InitStartsOnce(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("Hi", false)}}
	m := NewModel(mock, Options{Clipboard: func(string) error { return nil }})

	if m.Init() == nil {
		t.Fatal("Init should return a command")
	}
	if !m.ctrl.Pending() {
		t.Error("opening request should be pending after Init")
	}
	if m.startConversation() != nil {
		t.Error("conversation must not start twice")
	}
}

func TestModel_SubmitSendsTranscript(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{
		models.ReplyWithText("Hello, what is your full name?", false),
		models.ReplyWithText("Nice to meet you. What is your email?", false),
	}}
	m, _ := newStartedModel(t, mock)

	m.chatInput.SetValue("  John Doe  ")
	m, cmd := pressKey(m, "enter")
	if !m.ctrl.Pending() {
		t.Fatal("submit should leave a request pending")
	}
	if m.chatInput.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.chatInput.Value())
	}
	if !strings.Contains(m.View(), "Co-pilot is typing") {
		t.Error("pending view should show the typing indicator")
	}

	m = settle(m, cmd)

	if mock.ChatCalls() != 2 {
		t.Fatalf("chat calls = %d, want 2", mock.ChatCalls())
	}
	sent := mock.ChatHistories[1]
	if len(sent) != 2 {
		t.Fatalf("second request should carry 2 messages, got %d", len(sent))
	}
	if sent[0].Sender != models.SenderBot || sent[1] != models.UserMessage("John Doe") {
		t.Errorf("sent = %+v", sent)
	}
	if got := len(m.ctrl.Transcript()); got != 3 {
		t.Errorf("transcript length = %d, want 3", got)
	}
}

func TestModel_SubmitIgnored(t *testing.T) {
	tests := []struct {
		name  string
		input string
		setup func(*testing.T) (Model, *api.MockClient)
	}{
		{
			name:  "empty input",
			input: "   ",
			setup: func(t *testing.T) (Model, *api.MockClient) {
				mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("Hi", false)}}
				m, _ := newStartedModel(t, mock)
				return m, mock
			},
		},
		{
			name:  "reply pending",
			input: "John",
			setup: func(t *testing.T) (Model, *api.MockClient) {
				mock := &api.MockClient{}
				m := NewModel(mock, Options{Clipboard: func(string) error { return nil }})
				m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 50})
				_, _ = m.ctrl.Start()
				return m, mock
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mock := tt.setup(t)
			before := mock.ChatCalls()

			m.chatInput.SetValue(tt.input)
			m, cmd := pressKey(m, "enter")
			m = settle(m, cmd)

			if mock.ChatCalls() != before {
				t.Errorf("no request should be sent, calls went from %d to %d", before, mock.ChatCalls())
			}
		})
	}
}

func TestModel_ExitWordsQuit(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(word, func(t *testing.T) {
			mock := &api.MockClient{ChatReplies: []models.ChatReply{models.ReplyWithText("Hi", false)}}
			m, _ := newStartedModel(t, mock)

			m.chatInput.SetValue(word)
			_, cmd := pressKey(m, "enter")
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}
}

func TestModel_ChatFailureAllowsRetry(t *testing.T) {
	mock := &api.MockClient{
		ChatReplies: []models.ChatReply{models.ReplyWithText("Hi", false)},
		ChatErrs:    []error{nil, errors.New("connection refused")},
	}
	m, _ := newStartedModel(t, mock)

	m.chatInput.SetValue("John Doe")
	m, cmd := pressKey(m, "enter")
	m = settle(m, cmd)

	last, ok := m.ctrl.LastBotMessage()
	if !ok || !strings.Contains(last.Text, "couldn't connect") {
		t.Errorf("last bot message = %q", last.Text)
	}
	if m.complete {
		t.Error("a failed request must not complete the profile")
	}
	if !m.ctrl.CanSubmit() {
		t.Error("the user should be able to resubmit after a failure")
	}
}

func TestModel_CompletionSwitchesView(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{
		models.ReplyWithText("Hi, what's your name?", false),
		models.ReplyWithText("All set!", true),
	}}
	m, _ := newStartedModel(t, mock)
	if m.complete {
		t.Fatal("profile should not be complete yet")
	}

	m.chatInput.SetValue("John Doe, john@example.com")
	m, cmd := pressKey(m, "enter")
	m = settle(m, cmd)

	if !m.complete {
		t.Fatal("complete reply should switch to the job view")
	}
	view := m.View()
	for _, want := range []string{"Profile complete", "All set!", "Job description", "Your generated CV or cover letter will appear here."} {
		if !strings.Contains(view, want) {
			t.Errorf("job view missing %q", want)
		}
	}

	// A stray reply cannot flip the view back.
	m, _ = send(m, chatReplyMsg{reply: models.ReplyWithText("again?", false)})
	if !m.complete {
		t.Error("completion must be permanent")
	}

	// Enter now edits the job description instead of chatting.
	calls := mock.ChatCalls()
	m, cmd = pressKey(m, "enter")
	_ = settle(m, cmd)
	if mock.ChatCalls() != calls {
		t.Error("enter in the job view must not send chat requests")
	}
}

func TestModel_CompleteWithoutText(t *testing.T) {
	mock := &api.MockClient{ChatReplies: []models.ChatReply{{Complete: true}}}
	m, _ := newStartedModel(t, mock)

	if !m.complete {
		t.Fatal("expected job view")
	}
	if !strings.Contains(m.View(), MsgProfileReady) {
		t.Error("banner should fall back to the ready message")
	}
}

func TestModel_TriggersDisabledForEmptyJobDescription(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "CV"}
	m, _ := newCompleteModel(t, mock)

	for _, jd := range []string{"", "   \n\t"} {
		m = withJobDescription(m, jd)
		if m.CanGenerate() {
			t.Errorf("CanGenerate should be false for %q", jd)
		}
		for _, k := range []string{"ctrl+r", "ctrl+l"} {
			var cmd tea.Cmd
			m, cmd = pressKey(m, k)
			m = settle(m, cmd)
		}
	}
	if mock.DocumentCallCount() != 0 {
		t.Errorf("no generation should be sent, got %d", mock.DocumentCallCount())
	}
	if m.CanExport() {
		t.Error("nothing to export before a document exists")
	}
}

func TestModel_GenerateDocument(t *testing.T) {
	tests := []struct {
		key  string
		kind models.DocumentKind
	}{
		{"ctrl+r", models.KindCV},
		{"ctrl+l", models.KindCoverLetter},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mock := &api.MockClient{DocumentVal: "# Jane Doe\n\nSenior Go Engineer"}
			m, _ := newCompleteModel(t, mock)
			m = withJobDescription(m, "Go developer, remote")

			m, cmd := pressKey(m, tt.key)
			if !m.generating {
				t.Fatal("generation should be pending")
			}
			if m.CanGenerate() || m.CanExport() {
				t.Error("triggers should be disabled while generating")
			}
			if !strings.Contains(m.View(), "Writing your "+tt.kind.Label()) {
				t.Error("pending output should show the loading indicator")
			}

			m = settle(m, cmd)

			if m.generating {
				t.Error("generation should have finished")
			}
			if m.document.Content != mock.DocumentVal || m.document.Kind != tt.kind {
				t.Errorf("document = %+v", m.document)
			}
			if len(mock.DocumentCalls) != 1 || mock.DocumentCalls[0] != tt.kind {
				t.Errorf("document calls = %v", mock.DocumentCalls)
			}
			if mock.LastJobDesc != "Go developer, remote" {
				t.Errorf("job description = %q", mock.LastJobDesc)
			}
			if !m.CanExport() || !m.CanGenerate() {
				t.Error("triggers should be enabled again")
			}
		})
	}
}

func TestModel_GenerateFailureShowsFallback(t *testing.T) {
	mock := &api.MockClient{DocumentErr: apierrors.NewAPIError(500, models.PathGenerateCV, "boom")}
	m, _ := newCompleteModel(t, mock)
	m = withJobDescription(m, "Go developer")

	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)

	if !m.document.Failed {
		t.Fatal("document should be marked failed")
	}
	if m.document.Content != models.KindCV.FallbackText() {
		t.Errorf("content = %q", m.document.Content)
	}
}

func TestModel_NewGenerationDiscardsPrevious(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "first"}
	m, _ := newCompleteModel(t, mock)
	m = withJobDescription(m, "Go developer")

	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)
	if m.document.Content != "first" {
		t.Fatalf("content = %q", m.document.Content)
	}

	m, _ = pressKey(m, "ctrl+l")
	if m.hasDoc || m.document.Content != "" {
		t.Error("previous document should be cleared when a new one is requested")
	}
}

func TestModel_CopyFeedback(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "Dear hiring manager"}
	m, clip := newCompleteModel(t, mock)

	m, _ = pressKey(m, "ctrl+y")
	if m.copied || len(clip.texts) != 0 {
		t.Fatal("copy must be disabled without a document")
	}

	m = withJobDescription(m, "Go developer")
	m, cmd := pressKey(m, "ctrl+l")
	m = settle(m, cmd)

	// The reset timers are never run here; their messages are sent by hand.
	m, first := pressKey(m, "ctrl+y")
	if first == nil || !m.copied {
		t.Fatal("copy should show feedback and schedule a reset")
	}
	if len(clip.texts) != 1 || clip.texts[0] != "Dear hiring manager" {
		t.Errorf("clipboard = %v", clip.texts)
	}
	if !strings.Contains(m.View(), "Copied") {
		t.Error("view should show Copied")
	}

	m, _ = pressKey(m, "ctrl+y")
	if m.copySeq != 2 {
		t.Fatalf("copySeq = %d, want 2", m.copySeq)
	}

	m, _ = send(m, copyResetMsg{seq: 1})
	if !m.copied {
		t.Error("a stale reset must not clear the feedback")
	}
	m, _ = send(m, copyResetMsg{seq: 2})
	if m.copied {
		t.Error("the latest reset should clear the feedback")
	}
}

func TestModel_CopyError(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "CV"}
	m, clip := newCompleteModel(t, mock)
	clip.err = errors.New("no clipboard")
	m = withJobDescription(m, "Go developer")
	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)

	m, _ = pressKey(m, "ctrl+y")
	if m.copied {
		t.Error("failed copy must not show feedback")
	}
	if m.err == nil || !strings.Contains(m.err.Error(), "no clipboard") {
		t.Errorf("err = %v", m.err)
	}
}

func TestModel_SaveText(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "Plain text CV"}
	m, _ := newCompleteModel(t, mock)
	m = withJobDescription(m, "Go developer")
	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)

	for i, want := range []string{models.TextDownloadName, "AI_Co-pilot_Document (1).txt"} {
		m, cmd = pressKey(m, "ctrl+t")
		m = settle(m, cmd)

		path := filepath.Join(m.opts.DownloadDir, want)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if string(data) != "Plain text CV" {
			t.Errorf("saved content = %q", data)
		}
		if !strings.Contains(m.notice, path) {
			t.Errorf("notice = %q, want path %s", m.notice, path)
		}
	}
}

func TestModel_SavePDF(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "# CV", PDFVal: []byte("%PDF-1.4 test")}
	m, _ := newCompleteModel(t, mock)
	m = withJobDescription(m, "Go developer")
	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)

	m, cmd = pressKey(m, "ctrl+p")
	if !m.pdfPending {
		t.Fatal("PDF request should be pending")
	}
	m, again := pressKey(m, "ctrl+p")
	if again != nil {
		t.Error("a second PDF request must not start while one is pending")
	}

	m = settle(m, cmd)
	if m.pdfPending {
		t.Error("PDF slot should be released")
	}
	if mock.LastPDFText != "# CV" {
		t.Errorf("PDF text = %q", mock.LastPDFText)
	}
	data, err := os.ReadFile(filepath.Join(m.opts.DownloadDir, models.PDFDownloadName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4 test" {
		t.Errorf("pdf = %q", data)
	}
}

func TestModel_SavePDFError(t *testing.T) {
	mock := &api.MockClient{DocumentVal: "# CV", PDFErr: apierrors.NewAPIError(503, models.PathGeneratePDF, "no renderer")}
	m, _ := newCompleteModel(t, mock)
	m = withJobDescription(m, "Go developer")
	m, cmd := pressKey(m, "ctrl+r")
	m = settle(m, cmd)

	m, cmd = pressKey(m, "ctrl+p")
	m = settle(m, cmd)

	if m.pdfPending {
		t.Error("PDF slot should be released after a failure")
	}
	if m.err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(m.View(), "503") {
		t.Error("view should show the HTTP status")
	}
}

func TestModel_ViewBeforeReady(t *testing.T) {
	m := NewModel(&api.MockClient{}, Options{Clipboard: func(string) error { return nil }})
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("unsized model should render the initializing screen")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []string{"esc", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := NewModel(&api.MockClient{}, Options{Clipboard: func(string) error { return nil }})
			_, cmd := pressKey(m, k)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}
}

func TestRenderHeader(t *testing.T) {
	transcript := []models.ChatMessage{
		models.BotMessage("Hi"),
		models.UserMessage("John"),
		models.BotMessage("Email?"),
		models.UserMessage("john@example.com"),
	}

	tests := []struct {
		name       string
		complete   bool
		transcript []models.ChatMessage
		want       string
	}{
		{"fresh", false, nil, "Building your profile"},
		{"answers", false, transcript, "2 answer(s)"},
		{"complete", true, transcript, "Profile complete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderHeader(100, tt.complete, tt.transcript)
			if !strings.Contains(got, tt.want) {
				t.Errorf("header %q missing %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{
			name: "api error",
			err:  apierrors.NewAPIErrorWithBody(400, models.PathGenerateCV, "bad request", `{"detail":"Profile not complete."}`),
			want: []string{"HTTP Status: 400", "Endpoint: " + models.PathGenerateCV, "Profile not complete."},
		},
		{
			name: "network error",
			err:  apierrors.NewNetworkError(errors.New("dial tcp: connection refused")),
			want: []string{"careerpilot serve"},
		},
		{
			name: "timeout",
			err:  apierrors.NewTimeoutError("request timed out"),
			want: []string{"timed out"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Errorf("FormatError(nil) = %q", got)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}
